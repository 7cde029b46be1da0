package core

import (
	"path/filepath"
	"strings"
)

// PageIDForPath derives a page id from a component file path:
// "./pages/blog/post.tsx" becomes "pages-blog-post".
func PageIDForPath(componentPath string) string {
	name := strings.TrimPrefix(componentPath, "./")
	name = strings.TrimPrefix(name, "/")
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ReplaceAll(filepath.ToSlash(name), "/", "-")
	if name == "" {
		return "page"
	}
	return name
}

// ValidatePageID rejects ids that cannot be used as an asset file name.
func ValidatePageID(id string) error {
	if id == "" {
		return errEmptyPageID
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
		default:
			return &InvalidPageIDError{ID: id, Char: r}
		}
	}
	if strings.Contains(id, "..") {
		return &InvalidPageIDError{ID: id, Char: '.'}
	}
	return nil
}
