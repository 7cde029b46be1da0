package core

import (
	"mime"
	"path"
	"regexp"
	"strings"
)

// Bundle and font types the client build emits. Anything else goes through
// the platform mime table.
var assetTypes = map[string]string{
	".js":    "application/javascript",
	".mjs":   "application/javascript",
	".css":   "text/css; charset=utf-8",
	".map":   "application/json",
	".json":  "application/json",
	".svg":   "image/svg+xml",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".ico":   "image/x-icon",
}

// name-<hash>.ext or name.<hash>.ext, hash of at least 8 hex/base32 chars.
var hashedName = regexp.MustCompile(`[.-][0-9a-zA-Z]{8,}\.[a-z0-9]+$`)

type AssetInfo struct {
	ContentType string
	// Hashed names change with their content and may be cached forever.
	Immutable bool
}

func ClassifyAsset(name string) AssetInfo {
	base := path.Base(name)
	return AssetInfo{
		ContentType: ContentType(base),
		Immutable:   hashedName.MatchString(base) && hasDigit(base),
	}
}

func ContentType(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if ct, ok := assetTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func hasDigit(s string) bool {
	return strings.ContainsAny(strings.TrimSuffix(s, path.Ext(s)), "0123456789")
}
