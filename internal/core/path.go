package core

import (
	"errors"
	"fmt"
	"strings"
)

var errEmptyPageID = errors.New("page id cannot be empty")

type InvalidPageIDError struct {
	ID   string
	Char rune
}

func (e *InvalidPageIDError) Error() string {
	return fmt.Sprintf("page id %q contains invalid character %q", e.ID, e.Char)
}

func NormalizePath(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if path != "/" && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// RouteError reports a route pattern that cannot be registered.
type RouteError struct {
	Pattern string
	Reason  string
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("invalid route %q: %s", e.Pattern, e.Reason)
}

var forbiddenInRoute = []struct {
	token  string
	reason string
}{
	{"?", "query strings are not part of a route"},
	{"#", "fragments are not part of a route"},
	{"..", "parent directory references are not allowed"},
	{"//", "empty path segments are not allowed"},
}

// ValidateRoutePath accepts absolute chi-style patterns: "/", "/blog/{slug}"
// and a trailing "/*" catch-all.
func ValidateRoutePath(pattern string) error {
	if pattern == "" {
		return &RouteError{Pattern: pattern, Reason: "pattern is empty"}
	}
	if !strings.HasPrefix(pattern, "/") {
		return &RouteError{Pattern: pattern, Reason: "pattern must start with /"}
	}
	for _, f := range forbiddenInRoute {
		if strings.Contains(pattern, f.token) {
			return &RouteError{Pattern: pattern, Reason: f.reason}
		}
	}
	if i := strings.Index(pattern, "*"); i >= 0 && i != len(pattern)-1 {
		return &RouteError{Pattern: pattern, Reason: "wildcard must be the last character"}
	}
	if strings.Count(pattern, "{") != strings.Count(pattern, "}") {
		return &RouteError{Pattern: pattern, Reason: "unbalanced braces"}
	}
	return nil
}
