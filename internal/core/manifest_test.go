package core

import (
	"errors"
	"testing"
	"testing/fstest"
)

func TestGetAssets(t *testing.T) {
	man := &Manifest{
		Entries: map[string]ManifestEntry{
			"home": {Script: "/assets/home-abc.js", CSS: "/assets/home-abc.css", Chunks: []string{"/assets/chunk.js"}},
			"bare": {CSS: "/assets/bare.css"},
		},
	}

	tests := []struct {
		name       string
		manifest   *Manifest
		prefix     string
		pageID     string
		wantScript string
		wantCSS    string
	}{
		{"nil manifest uses convention", nil, "", "home", "/_react-ssr/home.js", "/_react-ssr/home.css"},
		{"manifest entry", man, "", "home", "/assets/home-abc.js", "/assets/home-abc.css"},
		{"missing entry", man, "", "about", "/_react-ssr/about.js", "/_react-ssr/about.css"},
		{"entry without script", man, "", "bare", "/_react-ssr/bare.js", "/_react-ssr/bare.css"},
		{"custom prefix", nil, "static", "home", "/static/home.js", "/static/home.css"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetAssets(tt.manifest, tt.prefix, tt.pageID)
			if got.Script != tt.wantScript {
				t.Errorf("Script = %q, want %q", got.Script, tt.wantScript)
			}
			if got.CSS != tt.wantCSS {
				t.Errorf("CSS = %q, want %q", got.CSS, tt.wantCSS)
			}
		})
	}
}

func TestLoadManifest(t *testing.T) {
	fsys := fstest.MapFS{
		"dist/manifest.json": {Data: []byte(`{"entries":{"home":{"script":"/h.js"}}}`)},
		"dist/broken.json":   {Data: []byte(`{`)},
	}

	man, err := LoadManifest(fsys, "/dist/manifest.json")
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}
	if man.Entries["home"].Script != "/h.js" {
		t.Errorf("unexpected entry: %+v", man.Entries["home"])
	}

	if _, err := LoadManifest(fsys, "dist/broken.json"); err == nil {
		t.Error("expected error for invalid json")
	}
	if _, err := LoadManifest(fsys, "dist/missing.json"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPageIDForPath(t *testing.T) {
	tests := map[string]string{
		"./pages/home.tsx":      "pages-home",
		"pages/blog/post.tsx":   "pages-blog-post",
		"/abs/component.jsx":    "abs-component",
		"./":                    "page",
		"./pages/about.page.js": "pages-about.page",
	}
	for in, want := range tests {
		if got := PageIDForPath(in); got != want {
			t.Errorf("PageIDForPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidatePageID(t *testing.T) {
	valid := []string{"home", "pages-home", "about_us", "v1.2"}
	for _, id := range valid {
		if err := ValidatePageID(id); err != nil {
			t.Errorf("ValidatePageID(%q) = %v, want nil", id, err)
		}
	}

	invalid := []string{"", "a/b", "a b", "..", "x?y"}
	for _, id := range invalid {
		if err := ValidatePageID(id); err == nil {
			t.Errorf("ValidatePageID(%q) = nil, want error", id)
		}
	}

	var ierr *InvalidPageIDError
	if err := ValidatePageID("a/b"); !errors.As(err, &ierr) || ierr.Char != '/' {
		t.Errorf("expected InvalidPageIDError for '/', got %v", err)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		"":       "/",
		"/":      "/",
		"about":  "/about",
		"/blog/": "/blog",
	}
	for in, want := range tests {
		if got := NormalizePath(in); got != want {
			t.Errorf("NormalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCacheKey(t *testing.T) {
	a := CacheKey("home", `{"a":1}`)
	if a != CacheKey("home", `{"a":1}`) {
		t.Error("cache key is not stable")
	}
	if a == CacheKey("home", `{"a":2}`) {
		t.Error("different props share a cache key")
	}
	if a == CacheKey("about", `{"a":1}`) {
		t.Error("different pages share a cache key")
	}
}

func TestClassifyAsset(t *testing.T) {
	tests := []struct {
		name      string
		wantType  string
		immutable bool
	}{
		{"home.js", "application/javascript", false},
		{"home-4f9a21c0.js", "application/javascript", true},
		{"chunks/vendor.8c1d2e3f.css", "text/css; charset=utf-8", true},
		{"pages-dashboard.js", "application/javascript", false},
		{"logo.png", "image/png", false},
		{"data.bin", "application/octet-stream", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyAsset(tt.name)
			if got.ContentType != tt.wantType {
				t.Errorf("ContentType = %q, want %q", got.ContentType, tt.wantType)
			}
			if got.Immutable != tt.immutable {
				t.Errorf("Immutable = %v, want %v", got.Immutable, tt.immutable)
			}
		})
	}
}

func TestValidateRoutePath(t *testing.T) {
	valid := []string{"/", "/about", "/blog/{slug}", "/docs/*"}
	for _, p := range valid {
		if err := ValidateRoutePath(p); err != nil {
			t.Errorf("ValidateRoutePath(%q) = %v, want nil", p, err)
		}
	}

	invalid := []string{"", "about", "/a?b", "/a#b", "/../etc", "/a//b", "/*/x", "/blog/{slug"}
	for _, p := range invalid {
		var rerr *RouteError
		if err := ValidateRoutePath(p); !errors.As(err, &rerr) {
			t.Errorf("ValidateRoutePath(%q) = %v, want *RouteError", p, err)
		}
	}
}
