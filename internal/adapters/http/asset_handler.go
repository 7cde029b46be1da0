package http

import (
	"bytes"
	"io/fs"
	"net/http"
	"strings"

	"github.com/3-lines-studio/reactssr/internal/core"
)

// AssetHandler serves page bundles from fsys. The request path must already
// have the asset prefix stripped.
type AssetHandler struct {
	fsys  fs.FS
	isDev bool
}

func NewAssetHandler(fsys fs.FS, isDev bool) http.Handler {
	return &AssetHandler{
		fsys:  fsys,
		isDev: isDev,
	}
}

func (h *AssetHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(req.URL.Path, "/")
	if path == "" || !fs.ValidPath(path) {
		http.NotFound(w, req)
		return
	}

	switch {
	case h.isDev:
		w.Header().Set("Cache-Control", "no-cache")
	case core.ClassifyAsset(path).Immutable:
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	default:
		w.Header().Set("Cache-Control", "public, max-age=3600")
	}

	if !serveFile(w, req, h.fsys, path) {
		w.Header().Del("Cache-Control")
		http.NotFound(w, req)
	}
}

// PublicHandler serves files from fsys when they exist and defers to next
// otherwise.
type PublicHandler struct {
	fsys fs.FS
	next http.Handler
}

func NewPublicHandler(fsys fs.FS, next http.Handler) http.Handler {
	return &PublicHandler{
		fsys: fsys,
		next: next,
	}
}

func (h *PublicHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	path := strings.TrimPrefix(req.URL.Path, "/")
	if path == "" || !fs.ValidPath(path) || (req.Method != http.MethodGet && req.Method != http.MethodHead) {
		h.next.ServeHTTP(w, req)
		return
	}

	if !serveFile(w, req, h.fsys, path) {
		h.next.ServeHTTP(w, req)
	}
}

func serveFile(w http.ResponseWriter, req *http.Request, fsys fs.FS, path string) bool {
	info, err := fs.Stat(fsys, path)
	if err != nil || info.IsDir() {
		return false
	}

	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return false
	}

	w.Header().Set("Content-Type", core.ContentType(path))
	http.ServeContent(w, req, info.Name(), info.ModTime(), bytes.NewReader(data))
	return true
}
