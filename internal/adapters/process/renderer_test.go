package process

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3-lines-studio/reactssr/internal/core"
	"github.com/3-lines-studio/reactssr/internal/head"
)

func newTestRenderer(t *testing.T, handler http.HandlerFunc) *Renderer {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Renderer{baseURL: srv.URL, client: srv.Client(), log: zerolog.Nop()}
}

func TestRenderPostsPathAndProps(t *testing.T) {
	var got struct {
		Path  string         `json:"path"`
		Props map[string]any `json:"props"`
	}

	r := newTestRenderer(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/render", req.URL.Path)
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(req.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]string{"html": "<div>Hello</div>"})
	})

	res, err := r.Render(context.Background(), "./pages/home.tsx", `{"name":"World"}`)
	require.NoError(t, err)
	assert.Equal(t, "<div>Hello</div>", res.Body)
	assert.Equal(t, "./pages/home.tsx", got.Path)
	assert.Equal(t, map[string]any{"name": "World"}, got.Props)
}

func TestRenderDecodesHeadElements(t *testing.T) {
	r := newTestRenderer(t, func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(`{"html":"<p>post</p>","head":[
			{"kind":"title","text":"Post"},
			{"kind":"meta","attrs":[["property","og:title"],["content","Post"]]},
			{"kind":"link","attrs":[["rel","icon"]]}
		]}`))
	})

	res, err := r.Render(context.Background(), "./pages/post.tsx", "{}")
	require.NoError(t, err)

	want := []head.Element{
		head.Title("Post"),
		head.Meta(head.Pairs("property", "og:title", "content", "Post")...),
	}
	if diff := cmp.Diff(want, res.Head); diff != "" {
		t.Errorf("head mismatch (-want +got):\n%s", diff)
	}

	doc, err := core.AssembleDocument(core.Document{Body: res.Body, Head: res.Head, ScriptHref: "/post.js"})
	require.NoError(t, err)
	assert.Contains(t, doc, `<head><title>Post</title><meta property="og:title" content="Post"/>`)
}

func TestRenderEmptyPropsSendsObject(t *testing.T) {
	var raw map[string]json.RawMessage
	r := newTestRenderer(t, func(w http.ResponseWriter, req *http.Request) {
		assert.NoError(t, json.NewDecoder(req.Body).Decode(&raw))
		_, _ = w.Write([]byte(`{"html":""}`))
	})

	_, err := r.Render(context.Background(), "p.tsx", "")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(raw["props"]))
}

func TestRenderReportsJavaScriptErrors(t *testing.T) {
	r := newTestRenderer(t, func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"message":"boom","stack":"at Page","errors":[{"message":"inner"}]}}`))
	})

	_, err := r.Render(context.Background(), "p.tsx", "{}")
	require.Error(t, err)

	var rerr *RenderError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "boom", rerr.Message)
	assert.Equal(t, "p.tsx", rerr.Path)
	assert.Contains(t, err.Error(), "1. inner")
	assert.Contains(t, err.Error(), "Stack:\nat Page")
}

func TestRenderHTTPFailure(t *testing.T) {
	r := newTestRenderer(t, func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	})

	_, err := r.Render(context.Background(), "p.tsx", "{}")
	assert.ErrorContains(t, err, "unexpected status 502")
}

func TestRenderCanceled(t *testing.T) {
	r := newTestRenderer(t, func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(`{"html":"x"}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Render(ctx, "p.tsx", "{}")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderNotRunning(t *testing.T) {
	var r *Renderer
	_, err := r.Render(context.Background(), "p.tsx", "{}")
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestBunRendererEndToEnd(t *testing.T) {
	if _, err := exec.LookPath("bun"); err != nil {
		t.Skip("bun not installed")
	}

	dir := t.TempDir()
	if _, err := os.Stat(filepath.Join("..", "..", "..", "node_modules", "react")); err != nil {
		t.Skip("react not installed")
	}
	page := filepath.Join(dir, "page.js")
	require.NoError(t, os.WriteFile(page, []byte(
		`import { createElement } from "react";
export default function Page(props) {
  const { Head } = globalThis.ReactSSR;
  return createElement("p", null,
    createElement(Head, null, createElement("title", null, "Bun page")),
    "Hi " + props.name);
}
`), 0o644))

	r, err := NewRenderer(Options{Dir: filepath.Join("..", "..", ".."), Logger: zerolog.Nop()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Stop() })

	res, err := r.Render(context.Background(), page, `{"name":"Bun"}`)
	require.NoError(t, err)
	assert.True(t, strings.Contains(res.Body, "Hi Bun"), res.Body)
	assert.Equal(t, []head.Element{head.Title("Bun page")}, res.Head)
}
