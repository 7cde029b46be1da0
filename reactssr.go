// Package reactssr renders React-style pages on the server: it collects the
// head tags declared while rendering, inlines critical CSS, serializes props
// for hydration and serves the assembled documents over HTTP.
package reactssr

import (
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/3-lines-studio/reactssr/internal/adapters/process"
	adapthttp "github.com/3-lines-studio/reactssr/internal/adapters/http"
	"github.com/3-lines-studio/reactssr/internal/cache"
	"github.com/3-lines-studio/reactssr/internal/config"
	"github.com/3-lines-studio/reactssr/internal/core"
	"github.com/3-lines-studio/reactssr/internal/types"
	"github.com/3-lines-studio/reactssr/internal/usecase"
)

type RedirectError = types.RedirectError

type PageOption = types.PageOption

type Component = types.Component

type Route struct {
	Pattern       string
	PageID        string
	Component     Component
	ComponentPath string
	Options       []PageOption
}

// Page registers a Go-native page.
func Page(pattern, pageID string, component Component, opts ...PageOption) Route {
	return Route{
		Pattern:   pattern,
		PageID:    pageID,
		Component: component,
		Options:   opts,
	}
}

// ReactPage registers a React component file rendered by the Bun runtime.
// The page id is derived from the file path unless WithPageID is given.
func ReactPage(pattern, componentPath string, opts ...PageOption) Route {
	return Route{
		Pattern:       pattern,
		PageID:        core.PageIDForPath(componentPath),
		ComponentPath: componentPath,
		Options:       opts,
	}
}

func (r Route) config() types.PageConfig {
	cfg := types.PageConfig{
		PageID:        r.PageID,
		Component:     r.Component,
		ComponentPath: r.ComponentPath,
	}
	for _, opt := range r.Options {
		opt(&cfg)
	}
	return cfg
}

type App struct {
	routes   []Route
	configs  []types.PageConfig
	service  *usecase.PageService
	renderer *process.Renderer
	assets   fs.FS
	public   fs.FS
	prefix   string
	isDev    bool
	log      zerolog.Logger
}

// Router is satisfied by chi.Router and *http.ServeMux.
type Router interface {
	http.Handler
	Handle(pattern string, handler http.Handler)
}

func New(routes []Route, opts ...Option) (*App, error) {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}

	app := &App{
		routes: append([]Route(nil), routes...),
		assets: s.assets,
		public: s.public,
		prefix: core.NormalizePrefix(s.prefix),
		isDev:  s.dev,
		log:    s.logger,
	}

	needsRuntime := false
	for i, route := range app.routes {
		if err := core.ValidateRoutePath(route.Pattern); err != nil {
			return nil, err
		}
		app.routes[i].Pattern = core.NormalizePath(route.Pattern)
		cfg := route.config()
		if err := core.ValidatePageID(cfg.PageID); err != nil {
			return nil, fmt.Errorf("route %q: %w", route.Pattern, err)
		}
		if cfg.Component == nil && cfg.ComponentPath == "" {
			return nil, fmt.Errorf("route %q: %w", route.Pattern, usecase.ErrNoComponent)
		}
		if cfg.Component == nil {
			needsRuntime = true
		}
		app.configs = append(app.configs, cfg)
	}

	manifest := s.manifest
	if manifest == nil && s.manifestPath != "" {
		if s.assets == nil {
			return nil, fmt.Errorf("manifest %s: no assets filesystem", s.manifestPath)
		}
		m, err := core.LoadManifest(s.assets, s.manifestPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load manifest: %w", err)
		}
		manifest = m
	}

	renderer := s.renderer
	if renderer == nil && needsRuntime {
		r, err := process.NewRenderer(process.Options{
			Bun:    s.bun,
			Dev:    s.dev,
			Logger: s.logger,
		})
		if err != nil {
			return nil, err
		}
		app.renderer = r
		renderer = r
	}

	var docs usecase.Cache
	if s.cacheTTL > 0 {
		docs = cache.New(s.cacheTTL)
	}

	app.service = usecase.NewPageService(usecase.Options{
		Renderer:    renderer,
		Cache:       docs,
		Manifest:    manifest,
		AssetPrefix: app.prefix,
		Strategy:    s.strategy,
		Logger:      s.logger,
	})

	app.log.Debug().
		Int("routes", len(routes)).
		Bool("dev", app.isDev).
		Bool("runtime", app.renderer != nil).
		Str("asset_prefix", app.prefix).
		Msg("app created")

	return app, nil
}

// Wrap registers every page on router and serves assets under the asset
// prefix ahead of it.
func (a *App) Wrap(router Router) http.Handler {
	if router == nil {
		panic("reactssr: nil router passed to Wrap; use app.Handler()")
	}

	for i, route := range a.routes {
		router.Handle(route.Pattern, adapthttp.NewPageHandler(a.service, a.configs[i], a.isDev, a.log))
	}

	var next http.Handler = router
	if a.public != nil {
		next = adapthttp.NewPublicHandler(a.public, next)
	}
	if a.assets == nil {
		return next
	}

	assets := http.StripPrefix(strings.TrimSuffix(a.prefix, "/"), adapthttp.NewAssetHandler(a.assets, a.isDev))
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if strings.HasPrefix(req.URL.Path, a.prefix) {
			assets.ServeHTTP(w, req)
			return
		}
		next.ServeHTTP(w, req)
	})
}

func (a *App) Handler() http.Handler {
	return a.Wrap(chi.NewRouter())
}

func (a *App) Stop() error {
	if a.renderer != nil {
		return a.renderer.Stop()
	}
	return nil
}

func IsDev() bool {
	return config.IsDev()
}

func WithLoader(loader types.PropsLoader) PageOption {
	return types.WithLoader(loader)
}

func WithHead(elements ...HeadElement) PageOption {
	return types.WithHead(elements...)
}

func WithPageStrategy(s Strategy) PageOption {
	return types.WithStrategy(s)
}

func WithPageID(id string) PageOption {
	return types.WithPageID(id)
}

func WithoutCache() PageOption {
	return types.WithoutCache()
}
