package reactssr

import (
	"io/fs"
	"time"

	"github.com/rs/zerolog"

	"github.com/3-lines-studio/reactssr/internal/config"
	"github.com/3-lines-studio/reactssr/internal/core"
	"github.com/3-lines-studio/reactssr/internal/usecase"
)

type settings struct {
	assets       fs.FS
	public       fs.FS
	manifest     *core.Manifest
	manifestPath string
	prefix       string
	strategy     Strategy
	cacheTTL     time.Duration
	dev          bool
	bun          string
	logger       zerolog.Logger
	renderer     usecase.Renderer
}

func defaultSettings() settings {
	return settings{
		prefix: core.DefaultAssetPrefix,
		dev:    config.IsDev(),
		logger: zerolog.Nop(),
	}
}

type Option func(*settings)

// WithAssets serves page bundles from fsys under the asset prefix.
func WithAssets(fsys fs.FS) Option {
	return func(s *settings) {
		s.assets = fsys
	}
}

// WithPublic serves files from fsys at the site root when they exist.
func WithPublic(fsys fs.FS) Option {
	return func(s *settings) {
		s.public = fsys
	}
}

// WithManifest loads a build manifest from the assets filesystem.
func WithManifest(path string) Option {
	return func(s *settings) {
		s.manifestPath = path
	}
}

func WithManifestData(m *core.Manifest) Option {
	return func(s *settings) {
		s.manifest = m
	}
}

func WithAssetPrefix(prefix string) Option {
	return func(s *settings) {
		s.prefix = prefix
	}
}

// WithStrategy sets the CSS-in-JS strategy for every page.
func WithStrategy(strategy Strategy) Option {
	return func(s *settings) {
		s.strategy = strategy
	}
}

// WithCache keeps assembled documents for ttl, keyed by page and props.
func WithCache(ttl time.Duration) Option {
	return func(s *settings) {
		s.cacheTTL = ttl
	}
}

func WithDev(dev bool) Option {
	return func(s *settings) {
		s.dev = dev
	}
}

// WithBun sets the bun executable used for ReactPage routes.
func WithBun(path string) Option {
	return func(s *settings) {
		s.bun = path
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = log
	}
}

// WithRenderer replaces the Bun process for ReactPage routes.
func WithRenderer(r usecase.Renderer) Option {
	return func(s *settings) {
		s.renderer = r
	}
}
