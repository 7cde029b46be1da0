package usecase

import (
	"context"

	"github.com/3-lines-studio/reactssr/internal/core"
)

// Renderer renders a component file outside the Go process.
type Renderer interface {
	Render(ctx context.Context, componentPath string, props string) (core.RenderResult, error)
}

// Cache stores assembled documents by core.CacheKey.
type Cache interface {
	Get(key string) (string, bool)
	Set(key, document string)
}
