package types

import (
	"context"
	"net/http"

	"github.com/3-lines-studio/reactssr/internal/head"
	"github.com/3-lines-studio/reactssr/internal/node"
	"github.com/3-lines-studio/reactssr/internal/styles"
)

type PropsLoader func(*http.Request) (map[string]any, error)

type RedirectError interface {
	RedirectURL() string
	RedirectStatusCode() int
}

// Component renders a Go-native page from its props.
type Component func(ctx context.Context, props map[string]any) *node.Node

type PageConfig struct {
	PageID string
	// Exactly one of Component and ComponentPath is set.
	Component     Component
	ComponentPath string
	PropsLoader   PropsLoader
	Head          []head.Element
	Strategy      styles.Strategy
	HasStrategy   bool
	NoCache       bool
}

type PageOption func(*PageConfig)

func WithLoader(loader PropsLoader) PageOption {
	return func(c *PageConfig) {
		c.PropsLoader = loader
	}
}

// WithHead adds elements rendered before anything the tree records.
func WithHead(elements ...head.Element) PageOption {
	return func(c *PageConfig) {
		c.Head = append(c.Head, elements...)
	}
}

func WithStrategy(s styles.Strategy) PageOption {
	return func(c *PageConfig) {
		c.Strategy = s
		c.HasStrategy = true
	}
}

func WithPageID(id string) PageOption {
	return func(c *PageConfig) {
		c.PageID = id
	}
}

func WithoutCache() PageOption {
	return func(c *PageConfig) {
		c.NoCache = true
	}
}
