package reactssr

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/3-lines-studio/reactssr/internal/core"
	"github.com/3-lines-studio/reactssr/internal/usecase"
)

var (
	defaultServiceOnce sync.Once
	defaultService     *usecase.PageService
)

func standalone() *usecase.PageService {
	defaultServiceOnce.Do(func() {
		defaultService = usecase.NewPageService(usecase.Options{Logger: zerolog.Nop()})
	})
	return defaultService
}

// Render renders tree and assembles the full document for pageID. Head tags
// declared in the tree land in the document head; props are serialized into
// the hydration script. A nil tree yields a minimal valid document.
func Render(ctx context.Context, tree *Node, pageID string, props any) (string, error) {
	return RenderWithStrategy(ctx, tree, pageID, props, StrategyDefault)
}

func RenderWithStrategy(ctx context.Context, tree *Node, pageID string, props any, strategy Strategy) (string, error) {
	serialized, err := core.SerializeProps(pageID, props)
	if err != nil {
		return "", err
	}
	return RenderSerialized(ctx, tree, pageID, serialized, strategy)
}

// RenderSerialized is Render for props that are already JSON.
func RenderSerialized(ctx context.Context, tree *Node, pageID, serializedProps string, strategy Strategy) (string, error) {
	return standalone().RenderTree(ctx, usecase.TreeInput{
		Tree:     tree,
		PageID:   pageID,
		Props:    serializedProps,
		Strategy: strategy,
	})
}

// Assemble builds a document from an already rendered fragment.
func Assemble(body string, elements []HeadElement, pageID, serializedProps, stylesheetHref, scriptHref string) (string, error) {
	return core.Assemble(body, elements, pageID, serializedProps, stylesheetHref, scriptHref)
}
