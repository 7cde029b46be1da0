package reactssr

import (
	"context"

	"github.com/3-lines-studio/reactssr/internal/core"
	"github.com/3-lines-studio/reactssr/internal/head"
	"github.com/3-lines-studio/reactssr/internal/markup"
	"github.com/3-lines-studio/reactssr/internal/node"
	"github.com/3-lines-studio/reactssr/internal/styles"
	"github.com/3-lines-studio/reactssr/internal/usecase"
)

type (
	Node        = node.Node
	HeadElement = head.Element
	Attr        = head.Attr
	Attrs       = head.Attrs
	Strategy    = styles.Strategy

	Renderer      = usecase.Renderer
	RenderResult  = core.RenderResult
	Manifest      = core.Manifest
	ManifestEntry = core.ManifestEntry

	MarkupParseError        = markup.ParseError
	PropsSerializationError = core.PropsSerializationError
)

const (
	StrategyDefault    = styles.StrategyDefault
	StrategyEmotion    = styles.StrategyEmotion
	StrategyMaterialUI = styles.StrategyMaterialUI
)

var (
	ErrMarkup             = markup.ErrMarkup
	ErrPropsSerialization = core.ErrPropsSerialization
)

func El(tag string, attrs Attrs, children ...*Node) *Node { return node.El(tag, attrs, children...) }
func Text(s string) *Node                                { return node.Text(s) }
func Raw(html string) *Node                              { return node.Raw(html) }
func Fragment(children ...*Node) *Node                   { return node.Fragment(children...) }
func Comp(c func(ctx context.Context) *Node) *Node       { return node.Comp(c) }
func A(kv ...string) Attrs                               { return node.Attrs(kv...) }

// Head declares <title> and <meta> tags from anywhere in the tree.
func Head(children ...*Node) *Node { return node.Head(children...) }

func Title(text string) *Node { return node.Title(text) }

// Meta takes alternating attribute keys and values.
func Meta(kv ...string) *Node { return node.Meta(head.Pairs(kv...)...) }

// CSS registers declarations on the render's style sheet and returns the
// class name to put on an element.
func CSS(ctx context.Context, declarations string) string {
	return styles.Use(ctx, declarations)
}

func TitleTag(text string) HeadElement { return head.Title(text) }

func MetaTag(kv ...string) HeadElement { return head.Meta(head.Pairs(kv...)...) }

func ParseStrategy(s string) (Strategy, error) { return styles.ParseStrategy(s) }
