// Package node is the Go-native component tree rendered on the server. It plays
// the role React elements play for pages rendered by the Bun runtime.
package node

import (
	"context"

	"github.com/3-lines-studio/reactssr/internal/head"
)

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement   Kind = iota // <div>, <p>, ...
	KindText                  // escaped text
	KindRaw                   // trusted HTML, written as is
	KindFragment              // children without a wrapper
	KindComponent             // evaluated at render time
	KindHead                  // title/meta declarations, renders nothing
)

func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindRaw:
		return "Raw"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	case KindHead:
		return "Head"
	default:
		return "Unknown"
	}
}

type Node struct {
	Kind     Kind
	Tag      string
	Attrs    head.Attrs
	Children []*Node
	Text     string
	Comp     Component
}

// Component renders a subtree. ctx carries the render-scoped head collector
// and style sheet.
type Component func(ctx context.Context) *Node

func El(tag string, attrs head.Attrs, children ...*Node) *Node {
	return &Node{Kind: KindElement, Tag: tag, Attrs: attrs, Children: children}
}

func Text(s string) *Node {
	return &Node{Kind: KindText, Text: s}
}

func Raw(html string) *Node {
	return &Node{Kind: KindRaw, Text: html}
}

func Fragment(children ...*Node) *Node {
	return &Node{Kind: KindFragment, Children: children}
}

func Comp(c Component) *Node {
	return &Node{Kind: KindComponent, Comp: c}
}

// Head declares document metadata from anywhere in the tree. Title and meta
// children are recorded on the render's collector; other children are
// ignored.
func Head(children ...*Node) *Node {
	return &Node{Kind: KindHead, Children: children}
}

func Title(text string) *Node {
	return El("title", nil, Text(text))
}

func Meta(attrs ...head.Attr) *Node {
	return El("meta", head.Meta(attrs...).Attrs)
}

// Attrs builds ordered attributes from alternating keys and values.
func Attrs(kv ...string) head.Attrs {
	var a head.Attrs
	for _, attr := range head.Pairs(kv...) {
		a = a.Set(attr.Key, attr.Value)
	}
	return a
}
