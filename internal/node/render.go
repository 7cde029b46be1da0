package node

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/3-lines-studio/reactssr/internal/head"
)

// RenderToString renders n to an HTML fragment. Head declarations met on the
// way are recorded on the collector carried by ctx. A nil tree renders to "".
func RenderToString(ctx context.Context, n *Node) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if n == nil {
		return "", nil
	}

	root := &html.Node{Type: html.DocumentNode}
	if err := build(ctx, n, root); err != nil {
		return "", err
	}

	var b strings.Builder
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", fmt.Errorf("failed to render <%s>: %w", c.Data, err)
		}
	}
	return b.String(), nil
}

func build(ctx context.Context, n *Node, parent *html.Node) error {
	if n == nil {
		return nil
	}

	switch n.Kind {
	case KindElement:
		if n.Tag == "" {
			return fmt.Errorf("element without tag")
		}
		el := &html.Node{
			Type:     html.ElementNode,
			Data:     n.Tag,
			DataAtom: atom.Lookup([]byte(n.Tag)),
		}
		for _, a := range n.Attrs {
			el.Attr = append(el.Attr, html.Attribute{Key: a.Key, Val: a.Value})
		}
		parent.AppendChild(el)
		return buildChildren(ctx, n.Children, el)
	case KindText:
		parent.AppendChild(&html.Node{Type: html.TextNode, Data: n.Text})
		return nil
	case KindRaw:
		parent.AppendChild(&html.Node{Type: html.RawNode, Data: n.Text})
		return nil
	case KindFragment:
		return buildChildren(ctx, n.Children, parent)
	case KindComponent:
		if n.Comp == nil {
			return nil
		}
		return build(ctx, n.Comp(ctx), parent)
	case KindHead:
		recordHead(ctx, n.Children)
		return nil
	default:
		return fmt.Errorf("unknown node kind: %d", n.Kind)
	}
}

func buildChildren(ctx context.Context, children []*Node, parent *html.Node) error {
	for _, c := range children {
		if err := build(ctx, c, parent); err != nil {
			return err
		}
	}
	return nil
}

func recordHead(ctx context.Context, children []*Node) {
	for _, c := range children {
		if c == nil {
			continue
		}
		switch {
		case c.Kind == KindFragment:
			recordHead(ctx, c.Children)
		case c.Kind == KindComponent && c.Comp != nil:
			recordHead(ctx, []*Node{c.Comp(ctx)})
		case c.Kind == KindElement:
			switch head.KindForTag(c.Tag) {
			case head.KindTitle:
				head.Record(ctx, head.Title(textContent(c)))
			case head.KindMeta:
				head.Record(ctx, head.Element{Kind: head.KindMeta, Attrs: c.Attrs})
			}
		}
	}
}

func textContent(n *Node) string {
	var b strings.Builder
	var walk func(*Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if n.Kind == KindText {
			b.WriteString(n.Text)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
