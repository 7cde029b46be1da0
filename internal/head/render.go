package head

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// keyAttributes identify a <meta> tag. Two metas with equal key attributes
// describe the same tag and the later one updates the earlier.
var keyAttributes = []string{"charset", "name", "property", "http-equiv", "itemprop"}

const emptyHead = "<html><head></head><body></body></html>"

// Render reconciles elements into a head section and returns its inner HTML.
func Render(elements []Element) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(emptyHead))
	if err != nil {
		return "", fmt.Errorf("failed to create head document: %w", err)
	}
	h := doc.Find("head")

	for _, el := range elements {
		switch el.Kind {
		case KindTitle:
			applyTitle(h, el.Text)
		case KindMeta:
			applyMeta(h, normalize(el.Attrs))
		}
	}

	var b strings.Builder
	for _, n := range h.Children().Nodes {
		if err := html.Render(&b, n); err != nil {
			return "", fmt.Errorf("failed to render head element: %w", err)
		}
	}
	return b.String(), nil
}

func applyTitle(h *goquery.Selection, text string) {
	title := h.ChildrenFiltered("title")
	if title.Length() == 0 {
		h.AppendNodes(&html.Node{Type: html.ElementNode, Data: "title", DataAtom: atom.Title})
		title = h.ChildrenFiltered("title")
	}
	title.First().SetText(text)
}

func applyMeta(h *goquery.Selection, attrs Attrs) {
	if len(attrs) == 0 {
		return
	}

	existing := h.ChildrenFiltered(Selector(attrs))
	if existing.Length() == 0 {
		n := &html.Node{Type: html.ElementNode, Data: "meta", DataAtom: atom.Meta}
		for _, a := range attrs {
			n.Attr = append(n.Attr, html.Attribute{Key: a.Key, Val: a.Value})
		}
		h.AppendNodes(n)
		return
	}

	target := existing.First()
	for _, a := range attrs {
		target.SetAttr(a.Key, a.Value)
	}
}

func normalize(attrs Attrs) Attrs {
	var out Attrs
	for _, a := range attrs {
		key := strings.ToLower(strings.TrimSpace(a.Key))
		if key == "" {
			continue
		}
		out = out.Set(key, a.Value)
	}
	return out
}

// Selector builds the CSS selector matching an existing <meta> equivalent to
// attrs. Key attributes are used when present, otherwise every attribute.
// Values are always double-quoted CSS strings.
func Selector(attrs Attrs) string {
	var b strings.Builder
	b.WriteString("meta")

	keyed := false
	for _, key := range keyAttributes {
		value, ok := attrs.Get(key)
		if !ok {
			continue
		}
		keyed = true
		if key == "charset" {
			b.WriteString("[charset]")
			continue
		}
		writeAttrSelector(&b, key, value)
	}

	if !keyed {
		for _, a := range attrs {
			writeAttrSelector(&b, a.Key, a.Value)
		}
	}
	return b.String()
}

func writeAttrSelector(b *strings.Builder, key, value string) {
	b.WriteByte('[')
	b.WriteString(escapeIdent(key))
	b.WriteString(`="`)
	b.WriteString(escapeString(value))
	b.WriteString(`"]`)
}

// escapeIdent escapes s as a CSS identifier. A digit in leading position
// (first, or second after a hyphen) becomes a hex escape.
func escapeIdent(s string) string {
	var b strings.Builder
	for i, r := range s {
		digit := r >= '0' && r <= '9'
		switch {
		case digit && (i == 0 || (i == 1 && s[0] == '-')):
			fmt.Fprintf(&b, "\\%x ", r)
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', digit, r == '-', r == '_', r > 0x7f:
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}

func escapeString(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\a `)
		case '\r':
			b.WriteString(`\d `)
		case '\f':
			b.WriteString(`\c `)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
