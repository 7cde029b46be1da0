package core

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/3-lines-studio/reactssr/internal/head"
	"github.com/3-lines-studio/reactssr/internal/markup"
	"github.com/3-lines-studio/reactssr/internal/styles"
)

const (
	RootID   = "react-ssr-root"
	ScriptID = "react-ssr-script"
)

var ErrMissingScript = errors.New("missing script src")

// RenderResult is the output of one render pass.
type RenderResult struct {
	Body        string
	Head        []head.Element
	CSS         string
	CriticalIDs []string
}

type Document struct {
	Body           string
	Head           []head.Element
	PageID         string
	Props          string
	StylesheetHref string
	ScriptHref     string
	// Chunks are code-split modules loaded ahead of the entry script.
	Chunks         []string
	Strategy       styles.Strategy
	CSS            string
	CriticalIDs    []string
}

// Assemble builds a complete HTML document from a rendered fragment.
func Assemble(body string, elements []head.Element, pageID, props, stylesheetHref, scriptHref string) (string, error) {
	return AssembleDocument(Document{
		Body:           body,
		Head:           elements,
		PageID:         pageID,
		Props:          props,
		StylesheetHref: stylesheetHref,
		ScriptHref:     scriptHref,
	})
}

func AssembleDocument(doc Document) (string, error) {
	if doc.ScriptHref == "" {
		return "", ErrMissingScript
	}

	frag, err := markup.Split(doc.Body)
	if err != nil {
		return "", err
	}

	// Declarations from the fragment's own <head> come first so elements
	// recorded during render override them.
	elements := make([]head.Element, 0, len(frag.Head)+len(doc.Head))
	elements = append(elements, frag.Head...)
	elements = append(elements, doc.Head...)

	headHTML, err := head.Render(elements)
	if err != nil {
		return "", err
	}

	props := doc.Props
	if props == "" {
		props = "{}"
	}

	bodyAttrs := frag.BodyAttrs.Clone()
	if tag := doc.Strategy.Tag(); tag != "" {
		bodyAttrs = bodyAttrs.Set("data-ssr-id", tag)
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html")
	writeAttrs(&b, frag.HTMLAttrs)
	b.WriteString("><head>")
	b.WriteString(headHTML)
	b.WriteString(frag.HeadMarkup)
	writeStyle(&b, doc)
	if doc.StylesheetHref != "" {
		fmt.Fprintf(&b, `<link rel="stylesheet" href="%s">`, html.EscapeString(doc.StylesheetHref))
	}
	b.WriteString("</head><body")
	writeAttrs(&b, bodyAttrs)
	fmt.Fprintf(&b, `><div id="%s">`, RootID)
	b.WriteString(frag.Body)
	b.WriteString("</div>")
	for _, chunk := range doc.Chunks {
		fmt.Fprintf(&b, `<script src="%s" type="module" defer></script>`, html.EscapeString(chunk))
	}
	fmt.Fprintf(&b, `<script id="%s" src="%s" data-props="%s"></script>`,
		ScriptID, html.EscapeString(doc.ScriptHref), html.EscapeString(props))
	for _, script := range frag.Scripts {
		b.WriteString(script)
	}
	b.WriteString("</body></html>")

	return b.String(), nil
}

func writeStyle(b *strings.Builder, doc Document) {
	if doc.CSS == "" {
		return
	}
	css := strings.ReplaceAll(doc.CSS, "</", "<\\/")

	switch doc.Strategy {
	case styles.StrategyMaterialUI:
		fmt.Fprintf(b, `<style id="jss-server-side">%s</style>`, css)
	case styles.StrategyEmotion:
		fmt.Fprintf(b, `<style data-emotion-css="%s">%s</style>`, html.EscapeString(strings.Join(doc.CriticalIDs, " ")), css)
	default:
		fmt.Fprintf(b, `<style id="react-ssr-css">%s</style>`, css)
	}
}

func writeAttrs(b *strings.Builder, attrs head.Attrs) {
	for _, a := range attrs {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Value))
		b.WriteByte('"')
	}
}
