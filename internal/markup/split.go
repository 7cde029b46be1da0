// Package markup splits a rendered HTML fragment into the pieces the document
// assembler needs: body markup, hoisted scripts, root element attributes and
// the head content of fragments that render a whole document.
package markup

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/3-lines-studio/reactssr/internal/head"
)

var ErrMarkup = errors.New("malformed markup")

// ParseError reports a fragment that is not well formed.
type ParseError struct {
	Offset int
	Tag    string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Tag == "" {
		return fmt.Sprintf("markup parse error at offset %d: %s", e.Offset, e.Reason)
	}
	return fmt.Sprintf("markup parse error at offset %d: %s <%s>", e.Offset, e.Reason, e.Tag)
}

func (e *ParseError) Unwrap() error {
	return ErrMarkup
}

type Fragment struct {
	HTMLAttrs   head.Attrs
	BodyAttrs   head.Attrs
	Head        []head.Element
	HeadMarkup  string
	Body        string
	Scripts     []string
	HasDocument bool
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "keygen": true, "link": true,
	"meta": true, "param": true, "source": true, "track": true, "wbr": true,
}

// HasDocument reports whether the fragment renders its own <html> element.
func HasDocument(fragment string) bool {
	return strings.Contains(strings.ToLower(fragment), "<html")
}

type splitter struct {
	f          Fragment
	stack      []string
	body       strings.Builder
	headMarkup strings.Builder
	script     *strings.Builder
	title      *strings.Builder
	inHead     bool
	inBody     bool
	offset     int
}

// Split tokenizes fragment. Every <script> outside a <head> is removed from
// the body markup and returned in document order.
func Split(fragment string) (Fragment, error) {
	s := &splitter{}
	z := html.NewTokenizer(strings.NewReader(fragment))

	for {
		tt := z.Next()
		raw := string(z.Raw())

		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return Fragment{}, &ParseError{Offset: s.offset, Reason: err.Error()}
			}
			return s.finish()
		case html.DoctypeToken:
		case html.StartTagToken, html.SelfClosingTagToken:
			if err := s.startTag(z, tt, raw); err != nil {
				return Fragment{}, err
			}
		case html.EndTagToken:
			if err := s.endTag(z, raw); err != nil {
				return Fragment{}, err
			}
		case html.TextToken:
			s.text(raw, string(z.Text()))
		case html.CommentToken:
			s.write(raw)
		}

		s.offset += len(raw)
	}
}

func (s *splitter) startTag(z *html.Tokenizer, tt html.TokenType, raw string) error {
	name, hasAttr := z.TagName()
	tag := string(name)
	attrs := readAttrs(z, hasAttr)
	selfClosing := tt == html.SelfClosingTagToken || voidElements[tag]

	switch tag {
	case "html":
		s.f.HasDocument = true
		s.f.HTMLAttrs = mergeAttrs(s.f.HTMLAttrs, attrs)
		s.push(tag, selfClosing)
		return nil
	case "head":
		s.inHead = !selfClosing
		s.push(tag, selfClosing)
		return nil
	case "body":
		s.inBody = !selfClosing
		s.f.BodyAttrs = mergeAttrs(s.f.BodyAttrs, attrs)
		s.push(tag, selfClosing)
		return nil
	}

	if s.title != nil || s.script != nil {
		return &ParseError{Offset: s.offset, Tag: tag, Reason: "unexpected start tag inside raw text"}
	}

	s.push(tag, selfClosing)

	switch {
	case tag == "script" && !s.inHead && !selfClosing:
		s.script = &strings.Builder{}
		s.script.WriteString(raw)
	case tag == "script" && !s.inHead:
		// <script/> is an open tag to a browser; hoist it closed.
		s.f.Scripts = append(s.f.Scripts, closedScript(attrs))
	case tag == "title" && s.inHead && !selfClosing:
		s.title = &strings.Builder{}
	case tag == "meta" && s.inHead:
		s.f.Head = append(s.f.Head, head.Meta(attrs...))
	default:
		s.write(raw)
	}
	return nil
}

func (s *splitter) endTag(z *html.Tokenizer, raw string) error {
	name, _ := z.TagName()
	tag := string(name)

	if voidElements[tag] {
		return nil
	}

	if len(s.stack) == 0 || s.stack[len(s.stack)-1] != tag {
		return &ParseError{Offset: s.offset, Tag: tag, Reason: "unexpected end tag"}
	}
	s.stack = s.stack[:len(s.stack)-1]

	switch tag {
	case "html":
		return nil
	case "head":
		s.inHead = false
		return nil
	case "body":
		s.inBody = false
		return nil
	}

	switch {
	case s.script != nil && tag == "script":
		s.script.WriteString(raw)
		s.f.Scripts = append(s.f.Scripts, s.script.String())
		s.script = nil
	case s.title != nil && tag == "title":
		s.f.Head = append(s.f.Head, head.Title(s.title.String()))
		s.title = nil
	default:
		s.write(raw)
	}
	return nil
}

func (s *splitter) text(raw, unescaped string) {
	switch {
	case s.script != nil:
		s.script.WriteString(raw)
	case s.title != nil:
		s.title.WriteString(unescaped)
	case s.f.HasDocument && !s.inHead && !s.inBody && strings.TrimSpace(raw) == "":
	default:
		s.write(raw)
	}
}

func (s *splitter) write(raw string) {
	if s.script != nil {
		s.script.WriteString(raw)
		return
	}
	if s.inHead {
		s.headMarkup.WriteString(raw)
		return
	}
	s.body.WriteString(raw)
}

func (s *splitter) push(tag string, selfClosing bool) {
	if !selfClosing {
		s.stack = append(s.stack, tag)
	}
}

func (s *splitter) finish() (Fragment, error) {
	if s.script != nil {
		return Fragment{}, &ParseError{Offset: s.offset, Tag: "script", Reason: "unterminated element"}
	}
	if len(s.stack) > 0 {
		return Fragment{}, &ParseError{Offset: s.offset, Tag: s.stack[len(s.stack)-1], Reason: "unclosed element"}
	}

	s.f.Body = s.body.String()
	s.f.HeadMarkup = s.headMarkup.String()
	return s.f, nil
}

func closedScript(attrs []head.Attr) string {
	var b strings.Builder
	b.WriteString("<script")
	for _, a := range attrs {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		if a.Value != "" {
			b.WriteString(`="`)
			b.WriteString(html.EscapeString(a.Value))
			b.WriteByte('"')
		}
	}
	b.WriteString("></script>")
	return b.String()
}

func readAttrs(z *html.Tokenizer, hasAttr bool) []head.Attr {
	var attrs []head.Attr
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		attrs = append(attrs, head.Attr{Key: string(key), Value: string(val)})
	}
	return attrs
}

func mergeAttrs(dst head.Attrs, src []head.Attr) head.Attrs {
	for _, a := range src {
		dst = dst.Set(a.Key, a.Value)
	}
	return dst
}
