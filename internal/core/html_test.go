package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3-lines-studio/reactssr/internal/head"
	"github.com/3-lines-studio/reactssr/internal/markup"
	"github.com/3-lines-studio/reactssr/internal/styles"
)

func TestAssembleScriptHoisting(t *testing.T) {
	got, err := Assemble(
		`<div>Hi</div><script>console.log(1)</script>`,
		[]head.Element{head.Title("Home"), head.Meta(head.Pairs("name", "description", "content", "x")...)},
		"home",
		`{"user":{"name":"World"}}`,
		"/_react-ssr/home.css",
		"/_react-ssr/home.js",
	)
	require.NoError(t, err)

	want := `<!DOCTYPE html><html><head><title>Home</title><meta name="description" content="x"/>` +
		`<link rel="stylesheet" href="/_react-ssr/home.css"></head><body>` +
		`<div id="react-ssr-root"><div>Hi</div></div>` +
		`<script id="react-ssr-script" src="/_react-ssr/home.js" data-props="{&#34;user&#34;:{&#34;name&#34;:&#34;World&#34;}}"></script>` +
		`<script>console.log(1)</script></body></html>`
	assert.Equal(t, want, got)

	div := strings.Index(got, "<div>Hi</div>")
	script := strings.Index(got, "<script>console.log(1)</script>")
	assert.True(t, div >= 0 && script > div, "div content must precede the hoisted script")
}

func TestAssembleIsIdempotent(t *testing.T) {
	doc := Document{
		Body:           `<html lang="fr"><head><title>T</title></head><body><p>x</p><script>a()</script></body></html>`,
		Head:           []head.Element{head.Meta(head.Pairs("name", "robots", "content", "all")...)},
		PageID:         "p",
		Props:          `{"a":[1,2,3]}`,
		StylesheetHref: "/a.css",
		ScriptHref:     "/a.js",
		Strategy:       styles.StrategyEmotion,
		CSS:            ".css-1{color:red}",
		CriticalIDs:    []string{"css-1"},
	}

	first, err := AssembleDocument(doc)
	require.NoError(t, err)
	second, err := AssembleDocument(doc)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAssembleEmptyBody(t *testing.T) {
	got, err := Assemble("", nil, "empty", "", "", "/_react-ssr/empty.js")
	require.NoError(t, err)

	assert.Equal(t, `<!DOCTYPE html><html><head></head><body><div id="react-ssr-root"></div>`+
		`<script id="react-ssr-script" src="/_react-ssr/empty.js" data-props="{}"></script></body></html>`, got)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(got))
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("#"+RootID).Length())
	assert.Equal(t, 1, doc.Find("#"+ScriptID).Length())
}

func TestAssembleMetaDeduplication(t *testing.T) {
	c := head.NewCollector()
	c.Record(head.Meta(head.Pairs("name", "description", "content", "x")...))
	c.Record(head.Meta(head.Pairs("name", "description", "content", "x")...))
	c.Record(head.Meta(head.Pairs("name", "description", "content", "y")...))

	got, err := Assemble("<p></p>", c.Rewind(), "p", "{}", "", "/p.js")
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(got))
	require.NoError(t, err)
	metas := doc.Find(`head meta[name="description"]`)
	require.Equal(t, 1, metas.Length())
	content, _ := metas.Attr("content")
	assert.Equal(t, "y", content)
}

func TestAssembleFullDocumentFragment(t *testing.T) {
	got, err := AssembleDocument(Document{
		Body: `<html lang="en"><head><title>Static</title><meta name="description" content="static">` +
			`<link rel="icon" href="/favicon.ico"></head><body class="app"><main>Body</main></body></html>`,
		Head:       []head.Element{head.Title("Dynamic")},
		PageID:     "doc",
		Props:      `{}`,
		ScriptHref: "/doc.js",
	})
	require.NoError(t, err)

	snaps.MatchSnapshot(t, got)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(got))
	require.NoError(t, err)
	assert.Equal(t, "Dynamic", doc.Find("title").Text())
	lang, _ := doc.Find("html").Attr("lang")
	assert.Equal(t, "en", lang)
	class, _ := doc.Find("body").Attr("class")
	assert.Equal(t, "app", class)
	assert.Equal(t, "Body", doc.Find("#"+RootID+" main").Text())
}

func TestAssembleStrategies(t *testing.T) {
	tests := []struct {
		name     string
		strategy styles.Strategy
		style    string
		ssrID    string
	}{
		{"default", styles.StrategyDefault, `<style id="react-ssr-css">.css-a{color:red}</style>`, ""},
		{"emotion", styles.StrategyEmotion, `<style data-emotion-css="css-a">.css-a{color:red}</style>`, "emotion"},
		{"material-ui", styles.StrategyMaterialUI, `<style id="jss-server-side">.css-a{color:red}</style>`, "material-ui"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AssembleDocument(Document{
				Body:        `<div class="css-a"></div>`,
				PageID:      "s",
				ScriptHref:  "/s.js",
				Strategy:    tt.strategy,
				CSS:         ".css-a{color:red}",
				CriticalIDs: []string{"css-a"},
			})
			require.NoError(t, err)
			assert.Contains(t, got, tt.style)

			doc, err := goquery.NewDocumentFromReader(strings.NewReader(got))
			require.NoError(t, err)
			ssrID, ok := doc.Find("body").Attr("data-ssr-id")
			assert.Equal(t, tt.ssrID != "", ok)
			assert.Equal(t, tt.ssrID, ssrID)
		})
	}
}

func TestAssembleEscapesStyleClose(t *testing.T) {
	got, err := AssembleDocument(Document{ScriptHref: "/x.js", CSS: `a::after{content:"</style>"}`})
	require.NoError(t, err)
	assert.NotContains(t, got, `content:"</style>"`)
	assert.Contains(t, got, `content:"<\/style>"`)
}

func TestAssembleErrors(t *testing.T) {
	t.Run("missing script src", func(t *testing.T) {
		_, err := Assemble("<p></p>", nil, "p", "{}", "", "")
		assert.ErrorIs(t, err, ErrMissingScript)
	})

	t.Run("malformed markup", func(t *testing.T) {
		_, err := Assemble("<div><p>x</div>", nil, "p", "{}", "", "/p.js")
		assert.ErrorIs(t, err, markup.ErrMarkup)

		var perr *markup.ParseError
		assert.True(t, errors.As(err, &perr))
	})
}

func TestAssembleChunksLoadBeforeEntry(t *testing.T) {
	got, err := AssembleDocument(Document{
		Body:       "<p>x</p>",
		ScriptHref: "/assets/home-abc.js",
		Chunks:     []string{"/assets/chunk-1.js", "/assets/chunk-2.js"},
	})
	require.NoError(t, err)

	first := strings.Index(got, `<script src="/assets/chunk-1.js" type="module" defer></script>`)
	second := strings.Index(got, `<script src="/assets/chunk-2.js" type="module" defer></script>`)
	entry := strings.Index(got, `<script id="react-ssr-script"`)
	assert.True(t, first > 0 && first < second && second < entry, got)
	assert.True(t, strings.Index(got, "</div>") < first)
}
