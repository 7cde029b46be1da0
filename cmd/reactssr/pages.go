package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/3-lines-studio/reactssr"
)

type demoPage struct {
	pattern   string
	component reactssr.Component
	opts      []reactssr.PageOption
}

// Built-in pages served by `serve` and available to `render`.
var demoPages = map[string]demoPage{
	"home": {
		pattern:   "/",
		component: homePage,
		opts: []reactssr.PageOption{
			reactssr.WithLoader(func(r *http.Request) (map[string]any, error) {
				name := r.URL.Query().Get("name")
				if name == "" {
					name = "world"
				}
				return map[string]any{"name": name}, nil
			}),
			reactssr.WithHead(reactssr.MetaTag("name", "viewport", "content", "width=device-width, initial-scale=1")),
		},
	},
	"about": {
		pattern:   "/about",
		component: aboutPage,
	},
	"account": {
		pattern:   "/account",
		component: homePage,
		opts: []reactssr.PageOption{
			reactssr.WithLoader(func(r *http.Request) (map[string]any, error) {
				if r.Header.Get("Authorization") == "" {
					return nil, loginRedirect{}
				}
				return map[string]any{"name": "member"}, nil
			}),
			reactssr.WithoutCache(),
		},
	},
}

func demoRoutes() []reactssr.Route {
	routes := make([]reactssr.Route, 0, len(demoPages))
	for _, id := range []string{"home", "about", "account"} {
		p := demoPages[id]
		routes = append(routes, reactssr.Page(p.pattern, id, p.component, p.opts...))
	}
	return routes
}

type loginRedirect struct{}

func (loginRedirect) Error() string           { return "login required" }
func (loginRedirect) RedirectURL() string     { return "/?name=guest" }
func (loginRedirect) RedirectStatusCode() int { return http.StatusSeeOther }

func homePage(ctx context.Context, props map[string]any) *reactssr.Node {
	name, _ := props["name"].(string)

	return reactssr.El("main", reactssr.A("class", reactssr.CSS(ctx, "max-width:40rem;margin:0 auto")),
		reactssr.Head(
			reactssr.Title("Home"),
			reactssr.Meta("name", "description", "content", "Server rendered home page"),
		),
		reactssr.El("h1", reactssr.A("class", reactssr.CSS(ctx, "font-size:2rem")),
			reactssr.Text(fmt.Sprintf("Hello, %s", name)),
		),
		reactssr.Comp(nav),
	)
}

func aboutPage(ctx context.Context, props map[string]any) *reactssr.Node {
	return reactssr.Fragment(
		reactssr.Head(reactssr.Title("About")),
		reactssr.El("section", nil,
			reactssr.El("h1", nil, reactssr.Text("About")),
			reactssr.El("p", nil, reactssr.Text("Rendered on the server, hydrated in the browser.")),
		),
		reactssr.Comp(nav),
	)
}

func nav(ctx context.Context) *reactssr.Node {
	link := reactssr.CSS(ctx, "margin-right:1rem")
	return reactssr.El("nav", nil,
		reactssr.El("a", reactssr.A("href", "/", "class", link), reactssr.Text("Home")),
		reactssr.El("a", reactssr.A("href", "/about", "class", link), reactssr.Text("About")),
	)
}
