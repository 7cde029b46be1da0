// Package hydrate describes how the browser bundle takes over a server
// rendered page and generates the entry module that does it.
package hydrate

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/3-lines-studio/reactssr/internal/core"
	"github.com/3-lines-studio/reactssr/internal/markup"
	"github.com/3-lines-studio/reactssr/internal/styles"
)

// ServerStyleID is the style element material-ui removes after hydrating.
const ServerStyleID = "jss-server-side"

var ErrNoBootstrap = errors.New("document has no hydration script")

type Target int

const (
	TargetRoot Target = iota
	TargetDocument
)

func (t Target) String() string {
	if t == TargetDocument {
		return "document"
	}
	return "root"
}

type Plan struct {
	Target   Target
	Strategy styles.Strategy
	// CriticalIDs are activated before hydrating (emotion only).
	CriticalIDs []string
	// RemoveStyleID names a server style element dropped after hydrating.
	RemoveStyleID string
}

// Decide returns the plan the client entry follows for a page whose
// component rendered markup.
func Decide(fragment string, strategy styles.Strategy) (Plan, error) {
	plan := Plan{Target: TargetRoot, Strategy: strategy}
	if markup.HasDocument(fragment) {
		plan.Target = TargetDocument
	}

	switch strategy {
	case styles.StrategyEmotion:
		used, err := styles.ClassNames(fragment)
		if err != nil {
			return Plan{}, err
		}
		plan.CriticalIDs = make([]string, 0, len(used))
		for id := range used {
			plan.CriticalIDs = append(plan.CriticalIDs, id)
		}
		sort.Strings(plan.CriticalIDs)
	case styles.StrategyMaterialUI:
		plan.RemoveStyleID = ServerStyleID
	}
	return plan, nil
}

// Bootstrap holds the values an assembled document hands to the browser.
type Bootstrap struct {
	ScriptSrc   string
	Props       string
	Strategy    styles.Strategy
	CriticalIDs []string
}

// Inspect reads the hydration values from an assembled document the same
// way the client entry does.
func Inspect(document string) (Bootstrap, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return Bootstrap{}, fmt.Errorf("failed to parse document: %w", err)
	}

	script := doc.Find("script#" + core.ScriptID)
	if script.Length() == 0 {
		return Bootstrap{}, ErrNoBootstrap
	}

	var b Bootstrap
	b.ScriptSrc, _ = script.Attr("src")
	b.Props, _ = script.Attr("data-props")
	if b.Props == "" {
		b.Props = "{}"
	}

	ssrID, _ := doc.Find("body").Attr("data-ssr-id")
	b.Strategy, err = styles.ParseStrategy(ssrID)
	if err != nil {
		return Bootstrap{}, err
	}

	if ids, ok := doc.Find("style[data-emotion-css]").Attr("data-emotion-css"); ok {
		b.CriticalIDs = strings.Fields(ids)
	}
	return b, nil
}
