package styles

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type Result struct {
	HTML  string
	CSS   string
	Sheet *Sheet
}

// CollectAndRender renders tree with a fresh sheet attached to ctx and returns
// the markup together with every rule used during the render.
func CollectAndRender[T any](ctx context.Context, tree T, render func(context.Context, T) (string, error)) (Result, error) {
	sheet := NewSheet()
	html, err := render(WithSheet(ctx, sheet), tree)
	if err != nil {
		return Result{}, err
	}
	return Result{HTML: html, CSS: sheet.String(), Sheet: sheet}, nil
}

type Critical struct {
	IDs []string
	CSS string
}

// ExtractCritical keeps the rules of sheet whose class names appear in markup.
// IDs follow the sheet's rule order.
func ExtractCritical(markup string, sheet *Sheet) (Critical, error) {
	if sheet == nil {
		return Critical{IDs: []string{}}, nil
	}

	used, err := ClassNames(markup)
	if err != nil {
		return Critical{}, err
	}

	crit := Critical{IDs: []string{}}
	var b strings.Builder
	for _, r := range sheet.Rules() {
		if !used[r.ID] {
			continue
		}
		crit.IDs = append(crit.IDs, r.ID)
		b.WriteString(r.String())
	}
	crit.CSS = b.String()
	return crit, nil
}

// ClassNames returns the generated class names referenced by markup.
func ClassNames(markup string) (map[string]bool, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup for class names: %w", err)
	}

	used := make(map[string]bool)
	doc.Find("[class]").Each(func(_ int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		for _, name := range strings.Fields(class) {
			if strings.HasPrefix(name, ClassPrefix) {
				used[name] = true
			}
		}
	})
	return used, nil
}
