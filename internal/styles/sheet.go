// Package styles collects CSS-in-JS rules used while rendering a page so the
// critical CSS can be inlined into the server document.
package styles

import (
	"context"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"sync"
)

// ClassPrefix starts every generated class name.
const ClassPrefix = "css-"

type Strategy int

const (
	StrategyDefault Strategy = iota
	StrategyEmotion
	StrategyMaterialUI
)

func (s Strategy) String() string {
	switch s {
	case StrategyEmotion:
		return "emotion"
	case StrategyMaterialUI:
		return "material-ui"
	default:
		return "default"
	}
}

// Tag is the value written to the document's data-ssr-id attribute.
// The default strategy carries no tag.
func (s Strategy) Tag() string {
	if s == StrategyDefault {
		return ""
	}
	return s.String()
}

func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return StrategyDefault, nil
	case "emotion":
		return StrategyEmotion, nil
	case "material-ui", "materialui", "mui":
		return StrategyMaterialUI, nil
	default:
		return StrategyDefault, fmt.Errorf("unknown style strategy %q", s)
	}
}

type Rule struct {
	ID           string
	Declarations string
}

func (r Rule) String() string {
	return "." + r.ID + "{" + r.Declarations + "}"
}

// Sheet is the per-render set of rules, kept in first-use order.
type Sheet struct {
	mu    sync.Mutex
	rules []Rule
	index map[string]int
}

func NewSheet() *Sheet {
	return &Sheet{index: make(map[string]int)}
}

// RuleID derives the class name for a declaration block.
func RuleID(declarations string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.TrimSpace(declarations)))
	return ClassPrefix + strconv.FormatUint(uint64(h.Sum32()), 36)
}

// Insert registers declarations and returns the generated class name.
func (s *Sheet) Insert(declarations string) string {
	declarations = strings.TrimSpace(declarations)
	id := RuleID(declarations)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[id]; !ok {
		s.index[id] = len(s.rules)
		s.rules = append(s.rules, Rule{ID: id, Declarations: declarations})
	}
	return id
}

func (s *Sheet) Rules() []Rule {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

func (s *Sheet) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.index[id]
	return ok
}

func (s *Sheet) String() string {
	var b strings.Builder
	for _, r := range s.Rules() {
		b.WriteString(r.String())
	}
	return b.String()
}

type sheetKey struct{}

func WithSheet(ctx context.Context, s *Sheet) context.Context {
	return context.WithValue(ctx, sheetKey{}, s)
}

func FromContext(ctx context.Context) *Sheet {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(sheetKey{}).(*Sheet)
	return s
}

// Use registers declarations on the sheet carried by ctx and returns the
// class name. Without a sheet the class name is still returned.
func Use(ctx context.Context, declarations string) string {
	if s := FromContext(ctx); s != nil {
		return s.Insert(declarations)
	}
	return RuleID(declarations)
}
