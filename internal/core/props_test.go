package core

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
)

func TestPropsRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		props any
	}{
		{"strings", map[string]any{"name": "World", "quote": `he said "</script>" & left`}},
		{"numbers", map[string]any{"int": float64(42), "float": 3.5, "neg": float64(-1)}},
		{"nested objects", map[string]any{"user": map[string]any{"name": "a", "address": map[string]any{"city": "b"}}}},
		{"arrays", map[string]any{"list": []any{"a", float64(1), map[string]any{"k": "v"}, []any{true, nil}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serialized, err := SerializeProps("p", tt.props)
			if err != nil {
				t.Fatalf("SerializeProps() error = %v", err)
			}

			page, err := Assemble("<div></div>", nil, "p", serialized, "", "/p.js")
			if err != nil {
				t.Fatalf("Assemble() error = %v", err)
			}

			doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
			if err != nil {
				t.Fatalf("parse document: %v", err)
			}
			attr, ok := doc.Find("#" + ScriptID).Attr("data-props")
			if !ok {
				t.Fatal("hydration script has no data-props")
			}

			var got any
			if err := ParseProps(attr, &got); err != nil {
				t.Fatalf("ParseProps() error = %v", err)
			}
			if diff := cmp.Diff(tt.props, got); diff != "" {
				t.Errorf("props mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSerializePropsNil(t *testing.T) {
	for _, props := range []any{nil, map[string]any(nil)} {
		got, err := SerializeProps("p", props)
		if err != nil {
			t.Fatalf("SerializeProps(%v) error = %v", props, err)
		}
		if got != "{}" {
			t.Errorf("SerializeProps(%v) = %q, want {}", props, got)
		}
	}
}

func TestSerializePropsErrors(t *testing.T) {
	tests := []struct {
		name  string
		props any
	}{
		{"function", map[string]any{"fn": func() {}}},
		{"channel", map[string]any{"ch": make(chan int)}},
		{"nan", map[string]any{"n": math.NaN()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SerializeProps("home", tt.props)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrPropsSerialization) {
				t.Errorf("error %v is not ErrPropsSerialization", err)
			}
			var perr *PropsSerializationError
			if !errors.As(err, &perr) {
				t.Fatalf("error %T is not *PropsSerializationError", err)
			}
			if perr.PageID != "home" {
				t.Errorf("PageID = %q, want home", perr.PageID)
			}
		})
	}
}
