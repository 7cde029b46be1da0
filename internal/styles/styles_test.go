package styles

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{"", StrategyDefault, false},
		{"default", StrategyDefault, false},
		{"emotion", StrategyEmotion, false},
		{"Material-UI", StrategyMaterialUI, false},
		{"mui", StrategyMaterialUI, false},
		{"styled", StrategyDefault, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStrategy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStrategyTag(t *testing.T) {
	assert.Equal(t, "", StrategyDefault.Tag())
	assert.Equal(t, "emotion", StrategyEmotion.Tag())
	assert.Equal(t, "material-ui", StrategyMaterialUI.Tag())
}

func TestSheetInsertDeduplicates(t *testing.T) {
	s := NewSheet()
	a := s.Insert("color: red;")
	b := s.Insert("  color: red;  ")
	c := s.Insert("color: blue;")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, s.Rules(), 2)
	assert.Equal(t, "."+a+"{color: red;}."+c+"{color: blue;}", s.String())
	assert.True(t, s.Has(a))
	assert.False(t, s.Has("css-missing"))
}

func TestUseWithoutSheet(t *testing.T) {
	assert.Equal(t, RuleID("margin: 0;"), Use(context.Background(), "margin: 0;"))
}

func TestCollectAndRenderIsolatesCalls(t *testing.T) {
	render := func(ctx context.Context, decl string) (string, error) {
		return `<div class="` + Use(ctx, decl) + `"></div>`, nil
	}

	first, err := CollectAndRender(context.Background(), "color: red;", render)
	require.NoError(t, err)
	second, err := CollectAndRender(context.Background(), "color: blue;", render)
	require.NoError(t, err)

	assert.Contains(t, first.CSS, "color: red;")
	assert.NotContains(t, first.CSS, "color: blue;")
	assert.Contains(t, second.CSS, "color: blue;")
	assert.NotContains(t, second.CSS, "color: red;")
	assert.NotSame(t, first.Sheet, second.Sheet)
}

func TestCollectAndRenderPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	_, err := CollectAndRender(context.Background(), 1, func(context.Context, int) (string, error) {
		return "", boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestExtractCritical(t *testing.T) {
	s := NewSheet()
	used := s.Insert("color: red;")
	unused := s.Insert("color: green;")
	also := s.Insert("padding: 4px;")

	markup := `<div class="wrapper ` + also + `"><span class="` + used + `">x</span></div>`
	crit, err := ExtractCritical(markup, s)
	require.NoError(t, err)

	assert.Equal(t, []string{used, also}, crit.IDs)
	assert.Equal(t, "."+used+"{color: red;}."+also+"{padding: 4px;}", crit.CSS)
	assert.NotContains(t, crit.CSS, unused)
}

func TestExtractCriticalNilSheet(t *testing.T) {
	crit, err := ExtractCritical("<div></div>", nil)
	require.NoError(t, err)
	assert.Empty(t, crit.IDs)
	assert.Equal(t, "", crit.CSS)
}
