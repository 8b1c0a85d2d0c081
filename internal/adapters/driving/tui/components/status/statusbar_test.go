package status

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, HintsShort, bar.Hints())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.ResultCount())
	assert.Equal(t, 80, bar.Width())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestStatusBar_InitAndUpdate(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.Nil(t, bar.Init())

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestStatusBar_Setters(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetState(StateAnalyzing)
	bar.SetHints(HintsResults)
	bar.SetMessage("Analysis complete: 2 matching notices.")
	bar.SetResultCount(2)
	bar.SetLoading(1)
	bar.SetWidth(120)

	assert.Equal(t, StateAnalyzing, bar.State())
	assert.Equal(t, HintsResults, bar.Hints())
	assert.Equal(t, "Analysis complete: 2 matching notices.", bar.Message())
	assert.Equal(t, 2, bar.ResultCount())
	assert.Equal(t, 1, bar.Loading())
	assert.Equal(t, 120, bar.Width())
}

func TestStatusBar_View(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*Bar)
		contains []string
	}{
		{
			name:     "ready",
			setup:    func(*Bar) {},
			contains: []string{"Ready", "quit"},
		},
		{
			name:     "analyzing",
			setup:    func(b *Bar) { b.SetState(StateAnalyzing) },
			contains: []string{"Analyzing notices"},
		},
		{
			name: "error with message",
			setup: func(b *Bar) {
				b.SetState(StateError)
				b.SetMessage("service unreachable")
			},
			contains: []string{"Error: service unreachable"},
		},
		{
			name:     "error without message",
			setup:    func(b *Bar) { b.SetState(StateError) },
			contains: []string{"Error"},
		},
		{
			name: "results message",
			setup: func(b *Bar) {
				b.SetState(StateResults)
				b.SetMessage("Analysis complete: 3 matching notices.")
				b.SetHints(HintsResults)
			},
			contains: []string{"Analysis complete: 3 matching notices.", "details", "summary"},
		},
		{
			name: "results count",
			setup: func(b *Bar) {
				b.SetState(StateResults)
				b.SetResultCount(4)
			},
			contains: []string{"4 results"},
		},
		{
			name: "deep analyses in flight",
			setup: func(b *Bar) {
				b.SetState(StateResults)
				b.SetLoading(2)
			},
			contains: []string{"2 in deep analysis"},
		},
		{
			name:     "detail hints",
			setup:    func(b *Bar) { b.SetHints(HintsDetail) },
			contains: []string{"retry"},
		},
		{
			name:     "filter hints",
			setup:    func(b *Bar) { b.SetHints(HintsFilters) },
			contains: []string{"next field"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(200)
			tt.setup(bar)

			view := bar.View()
			for _, want := range tt.contains {
				assert.Contains(t, view, want)
			}
		})
	}
}

func TestStatusBar_NarrowWidth(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(5)

	assert.NotEmpty(t, bar.View())
}

func TestStatusBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("boom")
	bar.SetResultCount(3)
	bar.SetLoading(1)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.ResultCount())
	assert.Equal(t, 0, bar.Loading())
}
