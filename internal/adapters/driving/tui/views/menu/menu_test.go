package menu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/tui/messages"
)

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewView(t *testing.T) {
	view := NewView(nil)

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
	assert.Equal(t, 0, view.Selected())
	assert.Nil(t, view.Init())
}

func TestView_Items(t *testing.T) {
	view := NewView(nil)

	require.Len(t, view.items, 5)
	assert.Equal(t, messages.ViewResults, view.items[0].View)
	assert.Equal(t, messages.ViewProfile, view.items[1].View)
	assert.Equal(t, messages.ViewSettings, view.items[2].View)
	assert.Equal(t, messages.ViewHelp, view.items[3].View)
	assert.True(t, view.items[4].Quit)
}

func TestView_Update_WindowSize(t *testing.T) {
	view := NewView(nil)

	view, cmd := view.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	assert.Nil(t, cmd)
	assert.True(t, view.ready)
	assert.Equal(t, 100, view.width)
}

func TestView_Update_Navigation(t *testing.T) {
	view := NewView(nil)

	view, _ = view.Update(keyRune('k'))
	assert.Equal(t, 0, view.Selected(), "stays at top")

	view, _ = view.Update(keyRune('j'))
	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, view.Selected())

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, view.Selected())

	for i := 0; i < 10; i++ {
		view, _ = view.Update(keyRune('j'))
	}
	assert.Equal(t, 4, view.Selected(), "stays at bottom")
}

func TestView_Update_EnterChangesView(t *testing.T) {
	tests := []struct {
		index int
		want  messages.ViewType
	}{
		{0, messages.ViewResults},
		{1, messages.ViewProfile},
		{2, messages.ViewSettings},
		{3, messages.ViewHelp},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			view := NewView(nil)
			view.selected = tt.index

			_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

			require.NotNil(t, cmd)
			changed, ok := cmd().(messages.ViewChanged)
			require.True(t, ok)
			assert.Equal(t, tt.want, changed.View)
		})
	}
}

func TestView_Update_EnterOnQuit(t *testing.T) {
	view := NewView(nil)
	view.selected = 4

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView_Update_Q(t *testing.T) {
	view := NewView(nil)

	_, cmd := view.Update(keyRune('q'))

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView_View_NotReady(t *testing.T) {
	view := NewView(nil)

	assert.Equal(t, "Initialising...", view.View())
}

func TestView_View(t *testing.T) {
	view := NewView(nil)
	view.SetDimensions(80, 24)

	output := view.View()

	assert.Contains(t, output, "Code-G")
	assert.Contains(t, output, "> Analyze")
	assert.Contains(t, output, "Company Profile")
	assert.Contains(t, output, "Settings")
	assert.Contains(t, output, "Quit")
	assert.Contains(t, output, "[j/k] Navigate")
}
