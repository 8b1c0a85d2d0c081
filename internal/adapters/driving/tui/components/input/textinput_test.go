package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/tui/styles"
)

func TestNewField(t *testing.T) {
	f := NewField(styles.DefaultStyles(), "Keywords", "comma separated")

	require.NotNil(t, f)
	assert.Equal(t, "Keywords", f.Label())
	assert.Equal(t, "", f.Value())
	assert.False(t, f.Focused(), "fields start unfocused")
}

func TestNewField_NilStyles(t *testing.T) {
	f := NewField(nil, "Year", "")

	require.NotNil(t, f)
	assert.NotNil(t, f.styles)
}

func TestField_Init(t *testing.T) {
	f := NewField(nil, "Year", "")

	assert.NotNil(t, f.Init())
}

func TestField_TypingRequiresFocus(t *testing.T) {
	f := NewField(nil, "Year", "")

	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2019")})
	assert.Equal(t, "", f.Value())

	f.Focus()
	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2019")})
	assert.Equal(t, "2019", f.Value())
}

func TestField_Backspace(t *testing.T) {
	f := NewField(nil, "Year", "")
	f.Focus()
	f.SetValue("2019")

	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyBackspace})

	assert.Equal(t, "201", f.Value())
}

func TestField_FocusAndBlur(t *testing.T) {
	f := NewField(nil, "Year", "")

	f.Focus()
	assert.True(t, f.Focused())

	f.Blur()
	assert.False(t, f.Focused())
}

func TestField_View(t *testing.T) {
	f := NewField(nil, "Keywords", "")
	f.SetValue("AI")

	view := f.View()

	assert.Contains(t, view, "Keywords:")
	assert.Contains(t, view, "AI")
}

func TestField_SetWidth(t *testing.T) {
	f := NewField(nil, "Year", "")

	f.SetWidth(80)
	assert.Equal(t, 80, f.Width())
	assert.Equal(t, 68, f.textinput.Width)

	f.SetWidth(10)
	assert.Equal(t, 20, f.textinput.Width, "input keeps a minimum width")
}

func TestField_Reset(t *testing.T) {
	f := NewField(nil, "Year", "")
	f.SetValue("2019")

	f.Reset()

	assert.Equal(t, "", f.Value())
}
