// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/tui/styles"
)

// State represents the current analysis state for display.
type State string

const (
	StateReady     State = "ready"
	StateAnalyzing State = "analyzing"
	StateError     State = "error"
	StateResults   State = "results"
)

// Hints selects which keybindings the bar advertises.
type Hints int

const (
	HintsShort Hints = iota
	HintsFilters
	HintsResults
	HintsDetail
)

// Bar displays analysis status and keybinding hints.
type Bar struct {
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	state       State
	hints       Hints
	message     string
	resultCount int
	loading     int
	width       int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		hints:  HintsShort,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	var left string
	switch s.state {
	case StateAnalyzing:
		left = s.styles.Muted.Render("Analyzing notices...")
	case StateError:
		if s.message != "" {
			left = s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		} else {
			left = s.styles.Error.Render("Error")
		}
	case StateResults:
		if s.message != "" {
			left = s.styles.Normal.Render(s.message)
		} else {
			left = s.styles.Normal.Render(fmt.Sprintf("%d results", s.resultCount))
		}
	default:
		left = s.styles.Muted.Render("Ready")
	}

	if s.loading > 0 {
		left += s.styles.Warning.Render(fmt.Sprintf("  (%d in deep analysis)", s.loading))
	}
	return left
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	var bindings []key.Binding
	switch s.hints {
	case HintsFilters:
		bindings = s.keymap.FiltersHelp()
	case HintsResults:
		bindings = s.keymap.ResultsHelp()
	case HintsDetail:
		bindings = s.keymap.DetailHelp()
	default:
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetHints selects the advertised keybindings.
func (s *Bar) SetHints(h Hints) {
	s.hints = h
}

// Hints returns the advertised keybinding set.
func (s *Bar) Hints() Hints {
	return s.hints
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetResultCount sets the result count.
func (s *Bar) SetResultCount(count int) {
	s.resultCount = count
}

// ResultCount returns the current result count.
func (s *Bar) ResultCount() int {
	return s.resultCount
}

// SetLoading sets the number of deep analyses in flight.
func (s *Bar) SetLoading(n int) {
	s.loading = n
}

// Loading returns the number of deep analyses in flight.
func (s *Bar) Loading() int {
	return s.loading
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.resultCount = 0
	s.loading = 0
}
