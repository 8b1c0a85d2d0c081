// Package settings provides the settings view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/codeg-cli/internal/core/domain"
	"github.com/custodia-labs/codeg-cli/internal/core/ports/driving"
)

// Row describes one editable setting.
type Row struct {
	Key   string
	Label string
	value func(s *domain.AppSettings) string
}

// Rows lists the settings shown by the view, in display order.
func Rows() []Row {
	return []Row{
		{Key: "api.base_url", Label: "Service address", value: func(s *domain.AppSettings) string {
			return s.API.BaseURL
		}},
		{Key: "api.timeout_seconds", Label: "Request timeout (s)", value: func(s *domain.AppSettings) string {
			return strconv.Itoa(int(s.API.Timeout.Seconds()))
		}},
		{Key: "api.deep_rate_per_second", Label: "Deep analyses per second", value: func(s *domain.AppSettings) string {
			return strconv.FormatFloat(s.API.DeepRatePerSecond, 'g', -1, 64)
		}},
		{Key: "storage.backend", Label: "Profile storage", value: func(s *domain.AppSettings) string {
			return s.Storage.Backend.String()
		}},
		{Key: "analyze.region", Label: "Default region", value: func(s *domain.AppSettings) string {
			return s.Analyze.Region
		}},
	}
}

// View is the settings view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings *domain.AppSettings
	err      error
	warning  error
	notice   string

	rows     []Row
	selected int
	editing  bool
	field    *input.Field

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:          s,
		settingsService: settingsService,
		rows:            Rows(),
		field:           input.NewField(s, "Value", ""),
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	v.editing = false
	v.notice = ""
	return v.loadSettings()
}

// loadSettings returns a command that loads current settings.
func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: errors.New("settings service not available")}
		}
		settings, err := v.settingsService.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.settings = msg.Settings
		v.err = nil
		v.warning = v.settingsService.Validate()
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			v.notice = ""
			return v, nil
		}
		v.err = nil
		v.notice = "Saved."
		return v, v.loadSettings()

	case tea.KeyMsg:
		if v.editing {
			return v.handleEditKey(msg)
		}
		return v.handleListKey(msg)
	}

	if v.editing {
		var cmd tea.Cmd
		v.field, cmd = v.field.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleListKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.rows)-1 {
			v.selected++
		}
	case "enter":
		if v.settings == nil {
			return v, nil
		}
		v.editing = true
		v.notice = ""
		v.field.SetValue(v.rows[v.selected].value(v.settings))
		return v, v.field.Focus()
	case "u":
		key := v.rows[v.selected].Key
		return v, v.save(func() error { return v.settingsService.Unset(key) })
	}
	return v, nil
}

func (v *View) handleEditKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.stopEditing()
		return v, nil
	case "enter":
		key, value := v.rows[v.selected].Key, v.field.Value()
		v.stopEditing()
		return v, v.save(func() error { return v.settingsService.Set(key, value) })
	}

	var cmd tea.Cmd
	v.field, cmd = v.field.Update(msg)
	return v, cmd
}

func (v *View) stopEditing() {
	v.editing = false
	v.field.Blur()
	v.field.Reset()
}

func (v *View) save(apply func() error) tea.Cmd {
	if v.settingsService == nil {
		return nil
	}
	return func() tea.Msg {
		return messages.SettingsSaved{Err: apply()}
	}
}

// View renders the settings view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.settings == nil {
		if v.err != nil {
			b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %v", v.err)))
		} else {
			b.WriteString(v.styles.Muted.Render("Loading settings..."))
		}
		return b.String()
	}

	for i, row := range v.rows {
		line := fmt.Sprintf("%-26s %s", row.Label, row.value(v.settings))
		if i == v.selected {
			b.WriteString("> " + v.styles.Selected.Render(line))
		} else {
			b.WriteString("  " + v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if v.editing {
		b.WriteString(v.styles.Muted.Render(v.rows[v.selected].Key))
		b.WriteString("\n")
		b.WriteString(v.field.View())
		b.WriteString("\n\n")
	}

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %v", v.err)))
		b.WriteString("\n")
	case v.notice != "":
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n")
	}
	if v.warning != nil {
		b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Warning: %v", v.warning)))
		b.WriteString("\n")
	}
	if v.settings.Storage.Backend.IsValid() {
		b.WriteString(v.styles.Muted.Render("Storage: " + v.settings.Storage.Backend.Description()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.editing {
		b.WriteString(v.styles.Help.Render("[Enter] Save  [Esc] Cancel"))
	} else {
		b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Edit  [u] Restore default  [Esc] Back"))
	}
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.field.SetWidth(width)
}

// Settings returns the loaded settings.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}

// Selected returns the selected row index.
func (v *View) Selected() int {
	return v.selected
}

// Editing reports whether a value is being edited.
func (v *View) Editing() bool {
	return v.editing
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Notice returns the last confirmation message.
func (v *View) Notice() string {
	return v.notice
}
