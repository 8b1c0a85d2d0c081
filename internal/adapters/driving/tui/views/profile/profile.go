// Package profile provides the company profile editor view for the TUI.
// Every change is saved as soon as it is confirmed.
package profile

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/codeg-cli/internal/core/domain"
	"github.com/custodia-labs/codeg-cli/internal/core/ports/driving"
)

// Watcher reports external changes to the stored profile.
type Watcher interface {
	Watch(ctx context.Context) (<-chan struct{}, error)
}

type rowKind int

const (
	rowChoice rowKind = iota
	rowText
	rowKeywords
)

type choice struct {
	label string
	value string
}

// row is one editable profile field.
type row struct {
	label   string
	kind    rowKind
	choices []choice
	field   *input.Field
	edit    func(value string) driving.ProfileEdit
}

// Row indexes.
const (
	RowIndustry = iota
	RowYear
	RowRevenue
	RowEmployees
	RowFocus
	RowKeywords
)

// View is the profile editor.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	service driving.ProfileService
	watcher Watcher
	ctx     context.Context

	rows    []*row
	focus   int
	dirty   bool
	profile domain.CompanyProfile
	loaded  bool
	changes <-chan struct{}

	notice string
	err    error

	width  int
	height int
	ready  bool
}

// NewView creates a new profile editor. watcher may be nil.
func NewView(s *styles.Styles, km *keymap.KeyMap, service driving.ProfileService, watcher Watcher) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	industries := []choice{{label: "(not set)"}}
	for _, i := range domain.AllIndustries() {
		industries = append(industries, choice{label: i.String(), value: i.String()})
	}

	v := &View{
		styles:  s,
		keymap:  km,
		service: service,
		watcher: watcher,
		ctx:     context.Background(),
		profile: domain.DefaultCompanyProfile(),
		rows: []*row{
			{label: "Industry", kind: rowChoice, choices: industries, edit: driving.WithIndustry},
			{label: "Year established", kind: rowText, field: input.NewField(s, "Year established", "e.g. 2019"), edit: driving.WithYearEstablished},
			{label: "Revenue (KRW)", kind: rowText, field: input.NewField(s, "Revenue (KRW)", "e.g. 1200000000"), edit: driving.WithRevenueKRW},
			{label: "Employees", kind: rowText, field: input.NewField(s, "Employees", "e.g. 12"), edit: driving.WithEmployees},
			{
				label: "Focus",
				kind:  rowChoice,
				choices: []choice{
					{label: "(not set)"},
					{label: domain.FocusRD.Label(), value: domain.FocusRD.String()},
					{label: domain.FocusCommercialization.Label(), value: domain.FocusCommercialization.String()},
				},
				edit: driving.WithFocus,
			},
			{label: "Keywords", kind: rowKeywords, field: input.NewField(s, "Add keyword", "type and press enter"), edit: driving.WithKeywordAdded},
		},
	}
	return v
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the stored profile.
func (v *View) Init() tea.Cmd {
	return v.load()
}

// Watch starts listening for external profile changes. It returns nil
// when no watcher is configured or watching has already started.
func (v *View) Watch() tea.Cmd {
	if v.watcher == nil || v.changes != nil {
		return nil
	}
	ch, err := v.watcher.Watch(v.ctx)
	if err != nil {
		return func() tea.Msg { return messages.ErrorOccurred{Err: fmt.Errorf("watching profile: %w", err)} }
	}
	v.changes = ch
	return waitForChange(ch)
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return messages.ProfileChanged{}
	}
}

func (v *View) load() tea.Cmd {
	return func() tea.Msg {
		return messages.ProfileLoaded{Profile: v.service.Get(v.ctx)}
	}
}

func (v *View) save(edit driving.ProfileEdit) tea.Cmd {
	return func() tea.Msg {
		p, err := v.service.Update(v.ctx, edit)
		return messages.ProfileSaved{Profile: p, Err: err}
	}
}

func (v *View) reset() tea.Cmd {
	return func() tea.Msg {
		p, err := v.service.Reset(v.ctx)
		return messages.ProfileSaved{Profile: p, Err: err}
	}
}

// Update handles messages for the profile editor.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.ProfileLoaded:
		v.setProfile(msg.Profile)
		return v, nil

	case messages.ProfileSaved:
		if msg.Err != nil {
			v.err = msg.Err
			v.notice = ""
			return v, nil
		}
		v.err = nil
		v.notice = "Saved."
		v.setProfile(msg.Profile)
		return v, nil

	case messages.ProfileChanged:
		v.notice = "Profile changed on disk; reloaded."
		var wait tea.Cmd
		if v.changes != nil {
			wait = waitForChange(v.changes)
		}
		return v, tea.Batch(v.load(), wait)

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	current := v.rows[v.focus]

	switch msg.String() {
	case "esc":
		commit := v.commit()
		return v, tea.Batch(commit, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		})
	case "tab", "down":
		return v, v.moveFocus(1)
	case "shift+tab", "up":
		return v, v.moveFocus(-1)
	case "ctrl+r":
		v.dirty = false
		return v, v.reset()
	}

	switch current.kind {
	case rowChoice:
		switch {
		case keymap.Matches(msg.String(), v.keymap.Left):
			return v, v.cycle(current, -1)
		case keymap.Matches(msg.String(), v.keymap.Right), msg.String() == "enter":
			return v, v.cycle(current, 1)
		}
		return v, nil

	case rowText:
		if msg.String() == "enter" {
			return v, v.commit()
		}

	case rowKeywords:
		switch msg.String() {
		case "enter":
			tag := strings.TrimSpace(current.field.Value())
			current.field.Reset()
			v.dirty = false
			if tag == "" {
				return v, nil
			}
			return v, v.save(driving.WithKeywordAdded(tag))
		case "backspace":
			if current.field.Value() == "" && len(v.profile.Keywords) > 0 {
				last := v.profile.Keywords[len(v.profile.Keywords)-1]
				return v, v.save(driving.WithKeywordRemoved(last))
			}
		}
	}

	var cmd tea.Cmd
	current.field, cmd = current.field.Update(msg)
	v.dirty = true
	return v, cmd
}

// commit saves the focused text field when it has unsaved input.
func (v *View) commit() tea.Cmd {
	current := v.rows[v.focus]
	if current.kind != rowText || !v.dirty {
		return nil
	}
	v.dirty = false
	return v.save(current.edit(current.field.Value()))
}

func (v *View) moveFocus(delta int) tea.Cmd {
	commit := v.commit()
	if f := v.rows[v.focus].field; f != nil {
		f.Blur()
	}
	v.dirty = false

	v.focus = (v.focus + delta + len(v.rows)) % len(v.rows)

	var focus tea.Cmd
	if f := v.rows[v.focus].field; f != nil {
		focus = f.Focus()
	}
	return tea.Batch(commit, focus)
}

func (v *View) cycle(r *row, delta int) tea.Cmd {
	idx := (v.choiceIndex(r) + delta + len(r.choices)) % len(r.choices)
	return v.save(r.edit(r.choices[idx].value))
}

func (v *View) choiceIndex(r *row) int {
	value := v.valueOf(r)
	for i, c := range r.choices {
		if c.value == value {
			return i
		}
	}
	return 0
}

// valueOf returns the stored value of a row as text.
func (v *View) valueOf(r *row) string {
	switch r {
	case v.rows[RowIndustry]:
		return v.profile.Industry.String()
	case v.rows[RowYear]:
		return v.profile.YearEstablished.String()
	case v.rows[RowRevenue]:
		return v.profile.RevenueKRW.String()
	case v.rows[RowEmployees]:
		return v.profile.Employees.String()
	case v.rows[RowFocus]:
		return v.profile.Focus.String()
	default:
		return ""
	}
}

// setProfile shows p, leaving input the user is still typing alone.
func (v *View) setProfile(p domain.CompanyProfile) {
	v.profile = p
	v.loaded = true
	for i, r := range v.rows {
		if r.kind != rowText {
			continue
		}
		if i == v.focus && v.dirty {
			continue
		}
		r.field.SetValue(v.valueOf(r))
	}
}

// View renders the profile editor.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Company Profile"))
	b.WriteString("\n\n")

	if !v.loaded {
		b.WriteString(v.styles.Muted.Render("Loading profile..."))
		return b.String()
	}

	for i, r := range v.rows {
		indicator := "  "
		if i == v.focus {
			indicator = "> "
		}
		b.WriteString(indicator)

		switch r.kind {
		case rowChoice:
			label := r.choices[v.choiceIndex(r)].label
			line := fmt.Sprintf("%-18s %s", r.label+":", label)
			if i == v.focus {
				line = fmt.Sprintf("%-18s ‹ %s ›", r.label+":", label)
				b.WriteString(v.styles.Selected.Render(line))
			} else {
				b.WriteString(v.styles.Normal.Render(line))
			}
		case rowText, rowKeywords:
			b.WriteString(r.field.View())
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderKeywords())
	b.WriteString("\n\n")

	if v.profile.Industry == domain.IndustryUnset {
		b.WriteString(v.styles.Warning.Render("Choose an industry to run an analysis."))
		b.WriteString("\n")
	}
	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n")
	} else if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render(
		"[tab/↑↓] field  [←/→] change  [enter] save  [backspace] remove last keyword  [ctrl+r] clear  [esc] back",
	))
	return b.String()
}

func (v *View) renderKeywords() string {
	if len(v.profile.Keywords) == 0 {
		return v.styles.Muted.Render("  Keywords: (none)")
	}
	chips := make([]string, 0, len(v.profile.Keywords))
	for _, k := range v.profile.Keywords {
		chips = append(chips, "["+k+"]")
	}
	return "  Keywords: " + v.styles.Subtitle.Render(strings.Join(chips, " "))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	for _, r := range v.rows {
		if r.field != nil {
			r.field.SetWidth(width / 2)
		}
	}
}

// Reset returns focus to the first field and clears messages.
func (v *View) Reset() {
	if f := v.rows[v.focus].field; f != nil {
		f.Blur()
	}
	v.focus = RowIndustry
	v.dirty = false
	v.notice = ""
	v.err = nil
	v.rows[RowKeywords].field.Reset()
}

// Profile returns the profile as last loaded or saved.
func (v *View) Profile() domain.CompanyProfile {
	return v.profile
}

// Focus returns the index of the focused row.
func (v *View) Focus() int {
	return v.focus
}

// Err returns the last save error.
func (v *View) Err() error {
	return v.err
}

// Notice returns the last informational message.
func (v *View) Notice() string {
	return v.notice
}
