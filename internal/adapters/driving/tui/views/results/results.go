// Package results provides the analysis view for the TUI: the filter
// inputs, the list of matching notices and the detail overlay.
package results

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/present"
	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/tui/viewstate"
	"github.com/custodia-labs/codeg-cli/internal/core/domain"
	"github.com/custodia-labs/codeg-cli/internal/core/ports/driving"
)

// Focus identifies the part of the view receiving key presses.
type Focus int

const (
	FocusRegion Focus = iota
	FocusKeywords
	FocusList
)

// View is the analysis view.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	keywords  *input.Field
	list      *list.ResultList
	statusbar *status.Bar

	profiles driving.ProfileService
	results  driving.ResultSetController
	settings driving.SettingsService
	ctx      context.Context

	regions       []string
	region        int
	regionApplied bool

	focus    Focus
	state    viewstate.ViewState
	snapshot driving.ResultSnapshot

	width  int
	height int
	ready  bool
}

// NewView creates a new analysis view. settings may be nil.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	profiles driving.ProfileService,
	results driving.ResultSetController,
	settings driving.SettingsService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:    s,
		keymap:    km,
		keywords:  input.NewField(s, "Keywords", "comma separated, optional"),
		list:      list.NewResultList(s),
		statusbar: status.NewBar(s, km),
		profiles:  profiles,
		results:   results,
		settings:  settings,
		ctx:       context.Background(),
		regions:   domain.Regions(),
	}
}

// WithContext sets the context for analysis jobs.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init shows the current result set. Results survive leaving the view.
func (v *View) Init() tea.Cmd {
	v.applyDefaultRegion()
	v.refresh()
	if len(v.snapshot.Results) > 0 {
		v.setFocus(FocusList)
	} else {
		v.setFocus(FocusRegion)
	}
	return nil
}

// applyDefaultRegion selects the configured region the first time the
// view opens.
func (v *View) applyDefaultRegion() {
	if v.regionApplied || v.settings == nil {
		return
	}
	v.regionApplied = true

	settings, err := v.settings.Get()
	if err != nil || settings.Analyze.Region == "" {
		return
	}
	for i, r := range v.regions {
		if r == settings.Analyze.Region {
			v.region = i
			return
		}
	}
	v.regions = append(v.regions, settings.Analyze.Region)
	v.region = len(v.regions) - 1
}

// Update handles messages for the analysis view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.AnalyzeCompleted:
		v.refresh()
		if msg.RequestID == v.snapshot.RequestID && msg.Err == nil && len(v.snapshot.Results) > 0 {
			v.setFocus(FocusList)
		}
		return v, nil

	case messages.DeepAnalyzeCompleted:
		v.refresh()
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	var cmd tea.Cmd
	if v.focus == FocusKeywords {
		v.keywords, cmd = v.keywords.Update(msg)
	}
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.state.DetailOpen() {
		return v.handleDetailKey(msg)
	}
	if v.focus == FocusList {
		return v.handleListKey(msg)
	}
	return v.handleFilterKey(msg)
}

func (v *View) handleFilterKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keyStr == "esc":
		if len(v.snapshot.Results) > 0 {
			v.setFocus(FocusList)
			return v, nil
		}
		return v, backToMenu
	case keymap.Matches(keyStr, v.keymap.NextField):
		return v, v.nextFocus()
	case keyStr == "enter":
		return v, v.analyze()
	}

	if v.focus == FocusRegion {
		switch {
		case keymap.Matches(keyStr, v.keymap.Left):
			v.region = (v.region - 1 + len(v.regions)) % len(v.regions)
		case keymap.Matches(keyStr, v.keymap.Right):
			v.region = (v.region + 1) % len(v.regions)
		case keymap.Matches(keyStr, v.keymap.Down):
			return v, v.nextFocus()
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.keywords, cmd = v.keywords.Update(msg)
	return v, cmd
}

func (v *View) handleListKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()
	selected := v.list.SelectedResult()

	switch {
	case keyStr == "esc":
		return v, backToMenu
	case keymap.Matches(keyStr, v.keymap.Up):
		v.list.MoveUp()
	case keymap.Matches(keyStr, v.keymap.Down):
		v.list.MoveDown()
	case keymap.Matches(keyStr, v.keymap.Expand):
		if selected != nil {
			v.state = v.state.ToggleExpand(selected.URL)
			v.list.SetExpanded(v.state.Expanded)
		}
	case keymap.Matches(keyStr, v.keymap.Detail):
		if selected != nil {
			return v, v.openDetail(selected.URL)
		}
	case keymap.Matches(keyStr, v.keymap.Analyze):
		return v, v.analyze()
	case keymap.Matches(keyStr, v.keymap.Filters), keymap.Matches(keyStr, v.keymap.NextField):
		return v, v.setFocus(FocusRegion)
	}
	return v, nil
}

func (v *View) handleDetailKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keyStr == "esc", keyStr == "q":
		v.state = v.state.CloseDetail()
		v.updateHints()
	case keymap.Matches(keyStr, v.keymap.Retry):
		if v.snapshot.StateOf(v.state.Detail).Phase == domain.EnrichmentFailed {
			return v, v.deepAnalyze(v.state.Detail)
		}
	}
	return v, nil
}

// analyze starts a bulk analysis with the stored profile and the current
// filters. A newer analysis supersedes one still in flight.
func (v *View) analyze() tea.Cmd {
	profile := v.profiles.Get(v.ctx)
	filters := v.Filters()

	job, err := v.results.BeginAnalyze(profile, filters)
	v.refresh()
	if err != nil {
		v.setFocus(FocusRegion)
		return nil
	}

	requestID := v.snapshot.RequestID
	ctx := v.ctx
	return func() tea.Msg {
		return messages.AnalyzeCompleted{RequestID: requestID, Err: job(ctx)}
	}
}

// openDetail shows the overlay for url and lazily starts its deep analysis.
func (v *View) openDetail(url string) tea.Cmd {
	var trigger bool
	v.state, trigger = v.state.OpenDetail(url, v.snapshot)
	v.updateHints()
	if !trigger {
		return nil
	}
	return v.deepAnalyze(url)
}

// deepAnalyze starts the deep analysis of url. The request keeps running
// when the overlay closes.
func (v *View) deepAnalyze(url string) tea.Cmd {
	job, ok := v.results.BeginDeepAnalyze(url)
	if !ok {
		return nil
	}
	v.refresh()

	ctx := v.ctx
	return func() tea.Msg {
		return messages.DeepAnalyzeCompleted{URL: url, Err: job(ctx)}
	}
}

// refresh re-reads the controller snapshot.
func (v *View) refresh() {
	v.snapshot = v.results.Snapshot()
	v.list.SetSnapshot(v.snapshot)
	v.state = v.state.Reconcile(v.snapshot)
	v.list.SetExpanded(v.state.Expanded)

	loading := 0
	for _, st := range v.snapshot.Enrichment {
		if st.Phase == domain.EnrichmentLoading {
			loading++
		}
	}
	v.statusbar.SetLoading(loading)
	v.statusbar.SetResultCount(len(v.snapshot.Results))
	v.statusbar.SetMessage(v.snapshot.Status)

	switch {
	case v.snapshot.Searching:
		v.statusbar.SetState(status.StateAnalyzing)
	case v.snapshot.Err != nil:
		v.statusbar.SetState(status.StateError)
	case v.snapshot.RequestID > 0:
		v.statusbar.SetState(status.StateResults)
	default:
		v.statusbar.SetState(status.StateReady)
	}
	v.updateHints()
}

func (v *View) nextFocus() tea.Cmd {
	next := v.focus + 1
	if next == FocusList && len(v.snapshot.Results) == 0 {
		next = FocusRegion
	}
	if next > FocusList {
		next = FocusRegion
	}
	return v.setFocus(next)
}

func (v *View) setFocus(f Focus) tea.Cmd {
	v.focus = f
	v.updateHints()
	if f == FocusKeywords {
		return v.keywords.Focus()
	}
	v.keywords.Blur()
	return nil
}

func (v *View) updateHints() {
	switch {
	case v.state.DetailOpen():
		v.statusbar.SetHints(status.HintsDetail)
	case v.focus == FocusList:
		v.statusbar.SetHints(status.HintsResults)
	default:
		v.statusbar.SetHints(status.HintsFilters)
	}
}

func backToMenu() tea.Msg {
	return messages.ViewChanged{View: messages.ViewMenu}
}

// Filters returns the filters the next analysis will use.
func (v *View) Filters() domain.AnalyzeFilters {
	return domain.AnalyzeFilters{
		Region:   v.regions[v.region],
		Keywords: ParseKeywords(v.keywords.Value()),
	}
}

// ParseKeywords splits comma separated input, dropping blanks and repeats.
func ParseKeywords(s string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" || seen[part] {
			continue
		}
		seen[part] = true
		out = append(out, part)
	}
	return out
}

// View renders the analysis view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("Analyze"), "", v.renderFilters(), "")

	if v.state.DetailOpen() {
		sections = append(sections, v.renderDetail())
	} else {
		if v.snapshot.Err != nil {
			sections = append(sections, v.styles.Error.Render(v.snapshot.Status), "")
		}
		if len(v.snapshot.Results) > 0 || v.snapshot.RequestID > 0 {
			sections = append(sections, v.list.View())
		} else {
			sections = append(sections, v.styles.Muted.Render("Choose a region, add keywords if you like, and press enter."))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	gap := v.height - lipgloss.Height(content) - 1
	if gap < 1 {
		gap = 1
	}
	return content + strings.Repeat("\n", gap) + v.statusbar.View()
}

func (v *View) renderFilters() string {
	region := fmt.Sprintf("Region: %s", v.regions[v.region])
	if v.focus == FocusRegion && !v.state.DetailOpen() {
		region = v.styles.Selected.Render(fmt.Sprintf("Region: ‹ %s ›", v.regions[v.region]))
	} else {
		region = v.styles.Normal.Render(region)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, region, "   ", v.keywords.View())
}

func (v *View) renderDetail() string {
	r, ok := v.snapshot.Find(v.state.Detail)
	if !ok {
		return ""
	}
	st := v.snapshot.StateOf(r.URL)
	width := v.width - 8
	if width < 30 {
		width = 30
	}
	wrap := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render(present.Line(r.Title)))
	b.WriteString("\n")
	meta := []string{}
	if agency := present.Line(r.Agency); agency != "" {
		meta = append(meta, agency)
	}
	if date := present.Line(r.Date); date != "" {
		meta = append(meta, date)
	}
	if len(meta) > 0 {
		b.WriteString(v.styles.Muted.Render(strings.Join(meta, " · ")))
		b.WriteString("\n")
	}
	b.WriteString(v.styles.Muted.Render(r.URL))
	b.WriteString("\n\n")

	band := domain.BandOf(r.GScore)
	b.WriteString(v.styles.Score(band).Render("G-Score " + present.Score(r.GScore)))
	b.WriteString(" " + present.BandLabel(band) + " fit")
	b.WriteString("\n\n")

	switch st.Phase {
	case domain.EnrichmentLoading:
		b.WriteString(v.styles.Warning.Render("Analyzing this notice against your profile..."))
		b.WriteString("\n\n")
	case domain.EnrichmentFailed:
		b.WriteString(v.styles.Error.Render("Analysis failed: " + st.Reason))
		b.WriteString("\n\n")
	}

	writeSection := func(label, text string) {
		if text == "" {
			return
		}
		b.WriteString(v.styles.Title.Render(label))
		b.WriteString("\n")
		b.WriteString(wrap.Render(text))
		b.WriteString("\n\n")
	}
	writeSection("Summary", present.Summary(r, st))
	writeSection("Eligibility", present.Text(r.Eligibility))
	writeSection("Reasoning", present.Text(r.Reasoning))

	help := "[esc] close"
	if st.Phase == domain.EnrichmentFailed {
		help = "[r] retry  " + help
	}
	b.WriteString(v.styles.Help.Render(help))

	return v.styles.Overlay.Render(b.String())
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.keywords.SetWidth(width / 2)
	v.statusbar.SetWidth(width)
	// Reserve space for the title, filters and status bar
	listHeight := height - 8
	if listHeight < 4 {
		listHeight = 4
	}
	v.list.SetDimensions(width, listHeight)
}

// Focus returns the focused part of the view.
func (v *View) Focus() Focus {
	return v.focus
}

// ViewState returns the expanded and detail state.
func (v *View) ViewState() viewstate.ViewState {
	return v.state
}

// Snapshot returns the result set as last read.
func (v *View) Snapshot() driving.ResultSnapshot {
	return v.snapshot
}

// Region returns the selected region.
func (v *View) Region() string {
	return v.regions[v.region]
}

// SetKeywords sets the keyword filter input.
func (v *View) SetKeywords(s string) {
	v.keywords.SetValue(s)
}

// SelectedIndex returns the index of the selected result.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}
