// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/present"
	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/codeg-cli/internal/core/domain"
	"github.com/custodia-labs/codeg-cli/internal/core/ports/driving"
)

// linesPerCard is the height of a collapsed card.
const linesPerCard = 2

// ResultList displays analysis results as a navigable list of cards.
// Selection follows the result URL across snapshot updates.
type ResultList struct {
	results    []domain.AnalysisResult
	enrichment map[string]domain.EnrichmentState
	selected   int
	expanded   string
	styles     *styles.Styles
	width      int
	height     int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		return r.styles.Muted.Render("No results")
	}

	lines := make([]string, 0, len(r.results)*linesPerCard+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Notices (%d)", len(r.results))), "")

	start, end := r.visibleRange()
	for i := start; i < end; i++ {
		lines = append(lines, r.renderCard(i, &r.results[i]))
	}
	if end < len(r.results) {
		lines = append(lines, r.styles.Muted.Render(fmt.Sprintf("  … %d more", len(r.results)-end)))
	}

	return strings.Join(lines, "\n")
}

// visibleRange returns the window of cards that fits the height, keeping
// the selected card in view.
func (r *ResultList) visibleRange() (start, end int) {
	visible := (r.height - 4) / linesPerCard
	if r.expanded != "" {
		// room for the expanded summary
		visible -= 2
	}
	if visible < 1 {
		visible = 1
	}

	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end = start + visible
	if end > len(r.results) {
		end = len(r.results)
	}
	return start, end
}

func (r *ResultList) renderCard(index int, result *domain.AnalysisResult) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	badge := r.styles.Score(domain.BandOf(result.GScore)).Render(fmt.Sprintf("%3s", present.Score(result.GScore)))

	title := present.Line(result.Title)
	if title == "" {
		title = "(Untitled)"
	}
	maxTitle := r.width - 16
	if maxTitle < 10 {
		maxTitle = 10
	}
	title = present.Truncate(title, maxTitle)

	titleStyle := r.styles.Normal
	if index == r.selected {
		titleStyle = r.styles.Selected
	}
	titleLine := indicator + badge + " " + titleStyle.Render(title)

	meta := make([]string, 0, 3)
	if agency := present.Line(result.Agency); agency != "" {
		meta = append(meta, agency)
	}
	if date := present.Line(result.Date); date != "" {
		meta = append(meta, date)
	}
	meta = append(meta, r.phaseLabel(result.URL))
	metaLine := r.styles.Muted.Render("      " + strings.Join(meta, " · "))

	if result.URL != r.expanded {
		return titleLine + "\n" + metaLine
	}

	summaryWidth := r.width - 8
	if summaryWidth < 20 {
		summaryWidth = 20
	}
	summary := lipgloss.NewStyle().
		Width(summaryWidth).
		MarginLeft(6).
		Render(present.Summary(*result, r.stateOf(result.URL)))
	return titleLine + "\n" + metaLine + "\n" + r.styles.Normal.Render(summary)
}

func (r *ResultList) phaseLabel(url string) string {
	st := r.stateOf(url)
	label := present.Phase(st)
	switch st.Phase {
	case domain.EnrichmentLoading:
		return r.styles.Warning.Render(label)
	case domain.EnrichmentEnriched:
		return r.styles.Success.Render(label)
	case domain.EnrichmentFailed:
		return r.styles.Error.Render(label)
	default:
		return label
	}
}

func (r *ResultList) stateOf(url string) domain.EnrichmentState {
	if st, ok := r.enrichment[url]; ok {
		return st
	}
	return domain.Idle()
}

// SetSnapshot replaces the displayed results. The selection stays on the
// same URL when it is still present, otherwise it resets to the top.
func (r *ResultList) SetSnapshot(snapshot driving.ResultSnapshot) {
	current := ""
	if sel := r.SelectedResult(); sel != nil {
		current = sel.URL
	}

	r.results = snapshot.Results
	r.enrichment = snapshot.Enrichment
	r.selected = 0
	for i := range r.results {
		if r.results[i].URL == current {
			r.selected = i
			break
		}
	}
}

// SetExpanded sets the URL of the card that shows its summary.
func (r *ResultList) SetExpanded(url string) {
	r.expanded = url
}

// Expanded returns the URL of the expanded card.
func (r *ResultList) Expanded() string {
	return r.expanded
}

// Results returns the current results.
func (r *ResultList) Results() []domain.AnalysisResult {
	return r.results
}

// Selected returns the index of the selected result.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.results) {
		r.selected = index
	}
}

// SelectedResult returns the currently selected result, or nil if none.
func (r *ResultList) SelectedResult() *domain.AnalysisResult {
	if len(r.results) == 0 || r.selected < 0 || r.selected >= len(r.results) {
		return nil
	}
	return &r.results[r.selected]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.results)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the current width.
func (r *ResultList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *ResultList) Height() int {
	return r.height
}

// Count returns the number of results.
func (r *ResultList) Count() int {
	return len(r.results)
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return len(r.results) == 0
}
