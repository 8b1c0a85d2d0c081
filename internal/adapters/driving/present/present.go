// Package present formats analysis results for the driving adapters.
// Text returned by the analysis service is treated as untrusted: it is
// stripped of markup before any adapter prints it.
package present

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/custodia-labs/codeg-cli/internal/core/domain"
)

var strict = bluemonday.StrictPolicy()

// Text strips markup from s, decodes entities and collapses runs of
// whitespace within each line. Line breaks are kept.
func Text(s string) string {
	if s == "" {
		return ""
	}
	cleaned := html.UnescapeString(strict.Sanitize(s))

	lines := strings.Split(cleaned, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" && len(out) > 0 && out[len(out)-1] == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// Line is Text folded onto a single line.
func Line(s string) string {
	return strings.Join(strings.Fields(Text(s)), " ")
}

// Score formats a G-Score for display.
func Score(score float64) string {
	return fmt.Sprintf("%.0f", score)
}

// BandLabel returns the display label of a score band.
func BandLabel(band domain.ScoreBand) string {
	switch band {
	case domain.ScoreBandHigh:
		return "High"
	case domain.ScoreBandMid:
		return "Medium"
	default:
		return "Low"
	}
}

// FailedSummary stands in for the summary of a result whose deep analysis
// failed before the service returned one.
const FailedSummary = "Could not fetch the analysis. Try again."

// Summary returns the text shown as a result's summary. Results without
// one get a hint to open the detail view, or the failure notice when their
// deep analysis failed.
func Summary(r domain.AnalysisResult, st domain.EnrichmentState) string {
	if s := Text(r.Summary); s != "" {
		return s
	}
	if st.Phase == domain.EnrichmentFailed {
		return FailedSummary
	}
	return "No summary yet. Open the notice for a full analysis."
}

// Phase describes an enrichment state in a few words.
func Phase(st domain.EnrichmentState) string {
	switch st.Phase {
	case domain.EnrichmentLoading:
		return "analyzing"
	case domain.EnrichmentEnriched:
		return "analyzed"
	case domain.EnrichmentFailed:
		return "failed"
	default:
		return "not analyzed"
	}
}

// Truncate shortens s to at most max runes, marking the cut with an ellipsis.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if max <= 0 || len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}
