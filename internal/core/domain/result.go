package domain

// AnalysisResult is one funding notice scored against the company profile.
// URL identifies the notice within a result set.
type AnalysisResult struct {
	URL          string  `json:"url"`
	Title        string  `json:"title"`
	Agency       string  `json:"agency"`
	Date         string  `json:"date"`
	Summary      string  `json:"summary"`
	Eligibility  string  `json:"eligibility"`
	Reasoning    string  `json:"reasoning"`
	GScore       float64 `json:"g_score"`
	PassedFilter bool    `json:"passed_filter"`
}

// ResultPatch holds the fields returned by a deep analysis.
// Nil fields were absent from the response and are left untouched.
type ResultPatch struct {
	Title        *string  `json:"title,omitempty"`
	Agency       *string  `json:"agency,omitempty"`
	Date         *string  `json:"date,omitempty"`
	Summary      *string  `json:"summary,omitempty"`
	Eligibility  *string  `json:"eligibility,omitempty"`
	Reasoning    *string  `json:"reasoning,omitempty"`
	GScore       *float64 `json:"g_score,omitempty"`
	PassedFilter *bool    `json:"passed_filter,omitempty"`
}

// Apply merges the patch into r. The URL is never changed.
func (p ResultPatch) Apply(r AnalysisResult) AnalysisResult {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Agency != nil {
		r.Agency = *p.Agency
	}
	if p.Date != nil {
		r.Date = *p.Date
	}
	if p.Summary != nil {
		r.Summary = *p.Summary
	}
	if p.Eligibility != nil {
		r.Eligibility = *p.Eligibility
	}
	if p.Reasoning != nil {
		r.Reasoning = *p.Reasoning
	}
	if p.GScore != nil {
		r.GScore = *p.GScore
	}
	if p.PassedFilter != nil {
		r.PassedFilter = *p.PassedFilter
	}
	return r
}

// ScoreBand buckets a G-Score for display.
type ScoreBand string

// Score bands.
const (
	ScoreBandHigh ScoreBand = "high"
	ScoreBandMid  ScoreBand = "mid"
	ScoreBandLow  ScoreBand = "low"
)

// BandOf returns the display band for a score: high >= 70, mid >= 40.
func BandOf(score float64) ScoreBand {
	switch {
	case score >= 70:
		return ScoreBandHigh
	case score >= 40:
		return ScoreBandMid
	default:
		return ScoreBandLow
	}
}

// AnalyzeFilters narrows a bulk analysis beyond the profile itself.
type AnalyzeFilters struct {
	// Region restricts notices to a region, e.g. "서울". Empty means nationwide.
	Region string

	// Keywords are extra search terms for this run only.
	Keywords []string
}
