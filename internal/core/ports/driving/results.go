package driving

import (
	"context"

	"github.com/custodia-labs/codeg-cli/internal/core/domain"
)

// Job is the suspended half of an operation whose state change has already
// been applied. Running it performs the network round trip and records
// the outcome.
type Job func(ctx context.Context) error

// ResultSnapshot is a read-only copy of the result set state.
type ResultSnapshot struct {
	// Searching is true while the latest bulk analysis is in flight.
	Searching bool

	// RequestID identifies the latest bulk analysis.
	RequestID uint64

	// Err is the surfaced error of the latest bulk analysis, if any.
	Err error

	// Status is a user-facing message about the latest bulk analysis.
	Status string

	// Results is the current result sequence in service order.
	Results []domain.AnalysisResult

	// Enrichment maps result URL to its deep-analysis state.
	Enrichment map[string]domain.EnrichmentState
}

// Find returns the result with the given URL.
func (s ResultSnapshot) Find(url string) (domain.AnalysisResult, bool) {
	for _, r := range s.Results {
		if r.URL == url {
			return r, true
		}
	}
	return domain.AnalysisResult{}, false
}

// StateOf returns the enrichment state of url. Unknown URLs report Idle.
func (s ResultSnapshot) StateOf(url string) domain.EnrichmentState {
	if st, ok := s.Enrichment[url]; ok {
		return st
	}
	return domain.Idle()
}

// ResultSetController owns the result sequence and per-result enrichment state.
// All methods are safe for concurrent use.
type ResultSetController interface {
	// BeginAnalyze validates the profile, clears the current results, marks
	// the controller as searching and returns the job that performs the
	// bulk analysis. A validation failure returns domain.ErrValidation and
	// issues no request.
	BeginAnalyze(profile domain.CompanyProfile, filters domain.AnalyzeFilters) (Job, error)

	// RunAnalyze is BeginAnalyze followed by running the job.
	RunAnalyze(ctx context.Context, profile domain.CompanyProfile, filters domain.AnalyzeFilters) error

	// BeginDeepAnalyze marks url as loading and returns the job that fetches
	// its deep analysis. It returns false, and changes nothing, when url is
	// not in the result set or its state is neither Idle nor Failed.
	BeginDeepAnalyze(url string) (Job, bool)

	// DeepAnalyze is BeginDeepAnalyze followed by running the job.
	// It is a no-op returning nil when BeginDeepAnalyze declines.
	DeepAnalyze(ctx context.Context, url string) error

	// Snapshot returns a copy of the current state.
	Snapshot() ResultSnapshot
}
