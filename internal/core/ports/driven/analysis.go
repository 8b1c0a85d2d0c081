package driven

import (
	"context"

	"github.com/custodia-labs/codeg-cli/internal/core/domain"
)

// AnalyzeRequest is the bulk analysis payload.
type AnalyzeRequest struct {
	// Profile is nil when the profile has no set fields.
	Profile *domain.WireProfile `json:"profile"`

	// Region is an optional region filter.
	Region string `json:"region,omitempty"`

	// Keywords are optional extra search terms.
	Keywords []string `json:"keywords,omitempty"`
}

// DeepAnalyzeRequest is the single-notice analysis payload.
type DeepAnalyzeRequest struct {
	URL     string              `json:"url"`
	Title   string              `json:"title"`
	Profile *domain.WireProfile `json:"profile"`
}

// AnalysisClient talks to the remote matching and analysis service.
// Implementations hold no shared mutable state and are safe for concurrent use.
type AnalysisClient interface {
	// Analyze scores notices against the profile. It returns either the
	// complete result sequence or an error, never a partial sequence.
	// A non-success response is a *domain.RequestFailedError.
	Analyze(ctx context.Context, req AnalyzeRequest) ([]domain.AnalysisResult, error)

	// DeepAnalyze produces the long-form analysis of one notice.
	DeepAnalyze(ctx context.Context, req DeepAnalyzeRequest) (domain.ResultPatch, error)
}
