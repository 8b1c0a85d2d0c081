package domain

import "fmt"

// EnrichmentPhase is the deep-analysis progress of a single result.
type EnrichmentPhase int

// Enrichment phases.
const (
	EnrichmentIdle EnrichmentPhase = iota
	EnrichmentLoading
	EnrichmentEnriched
	EnrichmentFailed
)

// String returns the string representation of the phase.
func (p EnrichmentPhase) String() string {
	switch p {
	case EnrichmentIdle:
		return "idle"
	case EnrichmentLoading:
		return "loading"
	case EnrichmentEnriched:
		return "enriched"
	case EnrichmentFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// EnrichmentState is the per-result deep-analysis state. It is never persisted.
type EnrichmentState struct {
	Phase EnrichmentPhase

	// Reason is set only in the Failed phase.
	Reason string
}

// Idle returns the initial state.
func Idle() EnrichmentState { return EnrichmentState{Phase: EnrichmentIdle} }

// Loading returns the in-flight state.
func Loading() EnrichmentState { return EnrichmentState{Phase: EnrichmentLoading} }

// Enriched returns the success state.
func Enriched() EnrichmentState { return EnrichmentState{Phase: EnrichmentEnriched} }

// Failed returns the failure state with a reason.
func Failed(reason string) EnrichmentState {
	return EnrichmentState{Phase: EnrichmentFailed, Reason: reason}
}

// CanTransition reports whether s may move to next.
// Allowed: Idle→Loading, Failed→Loading, Loading→Enriched, Loading→Failed.
func (s EnrichmentState) CanTransition(next EnrichmentPhase) bool {
	switch next {
	case EnrichmentLoading:
		return s.Phase == EnrichmentIdle || s.Phase == EnrichmentFailed
	case EnrichmentEnriched, EnrichmentFailed:
		return s.Phase == EnrichmentLoading
	default:
		return false
	}
}

// Transition returns next if the move is allowed.
func (s EnrichmentState) Transition(next EnrichmentState) (EnrichmentState, error) {
	if !s.CanTransition(next.Phase) {
		return s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Phase, next.Phase)
	}
	return next, nil
}
