// Package viewstate holds the results view's presentation state: which
// result card is expanded and which result is open in the detail overlay.
//
// The state is keyed by result URL, never by list position, and every
// operation returns a new value. The result set itself is owned by the
// ResultSetController; this package only reads its snapshots.
package viewstate

import (
	"github.com/custodia-labs/codeg-cli/internal/core/domain"
	"github.com/custodia-labs/codeg-cli/internal/core/ports/driving"
)

// ViewState is the derived UI state of the results view.
// The zero value has nothing expanded and no overlay open.
type ViewState struct {
	// Expanded is the URL of the card showing its summary, or "".
	Expanded string

	// Detail is the URL shown in the detail overlay, or "".
	Detail string
}

// ToggleExpand expands the card for url, or collapses it when it is
// already expanded. At most one card is expanded at a time.
func (v ViewState) ToggleExpand(url string) ViewState {
	if v.Expanded == url {
		v.Expanded = ""
		return v
	}
	v.Expanded = url
	return v
}

// OpenDetail opens the detail overlay for url. trigger reports whether the
// caller should start a deep analysis: true when none has run yet for url
// or the last one failed. Unknown URLs leave the state unchanged.
func (v ViewState) OpenDetail(url string, snapshot driving.ResultSnapshot) (next ViewState, trigger bool) {
	if _, ok := snapshot.Find(url); !ok {
		return v, false
	}
	v.Detail = url
	return v, NeedsDeepAnalysis(snapshot.StateOf(url))
}

// CloseDetail closes the detail overlay. A deep analysis started by
// OpenDetail keeps running and its result shows when the overlay reopens.
func (v ViewState) CloseDetail() ViewState {
	v.Detail = ""
	return v
}

// DetailOpen reports whether the detail overlay is open.
func (v ViewState) DetailOpen() bool {
	return v.Detail != ""
}

// Reconcile drops references to results that are no longer in the set,
// such as after a new bulk analysis replaced it.
func (v ViewState) Reconcile(snapshot driving.ResultSnapshot) ViewState {
	if v.Expanded != "" {
		if _, ok := snapshot.Find(v.Expanded); !ok {
			v.Expanded = ""
		}
	}
	if v.Detail != "" {
		if _, ok := snapshot.Find(v.Detail); !ok {
			v.Detail = ""
		}
	}
	return v
}

// NeedsDeepAnalysis reports whether a result in state st should have its
// deep analysis (re)started when the user asks for its details.
func NeedsDeepAnalysis(st domain.EnrichmentState) bool {
	return st.Phase == domain.EnrichmentIdle || st.Phase == domain.EnrichmentFailed
}
