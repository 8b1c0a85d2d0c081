package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/codeg-cli/internal/core/domain"
	"github.com/custodia-labs/codeg-cli/internal/core/ports/driven"
	"github.com/custodia-labs/codeg-cli/internal/core/ports/driving"
	"github.com/custodia-labs/codeg-cli/internal/logger"
)

// Ensure ResultSet implements the interface.
var _ driving.ResultSetController = (*ResultSet)(nil)

// User-facing status messages.
const (
	StatusAnalyzing      = "Analyzing notices against your company profile..."
	StatusNoResults      = "No matching notices. Try different keywords."
	StatusResultsFmt     = "Analysis complete: %d matching notices."
	StatusFailedFmt      = "Analysis failed: %s"
	validationNoIndustry = "select an industry before running analysis"
)

// resultState is the controller state. It is only touched by reduce.
type resultState struct {
	searching  bool
	requestID  uint64
	err        error
	status     string
	results    []domain.AnalysisResult
	enrichment map[string]domain.EnrichmentState
}

// action is an event applied to resultState by reduce.
type action interface {
	isAction()
}

type analyzeRejected struct {
	id  uint64
	err error
}

type analyzeStarted struct {
	id uint64
}

type analyzeSucceeded struct {
	id      uint64
	results []domain.AnalysisResult
}

type analyzeFailed struct {
	id  uint64
	err error
}

type deepAnalyzeStarted struct {
	url string
}

type deepAnalyzeSucceeded struct {
	requestID uint64
	url       string
	patch     domain.ResultPatch
}

type deepAnalyzeFailed struct {
	requestID uint64
	url       string
	err       error
}

func (analyzeRejected) isAction()      {}
func (analyzeStarted) isAction()       {}
func (analyzeSucceeded) isAction()     {}
func (analyzeFailed) isAction()        {}
func (deepAnalyzeStarted) isAction()   {}
func (deepAnalyzeSucceeded) isAction() {}
func (deepAnalyzeFailed) isAction()    {}

// reduce applies a to s. It returns false when the action was discarded,
// either because it belongs to a superseded request or because the
// enrichment transition is not allowed.
//
//nolint:gocyclo // one case per action
func (s *resultState) reduce(a action) bool {
	switch a := a.(type) {
	case analyzeRejected:
		if a.id <= s.requestID {
			return false
		}
		s.requestID = a.id
		s.searching = false
		s.err = a.err
		s.status = a.err.Error()
		s.results = []domain.AnalysisResult{}
		s.enrichment = map[string]domain.EnrichmentState{}
		return true

	case analyzeStarted:
		if a.id <= s.requestID {
			return false
		}
		s.requestID = a.id
		s.searching = true
		s.err = nil
		s.status = StatusAnalyzing
		s.results = []domain.AnalysisResult{}
		s.enrichment = map[string]domain.EnrichmentState{}
		return true

	case analyzeSucceeded:
		if a.id != s.requestID {
			return false
		}
		s.searching = false
		s.err = nil
		s.results = uniqueByURL(a.results)
		s.enrichment = make(map[string]domain.EnrichmentState, len(s.results))
		for _, r := range s.results {
			s.enrichment[r.URL] = domain.Idle()
		}
		if len(s.results) == 0 {
			s.status = StatusNoResults
		} else {
			s.status = fmt.Sprintf(StatusResultsFmt, len(s.results))
		}
		return true

	case analyzeFailed:
		if a.id != s.requestID {
			return false
		}
		s.searching = false
		s.err = a.err
		s.status = fmt.Sprintf(StatusFailedFmt, a.err)
		s.results = []domain.AnalysisResult{}
		s.enrichment = map[string]domain.EnrichmentState{}
		return true

	case deepAnalyzeStarted:
		if s.indexOf(a.url) < 0 {
			return false
		}
		next, err := s.enrichment[a.url].Transition(domain.Loading())
		if err != nil {
			return false
		}
		s.enrichment[a.url] = next
		return true

	case deepAnalyzeSucceeded:
		if a.requestID != s.requestID {
			return false
		}
		i := s.indexOf(a.url)
		if i < 0 {
			return false
		}
		next, err := s.enrichment[a.url].Transition(domain.Enriched())
		if err != nil {
			return false
		}
		s.results[i] = a.patch.Apply(s.results[i])
		s.enrichment[a.url] = next
		return true

	case deepAnalyzeFailed:
		if a.requestID != s.requestID {
			return false
		}
		i := s.indexOf(a.url)
		if i < 0 {
			return false
		}
		next, err := s.enrichment[a.url].Transition(domain.Failed(a.err.Error()))
		if err != nil {
			return false
		}
		s.enrichment[a.url] = next
		return true
	}
	return false
}

// indexOf returns the position of url in the current results, or -1.
func (s *resultState) indexOf(url string) int {
	for i := range s.results {
		if s.results[i].URL == url {
			return i
		}
	}
	return -1
}

// uniqueByURL drops results without a URL and repeats of an earlier URL.
func uniqueByURL(in []domain.AnalysisResult) []domain.AnalysisResult {
	out := make([]domain.AnalysisResult, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, r := range in {
		if r.URL == "" {
			logger.Warn("dropping result without url: %q", r.Title)
			continue
		}
		if _, dup := seen[r.URL]; dup {
			logger.Warn("dropping duplicate result: %s", r.URL)
			continue
		}
		seen[r.URL] = struct{}{}
		out = append(out, r)
	}
	return out
}

// ResultSet is the ResultSetController. It serialises every state change
// through reduce; network calls happen outside the lock.
type ResultSet struct {
	client   driven.AnalysisClient
	profiles driven.ProfileStore

	mu     sync.RWMutex
	state  resultState
	nextID uint64
}

// NewResultSet creates a controller with an empty result set.
func NewResultSet(client driven.AnalysisClient, profiles driven.ProfileStore) *ResultSet {
	return &ResultSet{
		client:   client,
		profiles: profiles,
		state: resultState{
			results:    []domain.AnalysisResult{},
			enrichment: map[string]domain.EnrichmentState{},
		},
	}
}

// dispatch applies a under the write lock.
func (c *ResultSet) dispatch(a action) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.reduce(a)
}

// BeginAnalyze starts a bulk analysis. See driving.ResultSetController.
func (c *ResultSet) BeginAnalyze(profile domain.CompanyProfile, filters domain.AnalyzeFilters) (driving.Job, error) {
	if profile.Industry == domain.IndustryUnset {
		err := fmt.Errorf("%w: %s", domain.ErrValidation, validationNoIndustry)
		c.mu.Lock()
		c.nextID++
		c.state.reduce(analyzeRejected{id: c.nextID, err: err})
		c.mu.Unlock()
		return nil, err
	}

	req := driven.AnalyzeRequest{
		Profile:  domain.ToWireFormat(profile),
		Region:   filters.Region,
		Keywords: append([]string(nil), filters.Keywords...),
	}

	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.state.reduce(analyzeStarted{id: id})
	c.mu.Unlock()

	logger.Debug("analyze #%d started (region=%q)", id, req.Region)

	return func(ctx context.Context) error {
		results, err := c.client.Analyze(ctx, req)
		if err != nil {
			if !c.dispatch(analyzeFailed{id: id, err: err}) {
				logger.Debug("analyze #%d failed after being superseded: %v", id, err)
			}
			return err
		}
		if !c.dispatch(analyzeSucceeded{id: id, results: results}) {
			logger.Debug("analyze #%d superseded, dropping %d results", id, len(results))
			return nil
		}
		logger.Debug("analyze #%d completed with %d results", id, len(results))
		return nil
	}, nil
}

// RunAnalyze starts a bulk analysis and waits for it.
func (c *ResultSet) RunAnalyze(
	ctx context.Context,
	profile domain.CompanyProfile,
	filters domain.AnalyzeFilters,
) error {
	job, err := c.BeginAnalyze(profile, filters)
	if err != nil {
		return err
	}
	return job(ctx)
}

// BeginDeepAnalyze starts a deep analysis for url. See driving.ResultSetController.
func (c *ResultSet) BeginDeepAnalyze(url string) (driving.Job, bool) {
	c.mu.Lock()
	if !c.state.reduce(deepAnalyzeStarted{url: url}) {
		c.mu.Unlock()
		return nil, false
	}
	requestID := c.state.requestID
	title := c.state.results[c.state.indexOf(url)].Title
	c.mu.Unlock()

	logger.Debug("deep analyze started: %s", url)

	return func(ctx context.Context) error {
		profile := c.profiles.Load(ctx)
		patch, err := c.client.DeepAnalyze(ctx, driven.DeepAnalyzeRequest{
			URL:     url,
			Title:   title,
			Profile: domain.ToWireFormat(profile),
		})
		if err != nil {
			if !c.dispatch(deepAnalyzeFailed{requestID: requestID, url: url, err: err}) {
				logger.Debug("deep analyze for stale result dropped: %s", url)
			}
			return err
		}
		if !c.dispatch(deepAnalyzeSucceeded{requestID: requestID, url: url, patch: patch}) {
			logger.Debug("deep analyze for stale result dropped: %s", url)
			return nil
		}
		logger.Debug("deep analyze completed: %s", url)
		return nil
	}, true
}

// DeepAnalyze runs a deep analysis for url and waits for it.
func (c *ResultSet) DeepAnalyze(ctx context.Context, url string) error {
	job, ok := c.BeginDeepAnalyze(url)
	if !ok {
		return nil
	}
	return job(ctx)
}

// Snapshot returns a copy of the current state.
func (c *ResultSet) Snapshot() driving.ResultSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	results := make([]domain.AnalysisResult, len(c.state.results))
	copy(results, c.state.results)

	enrichment := make(map[string]domain.EnrichmentState, len(c.state.enrichment))
	for k, v := range c.state.enrichment {
		enrichment[k] = v
	}

	return driving.ResultSnapshot{
		Searching:  c.state.searching,
		RequestID:  c.state.requestID,
		Err:        c.state.err,
		Status:     c.state.status,
		Results:    results,
		Enrichment: enrichment,
	}
}
