package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/codeg-cli/internal/core/domain"
	"github.com/custodia-labs/codeg-cli/internal/core/ports/driving"
)

// MockProfileService implements driving.ProfileService for testing.
type MockProfileService struct {
	Profile domain.CompanyProfile

	UpdateFunc func(ctx context.Context, edits ...driving.ProfileEdit) (domain.CompanyProfile, error)
}

func (m *MockProfileService) Get(_ context.Context) domain.CompanyProfile {
	return m.Profile.Clone()
}

func (m *MockProfileService) Update(ctx context.Context, edits ...driving.ProfileEdit) (domain.CompanyProfile, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, edits...)
	}
	p := m.Profile.Clone()
	for _, edit := range edits {
		if err := edit(&p); err != nil {
			return m.Profile.Clone(), err
		}
	}
	m.Profile = p
	return p.Clone(), nil
}

func (m *MockProfileService) AddKeyword(ctx context.Context, tag string) (domain.CompanyProfile, error) {
	return m.Update(ctx, driving.WithKeywordAdded(tag))
}

func (m *MockProfileService) RemoveKeyword(ctx context.Context, tag string) (domain.CompanyProfile, error) {
	return m.Update(ctx, driving.WithKeywordRemoved(tag))
}

func (m *MockProfileService) Reset(_ context.Context) (domain.CompanyProfile, error) {
	m.Profile = domain.DefaultCompanyProfile()
	return m.Profile.Clone(), nil
}

// MockResultSet implements driving.ResultSetController for testing.
type MockResultSet struct {
	BeginAnalyzeFunc     func(profile domain.CompanyProfile, filters domain.AnalyzeFilters) (driving.Job, error)
	BeginDeepAnalyzeFunc func(url string) (driving.Job, bool)
	SnapshotFunc         func() driving.ResultSnapshot
}

func (m *MockResultSet) BeginAnalyze(profile domain.CompanyProfile, filters domain.AnalyzeFilters) (driving.Job, error) {
	if m.BeginAnalyzeFunc != nil {
		return m.BeginAnalyzeFunc(profile, filters)
	}
	return func(context.Context) error { return nil }, nil
}

func (m *MockResultSet) RunAnalyze(ctx context.Context, profile domain.CompanyProfile, filters domain.AnalyzeFilters) error {
	job, err := m.BeginAnalyze(profile, filters)
	if err != nil {
		return err
	}
	return job(ctx)
}

func (m *MockResultSet) BeginDeepAnalyze(url string) (driving.Job, bool) {
	if m.BeginDeepAnalyzeFunc != nil {
		return m.BeginDeepAnalyzeFunc(url)
	}
	return nil, false
}

func (m *MockResultSet) DeepAnalyze(ctx context.Context, url string) error {
	job, ok := m.BeginDeepAnalyze(url)
	if !ok {
		return nil
	}
	return job(ctx)
}

func (m *MockResultSet) Snapshot() driving.ResultSnapshot {
	if m.SnapshotFunc != nil {
		return m.SnapshotFunc()
	}
	return driving.ResultSnapshot{}
}

// MockProfileWatcher implements ProfileWatcher for testing.
type MockProfileWatcher struct {
	Changes chan struct{}
}

func (m *MockProfileWatcher) Watch(_ context.Context) (<-chan struct{}, error) {
	return m.Changes, nil
}

func TestPorts_Validate_AllSet(t *testing.T) {
	ports := &Ports{
		Profile: &MockProfileService{},
		Results: &MockResultSet{},
	}

	assert.NoError(t, ports.Validate())
}

func TestPorts_Validate_MissingProfile(t *testing.T) {
	ports := &Ports{Results: &MockResultSet{}}

	assert.ErrorIs(t, ports.Validate(), ErrMissingProfileService)
}

func TestPorts_Validate_MissingResults(t *testing.T) {
	ports := &Ports{Profile: &MockProfileService{}}

	assert.ErrorIs(t, ports.Validate(), ErrMissingResultSet)
}

func TestPorts_Validate_Nil(t *testing.T) {
	var ports *Ports

	assert.ErrorIs(t, ports.Validate(), ErrInvalidPorts)
}

func TestPorts_OptionalPorts(t *testing.T) {
	ports := &Ports{
		Profile:        &MockProfileService{},
		Results:        &MockResultSet{},
		ProfileWatcher: &MockProfileWatcher{},
	}

	assert.NoError(t, ports.Validate())
	assert.Nil(t, ports.Settings)
}
