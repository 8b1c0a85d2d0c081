package mcp

import (
	"context"

	"github.com/custodia-labs/codeg-cli/internal/core/domain"
	"github.com/custodia-labs/codeg-cli/internal/core/ports/driving"
)

// mockProfileService is a mock implementation of driving.ProfileService.
type mockProfileService struct {
	profile domain.CompanyProfile
}

func (m *mockProfileService) Get(_ context.Context) domain.CompanyProfile {
	return m.profile.Clone()
}

func (m *mockProfileService) Update(_ context.Context, _ ...driving.ProfileEdit) (domain.CompanyProfile, error) {
	return m.profile, nil
}

func (m *mockProfileService) AddKeyword(_ context.Context, _ string) (domain.CompanyProfile, error) {
	return m.profile, nil
}

func (m *mockProfileService) RemoveKeyword(_ context.Context, _ string) (domain.CompanyProfile, error) {
	return m.profile, nil
}

func (m *mockProfileService) Reset(_ context.Context) (domain.CompanyProfile, error) {
	return domain.DefaultCompanyProfile(), nil
}

// mockResultSet is a mock implementation of driving.ResultSetController.
// RunAnalyze and DeepAnalyze replace the snapshot with the configured one.
type mockResultSet struct {
	snapshot driving.ResultSnapshot
	after    *driving.ResultSnapshot
	err      error

	gotProfile domain.CompanyProfile
	gotFilters domain.AnalyzeFilters
	deepURLs   []string
}

func (m *mockResultSet) BeginAnalyze(_ domain.CompanyProfile, _ domain.AnalyzeFilters) (driving.Job, error) {
	return func(context.Context) error { return m.err }, nil
}

func (m *mockResultSet) RunAnalyze(_ context.Context, profile domain.CompanyProfile, filters domain.AnalyzeFilters) error {
	m.gotProfile = profile
	m.gotFilters = filters
	if m.err != nil {
		return m.err
	}
	if m.after != nil {
		m.snapshot = *m.after
	}
	return nil
}

func (m *mockResultSet) BeginDeepAnalyze(_ string) (driving.Job, bool) {
	return nil, false
}

func (m *mockResultSet) DeepAnalyze(_ context.Context, url string) error {
	m.deepURLs = append(m.deepURLs, url)
	if m.err != nil {
		return m.err
	}
	if m.after != nil {
		m.snapshot = *m.after
	}
	return nil
}

func (m *mockResultSet) Snapshot() driving.ResultSnapshot {
	return m.snapshot
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	region string
	err    error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := domain.DefaultAppSettings()
	s.Analyze.Region = m.region
	return &s, nil
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return nil }
func (m *mockSettingsService) Set(_, _ string) error           { return nil }
func (m *mockSettingsService) Unset(_ string) error            { return nil }
func (m *mockSettingsService) Keys() []string                  { return nil }
func (m *mockSettingsService) Validate() error                 { return nil }
func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }
