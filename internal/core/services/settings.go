package services

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/codeg-cli/internal/core/domain"
	"github.com/custodia-labs/codeg-cli/internal/core/ports/driven"
	"github.com/custodia-labs/codeg-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyAPIBaseURL        = "api.base_url"
	KeyAPITimeoutSeconds = "api.timeout_seconds"
	KeyAPIDeepRate       = "api.deep_rate_per_second"
	KeyStorageBackend    = "storage.backend"
	KeyAnalyzeRegion     = "analyze.region"
)

var settingKeys = []string{
	KeyAPIBaseURL,
	KeyAPITimeoutSeconds,
	KeyAPIDeepRate,
	KeyStorageBackend,
	KeyAnalyzeRegion,
}

// SettingsService manages application settings.
// Values resolve as override, then config file, then default.
type SettingsService struct {
	configStore driven.ConfigStore
	overrides   driven.SettingsOverrides
}

// NewSettingsService creates a new settings service. overrides may be nil.
func NewSettingsService(configStore driven.ConfigStore, overrides driven.SettingsOverrides) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		overrides:   overrides,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := s.stored()
	if s.overrides != nil {
		if err := s.overrides.Apply(settings); err != nil {
			return nil, fmt.Errorf("apply overrides: %w", err)
		}
	}
	return settings, nil
}

// stored resolves settings from the config store alone. Stored values that
// fail validation fall back to their defaults.
func (s *SettingsService) stored() *domain.AppSettings {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		API: domain.APISettings{
			BaseURL:           s.getString(KeyAPIBaseURL, defaults.API.BaseURL),
			Timeout:           defaults.API.Timeout,
			DeepRatePerSecond: defaults.API.DeepRatePerSecond,
		},
		Storage: domain.StorageSettings{
			Backend: s.getBackend(defaults.Storage.Backend),
		},
		Analyze: domain.AnalyzeSettings{
			Region: s.getRegion(defaults.Analyze.Region),
		},
	}

	if secs := s.configStore.GetInt(KeyAPITimeoutSeconds); secs > 0 {
		settings.API.Timeout = time.Duration(secs) * time.Second
	}
	if _, ok := s.configStore.Get(KeyAPIDeepRate); ok {
		if rate := s.configStore.GetFloat(KeyAPIDeepRate); rate >= 0 {
			settings.API.DeepRatePerSecond = rate
		}
	}
	return settings
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := validateSettings(settings); err != nil {
		return err
	}
	if err := s.configStore.Set(KeyAPIBaseURL, settings.API.BaseURL); err != nil {
		return fmt.Errorf("save api base_url: %w", err)
	}
	if err := s.configStore.Set(KeyAPITimeoutSeconds, int(settings.API.Timeout/time.Second)); err != nil {
		return fmt.Errorf("save api timeout: %w", err)
	}
	if err := s.configStore.Set(KeyAPIDeepRate, settings.API.DeepRatePerSecond); err != nil {
		return fmt.Errorf("save api deep rate: %w", err)
	}
	if err := s.configStore.Set(KeyStorageBackend, settings.Storage.Backend.String()); err != nil {
		return fmt.Errorf("save storage backend: %w", err)
	}
	if err := s.configStore.Set(KeyAnalyzeRegion, settings.Analyze.Region); err != nil {
		return fmt.Errorf("save analyze region: %w", err)
	}
	return nil
}

// Set parses value for key and stores it.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	var stored any
	switch key {
	case KeyAPIBaseURL:
		if err := validateBaseURL(value); err != nil {
			return err
		}
		stored = strings.TrimRight(value, "/")
	case KeyAPITimeoutSeconds:
		secs, err := strconv.Atoi(value)
		if err != nil || secs <= 0 {
			return fmt.Errorf("%w: %s must be a positive number of seconds", domain.ErrInvalidInput, key)
		}
		stored = secs
	case KeyAPIDeepRate:
		rate, err := strconv.ParseFloat(value, 64)
		if err != nil || rate < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidInput, key)
		}
		stored = rate
	case KeyStorageBackend:
		backend := domain.StorageBackend(value)
		if !backend.IsValid() {
			return fmt.Errorf("%w: unknown storage backend %q", domain.ErrInvalidInput, value)
		}
		stored = backend.String()
	case KeyAnalyzeRegion:
		if !slices.Contains(domain.Regions(), value) {
			return fmt.Errorf("%w: unknown region %q", domain.ErrInvalidInput, value)
		}
		stored = value
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrNotFound, key)
	}

	return s.configStore.Set(key, stored)
}

// Unset restores the default of a single setting.
func (s *SettingsService) Unset(key string) error {
	if !slices.Contains(settingKeys, key) {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrNotFound, key)
	}
	return s.configStore.Unset(key)
}

// Keys returns the recognised setting keys.
func (s *SettingsService) Keys() []string {
	return slices.Clone(settingKeys)
}

// Validate checks that the effective settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return validateSettings(settings)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func validateSettings(settings *domain.AppSettings) error {
	if err := validateBaseURL(settings.API.BaseURL); err != nil {
		return err
	}
	if settings.API.Timeout <= 0 {
		return fmt.Errorf("%w: api timeout must be positive", domain.ErrInvalidInput)
	}
	if settings.API.DeepRatePerSecond < 0 {
		return fmt.Errorf("%w: deep analyze rate must not be negative", domain.ErrInvalidInput)
	}
	if !settings.Storage.Backend.IsValid() {
		return fmt.Errorf("%w: unknown storage backend %q", domain.ErrInvalidInput, settings.Storage.Backend)
	}
	return nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: api base url must be an absolute http(s) URL, got %q", domain.ErrInvalidInput, raw)
	}
	return nil
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	backend := domain.StorageBackend(s.configStore.GetString(KeyStorageBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getRegion(defaultVal string) string {
	region := s.configStore.GetString(KeyAnalyzeRegion)
	if !slices.Contains(domain.Regions(), region) {
		return defaultVal
	}
	return region
}
