package driving

import "github.com/custodia-labs/codeg-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, with deployment
	// environment overrides applied.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single setting by its config key, e.g. "api.base_url".
	Set(key, value string) error

	// Unset restores the default of a single setting.
	Unset(key string) error

	// Keys returns the recognised setting keys.
	Keys() []string

	// Validate checks that the current settings are usable.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
