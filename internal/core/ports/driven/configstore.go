package driven

import "github.com/custodia-labs/codeg-cli/internal/core/domain"

// ConfigStore provides access to application configuration.
// Implementations handle persistence (e.g., TOML files) and type conversion.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	// Returns 0 if key doesn't exist or isn't an integer.
	GetInt(key string) int

	// GetFloat retrieves a float configuration value.
	// Integers are widened. Returns 0 if key doesn't exist or isn't numeric.
	GetFloat(key string) float64

	// Set stores a configuration value.
	// The value is persisted immediately.
	Set(key string, value any) error

	// Unset removes a key so its default applies again.
	// The change is persisted immediately.
	Unset(key string) error

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}

// SettingsOverrides applies deployment-time values, such as environment
// variables, on top of stored settings.
type SettingsOverrides interface {
	// Apply overwrites the fields of settings that the deployment defines.
	Apply(settings *domain.AppSettings) error
}
