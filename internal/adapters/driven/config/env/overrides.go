package env

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/custodia-labs/codeg-cli/internal/core/domain"
	"github.com/custodia-labs/codeg-cli/internal/core/ports/driven"
)

// Ensure Overrides implements the interface.
var _ driven.SettingsOverrides = (*Overrides)(nil)

// Variables recognised by Overrides.
const (
	VarAPIBase        = "CODEG_API_BASE"
	VarAPITimeout     = "CODEG_API_TIMEOUT"
	VarStorageBackend = "CODEG_STORAGE_BACKEND"
)

// variables mirrors the recognised environment. Zero values mean not set.
type variables struct {
	APIBase        string        `env:"CODEG_API_BASE" env-description:"analysis service base URL"`
	APITimeout     time.Duration `env:"CODEG_API_TIMEOUT" env-description:"request timeout as a duration, e.g. 90s"`
	StorageBackend string        `env:"CODEG_STORAGE_BACKEND" env-description:"profile storage backend (sqlite or file)"`
}

// Overrides applies CODEG_* environment variables to settings.
// The environment is read on every Apply.
type Overrides struct{}

// NewOverrides creates an environment override source.
func NewOverrides() *Overrides {
	return &Overrides{}
}

// Apply overwrites the fields whose variable is set.
func (o *Overrides) Apply(settings *domain.AppSettings) error {
	var vars variables
	if err := cleanenv.ReadEnv(&vars); err != nil {
		return fmt.Errorf("%w: read environment: %w", domain.ErrInvalidInput, err)
	}

	if v := strings.TrimSpace(vars.APIBase); v != "" {
		settings.API.BaseURL = strings.TrimRight(v, "/")
	}

	switch {
	case vars.APITimeout < 0:
		return fmt.Errorf("%w: %s=%s: must be positive", domain.ErrInvalidInput, VarAPITimeout, vars.APITimeout)
	case vars.APITimeout > 0:
		settings.API.Timeout = vars.APITimeout
	}

	if v := strings.TrimSpace(vars.StorageBackend); v != "" {
		backend := domain.StorageBackend(v)
		if !backend.IsValid() {
			return fmt.Errorf("%w: %s=%q: unknown storage backend", domain.ErrInvalidInput, VarStorageBackend, v)
		}
		settings.Storage.Backend = backend
	}

	return nil
}

// Description lists the recognised variables for help output.
func (o *Overrides) Description() (string, error) {
	var vars variables
	return cleanenv.GetDescription(&vars, nil)
}
