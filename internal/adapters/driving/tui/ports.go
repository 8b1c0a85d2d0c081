// Package tui provides an interactive terminal user interface for codeg.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"context"

	"github.com/custodia-labs/codeg-cli/internal/core/ports/driving"
)

// ProfileWatcher reports changes made to the stored profile outside this
// process, such as an edit from a second terminal.
type ProfileWatcher interface {
	// Watch returns a channel that receives a value after each external
	// change. The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan struct{}, error)
}

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Profile reads and edits the company profile.
	Profile driving.ProfileService

	// Results runs analyses and owns the result set.
	Results driving.ResultSetController

	// Settings manages application settings. Optional.
	Settings driving.SettingsService

	// ProfileWatcher reloads the profile editor on external edits. Optional.
	ProfileWatcher ProfileWatcher
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Profile == nil {
		return ErrMissingProfileService
	}
	if p.Results == nil {
		return ErrMissingResultSet
	}
	return nil
}
