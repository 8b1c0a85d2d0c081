package mcp

import (
	"github.com/custodia-labs/codeg-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces used by the MCP server.
type Ports struct {
	// Profile reads the stored company profile.
	Profile driving.ProfileService

	// Results runs analyses and holds their results.
	Results driving.ResultSetController

	// Settings supplies the default region. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Profile == nil {
		return ErrMissingProfileService
	}
	if p.Results == nil {
		return ErrMissingResultSet
	}
	return nil
}
