package tui

import "errors"

// ErrMissingProfileService is returned when the profile service is not provided.
var ErrMissingProfileService = errors.New("tui: profile service is required")

// ErrMissingResultSet is returned when the result set controller is not provided.
var ErrMissingResultSet = errors.New("tui: result set controller is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
