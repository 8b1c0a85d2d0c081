// Package mcp provides an MCP (Model Context Protocol) server adapter for codeg.
// It lets AI assistants run analyses against the stored company profile.
package mcp

import "errors"

var (
	// ErrMissingProfileService is returned when the profile service is not provided.
	ErrMissingProfileService = errors.New("mcp: profile service is required")

	// ErrMissingResultSet is returned when the result set controller is not provided.
	ErrMissingResultSet = errors.New("mcp: result set is required")
)
