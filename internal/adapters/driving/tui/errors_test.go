package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_AreDistinct(t *testing.T) {
	errors := []error{
		ErrMissingProfileService,
		ErrMissingResultSet,
		ErrInvalidPorts,
	}

	seen := make(map[string]bool)
	for _, err := range errors {
		msg := err.Error()
		assert.False(t, seen[msg], "duplicate error message: %s", msg)
		seen[msg] = true
	}
}

func TestErrMissingProfileService_Message(t *testing.T) {
	assert.Contains(t, ErrMissingProfileService.Error(), "profile service")
}

func TestErrMissingResultSet_Message(t *testing.T) {
	assert.Contains(t, ErrMissingResultSet.Error(), "result set")
}

func TestErrInvalidPorts_Message(t *testing.T) {
	assert.Contains(t, ErrInvalidPorts.Error(), "invalid ports")
}
