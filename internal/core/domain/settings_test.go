package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestStorageBackend_IsValid tests all valid and invalid storage backends
func TestStorageBackend_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		backend  StorageBackend
		expected bool
	}{
		{name: "sqlite is valid", backend: StorageBackendSQLite, expected: true},
		{name: "file is valid", backend: StorageBackendFile, expected: true},
		{name: "empty string is invalid", backend: StorageBackend(""), expected: false},
		{name: "browser is invalid", backend: StorageBackend("localstorage"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.backend.IsValid())
		})
	}
}

func TestStorageBackend_Description(t *testing.T) {
	for _, b := range AllStorageBackends() {
		assert.NotEqual(t, unknownDescription, b.Description(), b.String())
	}
	assert.Equal(t, unknownDescription, StorageBackend("x").Description())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, "http://127.0.0.1:8000", s.API.BaseURL)
	assert.Equal(t, DefaultAPITimeout, s.API.Timeout)
	assert.InDelta(t, DefaultDeepRatePerSecond, s.API.DeepRatePerSecond, 0.0001)
	assert.Equal(t, StorageBackendSQLite, s.Storage.Backend)
	assert.Equal(t, DefaultRegion, s.Analyze.Region)
}

func TestRegions_IncludesNationwideFirst(t *testing.T) {
	regions := Regions()
	assert.Equal(t, DefaultRegion, regions[0])
	assert.Contains(t, regions, "서울")
}
