package env

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/codeg-cli/internal/core/domain"
)

// clearEnv unsets the recognised variables for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{VarAPIBase, VarAPITimeout, VarStorageBackend} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func TestOverrides_NothingSet(t *testing.T) {
	clearEnv(t)

	settings := domain.DefaultAppSettings()
	require.NoError(t, NewOverrides().Apply(&settings))
	assert.Equal(t, domain.DefaultAppSettings(), settings)
}

func TestOverrides_AllSet(t *testing.T) {
	clearEnv(t)
	t.Setenv(VarAPIBase, "https://codeg.example.com/")
	t.Setenv(VarAPITimeout, "45s")
	t.Setenv(VarStorageBackend, "file")

	settings := domain.DefaultAppSettings()
	require.NoError(t, NewOverrides().Apply(&settings))

	assert.Equal(t, "https://codeg.example.com", settings.API.BaseURL)
	assert.Equal(t, 45*time.Second, settings.API.Timeout)
	assert.Equal(t, domain.StorageBackendFile, settings.Storage.Backend)
	assert.Equal(t, domain.DefaultRegion, settings.Analyze.Region, "fields without a variable are untouched")
}

func TestOverrides_Timeout(t *testing.T) {
	tests := []struct {
		value   string
		want    time.Duration
		wantErr bool
	}{
		{value: "90s", want: 90 * time.Second},
		{value: "2m", want: 2 * time.Minute},
		{value: "1m30s", want: 90 * time.Second},
		{value: "-5s", wantErr: true},
		{value: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(VarAPITimeout, tt.value)

			settings := domain.DefaultAppSettings()
			err := NewOverrides().Apply(&settings)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidInput)
				assert.Equal(t, domain.DefaultAppSettings().API.Timeout, settings.API.Timeout)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, settings.API.Timeout)
		})
	}
}

func TestOverrides_UnknownBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv(VarStorageBackend, "s3")

	settings := domain.DefaultAppSettings()
	err := NewOverrides().Apply(&settings)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, domain.StorageBackendSQLite, settings.Storage.Backend)
}

func TestOverrides_Description(t *testing.T) {
	desc, err := NewOverrides().Description()
	require.NoError(t, err)
	assert.Contains(t, desc, VarAPIBase)
	assert.Contains(t, desc, VarStorageBackend)
}
