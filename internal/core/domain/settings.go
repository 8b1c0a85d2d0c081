package domain

import "time"

const unknownDescription = "Unknown"

// Default settings values.
const (
	DefaultAPIBaseURL        = "http://127.0.0.1:8000"
	DefaultAPITimeout        = 120 * time.Second
	DefaultDeepRatePerSecond = 2.0
	DefaultRegion            = "전국"
)

// StorageBackend selects the durable store for the company profile.
type StorageBackend string

// Available storage backends.
const (
	// StorageBackendSQLite keeps the profile in the local SQLite database.
	StorageBackendSQLite StorageBackend = "sqlite"

	// StorageBackendFile keeps the profile in a JSON file.
	StorageBackendFile StorageBackend = "file"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageBackendSQLite, StorageBackendFile:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StorageBackend) Description() string {
	switch b {
	case StorageBackendSQLite:
		return "SQLite (~/.codeg/data/codeg.db)"
	case StorageBackendFile:
		return "JSON file (~/.codeg/data)"
	default:
		return unknownDescription
	}
}

// AllStorageBackends returns all available storage backends.
func AllStorageBackends() []StorageBackend {
	return []StorageBackend{StorageBackendSQLite, StorageBackendFile}
}

// Regions lists the region filters offered for bulk analysis.
func Regions() []string {
	return []string{"전국", "서울", "경기", "인천", "대전", "부산", "대구", "광주", "강원"}
}

// APISettings holds the analysis service connection settings.
type APISettings struct {
	// BaseURL is the service address, e.g. http://127.0.0.1:8000.
	BaseURL string

	// Timeout bounds a single request.
	Timeout time.Duration

	// DeepRatePerSecond limits deep-analysis requests. Zero disables the limit.
	DeepRatePerSecond float64
}

// StorageSettings holds profile persistence settings.
type StorageSettings struct {
	Backend StorageBackend
}

// AnalyzeSettings holds defaults for bulk analysis.
type AnalyzeSettings struct {
	// Region is the default region filter.
	Region string
}

// AppSettings holds all application settings.
type AppSettings struct {
	API     APISettings
	Storage StorageSettings
	Analyze AnalyzeSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		API: APISettings{
			BaseURL:           DefaultAPIBaseURL,
			Timeout:           DefaultAPITimeout,
			DeepRatePerSecond: DefaultDeepRatePerSecond,
		},
		Storage: StorageSettings{
			Backend: StorageBackendSQLite,
		},
		Analyze: AnalyzeSettings{
			Region: DefaultRegion,
		},
	}
}
