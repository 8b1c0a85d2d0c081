package driven

import (
	"context"

	"github.com/custodia-labs/codeg-cli/internal/core/domain"
)

// ProfileKey is the fixed storage key of the single company profile record.
const ProfileKey = "code-g-company-profile"

// ProfileStore persists the single company profile of this installation.
type ProfileStore interface {
	// Load returns the persisted profile. A missing, empty or corrupt record
	// resolves to domain.DefaultCompanyProfile(); Load never fails.
	// Every call re-reads durable storage.
	Load(ctx context.Context) domain.CompanyProfile

	// Save replaces the whole record atomically.
	Save(ctx context.Context, profile domain.CompanyProfile) error
}

// ProfileWatcher is implemented by stores that can report external edits.
type ProfileWatcher interface {
	// Watch emits a signal each time the stored record changes on disk.
	// The channel is closed when ctx is cancelled.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
