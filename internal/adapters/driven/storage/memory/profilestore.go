package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/custodia-labs/codeg-cli/internal/core/domain"
	"github.com/custodia-labs/codeg-cli/internal/core/ports/driven"
	"github.com/custodia-labs/codeg-cli/internal/logger"
)

// Ensure ProfileStore implements the interface.
var _ driven.ProfileStore = (*ProfileStore)(nil)

// ProfileStore keeps the serialised profile in memory. It stores the
// encoded record rather than the struct so Load decodes on every call,
// the same as the durable stores.
type ProfileStore struct {
	mu  sync.RWMutex
	raw []byte
}

// NewProfileStore creates an empty in-memory profile store.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{}
}

// Load decodes the stored record, or returns the default profile.
func (s *ProfileStore) Load(_ context.Context) domain.CompanyProfile {
	s.mu.RLock()
	raw := s.raw
	s.mu.RUnlock()

	profile, err := domain.DecodeProfile(raw)
	if err != nil {
		logger.Warn("in-memory profile unreadable, using defaults: %v", err)
	}
	return profile
}

// Save encodes and replaces the stored record.
func (s *ProfileStore) Save(_ context.Context, profile domain.CompanyProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.raw = data
	s.mu.Unlock()
	return nil
}

// SetRaw replaces the stored bytes verbatim.
func (s *ProfileStore) SetRaw(data []byte) {
	s.mu.Lock()
	s.raw = append([]byte(nil), data...)
	s.mu.Unlock()
}

// Raw returns a copy of the stored bytes.
func (s *ProfileStore) Raw() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]byte(nil), s.raw...)
}
