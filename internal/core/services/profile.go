package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/codeg-cli/internal/core/domain"
	"github.com/custodia-labs/codeg-cli/internal/core/ports/driven"
	"github.com/custodia-labs/codeg-cli/internal/core/ports/driving"
	"github.com/custodia-labs/codeg-cli/internal/logger"
)

// Ensure ProfileService implements the interface.
var _ driving.ProfileService = (*ProfileService)(nil)

// ProfileService edits the company profile through a ProfileStore.
// It keeps no copy of the profile; each call starts from a fresh Load.
type ProfileService struct {
	store driven.ProfileStore
}

// NewProfileService creates a new profile service.
func NewProfileService(store driven.ProfileStore) *ProfileService {
	return &ProfileService{store: store}
}

// Get returns the stored profile.
func (s *ProfileService) Get(ctx context.Context) domain.CompanyProfile {
	return s.store.Load(ctx)
}

// Update applies edits in order and saves the resulting profile.
// If any edit fails nothing is saved.
func (s *ProfileService) Update(ctx context.Context, edits ...driving.ProfileEdit) (domain.CompanyProfile, error) {
	current := s.store.Load(ctx)
	next := current.Clone()

	for _, edit := range edits {
		if err := edit(&next); err != nil {
			return current, err
		}
	}
	if err := next.Validate(); err != nil {
		return current, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	if err := s.store.Save(ctx, next); err != nil {
		return current, fmt.Errorf("save profile: %w", err)
	}
	logger.Debug("profile saved (industry=%q keywords=%d)", next.Industry, len(next.Keywords))
	return next, nil
}

// AddKeyword appends a keyword. A blank or duplicate tag is not an error;
// the stored profile is returned unchanged and nothing is written.
func (s *ProfileService) AddKeyword(ctx context.Context, tag string) (domain.CompanyProfile, error) {
	current := s.store.Load(ctx)
	probe := current.Clone()
	if !probe.AddKeyword(tag) {
		return current, nil
	}
	return s.Update(ctx, driving.WithKeywordAdded(tag))
}

// RemoveKeyword removes at most one matching keyword.
func (s *ProfileService) RemoveKeyword(ctx context.Context, tag string) (domain.CompanyProfile, error) {
	current := s.store.Load(ctx)
	if !current.HasKeyword(tag) {
		return current, nil
	}
	return s.Update(ctx, driving.WithKeywordRemoved(tag))
}

// Reset stores the default profile.
func (s *ProfileService) Reset(ctx context.Context) (domain.CompanyProfile, error) {
	def := domain.DefaultCompanyProfile()
	if err := s.store.Save(ctx, def); err != nil {
		return s.store.Load(ctx), fmt.Errorf("save profile: %w", err)
	}
	return def, nil
}
