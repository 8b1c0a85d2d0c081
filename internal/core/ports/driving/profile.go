package driving

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/codeg-cli/internal/core/domain"
)

// ProfileEdit changes one or more fields of a profile in place.
type ProfileEdit func(p *domain.CompanyProfile) error

// ProfileService manages the company profile. Every successful edit is
// persisted immediately as a full-record replace.
type ProfileService interface {
	// Get returns the stored profile (or the default profile).
	Get(ctx context.Context) domain.CompanyProfile

	// Update applies the edits to the stored profile and saves the result.
	Update(ctx context.Context, edits ...ProfileEdit) (domain.CompanyProfile, error)

	// AddKeyword appends a keyword. Blank or duplicate tags leave the profile unchanged.
	AddKeyword(ctx context.Context, tag string) (domain.CompanyProfile, error)

	// RemoveKeyword removes at most one matching keyword.
	RemoveKeyword(ctx context.Context, tag string) (domain.CompanyProfile, error)

	// Reset replaces the stored profile with the default profile.
	Reset(ctx context.Context) (domain.CompanyProfile, error)
}

// WithIndustry sets the industry. The empty string clears it.
func WithIndustry(value string) ProfileEdit {
	return func(p *domain.CompanyProfile) error {
		industry := domain.Industry(strings.TrimSpace(value))
		if !industry.IsValid() {
			return fmt.Errorf("%w: unknown industry %q", domain.ErrValidation, value)
		}
		p.Industry = industry
		return nil
	}
}

// WithYearEstablished parses and clamps the year. Empty or non-numeric input clears it.
func WithYearEstablished(value string) ProfileEdit {
	return func(p *domain.CompanyProfile) error {
		p.YearEstablished = domain.ParseYear(value)
		return nil
	}
}

// WithRevenueKRW parses the revenue. Empty or non-numeric input clears it.
func WithRevenueKRW(value string) ProfileEdit {
	return func(p *domain.CompanyProfile) error {
		p.RevenueKRW = domain.ParseNonNegative(value)
		return nil
	}
}

// WithEmployees parses the headcount. Empty or non-numeric input clears it.
func WithEmployees(value string) ProfileEdit {
	return func(p *domain.CompanyProfile) error {
		p.Employees = domain.ParseNonNegative(value)
		return nil
	}
}

// WithFocus sets the focus. Values other than r_d and commercialization clear it.
func WithFocus(value string) ProfileEdit {
	return func(p *domain.CompanyProfile) error {
		focus := domain.Focus(strings.TrimSpace(value))
		if !focus.IsValid() {
			focus = domain.FocusUnset
		}
		p.Focus = focus
		return nil
	}
}

// WithKeywordAdded appends a keyword if it is new and not blank.
func WithKeywordAdded(tag string) ProfileEdit {
	return func(p *domain.CompanyProfile) error {
		p.AddKeyword(tag)
		return nil
	}
}

// WithKeywordRemoved removes one matching keyword.
func WithKeywordRemoved(tag string) ProfileEdit {
	return func(p *domain.CompanyProfile) error {
		p.RemoveKeyword(tag)
		return nil
	}
}
