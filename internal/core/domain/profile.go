package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Year bounds accepted for YearEstablished.
const (
	MinYearEstablished = 1900
	MaxYearEstablished = 2100
)

// Industry is the company's sector. The empty value means unset.
type Industry string

// Supported industries.
const (
	IndustryUnset         Industry = ""
	IndustryAIVision      Industry = "AI/Vision"
	IndustryBioHealth     Industry = "Bio/Health"
	IndustrySaaS          Industry = "SaaS"
	IndustryManufacturing Industry = "Manufacturing"
	IndustryHardware      Industry = "Hardware"
	IndustryOther         Industry = "Other"
)

// AllIndustries returns every selectable industry in display order.
func AllIndustries() []Industry {
	return []Industry{
		IndustryAIVision,
		IndustryBioHealth,
		IndustrySaaS,
		IndustryManufacturing,
		IndustryHardware,
		IndustryOther,
	}
}

// IsValid returns true for a known industry or the unset value.
func (i Industry) IsValid() bool {
	if i == IndustryUnset {
		return true
	}
	for _, known := range AllIndustries() {
		if i == known {
			return true
		}
	}
	return false
}

// String returns the string representation.
func (i Industry) String() string {
	return string(i)
}

// Focus is the company's current business focus. The empty value means unset.
type Focus string

// Supported focus values.
const (
	FocusUnset             Focus = ""
	FocusRD                Focus = "r_d"
	FocusCommercialization Focus = "commercialization"
)

// IsValid returns true for a known focus or the unset value.
func (f Focus) IsValid() bool {
	switch f {
	case FocusUnset, FocusRD, FocusCommercialization:
		return true
	default:
		return false
	}
}

// Label returns the human-readable label sent to the analysis service.
func (f Focus) Label() string {
	switch f {
	case FocusRD:
		return "R&D Focus"
	case FocusCommercialization:
		return "Commercialization/Sales Focus"
	default:
		return ""
	}
}

// String returns the string representation.
func (f Focus) String() string {
	return string(f)
}

// OptionalInt is an integer that is either set or explicitly unset.
// Unset values encode to JSON as "" to stay compatible with stored profiles.
type OptionalInt struct {
	Value int64
	Set   bool
}

// Int returns a set OptionalInt.
func Int(v int64) OptionalInt {
	return OptionalInt{Value: v, Set: true}
}

// Unset returns the unset marker.
func Unset() OptionalInt {
	return OptionalInt{}
}

// Ptr returns a pointer to the value, or nil when unset.
func (o OptionalInt) Ptr() *int64 {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}

// String returns the decimal value, or "" when unset.
func (o OptionalInt) String() string {
	if !o.Set {
		return ""
	}
	return strconv.FormatInt(o.Value, 10)
}

// MarshalJSON implements json.Marshaler.
func (o OptionalInt) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte(`""`), nil
	}
	return []byte(strconv.FormatInt(o.Value, 10)), nil
}

// UnmarshalJSON accepts a number, "" or null. Anything else is an error.
func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte(`""`)) {
		*o = Unset()
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("optional int: %w", err)
	}
	v, err := n.Int64()
	if err != nil {
		return fmt.Errorf("optional int: %w", err)
	}
	*o = Int(v)
	return nil
}

// CompanyProfile describes the user's company. It is the single record
// persisted by a ProfileStore.
type CompanyProfile struct {
	Industry        Industry    `json:"industry"`
	YearEstablished OptionalInt `json:"year_established"`
	RevenueKRW      OptionalInt `json:"revenue_krw"`
	Employees       OptionalInt `json:"employees"`
	Focus           Focus       `json:"focus"`
	Keywords        []string    `json:"keywords"`
}

// DefaultCompanyProfile returns the canonical record with every field unset.
func DefaultCompanyProfile() CompanyProfile {
	return CompanyProfile{Keywords: []string{}}
}

// Clone returns a deep copy.
func (p CompanyProfile) Clone() CompanyProfile {
	out := p
	out.Keywords = append([]string{}, p.Keywords...)
	return out
}

// IsEmpty returns true when every field is unset.
func (p CompanyProfile) IsEmpty() bool {
	return p.Industry == IndustryUnset &&
		!p.YearEstablished.Set &&
		!p.RevenueKRW.Set &&
		!p.Employees.Set &&
		p.Focus == FocusUnset &&
		len(p.Keywords) == 0
}

// HasKeyword reports whether tag is present (exact, case-sensitive).
func (p CompanyProfile) HasKeyword(tag string) bool {
	for _, k := range p.Keywords {
		if k == tag {
			return true
		}
	}
	return false
}

// AddKeyword appends the trimmed tag. It is a no-op when the tag is blank
// or already present. Returns true if the keyword list changed.
func (p *CompanyProfile) AddKeyword(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" || p.HasKeyword(tag) {
		return false
	}
	p.Keywords = append(p.Keywords, tag)
	return true
}

// RemoveKeyword removes at most one entry equal to tag.
// Returns true if the keyword list changed.
func (p *CompanyProfile) RemoveKeyword(tag string) bool {
	for i, k := range p.Keywords {
		if k == tag {
			p.Keywords = append(p.Keywords[:i:i], p.Keywords[i+1:]...)
			return true
		}
	}
	return false
}

// Validate checks the structural invariants of a profile. Storage adapters
// use it to reject corrupt records.
func (p CompanyProfile) Validate() error {
	if !p.Industry.IsValid() {
		return fmt.Errorf("%w: unknown industry %q", ErrInvalidInput, p.Industry)
	}
	if !p.Focus.IsValid() {
		return fmt.Errorf("%w: unknown focus %q", ErrInvalidInput, p.Focus)
	}
	if p.YearEstablished.Set &&
		(p.YearEstablished.Value < MinYearEstablished || p.YearEstablished.Value > MaxYearEstablished) {
		return fmt.Errorf("%w: year_established out of range", ErrInvalidInput)
	}
	if p.RevenueKRW.Set && p.RevenueKRW.Value < 0 {
		return fmt.Errorf("%w: revenue_krw is negative", ErrInvalidInput)
	}
	if p.Employees.Set && p.Employees.Value < 0 {
		return fmt.Errorf("%w: employees is negative", ErrInvalidInput)
	}
	seen := make(map[string]struct{}, len(p.Keywords))
	for _, k := range p.Keywords {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("%w: blank keyword", ErrInvalidInput)
		}
		if _, dup := seen[k]; dup {
			return fmt.Errorf("%w: duplicate keyword %q", ErrInvalidInput, k)
		}
		seen[k] = struct{}{}
	}
	return nil
}

// DecodeProfile decodes a stored profile record. Empty input and JSON null
// yield the default profile with no error. Undecodable or invalid records
// yield the default profile and an error wrapping ErrStorageCorrupt.
func DecodeProfile(data []byte) (CompanyProfile, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return DefaultCompanyProfile(), nil
	}

	var p CompanyProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return DefaultCompanyProfile(), fmt.Errorf("%w: %w", ErrStorageCorrupt, err)
	}
	if p.Keywords == nil {
		p.Keywords = []string{}
	}
	if err := p.Validate(); err != nil {
		return DefaultCompanyProfile(), fmt.Errorf("%w: %w", ErrStorageCorrupt, err)
	}
	return p, nil
}

// RawProfile carries unparsed field input, as typed into a form or flag.
type RawProfile struct {
	Industry        string
	YearEstablished string
	RevenueKRW      string
	Employees       string
	Focus           string
	Keywords        []string
}

// NormalizeProfile converts raw input into a CompanyProfile honouring every
// field constraint. Only an unknown industry is rejected; numeric input that
// cannot be parsed becomes unset and an unknown focus becomes unset.
func NormalizeProfile(raw RawProfile) (CompanyProfile, error) {
	industry := Industry(strings.TrimSpace(raw.Industry))
	if !industry.IsValid() {
		return CompanyProfile{}, fmt.Errorf("%w: unknown industry %q", ErrValidation, raw.Industry)
	}

	focus := Focus(strings.TrimSpace(raw.Focus))
	if !focus.IsValid() {
		focus = FocusUnset
	}

	p := DefaultCompanyProfile()
	p.Industry = industry
	p.YearEstablished = ParseYear(raw.YearEstablished)
	p.RevenueKRW = ParseNonNegative(raw.RevenueKRW)
	p.Employees = ParseNonNegative(raw.Employees)
	p.Focus = focus
	for _, k := range raw.Keywords {
		p.AddKeyword(k)
	}
	return p, nil
}

// ParseYear parses a year and clamps it to [MinYearEstablished, MaxYearEstablished].
// Empty or non-numeric input yields unset.
func ParseYear(s string) OptionalInt {
	v, ok := parseInt(s)
	if !ok {
		return Unset()
	}
	return Int(clamp(v, MinYearEstablished, MaxYearEstablished))
}

// ParseNonNegative parses an integer and clamps it to >= 0.
// Empty or non-numeric input yields unset.
func ParseNonNegative(s string) OptionalInt {
	v, ok := parseInt(s)
	if !ok {
		return Unset()
	}
	if v < 0 {
		v = 0
	}
	return Int(v)
}

func parseInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WireProfile is the profile payload sent to the analysis service.
// Unset fields are omitted.
type WireProfile struct {
	Industry        string   `json:"industry,omitempty"`
	YearEstablished *int64   `json:"year_established,omitempty"`
	RevenueKRW      *int64   `json:"revenue_krw,omitempty"`
	Employees       *int64   `json:"employees,omitempty"`
	Focus           string   `json:"focus,omitempty"`
	Keywords        []string `json:"keywords"`
}

// ToWireFormat converts a profile to its wire payload.
// It returns nil when every field is unset.
func ToWireFormat(p CompanyProfile) *WireProfile {
	if p.IsEmpty() {
		return nil
	}
	return &WireProfile{
		Industry:        p.Industry.String(),
		YearEstablished: p.YearEstablished.Ptr(),
		RevenueKRW:      p.RevenueKRW.Ptr(),
		Employees:       p.Employees.Ptr(),
		Focus:           p.Focus.Label(),
		Keywords:        append([]string{}, p.Keywords...),
	}
}
