// Package domain defines the core business entities for codeg.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - CompanyProfile: The user's company, persisted locally
//   - WireProfile: The profile as sent to the analysis service
//   - AnalysisResult: A funding notice scored against the profile
//   - EnrichmentState: Per-result deep-analysis progress
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
