// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - ProfileStore: Company profile persistence (SQLite, JSON file, memory)
//   - ProfileWatcher: Optional change notification for file-backed stores
//   - AnalysisClient: Remote matching and deep-analysis service
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or driving package
package driven
