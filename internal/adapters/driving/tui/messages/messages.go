// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/codeg-cli/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewResults is the analysis filters and result list view.
	ViewResults
	// ViewProfile is the company profile editor.
	ViewProfile
	// ViewSettings is the settings view.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewResults:
		return "results"
	case ViewProfile:
		return "profile"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// AnalyzeCompleted is sent when a bulk analysis job returns. The result
// set itself is read from the controller snapshot.
type AnalyzeCompleted struct {
	RequestID uint64
	Err       error
}

// DeepAnalyzeCompleted is sent when the deep analysis of one result returns.
type DeepAnalyzeCompleted struct {
	URL string
	Err error
}

// ProfileLoaded carries the stored profile.
type ProfileLoaded struct {
	Profile domain.CompanyProfile
}

// ProfileSaved signals that a profile edit was persisted.
type ProfileSaved struct {
	Profile domain.CompanyProfile
	Err     error
}

// ProfileChanged signals that the stored profile was changed by another process.
type ProfileChanged struct{}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Err error
}
