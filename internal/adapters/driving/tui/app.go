package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/tui/views/profile"
	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/tui/views/results"
	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/tui/views/settings"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// menuView is the main navigation menu.
	menuView *menu.View

	// resultsView shows the filters, the matching notices and their detail.
	resultsView *results.View

	// profileView edits the company profile.
	profileView *profile.View

	// settingsView edits the application settings.
	settingsView *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	var watcher profile.Watcher
	if ports.ProfileWatcher != nil {
		watcher = ports.ProfileWatcher
	}

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		menuView:     menu.NewView(s),
		resultsView:  results.NewView(s, km, ports.Profile, ports.Results, ports.Settings),
		profileView:  profile.NewView(s, km, ports.Profile, watcher),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.resultsView.WithContext(ctx)
	a.profileView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It loads the profile and starts watching it for external edits.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("codeg"),
		a.profileView.Init(),
		a.profileView.Watch(),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.currentView {
		case messages.ViewMenu:
			a.menuView, cmd = a.menuView.Update(msg)
		case messages.ViewResults:
			a.resultsView, cmd = a.resultsView.Update(msg)
		case messages.ViewProfile:
			a.profileView, cmd = a.profileView.Update(msg)
		case messages.ViewSettings:
			a.settingsView, cmd = a.settingsView.Update(msg)
		case messages.ViewHelp:
			if msg.Type == tea.KeyEsc || msg.String() == "q" {
				a.currentView = messages.ViewMenu
			}
		}
		return a, cmd

	// Analysis completions arrive whichever view is showing.
	case messages.AnalyzeCompleted, messages.DeepAnalyzeCompleted:
		a.resultsView, cmd = a.resultsView.Update(msg)
		return a, cmd

	// The profile view owns the profile state, visible or not.
	case messages.ProfileLoaded, messages.ProfileSaved, messages.ProfileChanged:
		a.profileView, cmd = a.profileView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded, messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewResults:
			return a, a.resultsView.Init()
		case messages.ViewProfile:
			return a, a.profileView.Init()
		case messages.ViewSettings:
			return a, a.settingsView.Init()
		case messages.ViewMenu, messages.ViewHelp:
		}
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages, such as cursor blinks, to the active view
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewResults:
		a.resultsView, cmd = a.resultsView.Update(msg)
	case messages.ViewProfile:
		a.profileView, cmd = a.profileView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
	}

	return a, cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewResults:
		return a.resultsView.View()
	case messages.ViewProfile:
		return a.profileView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Anywhere:
  ctrl+c      Quit
  esc         Back

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option

Analyze:
  ←/→         Change region
  tab         Next field
  enter       Run the analysis
  j/k, ↑/↓    Move through notices
  space       Show or hide the summary
  enter       Open the full analysis
  r           Retry a failed analysis
  a           Analyze again
  f, /        Edit the filters

Company Profile:
  tab, ↑/↓    Move between fields
  ←/→         Change a choice
  enter       Save a field or add a keyword
  backspace   Remove the last keyword (empty input)
  ctrl+r      Reset the profile

Settings:
  enter       Edit a value
  u           Restore the default

` + a.styles.Help.Render("[esc] back to menu")
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.resultsView.SetDimensions(width, height)
	a.profileView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
