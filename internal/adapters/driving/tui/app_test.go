package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/codeg-cli/internal/core/domain"
	"github.com/custodia-labs/codeg-cli/internal/core/ports/driving"
)

func newTestPorts() *Ports {
	return &Ports{
		Profile: &MockProfileService{Profile: domain.CompanyProfile{
			Industry: domain.IndustrySaaS,
			Keywords: []string{"AI"},
		}},
		Results: &MockResultSet{},
	}
}

func newTestApp(t *testing.T, ports *Ports) *App {
	t.Helper()
	app, err := NewApp(ports)
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	return app
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(newTestPorts())

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{Results: &MockResultSet{}})

	assert.ErrorIs(t, err, ErrMissingProfileService)
	assert.Nil(t, app)
}

func TestNewApp_NilPorts(t *testing.T) {
	app, err := NewApp(nil)

	assert.ErrorIs(t, err, ErrInvalidPorts)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Equal(t, app, app.WithContext(ctx))
}

func TestApp_Init(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	assert.NotNil(t, app.Init())
}

func TestApp_Init_StartsProfileWatch(t *testing.T) {
	ports := newTestPorts()
	watcher := &MockProfileWatcher{Changes: make(chan struct{}, 1)}
	ports.ProfileWatcher = watcher
	app := newTestApp(t, ports)

	app.Init()
	watcher.Changes <- struct{}{}

	// an external edit reloads the profile even while another view is showing
	ports.Profile.(*MockProfileService).Profile.Industry = domain.IndustryBioHealth
	_, cmd := app.Update(messages.ProfileChanged{})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_Update_WindowSize(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
}

func TestApp_View_NotReady(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_View_Menu(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	view := app.View()

	assert.Contains(t, view, "Code-G")
	assert.Contains(t, view, "Company Profile")
}

func TestApp_CtrlCQuits(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	app.Update(messages.ViewChanged{View: messages.ViewResults})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_QuitMessage(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_MenuNavigation(t *testing.T) {
	tests := []struct {
		name  string
		downs int
		want  messages.ViewType
	}{
		{"analyze", 0, messages.ViewResults},
		{"profile", 1, messages.ViewProfile},
		{"settings", 2, messages.ViewSettings},
		{"help", 3, messages.ViewHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, newTestPorts())
			for i := 0; i < tt.downs; i++ {
				app.Update(tea.KeyMsg{Type: tea.KeyDown})
			}

			_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
			require.NotNil(t, cmd)
			app.Update(cmd())

			assert.Equal(t, tt.want, app.CurrentView())
		})
	}
}

func TestApp_HelpEscReturnsToMenu(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	app.Update(messages.ViewChanged{View: messages.ViewHelp})
	assert.Contains(t, app.View(), "Retry a failed analysis")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_AnalyzeFlow(t *testing.T) {
	ports := newTestPorts()
	var snap driving.ResultSnapshot
	var gotFilters domain.AnalyzeFilters
	ports.Results = &MockResultSet{
		BeginAnalyzeFunc: func(_ domain.CompanyProfile, filters domain.AnalyzeFilters) (driving.Job, error) {
			gotFilters = filters
			snap = driving.ResultSnapshot{Searching: true, RequestID: 1}
			return func(context.Context) error {
				snap = driving.ResultSnapshot{
					RequestID:  1,
					Status:     "Analysis complete: 1 matching notices.",
					Results:    []domain.AnalysisResult{{URL: "x", Title: "AI Voucher", GScore: 88}},
					Enrichment: map[string]domain.EnrichmentState{"x": domain.Idle()},
				}
				return nil
			}, nil
		},
		SnapshotFunc: func() driving.ResultSnapshot { return snap },
	}
	app := newTestApp(t, ports)
	app.Update(messages.ViewChanged{View: messages.ViewResults})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, domain.DefaultRegion, gotFilters.Region)
	assert.Contains(t, app.View(), "Analyzing notices...")

	app.Update(cmd())

	view := app.View()
	assert.Contains(t, view, "AI Voucher")
	assert.Contains(t, view, "88")
}

func TestApp_AnalyzeCompletedRoutedWhileAway(t *testing.T) {
	ports := newTestPorts()
	snap := driving.ResultSnapshot{}
	ports.Results = &MockResultSet{
		BeginAnalyzeFunc: func(domain.CompanyProfile, domain.AnalyzeFilters) (driving.Job, error) {
			snap = driving.ResultSnapshot{Searching: true, RequestID: 1}
			return func(context.Context) error {
				snap = driving.ResultSnapshot{
					RequestID: 1,
					Results:   []domain.AnalysisResult{{URL: "x", Title: "Late"}},
				}
				return nil
			}, nil
		},
		SnapshotFunc: func() driving.ResultSnapshot { return snap },
	}
	app := newTestApp(t, ports)
	app.Update(messages.ViewChanged{View: messages.ViewResults})
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	_, back := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, back)
	app.Update(back())
	require.Equal(t, messages.ViewMenu, app.CurrentView())
	app.Update(cmd())

	app.Update(messages.ViewChanged{View: messages.ViewResults})
	assert.Contains(t, app.View(), "Late")
}

func TestApp_ProfileSavedRoutedToProfileView(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	app.Update(messages.ViewChanged{View: messages.ViewProfile})
	app.Update(messages.ViewChanged{View: messages.ViewMenu})

	saved := domain.CompanyProfile{Industry: domain.IndustryHardware}
	app.Update(messages.ProfileSaved{Profile: saved})
	app.Update(messages.ViewChanged{View: messages.ViewProfile})

	assert.Equal(t, domain.IndustryHardware, app.profileView.Profile().Industry)
}

func TestApp_SettingsWithoutService(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	_, cmd := app.Update(messages.ViewChanged{View: messages.ViewSettings})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Contains(t, app.View(), "settings service not available")
}

func TestApp_ErrorOccurred(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	app.Update(messages.ErrorOccurred{Err: errors.New("watching profile: no such file")})

	assert.EqualError(t, app.Err(), "watching profile: no such file")
}
