package cli

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/codeg-cli/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for codeg.

Edit the company profile, run an analysis and browse the matching notices
with the keyboard. Open a notice to fetch its full analysis; the request
keeps running if you close it.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Select / Analyze / Open
  Space    - Show summary
  Esc      - Back
  ?        - Help
  Ctrl+C   - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// tuiPorts builds the TUI ports from the configured services.
func tuiPorts() *tui.Ports {
	return &tui.Ports{
		Profile:        profileService,
		Results:        resultSet,
		Settings:       settingsService,
		ProfileWatcher: profileWatcher,
	}
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	// Log lines would tear the alternate screen
	if !verboseFlag {
		logger.SetOutput(io.Discard)
		defer logger.SetOutput(os.Stderr)
	}

	app, err := tui.NewApp(tuiPorts())
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(commandContext(cmd))

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
