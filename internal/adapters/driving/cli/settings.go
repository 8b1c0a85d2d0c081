package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/codeg-cli/internal/core/domain"
)

const settingsLong = `View and change the analysis service address, request limits, profile
storage and analysis defaults.

Settings are kept in ~/.codeg/config.toml. Environment variables take
precedence over the file.`

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long:  settingsLong,
	RunE:  runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Change a single setting by key.

Keys:
  api.base_url              analysis service address, e.g. http://127.0.0.1:8000
  api.timeout_seconds       request timeout in seconds
  api.deep_rate_per_second  deep analyses per second (0 = unlimited)
  storage.backend           profile storage: sqlite or file
  analyze.region            default region filter, e.g. 서울`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsUnsetCmd = &cobra.Command{
	Use:   "unset [key]",
	Short: "Restore a setting to its default",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsUnset,
}

// SetEnvironmentHelp appends the list of recognised environment variables
// to the settings help. An empty text restores the plain help.
func SetEnvironmentHelp(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		settingsCmd.Long = settingsLong
		return
	}
	settingsCmd.Long = settingsLong + "\n\n" + text
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsUnsetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Analysis Service]")
	cmd.Printf("  Base URL: %s\n", settings.API.BaseURL)
	cmd.Printf("  Timeout: %s\n", settings.API.Timeout)
	cmd.Printf("  Deep analysis rate: %s\n", formatRate(settings.API.DeepRatePerSecond))
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Storage.Backend.Description())
	cmd.Println()

	cmd.Println("[Analyze]")
	cmd.Printf("  Default region: %s\n", settings.Analyze.Region)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w\nKnown keys: %s", err, strings.Join(settingsService.Keys(), ", "))
		}
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s = %s\n", key, value)
	if key == "storage.backend" {
		cmd.Println("The new backend starts empty; set up the profile again if needed.")
	}
	return nil
}

func runSettingsUnset(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key := args[0]
	if err := settingsService.Unset(key); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w\nKnown keys: %s", err, strings.Join(settingsService.Keys(), ", "))
		}
		return fmt.Errorf("failed to unset %s: %w", key, err)
	}

	cmd.Printf("Restored default for %s\n", key)
	return nil
}

func formatRate(perSecond float64) string {
	if perSecond == 0 {
		return "unlimited"
	}
	return fmt.Sprintf("%g per second", perSecond)
}
