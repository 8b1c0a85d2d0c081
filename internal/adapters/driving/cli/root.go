// Package cli provides the cobra command tree for the codeg binary.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/codeg-cli/internal/core/ports/driving"
	"github.com/custodia-labs/codeg-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// annotationNoServices marks commands that run without core services.
const annotationNoServices = "codeg/no-services"

// Services holds the core services the commands drive.
type Services struct {
	Profile  driving.ProfileService
	Results  driving.ResultSetController
	Settings driving.SettingsService

	// ProfileWatcher is set when the profile store reports external edits.
	ProfileWatcher tui.ProfileWatcher

	// Close releases the resources behind the services. May be nil.
	Close func() error
}

// Options carries the global flag values into a Bootstrap.
type Options struct {
	// ConfigDir overrides the configuration directory (~/.codeg).
	ConfigDir string

	// Verbose enables debug logging.
	Verbose bool
}

// Bootstrap builds the services once flags are parsed.
type Bootstrap func(ctx context.Context, opts Options) (*Services, error)

var (
	profileService  driving.ProfileService
	resultSet       driving.ResultSetController
	settingsService driving.SettingsService
	profileWatcher  tui.ProfileWatcher
	closeServices   func() error

	bootstrap Bootstrap
)

var (
	verboseFlag   bool
	configDirFlag string
)

var rootCmd = &cobra.Command{
	Use:   "codeg",
	Short: "Match your company profile against public funding notices",
	Long: `codeg keeps a company profile on this machine and asks the Code-G
analysis service which public funding notices fit it.

Set up the profile once, then run an analysis:

  codeg profile set --industry SaaS --year 2019 --employees 12 --focus r_d
  codeg analyze --region 서울 --keyword AI

Run 'codeg tui' for the interactive interface.`,
	SilenceUsage:       true,
	PersistentPreRunE:  initServices,
	PersistentPostRunE: releaseServices,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "print debug logs to stderr")
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "configuration directory (default ~/.codeg)")
}

// SetBootstrap registers the function that builds the services.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices installs already-built services.
func SetServices(s *Services) {
	if s == nil {
		profileService, resultSet, settingsService, profileWatcher, closeServices = nil, nil, nil, nil, nil
		return
	}
	profileService = s.Profile
	resultSet = s.Results
	settingsService = s.Settings
	profileWatcher = s.ProfileWatcher
	closeServices = s.Close
}

// Execute runs the root command. Command output goes to stdout, errors
// and warnings to stderr.
func Execute(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}

func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verboseFlag)

	if cmd.Annotations[annotationNoServices] == "true" {
		return nil
	}
	if bootstrap == nil || profileService != nil {
		return nil
	}

	services, err := bootstrap(cmd.Context(), Options{ConfigDir: configDirFlag, Verbose: verboseFlag})
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	SetServices(services)
	return nil
}

func releaseServices(_ *cobra.Command, _ []string) error {
	if closeServices == nil {
		return nil
	}
	err := closeServices()
	closeServices = nil
	return err
}

// commandContext returns the command's context, or Background when unset.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func requireProfileService() error {
	if profileService == nil {
		return errors.New("profile service not configured")
	}
	return nil
}
