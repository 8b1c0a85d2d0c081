// Command codeg matches a locally stored company profile against public
// funding notices using the Code-G analysis service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/codeg-cli/internal/adapters/driven/analysis/httpapi"
	"github.com/custodia-labs/codeg-cli/internal/adapters/driven/config/env"
	"github.com/custodia-labs/codeg-cli/internal/adapters/driven/config/file"
	storagefile "github.com/custodia-labs/codeg-cli/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/codeg-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/codeg-cli/internal/core/domain"
	"github.com/custodia-labs/codeg-cli/internal/core/ports/driven"
	"github.com/custodia-labs/codeg-cli/internal/core/services"
	"github.com/custodia-labs/codeg-cli/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if help, err := env.NewOverrides().Description(); err == nil {
		cli.SetEnvironmentHelp(help)
	}
	cli.SetBootstrap(bootstrap)
	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// bootstrap wires the driven adapters into the core services.
func bootstrap(_ context.Context, opts cli.Options) (*cli.Services, error) {
	configDir := opts.ConfigDir
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = dir
	}
	dataDir := filepath.Join(configDir, "data")

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, env.NewOverrides())

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	if err := settingsService.Validate(); err != nil {
		logger.Warn("settings: %v", err)
	}

	out := &cli.Services{Settings: settingsService}

	var profiles driven.ProfileStore
	switch settings.Storage.Backend {
	case domain.StorageBackendFile:
		store, err := storagefile.NewProfileStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("opening profile file: %w", err)
		}
		profiles = store
		out.ProfileWatcher = store
		logger.Debug("profile storage: %s", store.Path())
	default:
		store, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		profiles = store.ProfileStore()
		out.Close = store.Close
		logger.Debug("profile storage: %s", store.Path())
	}

	client := httpapi.NewClient(httpapi.Config{
		BaseURL:           settings.API.BaseURL,
		Timeout:           settings.API.Timeout,
		DeepRatePerSecond: settings.API.DeepRatePerSecond,
		RetryMax:          httpapi.DefaultRetryMax,
	})
	logger.Debug("analysis service: %s", client.BaseURL())

	out.Profile = services.NewProfileService(profiles)
	out.Results = services.NewResultSet(client, profiles)
	return out, nil
}
