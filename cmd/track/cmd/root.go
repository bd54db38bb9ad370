package cmd

import (
	"context"
	"os"

	"parcel-tracker/internal/core/config"
	"parcel-tracker/internal/core/logger"
	"parcel-tracker/internal/features/tracking"
	"parcel-tracker/internal/features/tracking/service"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// serviceFactory builds the tracking service and its cleanup from configuration.
type serviceFactory func(cfg *config.AppConfig) (*service.TrackingService, func() error, error)

// app carries what every subcommand needs; both hooks are replaced in tests.
type app struct {
	configDir  string
	jsonOutput bool
	verbose    bool

	loadConfig func(dir string) (*config.AppConfig, error)
	newService serviceFactory
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{
		loadConfig: config.Load,
		newService: tracking.NewService,
	})
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "track",
		Short: "Look up Japanese parcels from the command line",
		Long: `track queries the same carrier scrapers and Track123 fallback as the
parcel-tracker API, without running the server. Configuration is read from
.env and the environment exactly like the API.`,
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.configDir, "config-dir", ".", "Directory holding the .env file")
	rootCmd.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "Print JSON instead of styled text")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log outbound requests")

	rootCmd.AddCommand(newLookupCmd(a), newCarriersCmd(a))
	return rootCmd
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := fang.Execute(context.Background(), NewRootCmd()); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration, initializes logging and builds the service.
func (a *app) setup() (*service.TrackingService, func() error, error) {
	cfg, err := a.loadConfig(a.configDir)
	if err != nil {
		return nil, nil, err
	}

	level := "error"
	if a.verbose {
		level = "debug"
	}
	if err := logger.Init(cfg.Environment, level); err != nil {
		return nil, nil, err
	}

	return a.newService(cfg)
}
