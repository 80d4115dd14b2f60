package main

import (
	"fmt"

	"github.com/PizzaHomicide/listfill/internal/config"
	"github.com/PizzaHomicide/listfill/internal/log"
	"github.com/PizzaHomicide/listfill/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// configPath is the --config flag.  Empty means the default location.
var configPath string

var rootCmd = &cobra.Command{
	Use:   "listfill",
	Short: "Bulk add entries to a MyAnimeList anime and manga list",
	Long: `listfill submits add requests to a MyAnimeList list, one entry at a time, using the
CSRF token and cookies of a logged in browser session.

Entries are either random ids or paged out of a public ranking catalog.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Example: `  # Try 50 random anime ids
  listfill random --max-attempts 50

  # Add the top 3 ranking pages of anime and manga, skipping page 2
  listfill catalog --total-pages 3 --exclude 2

  # Show the result of the last run
  listfill summary`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the config file (default: OS config directory)")
	registerGlobalFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(randomCmd, catalogCmd, summaryCmd, configCmd, versionCmd)
}

// setup loads the configuration for cmd, applies its flags, validates the result and starts logging.
// overrides run after the shared flags, for flags whose meaning depends on the command.
// The returned function closes the log file.
func setup(cmd *cobra.Command, overrides ...func(*pflag.FlagSet, *config.Config) error) (*config.Config, func(), error) {
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := applyFlags(cmd.Flags(), cfg); err != nil {
		return nil, nil, err
	}
	for _, override := range overrides {
		if err := override(cmd.Flags(), cfg); err != nil {
			return nil, nil, err
		}
	}

	if err := config.Validate(cfg); err != nil {
		return nil, nil, err
	}

	logger, err := log.New(log.Config{
		Level:    cfg.Logging.Level,
		FilePath: cfg.Logging.FilePath,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialise logger: %w", err)
	}
	log.SetDefaultLogger(logger)

	log.Info("Starting up listfill", "version", version.GetVersion(), "build_time", version.GetBuildTime(),
		"command", cmd.Name())

	return cfg, func() {
		log.Info("listfill shutting down")
		log.SetDefaultLogger(nil)
		logger.Close()
	}, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.GetVersionInfo())
	},
}
