// Package cli implements the tubecrew command line.
package cli

import (
	"path/filepath"

	"github.com/soyeahso/tubecrew/internal/config"
	"github.com/soyeahso/tubecrew/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string

	// loaded at init time
	paths config.Paths
	log   *logging.Logger
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tubecrew",
		Short: "tubecrew: AI agents for YouTube content production",
		Long: "tubecrew serves eight content agents (strategy, research, scriptwriting, review, " +
			"editing, thumbnails, publishing and analytics) over an HTTP API.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			paths, err = config.ResolvePaths()
			if err != nil {
				return err
			}
			if cfgFile != "" {
				paths.Config = cfgFile
			}
			// Variables already in the environment win over both files.
			if err := config.LoadDotEnv(".env", paths.DotEnv); err != nil {
				return err
			}
			level := logLevel
			if level == "" {
				level = "info"
			}
			log = logging.New(nil, level)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.tubecrew/config.yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error, fatal, silent)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newYouTubeCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newRunCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

// loadConfig reads the config file, fills unset file locations from the
// resolved paths and rebuilds the logger from the logging section. The
// --log-level flag overrides the configured level.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(paths.Config)
	if err != nil {
		return cfg, err
	}
	config.ApplyPaths(&cfg, paths)
	paths = paths.WithAssets(cfg.Assets.Dir)

	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	log = logging.NewStyled(cfg.Logging.ConsoleStyle, level)
	return cfg, nil
}

// historyPath is the SQLite database holding run history.
func historyPath() string {
	return filepath.Join(paths.Data, "tubecrew.db")
}
