package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/soyeahso/tubecrew/internal/config"
	"github.com/soyeahso/tubecrew/internal/gateway"
	"github.com/soyeahso/tubecrew/internal/hooks"
	"github.com/soyeahso/tubecrew/internal/store"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		bind string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if port != 0 {
				cfg.Gateway.Port = port
			}
			if bind != "" {
				cfg.Gateway.Bind = bind
			}

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			if err := paths.EnsureDirs(); err != nil {
				return fmt.Errorf("creating directories: %w", err)
			}

			report := config.VerifySettings(cfg, paths)
			if !report.IsValid {
				log.Warn().Strs("missing", report.MissingKeys).Msg("some agents will report missing credentials")
			}

			history, closeHistory, err := store.OpenHistory(cfg.History.Store, historyPath(), log)
			if err != nil {
				return fmt.Errorf("opening run history: %w", err)
			}
			defer closeHistory()

			hookMgr := hooks.NewManager(log)
			if n := hookMgr.RegisterCommands(cfg.Hooks); n > 0 {
				log.Info().Int("count", n).Msg("command hooks registered")
			}

			srv := gateway.New(cfg, log,
				gateway.WithHistory(history),
				gateway.WithHooks(hookMgr),
				gateway.WithPaths(paths),
			)

			// Block until SIGINT/SIGTERM
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override server port")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind mode (auto, lan, loopback, custom)")

	return cmd
}
