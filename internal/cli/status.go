package cli

import (
	"fmt"
	"strings"

	"github.com/soyeahso/tubecrew/internal/config"
	"github.com/soyeahso/tubecrew/internal/version"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show configuration summary and missing credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tubecrew %s (commit %s)\n\n", version.Version, version.Commit)

			fmt.Fprintf(out, "Config:  %s\n", paths.Config)
			fmt.Fprintf(out, "Data:    %s\n", paths.Data)

			cfg, err := loadConfig()
			if err != nil {
				fmt.Fprintf(out, "Config:  error loading: %v\n", err)
				return nil
			}
			fmt.Fprintf(out, "Assets:  %s\n\n", paths.Assets)

			fmt.Fprintf(out, "Gateway: port=%d bind=%s auth=%s lock=%s\n",
				cfg.Gateway.Port, cfg.Gateway.Bind, cfg.Gateway.Auth.Mode, lockMode(cfg.Lock))
			fmt.Fprintf(out, "LLM:     model=%s base=%s\n", orNone(cfg.Completion.Model), cfg.Completion.BaseURL)
			fmt.Fprintf(out, "Search:  provider=%s results=%d\n", cfg.Search.Provider, cfg.Search.ResultCount)
			fmt.Fprintf(out, "History: store=%s\n", cfg.History.Store)

			report := config.VerifySettings(cfg, paths)
			fmt.Fprintln(out)
			if report.IsValid {
				fmt.Fprintln(out, "Credentials: all present")
			} else {
				fmt.Fprintf(out, "Credentials: missing %s\n", strings.Join(report.MissingKeys, ", "))
			}
			fmt.Fprintf(out, "Directories: credentials=%v assets=%v\n", report.CredentialsDirExists, report.AssetsDirExists)

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				fmt.Fprintf(out, "\nValidation issues (%d):\n", len(issues))
				for _, issue := range issues {
					fmt.Fprintf(out, "  - %s\n", issue)
				}
			}

			return nil
		},
	}

	return cmd
}

func lockMode(l config.LockConfig) string {
	if l.Enforce {
		return "enforced"
	}
	return "advisory"
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
