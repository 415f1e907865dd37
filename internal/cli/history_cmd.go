package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/soyeahso/tubecrew/internal/domain"
	"github.com/soyeahso/tubecrew/internal/store"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var (
		agent  string
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent agent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.History.Store == "memory" {
				return fmt.Errorf("history is kept in memory by the server; query GET /history instead")
			}

			history, closeHistory, err := store.OpenHistory(cfg.History.Store, historyPath(), log)
			if err != nil {
				return err
			}
			defer closeHistory()

			runs, err := history.Recent(cmd.Context(), agent, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(runs)
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded.")
				return nil
			}
			for _, r := range runs {
				fmt.Fprintln(out, formatRun(r))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&agent, "agent", "", "only show runs of this agent")
	cmd.Flags().IntVar(&limit, "limit", store.DefaultLimit, "maximum number of runs")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print runs as JSON")

	return cmd
}

func formatRun(r domain.Run) string {
	line := fmt.Sprintf("%s  %-12s %-16s %-5s %6dms",
		r.StartedAt.Local().Format(time.DateTime), r.Agent, r.Operation, r.Status, r.DurationMs)
	if r.Mock {
		line += "  mock"
	}
	if r.Error != "" {
		line += "  " + r.Error
	}
	return line
}
