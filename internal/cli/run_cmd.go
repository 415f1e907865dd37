package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/soyeahso/tubecrew/internal/gateway"
	"github.com/soyeahso/tubecrew/internal/store"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var (
		data string
		file string
		list bool
	)

	cmd := &cobra.Command{
		Use:   "run <agent> [operation]",
		Short: "Run one agent operation and print the result",
		Long: "Runs an agent operation in-process with a JSON request body, the same one " +
			"the matching HTTP endpoint accepts. The run is recorded in the history store.",
		Example: `  tubecrew run strategy --data '{"topic":"AI","source":"news"}'
  tubecrew run publishing seo --file request.json
  tubecrew run --list`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if list {
				printOperations(out)
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("an agent name is required (see --list)")
			}

			name := ""
			if len(args) == 2 {
				name = args[1]
			}
			op, ok := gateway.FindOperation(args[0], name)
			if !ok {
				return fmt.Errorf("unknown operation %q (see --list)", strings.Join(args, " "))
			}

			body, err := requestBody(cmd.InOrStdin(), data, file)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			opts := []gateway.ServerOption{gateway.WithPaths(paths)}
			history, closeHistory, err := store.OpenHistory(cfg.History.Store, historyPath(), log)
			if err != nil {
				log.Warn().Err(err).Msg("run history unavailable")
			} else {
				defer closeHistory()
				opts = append(opts, gateway.WithHistory(history))
			}

			srv := gateway.New(cfg, log, opts...)
			result, err := srv.Invoke(cmd.Context(), op, body)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the JSON request body from a file (- for stdin)")
	cmd.Flags().BoolVar(&list, "list", false, "list available operations")
	cmd.MarkFlagsMutuallyExclusive("data", "file")

	return cmd
}

// requestBody picks the JSON source. No data and no file means an empty
// body, which leaves every request field unset.
func requestBody(stdin io.Reader, data, file string) (io.Reader, error) {
	switch {
	case data != "":
		return strings.NewReader(data), nil
	case file == "-":
		return stdin, nil
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		return strings.NewReader(string(b)), nil
	default:
		return nil, nil
	}
}

func printOperations(out io.Writer) {
	for _, op := range gateway.Operations() {
		fmt.Fprintf(out, "  %-12s %-16s POST %s\n", op.Agent, op.Name, op.Path)
	}
}
