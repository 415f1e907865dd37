package cli

import (
	"github.com/soyeahso/tubecrew/internal/youtube"
	"github.com/spf13/cobra"
)

func newYouTubeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "youtube",
		Short: "Manage YouTube channel access",
	}

	cmd.AddCommand(newYouTubeAuthCmd())
	return cmd
}

func newYouTubeAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize uploads and channel edits with OAuth",
		Long: "Opens the OAuth consent flow for the client secrets file and saves the " +
			"resulting token so scheduling and card setup can write to the channel.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return youtube.Authorize(cmd.Context(), cfg.YouTube, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
