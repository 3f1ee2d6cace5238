package cli

import (
	"github.com/spf13/cobra"

	"github.com/smartclipper/smartclip/internal/client"
	"github.com/smartclipper/smartclip/internal/job"
	"github.com/smartclipper/smartclip/internal/logging"
)

func newPreviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview <job-id>",
		Short: "Show the preview of a completed job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveSettings(cmd)
			if err != nil {
				return err
			}
			logger := logging.NewCLILogger(s.Verbose)

			id, err := resolveJobID(cmd.Context(), s, logger, args[0])
			if err != nil {
				return err
			}

			c := client.NewHTTPClient(s.BaseURL, logger)
			raw, err := c.JobPreview(cmd.Context(), id)
			if err != nil {
				return err
			}

			printPreview(cmd.OutOrStdout(), job.ResolvePreview(raw, s.BaseURL))
			return nil
		},
	}
}
