package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartclipper/smartclip/internal/client"
	"github.com/smartclipper/smartclip/internal/logging"
)

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <job-id>",
		Short: "Delete a job and its artifacts from the server",
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
			if err := c.DeleteJob(cmd.Context(), id); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Job %s deleted\n", id)
			updateHistory(cmd.Context(), s, logger, id, "deleted", "")
			return nil
		},
	}
}
