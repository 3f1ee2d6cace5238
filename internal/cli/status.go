package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartclipper/smartclip/internal/client"
	"github.com/smartclipper/smartclip/internal/logging"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <job-id>",
		Short: "Show the current status of a job",
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
			snap, err := c.JobStatus(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Job %s\n", id)
			printProgress(out, snap)
			if snap.Error != "" {
				fmt.Fprintf(out, "error: %s\n", snap.Error)
			}
			return nil
		},
	}
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <job-id>",
		Short: "Follow a job until it completes or fails",
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
			return watchJob(cmd, s, logger, c, id, false)
		},
	}
}
