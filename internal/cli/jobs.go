package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/smartclipper/smartclip/internal/history"
	"github.com/smartclipper/smartclip/internal/logging"
)

func newJobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List jobs submitted from this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := resolveSettings(cmd)
			if err != nil {
				return err
			}
			logger := logging.NewCLILogger(s.Verbose)

			limit, _ := cmd.Flags().GetInt("limit")

			st, err := history.Open(s.HistoryPath, logger)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer st.Close()

			subs, err := st.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(subs) == 0 {
				fmt.Fprintln(out, "No submissions recorded yet.")
				return nil
			}

			fmt.Fprintf(out, "%-10s %-10s %-16s %5s %6s  %s\n",
				"ID", "STATUS", "SUBMITTED", "SEGS", "EST", "SOURCE")
			for _, sub := range subs {
				fmt.Fprintf(out, "%-10s %-10s %-16s %5d %5.1fs  %s\n",
					shortID(sub.ID), sub.Status, humanize.Time(sub.CreatedAt),
					sub.SegmentCount, sub.EstimatedSeconds, sub.Source)
			}
			return nil
		},
	}
	cmd.Flags().IntP("limit", "n", 20, "How many submissions to list")
	return cmd
}
