package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smartclipper/smartclip/internal/client"
	"github.com/smartclipper/smartclip/internal/job"
	"github.com/smartclipper/smartclip/internal/logging"
)

func newVoicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "voices",
		Short: "List the available narration voices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := resolveSettings(cmd)
			if err != nil {
				return err
			}
			logger := logging.NewCLILogger(s.Verbose)
			c := client.NewHTTPClient(s.BaseURL, logger)

			voices := fetchVoices(cmd, c)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-24s %-20s %s\n", "ID", "NAME", "LANGUAGE")
			for _, v := range voices {
				fmt.Fprintf(out, "%-24s %-20s %s\n", v.ID, v.Name, v.Language)
			}
			return nil
		},
	}
}

// fetchVoices asks the server for its catalog and substitutes the built-in
// table when the fetch fails. This is the only place the fallback happens.
func fetchVoices(cmd *cobra.Command, c client.Client) []job.Voice {
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	voices, err := c.ListVoices(ctx)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: voice fetch failed (%v), showing the built-in catalog\n", err)
		return job.AvailableVoices()
	}
	return voices
}
