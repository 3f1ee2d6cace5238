package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/smartclipper/smartclip/internal/client"
	"github.com/smartclipper/smartclip/internal/logging"
)

func newDownloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download <job-id>",
		Short: "Save the final clip of a completed job",
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

			linkOnly, _ := cmd.Flags().GetBool("link")
			copyFlag, _ := cmd.Flags().GetBool("copy-link")

			c := client.NewHTTPClient(s.BaseURL, logger)
			link := c.DownloadURL(id)

			if linkOnly {
				fmt.Fprintln(cmd.OutOrStdout(), link)
				if copyFlag {
					copyLink(cmd, link)
				}
				return nil
			}

			dest, _ := cmd.Flags().GetString("output")
			if dest == "" {
				dest = fmt.Sprintf("smartclipper_%s.mp4", id)
			}

			f, err := os.Create(dest)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}
			n, err := c.Download(cmd.Context(), id, f)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				os.Remove(dest)
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s)\n", dest, humanize.Bytes(uint64(n)))
			if copyFlag {
				copyLink(cmd, link)
			}
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "Output file path")
	cmd.Flags().Bool("link", false, "Print the download URL instead of downloading")
	cmd.Flags().Bool("copy-link", false, "Copy the download URL to the clipboard")
	return cmd
}
