package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/smartclipper/smartclip/internal/script"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a narration script without submitting it",
		Long: `Parse a narration script and report its segments, skipped lines and
estimated spoken duration. Reads from a file, from stdin when the argument
is "-" or absent, or from the clipboard with --clipboard.

Two line formats are accepted:

  Script text|MM:SS|Description of footage
  00:30 Script text [28:01] (Description of footage)

Lines matching neither format are skipped, not fatal.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			useClipboard, _ := cmd.Flags().GetBool("clipboard")
			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			text, err := readScriptSource(path, useClipboard, cmd.InOrStdin())
			if err != nil {
				return err
			}

			res := script.Parse(text)
			printParseResult(cmd.OutOrStdout(), res)

			if len(res.Segments) == 0 {
				return errors.New("no valid script segments found")
			}
			return nil
		},
	}
	cmd.Flags().Bool("clipboard", false, "Read the script from the clipboard")
	return cmd
}
