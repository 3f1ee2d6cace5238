// Package cli implements the smartclip command tree.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/smartclipper/smartclip/internal/config"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "smartclip",
		Short:         "Turn a narration script and a video source into a narrated clip",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", config.Version, config.GitCommit, config.BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	root.PersistentFlags().String("config", "", "Path to a YAML config file")
	root.PersistentFlags().String("base-url", "", "SmartClip server base URL")
	root.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newVoicesCmd(),
		newParseCmd(),
		newSubmitCmd(),
		newStatusCmd(),
		newWatchCmd(),
		newPreviewCmd(),
		newDownloadCmd(),
		newDeleteCmd(),
		newJobsCmd(),
	)
	return root
}
