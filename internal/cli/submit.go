package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/smartclipper/smartclip/internal/client"
	"github.com/smartclipper/smartclip/internal/history"
	"github.com/smartclipper/smartclip/internal/job"
	"github.com/smartclipper/smartclip/internal/logging"
	"github.com/smartclipper/smartclip/internal/script"
	"github.com/smartclipper/smartclip/internal/track"
)

func newSubmitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a script and a video source as a new clip job",
		Args:  cobra.NoArgs,
		RunE:  runSubmit,
	}
	cmd.Flags().String("url", "", "Source video URL")
	cmd.Flags().String("file", "", "Source video file to upload")
	cmd.Flags().String("script", "", "Script file path, or - for stdin")
	cmd.Flags().Bool("clipboard", false, "Read the script from the clipboard")
	cmd.Flags().String("voice", "", "Voice ID (see smartclip voices)")
	cmd.Flags().Bool("watch", false, "Track the job until it finishes")
	cmd.Flags().Bool("copy-link", false, "Copy the download link to the clipboard")
	return cmd
}

func runSubmit(cmd *cobra.Command, _ []string) error {
	s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	logger := logging.NewCLILogger(s.Verbose)

	videoURL, _ := cmd.Flags().GetString("url")
	videoPath, _ := cmd.Flags().GetString("file")
	scriptPath, _ := cmd.Flags().GetString("script")
	useClipboard, _ := cmd.Flags().GetBool("clipboard")
	watch, _ := cmd.Flags().GetBool("watch")
	copyFlag, _ := cmd.Flags().GetBool("copy-link")
	if v, _ := cmd.Flags().GetString("voice"); v != "" {
		s.Voice = v
	}

	if videoURL != "" && videoPath != "" {
		return errors.New("provide either a video url or an upload file, not both")
	}
	if scriptPath == "" && !useClipboard {
		return errors.New("a script is required: pass --script or --clipboard")
	}

	text, err := readScriptSource(scriptPath, useClipboard, cmd.InOrStdin())
	if err != nil {
		return err
	}

	res := script.Parse(text)
	if len(res.InvalidLines) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d line(s) skipped: %s\n",
			len(res.InvalidLines), formatLineNumbers(res.InvalidLines))
	}

	// Local gate, evaluated before any network traffic.
	if !job.CanSubmit(videoURL != "" || videoPath != "", &res, false) {
		if videoURL == "" && videoPath == "" {
			return errors.New("a video url or an upload file is required")
		}
		return errors.New("no valid script segments found")
	}

	c := client.NewHTTPClient(s.BaseURL, logger)
	created, err := c.CreateJob(cmd.Context(), client.CreateJobRequest{
		VideoURL:  videoURL,
		VideoPath: videoPath,
		Script:    text,
		VoiceID:   s.Voice,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Job %s created (%s), estimated %ds of narration\n",
		created.JobID, created.Status, script.EstimateDuration(res.Segments))

	recordSubmission(cmd, s, logger, created.JobID, videoURL, videoPath, res)

	if !watch {
		if copyFlag {
			copyLink(cmd, c.DownloadURL(created.JobID))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Track it with: smartclip watch %s\n", shortID(created.JobID))
		return nil
	}

	return watchJob(cmd, s, logger, c, created.JobID, copyFlag)
}

func recordSubmission(cmd *cobra.Command, s Settings, logger *slog.Logger, jobID, videoURL, videoPath string, res script.ParseResult) {
	st := openHistory(s, logger)
	if st == nil {
		return
	}
	defer st.Close()

	source := videoURL
	if source == "" {
		source = filepath.Base(videoPath)
	}

	var est float64
	for _, seg := range res.Segments {
		est += script.SpeechSeconds(seg.Text)
	}

	sub := &history.Submission{
		ID:               jobID,
		BaseURL:          s.BaseURL,
		Source:           source,
		Voice:            s.Voice,
		SegmentCount:     len(res.Segments),
		EstimatedSeconds: est,
		Status:           string(job.StatusPending),
	}
	if err := st.Record(cmd.Context(), sub); err != nil {
		logger.Warn("failed to record submission", "job_id", jobID, "error", err)
	}
}

// watchJob runs a tracker to a terminal state, streaming progress lines. The
// history entry is updated with the outcome; on success the resolved preview
// and download link are printed.
func watchJob(cmd *cobra.Command, s Settings, logger *slog.Logger, c *client.HTTPClient, jobID string, copyFlag bool) error {
	out := cmd.OutOrStdout()

	tracker := track.New(c, jobID, func(p job.Progress) {
		printProgress(out, p)
	})

	switch tracker.Run(cmd.Context()) {
	case track.StateSucceeded:
		updateHistory(cmd.Context(), s, logger, jobID, string(job.StatusCompleted), "")
		printCompleted(cmd, c, s.BaseURL, jobID, copyFlag)
		return nil
	case track.StateFailed:
		updateHistory(cmd.Context(), s, logger, jobID, string(job.StatusFailed), tracker.Failure())
		return errors.New(tracker.Failure())
	case track.StatePollError:
		return fmt.Errorf("status poll failed: %w", tracker.Err())
	default:
		// Cancelled mid-poll; the job keeps running server-side.
		return nil
	}
}

func printCompleted(cmd *cobra.Command, c *client.HTTPClient, baseURL, jobID string, copyFlag bool) {
	out := cmd.OutOrStdout()

	preview, err := c.JobPreview(cmd.Context(), jobID)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: preview fetch failed: %v\n", err)
	} else {
		printPreview(out, job.ResolvePreview(preview, baseURL))
	}

	link := c.DownloadURL(jobID)
	fmt.Fprintf(out, "Download: %s\n", link)
	if copyFlag {
		copyLink(cmd, link)
	}
}
