package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/smartclipper/smartclip/internal/job"
	"github.com/smartclipper/smartclip/internal/script"
)

// readScriptSource returns the script text from the clipboard, a file path,
// or stdin when the path is "-" or empty.
func readScriptSource(path string, useClipboard bool, in io.Reader) (string, error) {
	if useClipboard {
		text, err := clipboard.ReadAll()
		if err != nil {
			return "", fmt.Errorf("read clipboard: %w", err)
		}
		return text, nil
	}
	if path == "" || path == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read script file: %w", err)
	}
	return string(data), nil
}

func copyLink(cmd *cobra.Command, url string) {
	if err := clipboard.WriteAll(url); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: copy to clipboard failed: %v\n", err)
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Download link copied to clipboard.")
}

func printProgress(w io.Writer, p job.Progress) {
	fmt.Fprintf(w, "[%3d%%] %-16s %s\n", p.Progress, p.Status, p.Message)
}

func printPreview(w io.Writer, p job.Preview) {
	fmt.Fprintf(w, "Duration: %.1fs\n", p.Duration)
	if p.AudioURL != "" {
		fmt.Fprintf(w, "Audio:    %s\n", p.AudioURL)
	}
	for i, thumb := range p.Thumbnails {
		fmt.Fprintf(w, "Thumb %d:  %s\n", i+1, thumb)
	}
}

func printParseResult(w io.Writer, res script.ParseResult) {
	for i, seg := range res.Segments {
		secs := "?"
		if n, err := script.ParseTimestamp(seg.Timestamp); err == nil {
			secs = strconv.Itoa(n) + "s"
		}
		fmt.Fprintf(w, "%3d  [%s] (%s)  %s\n", i+1, seg.Timestamp, secs, seg.Text)
		if seg.Description != "" {
			fmt.Fprintf(w, "     footage: %s\n", seg.Description)
		}
	}
	fmt.Fprintf(w, "\n%d segment(s) from %d non-blank line(s), estimated %ds of narration\n",
		len(res.Segments), res.TotalLines, script.EstimateDuration(res.Segments))
	if len(res.InvalidLines) > 0 {
		fmt.Fprintf(w, "skipped lines: %s\n", formatLineNumbers(res.InvalidLines))
	}
}

// formatLineNumbers renders 0-indexed line positions 1-based for display.
func formatLineNumbers(lines []int) string {
	parts := make([]string, len(lines))
	for i, n := range lines {
		parts[i] = strconv.Itoa(n + 1)
	}
	return strings.Join(parts, ", ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
