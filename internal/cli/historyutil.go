package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/smartclipper/smartclip/internal/history"
)

// openHistory opens the submission history. A nil store means history is
// unavailable; callers skip recording rather than fail the command.
func openHistory(s Settings, logger *slog.Logger) *history.Store {
	st, err := history.Open(s.HistoryPath, logger)
	if err != nil {
		logger.Warn("submission history unavailable", "error", err)
		return nil
	}
	return st
}

// resolveJobID expands a short history prefix into a full job ID. IDs not in
// the history pass through untouched so jobs submitted elsewhere can still be
// addressed in full.
func resolveJobID(ctx context.Context, s Settings, logger *slog.Logger, arg string) (string, error) {
	st := openHistory(s, logger)
	if st == nil {
		return arg, nil
	}
	defer st.Close()

	sub, err := st.Find(ctx, arg)
	switch {
	case err == nil:
		return sub.ID, nil
	case errors.Is(err, history.ErrAmbiguous):
		return "", fmt.Errorf("job id prefix %q is ambiguous, use more characters", arg)
	default:
		return arg, nil
	}
}

func updateHistory(ctx context.Context, s Settings, logger *slog.Logger, id, status, errMsg string) {
	st := openHistory(s, logger)
	if st == nil {
		return
	}
	defer st.Close()

	if err := st.UpdateOutcome(ctx, id, status, errMsg); err != nil {
		logger.Warn("failed to update submission history", "job_id", id, "error", err)
	}
}
