// Package track drives the polling state machine that follows one remote
// job from submission to its terminal outcome.
package track

import (
	"context"
	"sync"
	"time"

	"github.com/smartclipper/smartclip/internal/job"
)

// State is the tracker's own lifecycle, distinct from the job status it
// observes. succeeded, failed and poll_error are terminal: a tracker never
// resumes polling, retrying means constructing a new one.
type State string

const (
	StateIdle      State = "idle"
	StatePolling   State = "polling"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
	StatePollError State = "poll_error"
)

const defaultInterval = 3 * time.Second

// Shown when a failed job reports no error detail of its own.
const genericFailure = "processing failed"

// StatusSource fetches one progress snapshot for a job.
type StatusSource interface {
	JobStatus(ctx context.Context, jobID string) (job.Progress, error)
}

// Tracker polls one job until it completes, fails, or the poll itself
// breaks. Snapshots are observed strictly in fetch order: the next poll is
// scheduled only after the previous one resolves, a fixed delay after
// snapshot receipt. Slow responses therefore stretch the cadence instead of
// stacking concurrent polls.
type Tracker struct {
	source   StatusSource
	jobID    string
	interval time.Duration
	onUpdate func(job.Progress)

	mu      sync.Mutex
	state   State
	last    job.Progress
	hasLast bool
	failure string
	pollErr error
}

// New builds a tracker for jobID. onUpdate, if non-nil, is called for every
// snapshot the tracker applies, terminal ones included. It is never called
// after cancellation.
func New(source StatusSource, jobID string, onUpdate func(job.Progress)) *Tracker {
	return &Tracker{
		source:   source,
		jobID:    jobID,
		interval: defaultInterval,
		onUpdate: onUpdate,
		state:    StateIdle,
	}
}

// Run polls until a terminal state is reached or ctx is cancelled, and
// returns the final state. Cancellation stops the pending timer and discards
// any in-flight fetch result without applying it; the tracker then performs
// no further transitions.
func (t *Tracker) Run(ctx context.Context) State {
	for {
		t.setState(StatePolling)

		snap, err := t.source.JobStatus(ctx, t.jobID)
		if ctx.Err() != nil {
			return t.State()
		}
		if err != nil {
			t.mu.Lock()
			t.state = StatePollError
			t.pollErr = err
			t.mu.Unlock()
			return StatePollError
		}

		t.apply(snap)

		switch snap.Status {
		case job.StatusCompleted:
			t.setState(StateSucceeded)
			return StateSucceeded
		case job.StatusFailed:
			t.mu.Lock()
			t.state = StateFailed
			t.failure = snap.Error
			if t.failure == "" {
				t.failure = genericFailure
			}
			t.mu.Unlock()
			return StateFailed
		}

		timer := time.NewTimer(t.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return t.State()
		case <-timer.C:
		}
	}
}

// State returns the tracker's current state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Last returns the most recently applied snapshot, if any.
func (t *Tracker) Last() (job.Progress, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last, t.hasLast
}

// Failure returns the job's error detail once the tracker is in StateFailed.
func (t *Tracker) Failure() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failure
}

// Err returns the fetch error once the tracker is in StatePollError. A job
// that failed on its own terms does not set this; see Failure.
func (t *Tracker) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pollErr
}

func (t *Tracker) setState(s State) {
	t.mu.Lock()
	t.state = s
	t.mu.Unlock()
}

func (t *Tracker) apply(snap job.Progress) {
	t.mu.Lock()
	t.last = snap
	t.hasLast = true
	t.mu.Unlock()

	if t.onUpdate != nil {
		t.onUpdate(snap)
	}
}
