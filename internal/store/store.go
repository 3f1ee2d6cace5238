// Package store keeps the server's jobs in memory, matching the original
// service's lifetime semantics: jobs exist while the process runs.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/smartclipper/smartclip/internal/job"
	"github.com/smartclipper/smartclip/internal/script"
)

var ErrNotFound = errors.New("job not found")

// Store is a mutex-guarded job map. Readers get value copies; all mutation
// goes through Update so UpdatedAt stays honest.
type Store struct {
	mu    sync.RWMutex
	jobs  map[string]*job.Job
	order []string
}

func New() *Store {
	return &Store{jobs: make(map[string]*job.Job)}
}

// Create registers a new job and stamps its creation time.
func (s *Store) Create(j *job.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	j.CreatedAt = now
	j.UpdatedAt = now
	s.jobs[j.ID] = j
	s.order = append(s.order, j.ID)
}

// Get returns a copy of the job. Slices are cloned so callers never share
// backing arrays with concurrent updates.
func (s *Store) Get(id string) (job.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return job.Job{}, ErrNotFound
	}
	return cloneJob(j), nil
}

// Update applies fn to the job under the write lock.
func (s *Store) Update(id string, fn func(*job.Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return ErrNotFound
	}
	fn(j)
	j.UpdatedAt = time.Now().UTC()
	return nil
}

// Delete removes the job from the store. Artifact cleanup is the caller's
// concern.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; !ok {
		return ErrNotFound
	}
	delete(s.jobs, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns copies of all jobs, newest first.
func (s *Store) List() []job.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]job.Job, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		if j, ok := s.jobs[s.order[i]]; ok {
			out = append(out, cloneJob(j))
		}
	}
	return out
}

// Len returns the number of live jobs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

func cloneJob(j *job.Job) job.Job {
	out := *j
	if j.Segments != nil {
		out.Segments = make([]script.Segment, len(j.Segments))
		copy(out.Segments, j.Segments)
	}
	if j.Thumbnails != nil {
		out.Thumbnails = append([]string(nil), j.Thumbnails...)
	}
	return out
}
