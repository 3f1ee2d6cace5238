package history

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"), testLogger())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedSubmission(t *testing.T, s *Store, id string, createdAt time.Time) {
	t.Helper()
	err := s.Record(context.Background(), &Submission{
		ID:               id,
		BaseURL:          "http://127.0.0.1:8787",
		Source:           "https://example.com/video.mp4",
		Voice:            "en_US-lessac-medium",
		SegmentCount:     3,
		EstimatedSeconds: 12.4,
		Status:           "pending",
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	})
	if err != nil {
		t.Fatalf("Record(%q) error = %v", id, err)
	}
}

func TestOpenCreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "history.db")

	s, err := Open(path, testLogger())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("database file missing: %v", err)
	}

	// Reopening must not reapply migrations.
	s2, err := Open(path, testLogger())
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	s2.Close()
}

func TestRecordAndFind(t *testing.T) {
	s := openTestStore(t)
	created := time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)
	seedSubmission(t, s, "aaaa1111-0000-0000-0000-000000000001", created)

	sub, err := s.Find(context.Background(), "aaaa1111-0000-0000-0000-000000000001")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}

	if sub.Voice != "en_US-lessac-medium" {
		t.Errorf("Voice = %q, want %q", sub.Voice, "en_US-lessac-medium")
	}
	if sub.SegmentCount != 3 {
		t.Errorf("SegmentCount = %d, want 3", sub.SegmentCount)
	}
	if sub.EstimatedSeconds != 12.4 {
		t.Errorf("EstimatedSeconds = %v, want 12.4", sub.EstimatedSeconds)
	}
	if !sub.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", sub.CreatedAt, created)
	}
}

func TestFindByPrefix(t *testing.T) {
	s := openTestStore(t)
	seedSubmission(t, s, "aaaa1111-0000-0000-0000-000000000001", time.Now().UTC())
	seedSubmission(t, s, "bbbb2222-0000-0000-0000-000000000002", time.Now().UTC())

	sub, err := s.Find(context.Background(), "bbbb")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if sub.ID != "bbbb2222-0000-0000-0000-000000000002" {
		t.Errorf("Find() returned ID %q", sub.ID)
	}
}

func TestFindNotFound(t *testing.T) {
	s := openTestStore(t)
	seedSubmission(t, s, "aaaa1111-0000-0000-0000-000000000001", time.Now().UTC())

	if _, err := s.Find(context.Background(), "zzzz"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Find() error = %v, want ErrNotFound", err)
	}
	if _, err := s.Find(context.Background(), ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("Find(\"\") error = %v, want ErrNotFound", err)
	}
}

func TestFindAmbiguousPrefix(t *testing.T) {
	s := openTestStore(t)
	seedSubmission(t, s, "aaaa1111-0000-0000-0000-000000000001", time.Now().UTC())
	seedSubmission(t, s, "aaaa2222-0000-0000-0000-000000000002", time.Now().UTC())

	if _, err := s.Find(context.Background(), "aaaa"); !errors.Is(err, ErrAmbiguous) {
		t.Errorf("Find() error = %v, want ErrAmbiguous", err)
	}
}

func TestFindExactBeatsPrefix(t *testing.T) {
	s := openTestStore(t)
	seedSubmission(t, s, "aaaa", time.Now().UTC())
	seedSubmission(t, s, "aaaabbbb", time.Now().UTC())

	sub, err := s.Find(context.Background(), "aaaa")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if sub.ID != "aaaa" {
		t.Errorf("Find() returned ID %q, want %q", sub.ID, "aaaa")
	}
}

func TestUpdateOutcome(t *testing.T) {
	s := openTestStore(t)
	seedSubmission(t, s, "aaaa1111-0000-0000-0000-000000000001", time.Now().UTC().Add(-time.Minute))

	err := s.UpdateOutcome(context.Background(), "aaaa1111-0000-0000-0000-000000000001", "failed", "download failed")
	if err != nil {
		t.Fatalf("UpdateOutcome() error = %v", err)
	}

	sub, err := s.Find(context.Background(), "aaaa1111-0000-0000-0000-000000000001")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if sub.Status != "failed" {
		t.Errorf("Status = %q, want %q", sub.Status, "failed")
	}
	if sub.Error != "download failed" {
		t.Errorf("Error = %q, want %q", sub.Error, "download failed")
	}
	if !sub.UpdatedAt.After(sub.CreatedAt) {
		t.Errorf("UpdatedAt = %v not after CreatedAt = %v", sub.UpdatedAt, sub.CreatedAt)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	seedSubmission(t, s, "aaaa1111-0000-0000-0000-000000000001", base)
	seedSubmission(t, s, "bbbb2222-0000-0000-0000-000000000002", base.Add(time.Minute))
	seedSubmission(t, s, "cccc3333-0000-0000-0000-000000000003", base.Add(2*time.Minute))

	subs, err := s.List(context.Background(), 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(subs) != 2 {
		t.Fatalf("List() returned %d submissions, want 2", len(subs))
	}
	if subs[0].ID != "cccc3333-0000-0000-0000-000000000003" {
		t.Errorf("List()[0].ID = %q, want newest", subs[0].ID)
	}
	if subs[1].ID != "bbbb2222-0000-0000-0000-000000000002" {
		t.Errorf("List()[1].ID = %q, want second newest", subs[1].ID)
	}
}

func TestListDefaultLimit(t *testing.T) {
	s := openTestStore(t)
	seedSubmission(t, s, "aaaa1111-0000-0000-0000-000000000001", time.Now().UTC())

	subs, err := s.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(subs) != 1 {
		t.Errorf("List() returned %d submissions, want 1", len(subs))
	}
}
