// Package history records CLI job submissions in a local SQLite database.
package history

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	ErrNotFound  = errors.New("submission not found")
	ErrAmbiguous = errors.New("submission id prefix is ambiguous")
)

// Submission is one job handed to a SmartClip server, as seen from the CLI.
type Submission struct {
	ID               string
	BaseURL          string
	Source           string
	Voice            string
	SegmentCount     int
	EstimatedSeconds float64
	Status           string
	Error            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Store struct {
	conn   *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the history database at path and runs
// any pending migrations.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			return nil, fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}

	s := &Store{conn: conn, logger: logger}

	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// DefaultPath returns the history database location under the user's
// home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".smartclip", "history.db")
	}
	return filepath.Join(home, ".smartclip", "history.db")
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	migrations, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	for _, m := range migrations {
		if m.IsDir() {
			continue
		}

		name := m.Name()

		if s.isMigrationApplied(name) {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}

		if _, err := s.conn.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", name, err)
		}

		if _, err := s.conn.Exec("INSERT INTO _migrations (name) VALUES (?)", name); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", name, err)
		}

		if s.logger != nil {
			s.logger.Debug("applied migration", "name", name)
		}
	}

	return nil
}

func (s *Store) isMigrationApplied(name string) bool {
	var exists int
	err := s.conn.QueryRow("SELECT 1 FROM sqlite_master WHERE type='table' AND name='_migrations'").Scan(&exists)
	if err != nil {
		return false
	}

	var applied int
	err = s.conn.QueryRow("SELECT 1 FROM _migrations WHERE name = ?", name).Scan(&applied)
	return err == nil && applied == 1
}

// Record stores a fresh submission. CreatedAt and UpdatedAt are stamped
// if unset.
func (s *Store) Record(ctx context.Context, sub *Submission) error {
	now := time.Now().UTC()
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = now
	}
	if sub.UpdatedAt.IsZero() {
		sub.UpdatedAt = now
	}

	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO submissions (id, base_url, source, voice, segment_count, estimated_seconds, status, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sub.ID, sub.BaseURL, sub.Source, sub.Voice, sub.SegmentCount, sub.EstimatedSeconds,
		sub.Status, nullString(sub.Error),
		sub.CreatedAt.Format(time.RFC3339), sub.UpdatedAt.Format(time.RFC3339))
	return err
}

// UpdateOutcome records the final status of a submission.
func (s *Store) UpdateOutcome(ctx context.Context, id, status, errMsg string) error {
	_, err := s.conn.ExecContext(ctx, `
		UPDATE submissions SET status = ?, error = ?, updated_at = ? WHERE id = ?
	`, status, nullString(errMsg), time.Now().UTC().Format(time.RFC3339), id)
	return err
}

// List returns the most recent submissions, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]*Submission, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, base_url, source, voice, segment_count, estimated_seconds, status, error, created_at, updated_at
		FROM submissions ORDER BY created_at DESC, id LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// Find resolves a full job ID or a unique ID prefix to a submission.
func (s *Store) Find(ctx context.Context, prefix string) (*Submission, error) {
	if prefix == "" {
		return nil, ErrNotFound
	}

	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, base_url, source, voice, segment_count, estimated_seconds, status, error, created_at, updated_at
		FROM submissions WHERE id = ? OR id LIKE ? ESCAPE '\' ORDER BY created_at DESC LIMIT 2
	`, prefix, likePrefix(prefix))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(subs) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return subs[0], nil
	default:
		// An exact ID wins even when it prefixes another ID.
		for _, sub := range subs {
			if sub.ID == prefix {
				return sub, nil
			}
		}
		return nil, ErrAmbiguous
	}
}

func scanSubmission(rows *sql.Rows) (*Submission, error) {
	var sub Submission
	var errMsg sql.NullString
	var createdAt, updatedAt string

	if err := rows.Scan(&sub.ID, &sub.BaseURL, &sub.Source, &sub.Voice, &sub.SegmentCount,
		&sub.EstimatedSeconds, &sub.Status, &errMsg, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	sub.Error = errMsg.String
	sub.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	sub.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &sub, nil
}

// likePrefix escapes LIKE metacharacters so the prefix matches literally.
func likePrefix(prefix string) string {
	escaped := make([]byte, 0, len(prefix)+2)
	for i := 0; i < len(prefix); i++ {
		switch prefix[i] {
		case '%', '_', '\\':
			escaped = append(escaped, '\\')
		}
		escaped = append(escaped, prefix[i])
	}
	return string(escaped) + "%"
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
