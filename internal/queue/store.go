package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"lyricsync/internal/config"
)

// ErrNotFound indicates the requested job does not exist.
var ErrNotFound = errors.New("job not found")

// Store manages alignment job persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the job database under the configured
// log directory and verifies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.LogDir, "jobs.db"))
}

// OpenPath opens a job database at an explicit location.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// NewJob inserts a pending job for a song.
func (s *Store) NewJob(ctx context.Context, title, audioPath, lyricsPath, language string) (*Job, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, title, audio_path, lyrics_path, language, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, title, audioPath, lyricsPath, language, StatusPending, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	return s.GetByID(ctx, id)
}

// SetStatus transitions a job to the given lifecycle status.
func (s *Store) SetStatus(ctx context.Context, id string, status Status) error {
	return s.update(ctx, id, "UPDATE jobs SET status = ?, updated_at = ? WHERE id = ?",
		status, timestamp(), id)
}

// SaveBaseline persists the phrase-level LRC. Called before refinement
// starts so the usable result survives cancellation mid-refinement.
func (s *Store) SaveBaseline(ctx context.Context, id, baselineLRC string) error {
	return s.update(ctx, id, "UPDATE jobs SET baseline_lrc = ?, updated_at = ? WHERE id = ?",
		baselineLRC, timestamp(), id)
}

// Complete records the published result and its provenance.
func (s *Store) Complete(ctx context.Context, id string, source OutcomeSource, reason string, interpolated int, finalLRC string) error {
	return s.update(ctx, id,
		`UPDATE jobs SET status = ?, outcome_source = ?, outcome_reason = ?,
         interpolated_lines = ?, final_lrc = ?, updated_at = ? WHERE id = ?`,
		StatusCompleted, source, reason, interpolated, finalLRC, timestamp(), id)
}

// Fail marks a job failed with its error text.
func (s *Store) Fail(ctx context.Context, id, errorText string) error {
	return s.update(ctx, id, "UPDATE jobs SET status = ?, error_text = ?, updated_at = ? WHERE id = ?",
		StatusFailed, errorText, timestamp(), id)
}

// GetByID fetches a job by identifier.
func (s *Store) GetByID(ctx context.Context, id string) (*Job, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" FROM jobs WHERE id = ?", id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return job, err
}

// List returns jobs ordered newest first, bounded by limit (0 = all).
func (s *Store) List(ctx context.Context, limit int) ([]*Job, error) {
	query := selectColumns + " FROM jobs ORDER BY created_at DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// Clear removes all jobs.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM jobs")
	if err != nil {
		return 0, fmt.Errorf("clear jobs: %w", err)
	}
	return res.RowsAffected()
}

const selectColumns = `SELECT id, title, audio_path, lyrics_path, language, status,
    outcome_source, outcome_reason, interpolated_lines,
    baseline_lrc, final_lrc, error_text, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*Job, error) {
	var job Job
	var source, reason, baseline, final, errorText sql.NullString
	var createdAt, updatedAt string
	err := row.Scan(
		&job.ID, &job.Title, &job.AudioPath, &job.LyricsPath, &job.Language, &job.Status,
		&source, &reason, &job.InterpolatedLines,
		&baseline, &final, &errorText, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	job.OutcomeSource = OutcomeSource(source.String)
	job.OutcomeReason = reason.String
	job.BaselineLRC = baseline.String
	job.FinalLRC = final.String
	job.ErrorText = errorText.String
	if t, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
		job.CreatedAt = t
	}
	if t, parseErr := time.Parse(time.RFC3339Nano, updatedAt); parseErr == nil {
		job.UpdatedAt = t
	}
	return &job, nil
}

func (s *Store) update(ctx context.Context, id, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update job %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update job %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
