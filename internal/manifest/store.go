// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest keeps a SQLite ledger of extraction runs and the images
// each run wrote.
package manifest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/nbattach/pkg/types"
)

// ErrNoRuns is returned when a query needs the latest run and none exist.
var ErrNoRuns = errors.New("manifest has no runs")

// Store manages the manifest SQLite database.
type Store struct {
	db *sql.DB
}

// Run is one extraction run recorded in the manifest.
type Run struct {
	ID           string    `json:"id" yaml:"id"`
	StartedAt    time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt   time.Time `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
	NotebooksDir string    `json:"notebooks_dir" yaml:"notebooks_dir"`
	ImagesDir    string    `json:"images_dir" yaml:"images_dir"`
	Counts       RunCounts `json:"counts" yaml:"counts"`
}

// RunCounts holds the per-status totals of a finished run.
type RunCounts struct {
	Updated   int `json:"updated" yaml:"updated"`
	Unchanged int `json:"unchanged" yaml:"unchanged"`
	Skipped   int `json:"skipped" yaml:"skipped"`
	Failed    int `json:"failed" yaml:"failed"`
	Images    int `json:"images" yaml:"images"`
}

// Open opens or creates the manifest database at cfg.Path, creating parent
// directories and the schema as needed.
func Open(cfg types.ManifestConfig) (*Store, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("manifest path is not configured")
	}
	if dir := filepath.Dir(cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating manifest directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			notebooks_dir TEXT,
			images_dir TEXT,
			updated INTEGER DEFAULT 0,
			unchanged INTEGER DEFAULT 0,
			skipped INTEGER DEFAULT 0,
			failed INTEGER DEFAULT 0,
			images INTEGER DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS images (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			notebook TEXT NOT NULL,
			cell INTEGER,
			attachment TEXT NOT NULL,
			mime_type TEXT,
			file TEXT NOT NULL,
			size INTEGER,
			sha256 TEXT,
			width INTEGER,
			height INTEGER,
			format TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_images_run_id ON images(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_images_file ON images(file)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// BeginRun records the start of a run and returns its ID.
func (s *Store) BeginRun(ctx context.Context, cfg types.ExtractConfig) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, notebooks_dir, images_dir) VALUES (?, ?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339Nano), cfg.NotebooksDir, cfg.ImagesDir,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}
	return id, nil
}

// FinishRun stores the final counts of a run.
func (s *Store) FinishRun(ctx context.Context, runID string, c RunCounts) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, updated = ?, unchanged = ?, skipped = ?, failed = ?, images = ?
		 WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano),
		c.Updated, c.Unchanged, c.Skipped, c.Failed, c.Images, runID,
	)
	if err != nil {
		return fmt.Errorf("updating run %s: %w", runID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return nil
}

// AddImage records one extracted image under runID.
func (s *Store) AddImage(ctx context.Context, runID string, img types.ExtractedImage) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO images (run_id, notebook, cell, attachment, mime_type, file, size, sha256, width, height, format)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, img.Notebook, img.Cell, img.Attachment, img.MIMEType, img.File,
		img.Size, img.SHA256, img.Width, img.Height, img.Format,
	)
	if err != nil {
		return fmt.Errorf("inserting image %s: %w", img.Attachment, err)
	}
	return nil
}

// RunRecorder binds a Store to one run so it can be handed to the extractor.
type RunRecorder struct {
	ctx   context.Context
	store *Store
	runID string
}

// Recorder returns a RunRecorder for runID.
func (s *Store) Recorder(ctx context.Context, runID string) *RunRecorder {
	return &RunRecorder{ctx: ctx, store: s, runID: runID}
}

// RecordImage implements extract.Recorder.
func (r *RunRecorder) RecordImage(img types.ExtractedImage) error {
	return r.store.AddImage(r.ctx, r.runID, img)
}

// LatestRun returns the ID of the most recently started run.
func (s *Store) LatestRun(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM runs ORDER BY started_at DESC, rowid DESC LIMIT 1`,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoRuns
	}
	if err != nil {
		return "", fmt.Errorf("querying latest run: %w", err)
	}
	return id, nil
}

// Runs returns all runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, COALESCE(finished_at, ''), COALESCE(notebooks_dir, ''), COALESCE(images_dir, ''),
			updated, unchanged, skipped, failed, images
		 FROM runs ORDER BY started_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                 Run
			started, finished string
		)
		if err := rows.Scan(&r.ID, &started, &finished, &r.NotebooksDir, &r.ImagesDir,
			&r.Counts.Updated, &r.Counts.Unchanged, &r.Counts.Skipped, &r.Counts.Failed, &r.Counts.Images); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		if finished != "" {
			r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// resolveRun returns runID, or the latest run when runID is empty.
func (s *Store) resolveRun(ctx context.Context, runID string) (string, error) {
	if runID != "" {
		return runID, nil
	}
	return s.LatestRun(ctx)
}
