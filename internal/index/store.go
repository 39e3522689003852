// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index persists extracted days in a SQLite database so they can be
// searched and exported without re-reading the source pages.
package index

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/martyrology/pkg/types"
)

const dbFile = "martyrology.db"

// Store manages the day index database.
type Store struct {
	db         *sql.DB
	indexDir   string
	maxResults int
}

// NewStore opens or creates the database at cfg.IndexDir/martyrology.db and
// creates the schema if it does not exist.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	indexDir := cfg.IndexDir
	if indexDir == "" {
		indexDir = types.DefaultIndexDir
	}
	if err := os.MkdirAll(indexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(indexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = types.DefaultMaxResults
	}

	s := &Store{
		db:         db,
		indexDir:   indexDir,
		maxResults: maxResults,
	}

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
		`CREATE TABLE IF NOT EXISTS days (
			path TEXT PRIMARY KEY,
			month INTEGER NOT NULL,
			heading TEXT,
			preface_latin TEXT,
			preface_english TEXT,
			letter_grids TEXT,
			digest TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS pairs (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			day_path TEXT NOT NULL REFERENCES days(path) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			latin TEXT,
			english TEXT,
			UNIQUE(day_path, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_days_month ON days(month)`,
		`CREATE INDEX IF NOT EXISTS idx_pairs_day_path ON pairs(day_path)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from an indexing run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Removed int
}

// Total returns the number of days processed. Removed days are not counted.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped
}

// Ingest stores days, replacing days whose content changed since the last
// run and skipping unchanged ones. days is the complete set: stored days
// whose path is not among them are removed. Progress is written to w.
func (s *Store) Ingest(ctx context.Context, days []types.Day, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary
	current := make(map[string]bool, len(days))

	for _, day := range days {
		current[day.Path] = true

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		sum, err := digest(day)
		if err != nil {
			return summary, err
		}

		var stored string
		err = s.db.QueryRowContext(ctx,
			`SELECT digest FROM days WHERE path = ?`, day.Path,
		).Scan(&stored)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return summary, fmt.Errorf("reading digest of %s: %w", day.Path, err)
		}

		if err == nil && stored == sum {
			fmt.Fprintf(w, "skipped  %s\n", day.Path)
			summary.Skipped++
			continue
		}

		isUpdate := err == nil
		if err := s.ingestDay(ctx, day, sum, isUpdate); err != nil {
			return summary, fmt.Errorf("indexing %s: %w", day.Path, err)
		}

		if isUpdate {
			fmt.Fprintf(w, "updated  %s (%d pairs)\n", day.Path, len(day.Pairs))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed  %s (%d pairs)\n", day.Path, len(day.Pairs))
			summary.Indexed++
		}
	}

	removed, err := s.removeStale(ctx, current, w)
	summary.Removed = removed
	if err != nil {
		return summary, err
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, removed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Removed)
	return summary, nil
}

// removeStale deletes stored days, and their pairs, whose path is not in
// current. It returns the number of days removed.
func (s *Store) removeStale(ctx context.Context, current map[string]bool, w io.Writer) (int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path FROM days ORDER BY path`)
	if err != nil {
		return 0, fmt.Errorf("listing stored days: %w", err)
	}
	var stale []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scanning stored path: %w", err)
		}
		if !current[path] {
			stale = append(stale, path)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("listing stored days: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, path := range stale {
		if _, err := tx.ExecContext(ctx, `DELETE FROM pairs WHERE day_path = ?`, path); err != nil {
			return 0, fmt.Errorf("deleting pairs of %s: %w", path, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM days WHERE path = ?`, path); err != nil {
			return 0, fmt.Errorf("deleting day %s: %w", path, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing removals: %w", err)
	}

	for _, path := range stale {
		fmt.Fprintf(w, "removed  %s\n", path)
	}
	return len(stale), nil
}

func (s *Store) ingestDay(ctx context.Context, day types.Day, sum string, isUpdate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM pairs WHERE day_path = ?`, day.Path); err != nil {
			return fmt.Errorf("deleting old pairs: %w", err)
		}
	}

	gridsJSON, err := json.Marshal(day.LetterGrids)
	if err != nil {
		return fmt.Errorf("encoding letter grids: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO days (path, month, heading, preface_latin, preface_english, letter_grids, digest)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
			month=excluded.month, heading=excluded.heading,
			preface_latin=excluded.preface_latin, preface_english=excluded.preface_english,
			letter_grids=excluded.letter_grids, digest=excluded.digest`,
		day.Path, types.MonthOf(day.Path), day.Heading,
		day.PrefaceLatin, day.PrefaceEnglish, string(gridsJSON), sum,
	)
	if err != nil {
		return fmt.Errorf("upserting day: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO pairs (day_path, position, latin, english) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range day.Pairs {
		if _, err := stmt.ExecContext(ctx, day.Path, i, p.Latin, p.English); err != nil {
			return fmt.Errorf("inserting pair %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// digest identifies the extracted content of a day.
func digest(day types.Day) (string, error) {
	data, err := json.Marshal(day)
	if err != nil {
		return "", fmt.Errorf("encoding day %s: %w", day.Path, err)
	}
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:]), nil
}
