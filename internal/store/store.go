// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists transformation runs to a SQLite database so
// past pipeline output stays queryable after the export files are gone.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/nyevents/pkg/types"
)

const dbFile = "nyevents.db"

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// RunRecord summarizes one stored transformation run.
type RunRecord struct {
	RunID              string    `json:"run_id" yaml:"run_id"`
	Timestamp          time.Time `json:"timestamp" yaml:"timestamp"`
	TotalInput         int       `json:"total_input" yaml:"total_input"`
	Transformed        int       `json:"transformed" yaml:"transformed"`
	Skipped            int       `json:"skipped" yaml:"skipped"`
	SuccessRatePercent float64   `json:"success_rate_percent" yaml:"success_rate_percent"`
	AverageQuality     float64   `json:"average_quality" yaml:"average_quality"`
}

// Open opens or creates the database at dir/nyevents.db and ensures the
// schema exists.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
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
			run_id TEXT PRIMARY KEY,
			timestamp TEXT NOT NULL,
			total_input INTEGER NOT NULL,
			transformed INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			success_rate REAL NOT NULL,
			average_quality REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
			event_id TEXT NOT NULL,
			title TEXT,
			start_date TEXT,
			borough TEXT,
			primary_category TEXT,
			quality_score REAL,
			featured INTEGER,
			payload TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_run_id ON events(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_borough ON events(borough)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun persists a transformation result under its run ID. Saving the
// same run ID again replaces the previous copy.
func (s *Store) SaveRun(ctx context.Context, result types.TransformResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	meta := result.Metadata
	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE run_id = ?`, meta.RunID); err != nil {
		return fmt.Errorf("clearing previous run: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, timestamp, total_input, transformed, skipped, success_rate, average_quality)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		meta.RunID, meta.Timestamp.UTC().Format(time.RFC3339Nano),
		meta.TotalInput, meta.SuccessfullyTransformed, meta.SkippedCount,
		meta.SuccessRatePercent, result.Metrics.AverageQuality,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO events (run_id, event_id, title, start_date, borough, primary_category, quality_score, featured, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, ev := range result.Transformed {
		payload, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("encoding event %s: %w", ev.EventID, err)
		}
		_, err = stmt.ExecContext(ctx,
			meta.RunID, ev.EventID, ev.Title, ev.StartDate,
			ev.Borough, ev.PrimaryCategory, ev.QualityScore,
			ev.Featured, string(payload),
		)
		if err != nil {
			return fmt.Errorf("inserting event %s: %w", ev.EventID, err)
		}
	}

	return tx.Commit()
}

// ListRuns returns stored run summaries, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, timestamp, total_input, transformed, skipped, success_rate, average_quality
		 FROM runs ORDER BY timestamp DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var stamp string
		if err := rows.Scan(&rec.RunID, &stamp, &rec.TotalInput,
			&rec.Transformed, &rec.Skipped, &rec.SuccessRatePercent,
			&rec.AverageQuality); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		rec.Timestamp, err = time.Parse(time.RFC3339Nano, stamp)
		if err != nil {
			return nil, fmt.Errorf("parsing run timestamp %q: %w", stamp, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// RunEvents returns the enriched events stored for one run, in insertion
// order.
func (s *Store) RunEvents(ctx context.Context, runID string) ([]types.EnrichedEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM events WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []types.EnrichedEvent
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		var ev types.EnrichedEvent
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			return nil, fmt.Errorf("decoding stored event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
