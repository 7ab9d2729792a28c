package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/KATT/sanitize-csvs/internal/identity"
	"github.com/KATT/sanitize-csvs/pkg/sanitize"
)

// Manifest tables sort apart from data tables under their leading
// underscore. A source file named to land on one of them cannot break
// the schema: CreateTable is IF NOT EXISTS and the mismatched inserts
// are rejected like any failed batch.
const (
	runsTable    = "_sanitize_runs"
	reportsTable = "_sanitize_reports"
)

// BeginRun registers a run in the manifest before any pipeline starts,
// creating the manifest tables on first use.
func (s *SQLiteStore) BeginRun(ctx context.Context, info sanitize.RunInfo) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS ` + runsTable + ` (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			finished_at DATETIME,
			input_dir TEXT NOT NULL,
			file_count INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ` + reportsTable + ` (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			source_id TEXT NOT NULL,
			source_path TEXT NOT NULL,
			table_name TEXT NOT NULL,
			state TEXT NOT NULL,
			total_lines INTEGER NOT NULL,
			loaded_rows INTEGER NOT NULL,
			skipped_rows INTEGER NOT NULL,
			error_count INTEGER NOT NULL,
			failure TEXT,
			started_at DATETIME,
			finished_at DATETIME
		)`,
	}
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create manifest tables: %w", err)
		}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO `+runsTable+` (id, started_at, input_dir, file_count) VALUES (?, ?, ?, ?)`,
		info.ID, info.StartedAt.UTC(), info.InputDir, info.FileCount)
	if err != nil {
		return fmt.Errorf("failed to register run %s: %w", info.ID, err)
	}

	return nil
}

// RecordReport persists one file's terminal report. The source gets a
// deterministic identity from its relative path, so repeated runs over
// the same input produce comparable manifest rows.
func (s *SQLiteStore) RecordReport(ctx context.Context, runID uuid.UUID, report sanitize.FileReport) error {
	var failure interface{}
	if report.Failure != nil {
		failure = report.Failure.Error()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO `+reportsTable+` (
			run_id, source_id, source_path, table_name, state,
			total_lines, loaded_rows, skipped_rows, error_count,
			failure, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID,
		identity.SourceID(report.Path),
		report.Path,
		report.Table,
		string(report.State),
		report.TotalLines,
		report.LoadedRows,
		report.SkippedRows,
		len(report.Errors),
		failure,
		report.StartedAt.UTC(),
		report.FinishedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record report for %s: %w", report.Path, err)
	}

	return nil
}

// FinishRun stamps the run's completion time.
func (s *SQLiteStore) FinishRun(ctx context.Context, runID uuid.UUID, finishedAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE `+runsTable+` SET finished_at = ? WHERE id = ?`,
		finishedAt.UTC(), runID)
	if err != nil {
		return fmt.Errorf("failed to finish run %s: %w", runID, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to finish run %s: run not registered", runID)
	}

	return nil
}
