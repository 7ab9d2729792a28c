package sanitize

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store receives sanitized records. One store instance is shared by all
// pipelines of a run; implementations serialize access internally so
// that each insert executes as a single uninterleaved statement.
//
// Thread-Safety: all methods must be safe for concurrent use.
type Store interface {
	// CreateTable creates a table with the given TEXT columns if it
	// does not already exist. Column names are taken verbatim from the
	// source header.
	CreateTable(ctx context.Context, table string, columns []string) error

	// InsertRows appends the given records to the table as one
	// parameterized multi-row statement. Every record must have
	// exactly len(columns) fields. On error the whole batch is
	// rejected; no partial insert occurs.
	InsertRows(ctx context.Context, table string, columns []string, rows []Record) error

	// Close releases the underlying connection.
	Close() error
}

// RunInfo describes a load run for the store's manifest.
type RunInfo struct {
	// ID identifies the run.
	ID uuid.UUID

	// StartedAt is the run's start time.
	StartedAt time.Time

	// InputDir is the scanned directory.
	InputDir string

	// FileCount is the number of files the scanner accepted.
	FileCount int
}

// RunRecorder persists run metadata alongside the loaded data, so the
// store itself documents what produced it.
//
// Thread-Safety: all methods must be safe for concurrent use.
type RunRecorder interface {
	// BeginRun registers a run before any pipeline starts.
	BeginRun(ctx context.Context, info RunInfo) error

	// RecordReport persists one file's terminal report.
	RecordReport(ctx context.Context, runID uuid.UUID, report FileReport) error

	// FinishRun stamps the run's completion time.
	FinishRun(ctx context.Context, runID uuid.UUID, finishedAt time.Time) error
}
