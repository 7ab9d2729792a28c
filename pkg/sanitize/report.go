package sanitize

import (
	"fmt"
	"time"
)

// PipelineState identifies where a per-file pipeline is in its lifecycle.
type PipelineState string

const (
	// StateOpening means the pipeline is opening its source file.
	StateOpening PipelineState = "opening"

	// StateCounting means the pipeline is counting lines for progress
	// totals before the streaming pass.
	StateCounting PipelineState = "counting"

	// StateHeaderPending means the pipeline is waiting for the header
	// line that defines the table schema.
	StateHeaderPending PipelineState = "header_pending"

	// StateTableCreated means the table exists and streaming can begin.
	StateTableCreated PipelineState = "table_created"

	// StateStreaming means data lines are being read and batched.
	StateStreaming PipelineState = "streaming"

	// StateDraining means input is exhausted and the final partial batch
	// is being flushed.
	StateDraining PipelineState = "draining"

	// StateDone is the terminal success state.
	StateDone PipelineState = "done"

	// StateFailed is the terminal failure state (unopenable file, empty
	// file, table creation failure, name collision).
	StateFailed PipelineState = "failed"
)

// Terminal reports whether the state is one of the two end states.
func (s PipelineState) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// ErrorKind distinguishes the categories of per-row faults a pipeline
// records while continuing.
type ErrorKind string

const (
	// KindColumnMismatch marks a data line whose field count differs
	// from the header's. The line is dropped before batching.
	KindColumnMismatch ErrorKind = "column_mismatch"

	// KindInsert marks a batch the store rejected. All rows of the
	// batch are dropped; the batch is never retried.
	KindInsert ErrorKind = "insert"
)

// ErrorEntry records one non-fatal fault encountered while ingesting a
// file. The Kind field selects which of the remaining fields are
// meaningful.
type ErrorEntry struct {
	// Kind is the fault category.
	Kind ErrorKind

	// Line is the 1-indexed source line for column mismatches, counting
	// the header as line 1.
	Line int64

	// Expected and Got are the header and actual field counts for
	// column mismatches.
	Expected int
	Got      int

	// Raw is the offending source line for column mismatches, useful
	// for diagnosing separator problems.
	Raw string

	// StartLine is the 1-indexed source line of the first row of a
	// failed batch.
	StartLine int64

	// Rows is the number of rows dropped with a failed batch.
	Rows int

	// Message is the store's error text for a failed batch.
	Message string
}

// NewColumnMismatch builds the entry for a dropped line whose field count
// differs from the header's.
func NewColumnMismatch(line int64, expected, got int, raw string) ErrorEntry {
	return ErrorEntry{
		Kind:     KindColumnMismatch,
		Line:     line,
		Expected: expected,
		Got:      got,
		Raw:      raw,
	}
}

// NewInsertError builds the entry for a dropped batch the store rejected.
func NewInsertError(startLine int64, rows int, message string) ErrorEntry {
	return ErrorEntry{
		Kind:      KindInsert,
		StartLine: startLine,
		Rows:      rows,
		Message:   message,
	}
}

// String renders the entry for logs and summaries.
func (e ErrorEntry) String() string {
	switch e.Kind {
	case KindColumnMismatch:
		return fmt.Sprintf("line %d: expected %d columns, got %d", e.Line, e.Expected, e.Got)
	case KindInsert:
		return fmt.Sprintf("batch at line %d: %d rows dropped: %s", e.StartLine, e.Rows, e.Message)
	default:
		return fmt.Sprintf("unknown error kind %q", string(e.Kind))
	}
}

// FileReport is the terminal record of one per-file pipeline. Every
// scanned file produces exactly one report, whether the pipeline
// succeeded, recorded per-row faults, or failed outright.
type FileReport struct {
	// Table is the name of the table this file loads into.
	Table string

	// Path is the source file path, relative to the input directory.
	Path string

	// State is the terminal pipeline state (done or failed).
	State PipelineState

	// TotalLines is the number of lines in the source, including the
	// header. Zero when the file could not be opened.
	TotalLines int64

	// LoadedRows is the number of rows the store accepted.
	LoadedRows int64

	// SkippedRows is the number of data rows dropped, whether
	// individually (column mismatch) or with a failed batch.
	SkippedRows int64

	// Errors lists the per-row faults in the order encountered.
	Errors []ErrorEntry

	// Failure carries the terminal error for failed pipelines; nil for
	// successful ones.
	Failure error

	// StartedAt and FinishedAt bound the pipeline's run.
	StartedAt  time.Time
	FinishedAt time.Time
}

// Mismatches returns only the column mismatch entries.
func (r FileReport) Mismatches() []ErrorEntry {
	return r.filter(KindColumnMismatch)
}

// InsertErrors returns only the failed batch entries.
func (r FileReport) InsertErrors() []ErrorEntry {
	return r.filter(KindInsert)
}

func (r FileReport) filter(kind ErrorKind) []ErrorEntry {
	var out []ErrorEntry
	for _, e := range r.Errors {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Elapsed is the wall-clock duration of the pipeline.
func (r FileReport) Elapsed() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Clean reports whether the pipeline finished without any fault.
func (r FileReport) Clean() bool {
	return r.State == StateDone && len(r.Errors) == 0
}

// RunSummary aggregates the terminal reports of every pipeline in a run.
type RunSummary struct {
	// RunID identifies the run in the store's manifest tables.
	RunID string

	// StartedAt and FinishedAt bound the whole run.
	StartedAt  time.Time
	FinishedAt time.Time

	// Reports holds one entry per scanned file, ordered by table name.
	Reports []FileReport
}

// TotalLoaded sums the accepted rows across all files.
func (s RunSummary) TotalLoaded() int64 {
	var n int64
	for _, r := range s.Reports {
		n += r.LoadedRows
	}
	return n
}

// TotalSkipped sums the dropped rows across all files.
func (s RunSummary) TotalSkipped() int64 {
	var n int64
	for _, r := range s.Reports {
		n += r.SkippedRows
	}
	return n
}

// FailedFiles counts pipelines that ended in the failed state.
func (s RunSummary) FailedFiles() int {
	var n int
	for _, r := range s.Reports {
		if r.State == StateFailed {
			n++
		}
	}
	return n
}

// Elapsed is the wall-clock duration of the run.
func (s RunSummary) Elapsed() time.Duration {
	if s.FinishedAt.IsZero() || s.StartedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
