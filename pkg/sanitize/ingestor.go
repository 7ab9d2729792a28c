package sanitize

import "context"

// Ingestor orchestrates a complete load run: reset the store, scan the
// input directory, run one pipeline per file concurrently, and merge the
// terminal reports into a summary.
//
// Per-file faults (unreadable files, dropped rows, rejected batches) are
// captured in the summary and do not produce an error. The returned
// error is reserved for run-level faults: invalid configuration, an
// unopenable store, or an unreadable input directory.
type Ingestor interface {
	// Run executes a load run and returns its summary.
	Run(ctx context.Context, cfg LoadConfig) (RunSummary, error)
}
