package sanitize

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess      = 0  // Run completed (per-file faults are reported, not fatal)
	ExitGeneralError = 1  // Unknown or unclassified error
	ExitUsageError   = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic        = 3  // Internal panic (unexpected crash)
	ExitConfigError  = 10 // Invalid configuration or parameters
	ExitStoreError   = 11 // Output store could not be opened or reset
	ExitInputError   = 12 // Input directory could not be read
)

const (
	// DefaultSeparator is the field separator recognized in raw input lines.
	// Multi-character tokens are supported; the token is always a hard split
	// point, even inside quoted fields.
	DefaultSeparator = "*|*"

	// DefaultQuote is the quote character stripped from field boundaries.
	DefaultQuote = `"`

	// DefaultExtension identifies input files (matched case-insensitively).
	DefaultExtension = ".csv"

	// DefaultStorePath is the well-known location of the output store.
	// An existing store at this path is deleted before each load run.
	DefaultStorePath = "sanitized.db"

	// DefaultBatchSize is the number of accepted records flushed to the
	// store as one multi-row insert.
	DefaultBatchSize = 100

	// ProgressInterval is the minimum wall-clock time between two progress
	// renders. Pipelines report every line; the aggregator throttles.
	ProgressInterval = 100 * time.Millisecond

	// ErrorPreviewLimit caps how many entries of each error category the
	// end-of-run summary prints per file. The remainder is summarized as
	// a count.
	ErrorPreviewLimit = 5
)
