package sanitize

// Logger provides leveled diagnostic output for ingestion runs.
//
// Implementations must be safe for concurrent use: per-file pipelines run
// in parallel and share one logger.
type Logger interface {
	// Verbose logs detailed diagnostic information. Only emitted when
	// verbose mode is enabled.
	Verbose(format string, args ...interface{})

	// Info logs standard operational messages.
	Info(format string, args ...interface{})

	// Warn logs conditions that degrade a run without stopping it, such
	// as dropped rows or rejected files.
	Warn(format string, args ...interface{})

	// Error logs error conditions.
	Error(format string, args ...interface{})
}
