package sanitize

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	summary, err := ingestor.Run(ctx, cfg)
//	if errors.Is(err, sanitize.ErrStoreOpen) {
//	    // Handle an unopenable output store
//	}
var (
	// ErrInvalidConfig indicates configuration that fails validation
	// (empty separator, non-positive batch size, missing input directory).
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrStoreOpen indicates the output store could not be reset or opened.
	ErrStoreOpen = errors.New("store open failed")

	// ErrInputDir indicates the input directory could not be scanned.
	ErrInputDir = errors.New("input directory unreadable")

	// ErrStreamOpen indicates a source file could not be opened for
	// reading. Pipelines report this per file; it is not fatal to a run.
	ErrStreamOpen = errors.New("source open failed")

	// ErrTableCollision indicates two source files map to the same table
	// name. The later file is rejected; the run continues.
	ErrTableCollision = errors.New("table name collision")

	// ErrEmptyFile indicates a source file with no header line, so no
	// table can be created for it.
	ErrEmptyFile = errors.New("source file has no header")
)

// ExitCodeForError maps an error to a semantic exit code.
// Returns ExitSuccess (0) for nil errors, semantic codes for known
// errors, and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Check for sentinel errors
	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrStoreOpen):
		return ExitStoreError
	case errors.Is(err, ErrInputDir):
		return ExitInputError
	}

	// Check for CLI usage error patterns from flag and argument parsing
	errStr := err.Error()
	if strings.Contains(errStr, "unknown flag") ||
		strings.Contains(errStr, "unknown shorthand flag") ||
		strings.Contains(errStr, "unknown command") ||
		strings.Contains(errStr, "missing required argument") ||
		strings.Contains(errStr, "arg(s), received") ||
		strings.Contains(errStr, "required flag") ||
		strings.Contains(errStr, "invalid argument") {
		return ExitUsageError
	}

	return ExitGeneralError
}
