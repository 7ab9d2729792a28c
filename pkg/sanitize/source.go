package sanitize

import (
	"context"
	"time"
)

// SourceFile describes one input file discovered by the scanner.
type SourceFile struct {
	// Path is the absolute path of the file.
	Path string

	// RelPath is the path relative to the scanned input directory,
	// using forward slashes.
	RelPath string

	// Table is the table name derived from the file's base name.
	Table string

	// SizeBytes is the file size at scan time.
	SizeBytes int64

	// ModifiedAt is the file's modification time at scan time.
	ModifiedAt time.Time
}

// LineSource yields the lines of one source file. Implementations read
// the underlying file twice: once to count, once to stream. Both passes
// see identical line numbering, 1-indexed with the header as line 1.
type LineSource interface {
	// Count returns the total number of lines in the source.
	Count(ctx context.Context) (int64, error)

	// Each calls fn for every line in order, passing the 1-indexed line
	// number and the raw text without its terminator. Iteration stops
	// at the first error fn returns, which Each then returns.
	Each(ctx context.Context, fn func(n int64, text string) error) error
}
