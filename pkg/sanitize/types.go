package sanitize

import (
	"errors"
	"fmt"
	"strings"
)

// LoadConfig holds the parameters of a load run: scan a directory of
// delimited-text files, sanitize every line, and load the records into
// per-file tables of a fresh store.
type LoadConfig struct {
	// InputDir is the directory scanned (recursively) for source files.
	InputDir string

	// StorePath is the filesystem location of the output store. Any
	// existing store at this path is deleted before the run.
	StorePath string

	// Separator is the literal field separator token. May be longer than
	// one character; it always splits, even inside quoted fields.
	Separator string

	// Quote is the quote character stripped once from each field
	// boundary after trimming.
	Quote string

	// Extension filters source files by suffix, case-insensitively.
	Extension string

	// BatchSize is the number of accepted records per store flush.
	BatchSize int

	// Verbose enables detailed diagnostic logging.
	Verbose bool

	// PlainProgress forces line-based progress output instead of the
	// interactive display, regardless of terminal detection.
	PlainProgress bool
}

// Validate checks the configuration for structural problems and returns
// all of them joined into one error, each wrapping ErrInvalidConfig.
func (c LoadConfig) Validate() error {
	var errs []error

	if strings.TrimSpace(c.InputDir) == "" {
		errs = append(errs, fmt.Errorf("%w: input directory is required", ErrInvalidConfig))
	}
	if strings.TrimSpace(c.StorePath) == "" {
		errs = append(errs, fmt.Errorf("%w: store path is required", ErrInvalidConfig))
	}
	if c.Separator == "" {
		errs = append(errs, fmt.Errorf("%w: separator must not be empty", ErrInvalidConfig))
	}
	if len(c.Quote) > 1 {
		errs = append(errs, fmt.Errorf("%w: quote must be a single character, got %q", ErrInvalidConfig, c.Quote))
	}
	if c.Extension == "" || !strings.HasPrefix(c.Extension, ".") {
		errs = append(errs, fmt.Errorf("%w: extension must start with a dot, got %q", ErrInvalidConfig, c.Extension))
	}
	if c.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("%w: batch size must be at least 1, got %d", ErrInvalidConfig, c.BatchSize))
	}

	return errors.Join(errs...)
}

// RewriteConfig holds the parameters of a rewrite run: scan a directory of
// delimited-text files and write a sanitized canonical companion of each
// into the output directory.
type RewriteConfig struct {
	// InputDir is the directory scanned (recursively) for source files.
	InputDir string

	// OutputDir receives the rewritten companion files, mirroring the
	// relative layout of InputDir.
	OutputDir string

	// Separator is the literal field separator token of the input.
	Separator string

	// Quote is the quote character stripped once from each field
	// boundary after trimming.
	Quote string

	// Extension filters source files by suffix, case-insensitively.
	Extension string

	// Verbose enables detailed diagnostic logging.
	Verbose bool
}

// Validate checks the configuration for structural problems and returns
// all of them joined into one error, each wrapping ErrInvalidConfig.
func (c RewriteConfig) Validate() error {
	var errs []error

	if strings.TrimSpace(c.InputDir) == "" {
		errs = append(errs, fmt.Errorf("%w: input directory is required", ErrInvalidConfig))
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		errs = append(errs, fmt.Errorf("%w: output directory is required", ErrInvalidConfig))
	}
	if c.Separator == "" {
		errs = append(errs, fmt.Errorf("%w: separator must not be empty", ErrInvalidConfig))
	}
	if len(c.Quote) > 1 {
		errs = append(errs, fmt.Errorf("%w: quote must be a single character, got %q", ErrInvalidConfig, c.Quote))
	}
	if c.Extension == "" || !strings.HasPrefix(c.Extension, ".") {
		errs = append(errs, fmt.Errorf("%w: extension must start with a dot, got %q", ErrInvalidConfig, c.Extension))
	}

	return errors.Join(errs...)
}
