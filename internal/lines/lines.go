// Package lines streams source files line by line for the two read
// passes of a pipeline: counting and ingestion.
package lines

import (
	"bufio"
	"context"
	"fmt"

	"github.com/KATT/sanitize-csvs/internal/files/filesystem"
	"github.com/KATT/sanitize-csvs/pkg/sanitize"
)

// MaxLineBytes bounds the length of a single source line. The bufio
// default of 64KiB is too small for wide exports with hundreds of
// columns; lines beyond this limit fail the read with bufio.ErrTooLong.
const MaxLineBytes = 4 * 1024 * 1024

// Compile-time interface check
var _ sanitize.LineSource = (*FileSource)(nil)

// FileSource reads one source file through the filesystem provider.
// Each pass reopens the file, so memory stays bounded by a single line
// regardless of file size. Both passes share the same splitting logic
// and therefore always agree on line numbering.
//
// Lines are terminated by \n; a preceding \r is stripped, so Unix and
// Windows sources read identically. A final line without a terminator
// still counts.
type FileSource struct {
	fsProvider filesystem.FileSystemProvider
	path       string
}

// NewFileSource creates a line source for the file at path.
// Panics if fsProvider is nil or path is empty.
func NewFileSource(fsProvider filesystem.FileSystemProvider, path string) *FileSource {
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	if path == "" {
		panic("path cannot be empty")
	}
	return &FileSource{
		fsProvider: fsProvider,
		path:       path,
	}
}

// Count returns the total number of lines in the source by running a
// full read pass over it.
func (s *FileSource) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.Each(ctx, func(int64, string) error {
		n++
		return nil
	})
	return n, err
}

// Each calls fn for every line in order, passing the 1-indexed line
// number and the text without its terminator. Iteration stops at the
// first error fn returns, which Each then returns. The context is
// checked between lines.
func (s *FileSource) Each(ctx context.Context, fn func(n int64, text string) error) error {
	r, err := s.fsProvider.OpenFile(s.path)
	if err != nil {
		return fmt.Errorf("%w: %v", sanitize.ErrStreamOpen, err)
	}
	defer r.Close()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), MaxLineBytes)

	var n int64
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		n++
		if err := fn(n, scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", s.path, err)
	}
	return nil
}
