package filesystem

import (
	"io"
	"io/fs"
)

// FileInfo is an alias for fs.FileInfo from the standard library.
// This provides compatibility with the fs.FS ecosystem while maintaining
// a stable local type for our abstraction layer.
type FileInfo = fs.FileInfo

// File represents an individual file discovered during a directory walk
type File interface {
	// Path returns the absolute path to the file
	Path() string

	// RelativePath returns the path relative to the source root
	RelativePath() string

	// Info returns file metadata
	Info() FileInfo

	// Open returns a reader over the file's content. Sources are read
	// in streaming passes and are never materialized in full; callers
	// may open the same file multiple times.
	Open() (io.ReadCloser, error)
}

// Directory represents a directory that can be traversed to discover files
type Directory interface {
	// Path returns the absolute path to the directory
	Path() string

	// Walk traverses the directory tree, calling the provided function for each file and directory
	// The function receives the file/directory and any error encountered
	// If the function returns an error, walking stops
	Walk(fn func(File, error) error) error
}

// FileSystemProvider abstracts the filesystem for scanning, streaming
// reads, and rewritten output
type FileSystemProvider interface {
	// Open opens a directory at the specified path
	Open(path string) (Directory, error)

	// OpenFile opens the file at the given path for a streaming read
	OpenFile(path string) (io.ReadCloser, error)

	// Create creates (or truncates) the file at the given path for
	// writing, creating parent directories as needed
	Create(path string) (io.WriteCloser, error)

	// Stat returns file information for the given path
	Stat(path string) (FileInfo, error)
}
