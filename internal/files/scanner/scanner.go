package scanner

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KATT/sanitize-csvs/internal/files/filesystem"
	"github.com/KATT/sanitize-csvs/internal/identity"
	"github.com/KATT/sanitize-csvs/pkg/sanitize"
)

// Compile-time interface check
var _ sanitize.FileScanner = (*Scanner)(nil)

// Scanner discovers delimited-text source files in a directory tree and
// assigns each file the table name it will load into.
// Scanner is safe for concurrent use by multiple goroutines as long as
// the provided fsProvider is also thread-safe.
type Scanner struct {
	extension  string
	fsProvider filesystem.FileSystemProvider
}

// NewScanner creates a file scanner matching files by the given extension
// (case-insensitive, leading dot included).
// Uses OS filesystem by default.
// Panics if extension is empty.
func NewScanner(extension string) *Scanner {
	if extension == "" {
		panic("extension cannot be empty")
	}
	return &Scanner{
		extension:  extension,
		fsProvider: filesystem.NewOSFileSystem(),
	}
}

// NewScannerWithFS creates a new file scanner with a custom filesystem provider.
// This is primarily useful for testing with in-memory filesystems.
// Panics if extension is empty or fsProvider is nil.
func NewScannerWithFS(extension string, fsProvider filesystem.FileSystemProvider) *Scanner {
	if extension == "" {
		panic("extension cannot be empty")
	}
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	return &Scanner{
		extension:  extension,
		fsProvider: fsProvider,
	}
}

// ScanDirectory recursively scans a directory and returns the accepted
// source files ordered by relative path, plus any files rejected over
// table name collisions.
//
// Collision policy: when two files map to the same table name, compared
// case-insensitively because the store matches identifiers that way, the
// lexicographically earlier relative path keeps the name and every later
// file is rejected.
//
// Parameters:
//   - dir: Root directory to scan
//
// Returns:
//   - sanitize.ScanResult: Accepted files and rejected collisions
//   - error: Any error encountered while reading the directory, wrapping
//     sanitize.ErrInputDir
func (s *Scanner) ScanDirectory(dir string) (sanitize.ScanResult, error) {
	// Open the directory using the filesystem provider
	d, err := s.fsProvider.Open(dir)
	if err != nil {
		return sanitize.ScanResult{}, fmt.Errorf("%w: %v", sanitize.ErrInputDir, err)
	}

	var candidates []sanitize.SourceFile

	// Walk the directory tree
	err = d.Walk(func(file filesystem.File, err error) error {
		if err != nil {
			return fmt.Errorf("error walking path: %w", err)
		}

		info := file.Info()

		// Skip directories
		if info.IsDir() {
			return nil
		}

		if !s.matchesExtension(info.Name()) {
			return nil
		}

		candidates = append(candidates, sanitize.SourceFile{
			Path:       file.Path(),
			RelPath:    filepath.ToSlash(file.RelativePath()),
			Table:      identity.TableName(info.Name()),
			SizeBytes:  info.Size(),
			ModifiedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return sanitize.ScanResult{}, fmt.Errorf("%w: %v", sanitize.ErrInputDir, err)
	}

	// Earlier relative paths claim table names first
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].RelPath < candidates[j].RelPath
	})

	var result sanitize.ScanResult
	claimed := make(map[string]string, len(candidates)) // lower(table) -> winning relpath
	for _, f := range candidates {
		key := strings.ToLower(f.Table)
		if winner, taken := claimed[key]; taken {
			result.Collisions = append(result.Collisions, sanitize.Collision{
				File:   f,
				Winner: winner,
			})
			continue
		}
		claimed[key] = f.RelPath
		result.Files = append(result.Files, f)
	}

	return result, nil
}

// matchesExtension reports whether a file name carries the configured
// extension, compared case-insensitively.
func (s *Scanner) matchesExtension(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), strings.ToLower(s.extension))
}
