package sanitize

// Collision records a source file rejected because an earlier file
// already claimed its table name.
type Collision struct {
	// File is the rejected source file.
	File SourceFile

	// Winner is the relative path of the file that kept the table name.
	Winner string
}

// ScanResult is the outcome of scanning an input directory.
type ScanResult struct {
	// Files lists the accepted source files, ordered by relative path.
	Files []SourceFile

	// Collisions lists files rejected over table name conflicts.
	Collisions []Collision
}

// Empty reports whether the scan found no loadable files at all.
func (r ScanResult) Empty() bool {
	return len(r.Files) == 0 && len(r.Collisions) == 0
}

// FileScanner discovers source files under a directory.
//
// Thread-Safety: implementations must be safe for concurrent use.
type FileScanner interface {
	// ScanDirectory walks dir recursively and returns every regular
	// file whose name matches the configured extension, with table
	// names assigned and collisions resolved in favor of the
	// lexicographically earlier relative path.
	ScanDirectory(dir string) (ScanResult, error)
}
