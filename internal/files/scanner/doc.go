// Package scanner provides source file discovery for ingestion runs.
//
// The scanner package is responsible for:
//   - Recursively discovering delimited-text files in a directory tree
//   - Filtering files by extension (case-insensitive)
//   - Deriving the table name each file loads into
//   - Rejecting files whose table name is already claimed by an earlier file
//
// The scanner is designed to be filesystem-agnostic through the use of
// filesystem.FileSystemProvider interface, enabling both production use
// with the OS filesystem and testing with in-memory filesystems.
package scanner
