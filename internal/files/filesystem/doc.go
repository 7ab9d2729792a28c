// Package filesystem provides filesystem abstraction interfaces and implementations.
//
// This package defines interfaces for directory traversal, streaming file
// reads, and rewritten-file output, enabling testability through in-memory
// implementations while maintaining compatibility with the OS filesystem.
//
// Key interfaces:
//   - FileSystemProvider: Directory access plus streaming reads and writes
//   - Directory: Represents a directory that can be traversed
//   - File: Represents an individual file with metadata and a content stream
//   - FileInfo: File metadata similar to os.FileInfo
//
// Implementations:
//   - OSFileSystem: Production implementation using the OS filesystem
//   - MemoryFileSystem: In-memory implementation for testing
package filesystem
