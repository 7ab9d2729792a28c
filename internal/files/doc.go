// Package files provides file-related functionality organized into sub-packages.
//
// This package has been refactored into the following sub-packages:
//   - filesystem: Filesystem abstraction interfaces and implementations (OS and in-memory)
//   - scanner: Source file discovery and table name assignment
//
// # Usage
//
//	import (
//	    "github.com/KATT/sanitize-csvs/internal/files/filesystem"
//	    "github.com/KATT/sanitize-csvs/internal/files/scanner"
//	)
//
//	// Create scanner
//	fileScanner := scanner.NewScanner(".csv")
//	result, err := fileScanner.ScanDirectory("./exports")
//
// # Organization
//
// This organization follows the Single Responsibility Principle, with each
// sub-package focused on a specific concern:
//   - filesystem: Provides filesystem abstraction for testability
//   - scanner: Handles file discovery, extension filtering, and collision policy
package files
