// Package sanitize defines the public contracts of the sanitize-csvs tool:
// configuration types, the data model of an ingestion run (records, file
// reports, progress events), the interfaces implemented under internal/,
// sentinel errors, and process exit codes.
//
// The package contains no I/O of its own. Concrete implementations live in
// the internal tree and are wired together by the CLI.
package sanitize
