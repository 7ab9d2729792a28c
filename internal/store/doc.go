// Package store persists sanitized records and run manifests in a SQLite
// database file.
//
// One store serves every pipeline of a run. The connection pool is capped
// at a single connection, so statements execute one at a time; concurrent
// pipelines interleave at batch granularity and each multi-row INSERT is
// atomic on its own.
//
// Opening the store resets it: an existing database file at the target
// path is deleted, along with any journal siblings, before the new file
// is created.
package store
