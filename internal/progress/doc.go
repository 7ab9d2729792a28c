// Package progress aggregates per-file pipeline events into throttled
// snapshots for a renderer.
//
// Pipelines publish events through a buffered channel with non-blocking
// sends, so a stalled renderer never slows ingestion; under pressure
// intermediate events are simply dropped. A single aggregator goroutine
// owns the per-table state, folds events into it, and renders at most
// once per interval plus exactly once more on close.
package progress
