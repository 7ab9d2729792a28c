package sanitize

// ProgressPublisher accepts progress events from pipelines. Publish
// must never block: pipelines call it on the line-read path, and a slow
// consumer must cost them nothing.
//
// Thread-Safety: Publish must be safe for concurrent use.
type ProgressPublisher interface {
	// Publish hands an event to the consumer, dropping it if the
	// consumer cannot take it immediately.
	Publish(e ProgressEvent)
}

// ProgressEvent is one observation published by a pipeline as it works
// through its file. Events are advisory: delivery is lossy under load,
// and consumers must treat the terminal FileReport as authoritative.
type ProgressEvent struct {
	// Table identifies the pipeline.
	Table string

	// Line is the 1-indexed line most recently consumed.
	Line int64

	// Total is the line count of the file, zero until counting finishes.
	Total int64

	// State is the pipeline state at the time of the event.
	State PipelineState
}
