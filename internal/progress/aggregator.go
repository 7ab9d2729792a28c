package progress

import (
	"sort"
	"time"

	"github.com/KATT/sanitize-csvs/pkg/sanitize"
)

// Compile-time interface checks
var (
	_ sanitize.ProgressPublisher = (*Aggregator)(nil)
	_ Renderer                   = (*NullRenderer)(nil)
)

// eventBuffer bounds how many unconsumed events the aggregator holds.
// Publishing into a full buffer drops the event instead of blocking.
const eventBuffer = 256

// FileProgress is one file's latest observed position.
type FileProgress struct {
	// Table identifies the file's pipeline.
	Table string

	// Line is the last line the pipeline reported consuming.
	Line int64

	// Total is the file's line count, zero until counting finished.
	Total int64

	// State is the pipeline state of the last event.
	State sanitize.PipelineState
}

// Snapshot is an immutable view of every file seen so far plus overall
// sums. The sums are recomputed from the full per-file state on every
// build rather than accumulated incrementally, so a revised file total
// never leaves a stale remainder behind.
type Snapshot struct {
	// Files lists each file's latest position, ordered by table name.
	Files []FileProgress

	// Lines and Total sum the per-file pairs in Files.
	Lines int64
	Total int64

	// At is when the snapshot was built.
	At time.Time
}

// Finished counts files that reached a terminal state.
func (s Snapshot) Finished() int {
	var n int
	for _, f := range s.Files {
		if f.State.Terminal() {
			n++
		}
	}
	return n
}

// Percent returns overall completion in [0, 1]. Zero while no file has
// reported a total yet.
func (s Snapshot) Percent() float64 {
	if s.Total <= 0 {
		return 0
	}
	p := float64(s.Lines) / float64(s.Total)
	if p > 1 {
		return 1
	}
	return p
}

// Renderer receives snapshots from the aggregator. Render is called on
// the aggregator's goroutine, never concurrently with itself, at most
// once per interval and once more with the final state on Close.
type Renderer interface {
	Render(s Snapshot)
}

// NullRenderer discards snapshots. Useful in tests and for runs that
// report through the summary alone.
type NullRenderer struct{}

// NewNullRenderer creates a renderer that does nothing.
func NewNullRenderer() *NullRenderer {
	return &NullRenderer{}
}

// Render implements Renderer as a no-op.
func (r *NullRenderer) Render(Snapshot) {}

// Aggregator consumes pipeline events into per-table state and renders
// throttled snapshots. The consuming goroutine owns all state; pipelines
// interact only through Publish.
type Aggregator struct {
	renderer Renderer
	interval time.Duration
	events   chan sanitize.ProgressEvent
	done     chan struct{}
}

// NewAggregator creates an aggregator rendering at most once per
// sanitize.ProgressInterval. Panics if renderer is nil.
func NewAggregator(renderer Renderer) *Aggregator {
	return NewAggregatorWithInterval(renderer, sanitize.ProgressInterval)
}

// NewAggregatorWithInterval creates an aggregator with an explicit
// throttle interval. Panics if renderer is nil or interval is not
// positive.
func NewAggregatorWithInterval(renderer Renderer, interval time.Duration) *Aggregator {
	if renderer == nil {
		panic("renderer cannot be nil")
	}
	if interval <= 0 {
		panic("interval must be positive")
	}

	return &Aggregator{
		renderer: renderer,
		interval: interval,
		events:   make(chan sanitize.ProgressEvent, eventBuffer),
		done:     make(chan struct{}),
	}
}

// Start launches the consuming goroutine. Call exactly once, before
// Close.
func (a *Aggregator) Start() {
	go a.run()
}

// Publish implements sanitize.ProgressPublisher. The send never blocks;
// when the buffer is full the event is dropped. Must not be called
// after Close.
func (a *Aggregator) Publish(e sanitize.ProgressEvent) {
	select {
	case a.events <- e:
	default:
	}
}

// Close drains buffered events, renders one final snapshot, and waits
// for the consuming goroutine to exit. All publishers must have
// finished before Close is called.
func (a *Aggregator) Close() {
	close(a.events)
	<-a.done
}

func (a *Aggregator) run() {
	defer close(a.done)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	latest := make(map[string]sanitize.ProgressEvent)
	dirty := false

	for {
		select {
		case e, ok := <-a.events:
			if !ok {
				a.renderer.Render(buildSnapshot(latest))
				return
			}
			latest[e.Table] = e
			dirty = true
		case <-ticker.C:
			if dirty {
				a.renderer.Render(buildSnapshot(latest))
				dirty = false
			}
		}
	}
}

func buildSnapshot(latest map[string]sanitize.ProgressEvent) Snapshot {
	snap := Snapshot{
		Files: make([]FileProgress, 0, len(latest)),
		At:    time.Now(),
	}

	for _, e := range latest {
		snap.Files = append(snap.Files, FileProgress{
			Table: e.Table,
			Line:  e.Line,
			Total: e.Total,
			State: e.State,
		})
		snap.Lines += e.Line
		snap.Total += e.Total
	}

	sort.Slice(snap.Files, func(i, j int) bool {
		return snap.Files[i].Table < snap.Files[j].Table
	})

	return snap
}
