package ui

import (
	"fmt"
	"io"

	"github.com/KATT/sanitize-csvs/internal/progress"
	"github.com/KATT/sanitize-csvs/pkg/sanitize"
)

// Compile-time interface check
var _ progress.Renderer = (*PlainRenderer)(nil)

// PlainRenderer prints progress as plain log lines for piped output and
// CI runs. The aggregator already throttles how often Render is called;
// on top of that, a percent line is only printed when the whole-number
// percentage or the finished-file count moves, and each file announces
// its terminal state exactly once.
//
// Thread-Safety: the aggregator calls Render from a single goroutine.
type PlainRenderer struct {
	out          io.Writer
	seen         map[string]sanitize.PipelineState
	lastPercent  int
	lastFinished int
}

// NewPlainRenderer creates a PlainRenderer writing to out. Panics on a
// nil writer.
func NewPlainRenderer(out io.Writer) *PlainRenderer {
	if out == nil {
		panic("out cannot be nil")
	}
	return &PlainRenderer{
		out:          out,
		seen:         make(map[string]sanitize.PipelineState),
		lastPercent:  -1,
		lastFinished: -1,
	}
}

// Render implements progress.Renderer.
func (r *PlainRenderer) Render(s progress.Snapshot) {
	for _, f := range s.Files {
		if !f.State.Terminal() || r.seen[f.Table] == f.State {
			continue
		}
		r.seen[f.Table] = f.State
		switch f.State {
		case sanitize.StateDone:
			fmt.Fprintf(r.out, "done: %s (%d lines)\n", f.Table, f.Line)
		case sanitize.StateFailed:
			fmt.Fprintf(r.out, "failed: %s\n", f.Table)
		}
	}

	percent := int(s.Percent() * 100)
	finished := s.Finished()
	if percent == r.lastPercent && finished == r.lastFinished {
		return
	}
	r.lastPercent = percent
	r.lastFinished = finished

	fmt.Fprintf(r.out, "progress: %d%% (%d/%d lines, %d/%d files)\n",
		percent, s.Lines, s.Total, finished, len(s.Files))
}
