package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/KATT/sanitize-csvs/internal/tui"
	"github.com/KATT/sanitize-csvs/pkg/sanitize"
)

// SummaryWriter renders the end-of-run summary: one line per file with
// its totals, a capped preview of each error category underneath, and a
// closing totals line. It is the same for TUI and plain runs; it prints
// after the progress display has shut down.
type SummaryWriter struct {
	out io.Writer
}

// NewSummaryWriter creates a SummaryWriter writing to out. Panics on a
// nil writer.
func NewSummaryWriter(out io.Writer) *SummaryWriter {
	if out == nil {
		panic("out cannot be nil")
	}
	return &SummaryWriter{out: out}
}

// Write renders the summary.
func (w *SummaryWriter) Write(s sanitize.RunSummary) {
	fmt.Fprintln(w.out)
	title := fmt.Sprintf("Run %s finished in %s", shortID(s.RunID), s.Elapsed().Round(time.Millisecond))
	fmt.Fprintln(w.out, tui.TitleStyle.Render(title))

	for _, r := range s.Reports {
		w.writeReport(r)
	}

	fmt.Fprintln(w.out)
	fmt.Fprintln(w.out, w.totalsLine(s))
}

func (w *SummaryWriter) writeReport(r sanitize.FileReport) {
	name := fmt.Sprintf("%s (%s)", r.Table, r.Path)

	switch {
	case r.State == sanitize.StateFailed:
		fmt.Fprintf(w.out, "  %s %s %s %s\n",
			tui.ErrorStyle.Render(tui.SymbolCross), name, tui.SymbolArrowRight,
			tui.ErrorStyle.Render("failed: "+failureText(r)))
	case r.Clean():
		fmt.Fprintf(w.out, "  %s %s %s %d rows loaded\n",
			tui.SuccessStyle.Render(tui.SymbolCheck), name, tui.SymbolArrowRight, r.LoadedRows)
	default:
		fmt.Fprintf(w.out, "  %s %s %s %d rows loaded, %d skipped\n",
			tui.WarningStyle.Render(tui.SymbolCheck), name, tui.SymbolArrowRight,
			r.LoadedRows, r.SkippedRows)
	}

	w.writePreview(r.Mismatches(), "column mismatches")
	w.writePreview(r.InsertErrors(), "failed batches")
}

// writePreview prints the first few entries of one error category and
// summarizes the rest as a count.
func (w *SummaryWriter) writePreview(entries []sanitize.ErrorEntry, noun string) {
	for i, e := range entries {
		if i == sanitize.ErrorPreviewLimit {
			break
		}
		fmt.Fprintln(w.out, tui.DetailStyle.Render(e.String()))
	}
	if rest := len(entries) - sanitize.ErrorPreviewLimit; rest > 0 {
		fmt.Fprintln(w.out, tui.DetailStyle.Render(fmt.Sprintf("%s %d more %s", tui.SymbolEllipsis, rest, noun)))
	}
}

func (w *SummaryWriter) totalsLine(s sanitize.RunSummary) string {
	line := tui.CountStyle.Render(fmt.Sprintf("%d files %s %d rows loaded %s %d skipped",
		len(s.Reports), tui.SymbolBullet, s.TotalLoaded(), tui.SymbolBullet, s.TotalSkipped()))
	if failed := s.FailedFiles(); failed > 0 {
		line += tui.CountStyle.Render(fmt.Sprintf(" %s ", tui.SymbolBullet)) +
			tui.WarningStyle.Render(fmt.Sprintf("%d files failed", failed))
	}
	return line
}

func failureText(r sanitize.FileReport) string {
	if r.Failure == nil {
		return "unknown failure"
	}
	return r.Failure.Error()
}

// shortID trims a UUID to its first group for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
