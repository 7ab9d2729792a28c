package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/KATT/sanitize-csvs/internal/progress"
)

// Compile-time interface check
var _ progress.Renderer = (*Display)(nil)

// Display runs the live progress view in a background bubbletea program
// and feeds it aggregator snapshots. It implements progress.Renderer, so
// it plugs into the same slot as the plain renderer.
//
// Lifecycle: Start before the run, Stop after it. Render may be called
// from the aggregator goroutine at any point in between; snapshots
// arriving after the program has exited are dropped.
type Display struct {
	program *tea.Program
	done    chan struct{}
}

// NewDisplay creates a Display with the given title line. cancel is
// invoked when the user cancels from the keyboard; it may be nil.
func NewDisplay(title string, cancel func()) *Display {
	return &Display{
		program: tea.NewProgram(newModel(title, cancel)),
		done:    make(chan struct{}),
	}
}

// Start launches the program. The display owns the terminal until Stop.
func (d *Display) Start() {
	go func() {
		// A dead display must not take the run down with it; pipelines
		// keep going and the summary still prints.
		_, _ = d.program.Run()
		close(d.done)
	}()
}

// Render implements progress.Renderer.
func (d *Display) Render(s progress.Snapshot) {
	d.program.Send(snapshotMsg(s))
}

// Stop tells the program to exit, leaving the final frame on screen,
// and waits for it to shut down. Call only after Start.
func (d *Display) Stop() {
	d.program.Send(displayDoneMsg{})
	<-d.done
}
