package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	bar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/KATT/sanitize-csvs/internal/progress"
	"github.com/KATT/sanitize-csvs/pkg/sanitize"
)

const (
	// maxVisibleRows caps the per-file rows so large input directories
	// do not scroll the display off screen. Finished files collapse
	// into a single tail line once the cap is hit.
	maxVisibleRows = 12

	tableColWidth = 20
	barWidth      = 24
)

// snapshotMsg delivers an aggregator snapshot to the model.
type snapshotMsg progress.Snapshot

// displayDoneMsg tells the model the run is over and the program should
// exit, leaving the final frame on screen.
type displayDoneMsg struct{}

type model struct {
	title    string
	keys     KeyMap
	spinner  spinner.Model
	bar      bar.Model
	snap     progress.Snapshot
	cancel   func()
	quitting bool
}

func newModel(title string, cancel func()) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	b := bar.New(bar.WithDefaultGradient(), bar.WithWidth(barWidth), bar.WithoutPercentage())

	return model{
		title:   title,
		keys:    DefaultKeyMap(),
		spinner: sp,
		bar:     b,
		cancel:  cancel,
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
		return m, nil
	case snapshotMsg:
		m.snap = progress.Snapshot(msg)
		return m, nil
	case displayDoneMsg:
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(m.title))
	b.WriteString("\n")

	if len(m.snap.Files) == 0 {
		b.WriteString("  " + m.spinner.View() + " " + CountStyle.Render("scanning input"))
		b.WriteString("\n")
	} else {
		for _, row := range m.fileRows() {
			b.WriteString(row)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString("  " + m.footer())
	b.WriteString("\n")

	if m.quitting {
		b.WriteString("  " + WarningStyle.Render("cancelling, waiting for pipelines to stop"))
		b.WriteString("\n")
	} else {
		b.WriteString(HelpStyle.Render("  " + m.keys.HelpText()))
		b.WriteString("\n")
	}

	return b.String()
}

// fileRows renders one row per file, collapsing finished files into a
// tail line when there are more files than visible rows.
func (m model) fileRows() []string {
	files := m.snap.Files

	if len(files) <= maxVisibleRows {
		rows := make([]string, 0, len(files))
		for _, f := range files {
			rows = append(rows, m.fileRow(f))
		}
		return rows
	}

	var rows []string
	var done, failed, hidden int
	for _, f := range files {
		switch f.State {
		case sanitize.StateDone:
			done++
		case sanitize.StateFailed:
			failed++
		default:
			if len(rows) < maxVisibleRows {
				rows = append(rows, m.fileRow(f))
			} else {
				hidden++
			}
		}
	}

	tail := fmt.Sprintf("%s %d done, %d failed", SymbolEllipsis, done, failed)
	if hidden > 0 {
		tail = fmt.Sprintf("%s, %d more running", tail, hidden)
	}
	rows = append(rows, "  "+CountStyle.Render(tail))
	return rows
}

func (m model) fileRow(f progress.FileProgress) string {
	name := TableNameStyle.Render(fmt.Sprintf("%-*s", tableColWidth, truncate(f.Table, tableColWidth)))

	switch f.State {
	case sanitize.StateDone:
		return fmt.Sprintf("  %s %s %s",
			SuccessStyle.Render(SymbolCheck), name,
			CountStyle.Render(fmt.Sprintf("%d lines", f.Line)))
	case sanitize.StateFailed:
		return fmt.Sprintf("  %s %s %s",
			ErrorStyle.Render(SymbolCross), name,
			ErrorStyle.Render("failed"))
	default:
		return fmt.Sprintf("  %s %s %s %s",
			m.spinner.View(), name,
			m.bar.ViewAs(filePercent(f)),
			CountStyle.Render(fmt.Sprintf("%d/%d", f.Line, f.Total)))
	}
}

func (m model) footer() string {
	finished := m.snap.Finished()
	return CountStyle.Render(fmt.Sprintf("%d/%d lines %s %d of %d files finished",
		m.snap.Lines, m.snap.Total, SymbolBullet, finished, len(m.snap.Files)))
}

func filePercent(f progress.FileProgress) float64 {
	if f.Total <= 0 {
		return 0
	}
	p := float64(f.Line) / float64(f.Total)
	if p > 1 {
		p = 1
	}
	return p
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return SymbolEllipsis
	}
	return s[:n-1] + SymbolEllipsis
}
