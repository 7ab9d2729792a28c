package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the progress display. The display
// is read-only apart from cancellation, so the map is small.
type KeyMap struct {
	Quit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "cancel"),
		),
	}
}

// HelpText returns the one-line key help shown under the display.
func (k KeyMap) HelpText() string {
	return "q/ctrl+c cancel the run"
}
