package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the host-level keybindings for the entry flow screen.
// These are handled before the embedded huh form sees the message, so they
// work regardless of which field has focus.
type KeyMap struct {
	// Quit saves the draft and leaves the flow.
	Quit key.Binding
	// Cancel is the Esc alias for Quit; the draft survives either way.
	Cancel key.Binding
	// Previous returns to the preceding step.
	Previous key.Binding
	// Skip bypasses the current optional step.
	Skip key.Binding
}

// DefaultKeyMap returns the default keybinding configuration. Key names
// follow the Bubble Tea format ("ctrl+c", "esc", etc.).
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "save & exit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "save & exit"),
		),
		Previous: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "previous step"),
		),
		Skip: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "skip step"),
		),
	}
}

// helpView renders the footer help line for the given theme. Bindings that
// do not currently apply are omitted by the caller.
func helpView(theme Theme, bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts,
			theme.HelpKey.Render(h.Key)+" "+theme.HelpDesc.Render(h.Desc))
	}
	return strings.Join(parts, theme.HelpDesc.Render("  ·  "))
}
