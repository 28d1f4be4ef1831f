// Package screen defines what the router stacks.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/akaun/internal/ui/layout"
)

// Screen is one page of the terminal UI.
type Screen interface {
	// Init returns the command to run when the screen becomes active.
	Init() tea.Cmd

	// Update handles a message and returns the screen to keep on the stack.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the body between header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider lets a screen show the running score and clock in the
// header.
type StatusProvider interface {
	Status() layout.Status
}
