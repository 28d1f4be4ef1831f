// Package app runs the terminal UI.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/akaun/internal/router"
	"github.com/abhisek/akaun/internal/screen"
	"github.com/abhisek/akaun/internal/screens/home"
	"github.com/abhisek/akaun/internal/screens/welcome"
	"github.com/abhisek/akaun/internal/ui/layout"
)

// Options holds the dependencies of the UI.
type Options struct {
	Home home.Options

	// SkipWelcome starts on the menu, e.g. for `akaun play`.
	SkipWelcome bool

	// Start, if set, is pushed above the menu on launch.
	Start func(h *home.HomeScreen) screen.Screen
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel creates the model with the welcome splash leading to home.
func newAppModel(opts Options) AppModel {
	h := home.New(opts.Home)

	var root screen.Screen = h
	if !opts.SkipWelcome {
		root = welcome.New(func() screen.Screen { return h })
	}
	r := router.New(root)
	if opts.Start != nil {
		r.Push(opts.Start(h))
	}
	return AppModel{router: r}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the frame for the current size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	var status *layout.Status
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			st := sp.Status()
			status = &st
		}
	}

	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	} else {
		footerHints = []layout.KeyHint{{Key: "Ctrl+C", Description: "Keluar"}}
	}
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Ralat menjalankan program:", err)
		return err
	}
	return nil
}
