// Package home is the drill menu.
package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/akaun/internal/leaderboard"
	"github.com/abhisek/akaun/internal/router"
	"github.com/abhisek/akaun/internal/screen"
	"github.com/abhisek/akaun/internal/screens/board"
	"github.com/abhisek/akaun/internal/screens/drill"
	"github.com/abhisek/akaun/internal/screens/player"
	"github.com/abhisek/akaun/internal/screens/summary"
	"github.com/abhisek/akaun/internal/session"
	"github.com/abhisek/akaun/internal/ui/components"
	"github.com/abhisek/akaun/internal/ui/layout"
	"github.com/abhisek/akaun/internal/ui/theme"
)

// Options wires the menu to the rest of the app.
type Options struct {
	// Player is the configured name; empty means ask before the first drill.
	Player string

	// Drill is copied into every drill run. Player and Finished are set by
	// the home screen.
	Drill drill.Deps

	Leaderboard leaderboard.Service
}

// HomeScreen lists the drills.
type HomeScreen struct {
	opts   Options
	drills []session.Drill
	player string
	menu   components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(opts Options) *HomeScreen {
	h := &HomeScreen{opts: opts, drills: session.Drills(), player: opts.Player}

	items := make([]components.MenuItem, 0, len(h.drills)+2)
	for _, d := range h.drills {
		items = append(items, components.MenuItem{
			Label:  d.Title,
			Detail: fmt.Sprintf("%s  (%d soalan)", d.Description, d.Size()),
			Action: func() tea.Cmd { return h.play(d) },
		})
	}
	items = append(items,
		components.MenuItem{
			Label:    "Papan Markah",
			Action:   func() tea.Cmd { return push(h.leaderboard("")) },
			Disabled: opts.Leaderboard == nil,
		},
		components.MenuItem{
			Label:  "Keluar",
			Action: func() tea.Cmd { return tea.Quit },
		},
	)
	h.menu = components.NewMenu(items)
	return h
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

// play starts d from the menu.
func (h *HomeScreen) play(d session.Drill) tea.Cmd {
	return push(h.Launch(d))
}

// Launch returns the first screen of a run of d: the drill itself, or the
// name prompt when no player name is known yet.
func (h *HomeScreen) Launch(d session.Drill) screen.Screen {
	if h.player != "" {
		return h.drillScreen(d)
	}
	return player.New("", func(name string) screen.Screen {
		h.player = name
		return h.drillScreen(d)
	})
}

func (h *HomeScreen) drillScreen(d session.Drill) screen.Screen {
	deps := h.opts.Drill
	deps.Player = h.player
	deps.Finished = func(sum session.Summary) screen.Screen {
		actions := summary.Actions{
			Replay: func() screen.Screen { return h.drillScreen(d) },
		}
		if h.opts.Leaderboard != nil {
			actions.Leaderboard = func() screen.Screen { return h.leaderboard(d.ID) }
		}
		return summary.New(sum, actions)
	}
	return drill.New(d, deps)
}

func (h *HomeScreen) leaderboard(drillID string) screen.Screen {
	return board.New(h.opts.Leaderboard, h.drills, drillID)
}

// Player returns the name used for the next drill.
func (h *HomeScreen) Player() string {
	return h.player
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Menu Utama"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Pilih"},
		{Key: "Enter", Description: "Mula"},
		{Key: "Ctrl+C", Description: "Keluar"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections,
		theme.Title.Render("Pilih latihan"),
		theme.Subtitle.Render("Prinsip Perakaunan SPM"),
	)

	who := "Pemain: belum ditetapkan"
	if h.player != "" {
		who = "Pemain: " + h.player
	}
	sections = append(sections, theme.Hint.Render(who), "")

	box := theme.Card.Width(min(width-8, 72)).Render(strings.TrimRight(h.menu.View(), "\n"))
	sections = append(sections, box)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, sections...))
}
