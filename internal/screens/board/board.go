// Package board shows leaderboard standings, one drill at a time.
package board

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/akaun/internal/leaderboard"
	"github.com/abhisek/akaun/internal/router"
	"github.com/abhisek/akaun/internal/screen"
	"github.com/abhisek/akaun/internal/session"
	"github.com/abhisek/akaun/internal/ui/layout"
	"github.com/abhisek/akaun/internal/ui/theme"
)

const (
	fetchTimeout = 10 * time.Second
	maxRows      = 15
)

type scoresLoadedMsg struct {
	DrillID string
	Entries []leaderboard.Entry
	Err     error
}

// BoardScreen lists the top scores of one drill.
type BoardScreen struct {
	service leaderboard.Service
	drills  []session.Drill
	index   int

	entries  []leaderboard.Entry
	loaded   bool
	errMsg   string
	selected int
}

var _ screen.Screen = (*BoardScreen)(nil)
var _ screen.KeyHintProvider = (*BoardScreen)(nil)

// New creates the screen starting at drillID, or the first drill when
// drillID is unknown.
func New(service leaderboard.Service, drills []session.Drill, drillID string) *BoardScreen {
	s := &BoardScreen{service: service, drills: drills}
	for i, d := range drills {
		if d.ID == drillID {
			s.index = i
		}
	}
	return s
}

func (s *BoardScreen) Init() tea.Cmd {
	return s.load()
}

func (s *BoardScreen) Title() string {
	return "Papan Markah"
}

func (s *BoardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Tukar latihan"},
		{Key: "↑↓", Description: "Pilih"},
		{Key: "Esc", Description: "Kembali"},
	}
}

func (s *BoardScreen) drillID() string {
	if len(s.drills) == 0 {
		return ""
	}
	return s.drills[s.index].ID
}

func (s *BoardScreen) load() tea.Cmd {
	s.loaded = false
	s.errMsg = ""
	id := s.drillID()
	svc := s.service
	return func() tea.Msg {
		if svc == nil || id == "" {
			return scoresLoadedMsg{DrillID: id}
		}
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		entries, err := svc.FetchScores(ctx, id)
		return scoresLoadedMsg{DrillID: id, Entries: entries, Err: err}
	}
}

func (s *BoardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case scoresLoadedMsg:
		if msg.DrillID != s.drillID() {
			return s, nil
		}
		s.loaded = true
		s.selected = 0
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			s.entries = nil
			return s, nil
		}
		s.entries = leaderboard.Rank(msg.Entries)
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "left", "h":
			if len(s.drills) > 0 {
				s.index = (s.index - 1 + len(s.drills)) % len(s.drills)
				return s, s.load()
			}
		case "right", "l":
			if len(s.drills) > 0 {
				s.index = (s.index + 1) % len(s.drills)
				return s, s.load()
			}
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < min(len(s.entries), maxRows)-1 {
				s.selected++
			}
		}
	}
	return s, nil
}

func (s *BoardScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")

	title := "Tiada latihan"
	if len(s.drills) > 0 {
		title = fmt.Sprintf("◂  %s  ▸", s.drills[s.index].Title)
	}
	b.WriteString(theme.Title.Width(width).Render(title))
	b.WriteString("\n\n")

	muted := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	switch {
	case s.errMsg != "":
		b.WriteString(muted.Foreground(theme.Error).Render("Papan markah tidak tersedia: " + s.errMsg))
		return b.String()
	case !s.loaded:
		b.WriteString(muted.Foreground(theme.TextDim).Render("Memuatkan markah..."))
		return b.String()
	case len(s.entries) == 0:
		b.WriteString(muted.Foreground(theme.TextDim).Italic(true).Render("Belum ada markah. Jadilah yang pertama!"))
		return b.String()
	}

	header := fmt.Sprintf("%-4s  %-20s  %6s  %6s  %-10s", "#", "Nama", "Markah", "Masa", "Tarikh")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.TableHeader.Render(header)))
	b.WriteString("\n")

	for i, e := range s.entries {
		if i >= maxRows {
			break
		}
		name := e.Name
		if lipgloss.Width(name) > 20 {
			name = string([]rune(name)[:19]) + "…"
		}
		line := fmt.Sprintf("%-4d  %-20s  %6d  %6s  %-10s",
			i+1, name, e.Score, layout.Clock(time.Duration(e.ElapsedSeconds)*time.Second),
			e.Timestamp.Local().Format("2006-01-02"))

		style := theme.Unselected
		if i == s.selected {
			style = theme.Selected
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}
