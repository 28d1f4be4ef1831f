package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/akaun/internal/router"
	"github.com/abhisek/akaun/internal/screen"
	"github.com/abhisek/akaun/internal/session"
	"github.com/abhisek/akaun/internal/ui/components"
	"github.com/abhisek/akaun/internal/ui/layout"
	"github.com/abhisek/akaun/internal/ui/theme"
)

// Actions are the follow-up screens offered after a drill. Nil entries are
// hidden.
type Actions struct {
	Replay      func() screen.Screen
	Leaderboard func() screen.Screen
}

// SummaryScreen displays the result of a finished drill.
type SummaryScreen struct {
	summary session.Summary
	actions Actions
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(sum session.Summary, actions Actions) *SummaryScreen {
	return &SummaryScreen{summary: sum, actions: actions}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Keputusan"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Enter", Description: "Menu utama"}}
	if s.actions.Replay != nil {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Main semula"})
	}
	if s.actions.Leaderboard != nil {
		hints = append(hints, layout.KeyHint{Key: "P", Description: "Papan markah"})
	}
	return hints
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "enter", "esc":
		return s, func() tea.Msg { return router.PopToRootMsg{} }
	case "r", "R":
		if s.actions.Replay != nil {
			next := s.actions.Replay()
			return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
		}
	case "p", "P":
		if s.actions.Leaderboard != nil {
			next := s.actions.Leaderboard()
			return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	var b strings.Builder

	center := func(style lipgloss.Style, text string) {
		b.WriteString(style.Width(width).Align(lipgloss.Center).Render(text))
		b.WriteString("\n")
	}

	center(theme.Title, "Latihan selesai!")
	center(theme.Subtitle, sum.Title)
	b.WriteString("\n")

	center(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true),
		fmt.Sprintf("Markah: %d", sum.Score))
	center(theme.Body, fmt.Sprintf("Kesilapan: %d        Masa: %s",
		sum.Mistakes, layout.Clock(sum.Elapsed)))
	center(theme.Body, fmt.Sprintf("Soalan dijawab: %d        Betul: %d", sum.Answered, sum.Correct))
	b.WriteString("\n")

	bar := components.NewProgressBar("Ketepatan", sum.Accuracy, true, min(width-8, 50))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	if len(sum.Families) > 1 {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 60)))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n")
		for _, fr := range sum.Families {
			line := fmt.Sprintf("%-26s %d/%d betul", fr.Family.Label(), fr.Correct, fr.Attempted)
			if fr.Penalties > 0 {
				line += fmt.Sprintf("  (%d penalti)", fr.Penalties)
			}
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Body.Render(line)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	switch {
	case sum.Player == "":
		center(theme.Hint, "Tiada nama pemain; markah tidak dihantar ke papan markah.")
	default:
		center(theme.Hint, fmt.Sprintf("Markah %s telah dihantar ke papan markah.", sum.Player))
	}

	return b.String()
}
