// Package player asks for the name reported to the leaderboard.
package player

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/akaun/internal/router"
	"github.com/abhisek/akaun/internal/screen"
	"github.com/abhisek/akaun/internal/ui/components"
	"github.com/abhisek/akaun/internal/ui/layout"
	"github.com/abhisek/akaun/internal/ui/theme"
)

const maxNameLen = 24

// NameScreen collects the player name, then replaces itself with the
// screen built by next.
type NameScreen struct {
	input  components.TextInput
	next   func(name string) screen.Screen
	errMsg string
	done   bool
}

var _ screen.Screen = (*NameScreen)(nil)
var _ screen.KeyHintProvider = (*NameScreen)(nil)

// New creates the screen with initial prefilled.
func New(initial string, next func(name string) screen.Screen) *NameScreen {
	in := components.NewTextInput("Nama anda", false, maxNameLen)
	in.SetValue(initial)
	return &NameScreen{input: in, next: next}
}

func (s *NameScreen) Init() tea.Cmd {
	return s.input.Focus()
}

func (s *NameScreen) Title() string {
	return "Nama Pemain"
}

func (s *NameScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Mula"},
		{Key: "Esc", Description: "Kembali"},
	}
}

func (s *NameScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "enter":
			return s.submit()
		}
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if s.errMsg != "" && strings.TrimSpace(s.input.Value()) != "" {
		s.errMsg = ""
	}
	return s, cmd
}

func (s *NameScreen) submit() (screen.Screen, tea.Cmd) {
	if s.done {
		return s, nil
	}
	name := strings.TrimSpace(s.input.Value())
	if name == "" {
		s.errMsg = "Nama diperlukan untuk papan markah."
		return s, nil
	}
	s.done = true
	next := s.next(name)
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

// Name returns the trimmed name typed so far.
func (s *NameScreen) Name() string {
	return strings.TrimSpace(s.input.Value())
}

func (s *NameScreen) View(width, height int) string {
	var sections []string
	sections = append(sections,
		theme.Value.Render("Siapa nama anda?"),
		"",
		s.input.View(),
	)
	if s.errMsg != "" {
		sections = append(sections, "", lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}
	sections = append(sections, "", theme.Hint.Render("Nama ini dipaparkan di papan markah."))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		theme.Card.Render(strings.Join(sections, "\n")))
}
