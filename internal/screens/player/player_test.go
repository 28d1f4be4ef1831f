package player

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/akaun/internal/router"
	"github.com/abhisek/akaun/internal/screen"
)

type stubScreen struct{ name string }

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.name }
func (s *stubScreen) Title() string                           { return "drill" }

func newTestScreen(initial string) (*NameScreen, *[]string) {
	var names []string
	s := New(initial, func(name string) screen.Screen {
		names = append(names, name)
		return &stubScreen{name: name}
	})
	s.Init()
	return s, &names
}

func typeText(s *NameScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestNameScreen_RequiresName(t *testing.T) {
	s, names := newTestScreen("")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("empty name should not continue")
	}
	if !strings.Contains(s.View(80, 24), "Nama diperlukan") {
		t.Error("expected validation message")
	}
	if len(*names) != 0 {
		t.Error("next should not be called")
	}

	typeText(s, "A")
	if s.errMsg != "" {
		t.Error("typing should clear the message")
	}
}

func TestNameScreen_ReplacesWithNext(t *testing.T) {
	s, names := newTestScreen("")
	typeText(s, "  Aina ")

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if msg.Screen.View(0, 0) != "Aina" {
		t.Errorf("expected trimmed name, got %q", msg.Screen.View(0, 0))
	}

	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("second enter should do nothing")
	}
	if len(*names) != 1 {
		t.Errorf("next called %d times, want 1", len(*names))
	}
}

func TestNameScreen_Prefilled(t *testing.T) {
	s, _ := newTestScreen("Devi")
	if s.Name() != "Devi" {
		t.Errorf("expected prefilled name, got %q", s.Name())
	}
}

func TestNameScreen_Esc(t *testing.T) {
	s, _ := newTestScreen("")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}
