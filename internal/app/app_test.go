package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/akaun/internal/screen"
	"github.com/abhisek/akaun/internal/screens/home"
)

func TestAppModel_StartsOnWelcome(t *testing.T) {
	m := newAppModel(Options{})
	if m.router.Active().Title() != "" {
		t.Errorf("expected welcome splash, got %q", m.router.Active().Title())
	}
}

func TestAppModel_SkipWelcome(t *testing.T) {
	m := newAppModel(Options{SkipWelcome: true})
	if _, ok := m.router.Active().(*home.HomeScreen); !ok {
		t.Errorf("expected home screen, got %T", m.router.Active())
	}
}

func TestAppModel_StartScreenPushed(t *testing.T) {
	m := newAppModel(Options{
		SkipWelcome: true,
		Start:       func(h *home.HomeScreen) screen.Screen { return h },
	})
	if m.router.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", m.router.Depth())
	}
}

func TestAppModel_CtrlCQuits(t *testing.T) {
	m := newAppModel(Options{})
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}

func TestAppModel_View(t *testing.T) {
	m := newAppModel(Options{SkipWelcome: true})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	out := updated.(AppModel).render()
	if !strings.Contains(out, "Akaun") || !strings.Contains(out, "Menu Utama") {
		t.Error("expected header with app name and screen title")
	}

	small, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	if !strings.Contains(small.(AppModel).render(), "terlalu kecil") {
		t.Error("expected too-small message")
	}
}
