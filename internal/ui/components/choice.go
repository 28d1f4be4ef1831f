package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/akaun/internal/ui/theme"
)

// ChoiceOption is one value a Choice can take.
type ChoiceOption struct {
	Value string
	Label string
}

// Choice is a horizontal single-select, e.g. BELANJA / HASIL. Nothing is
// chosen until the learner moves or presses a number key.
type Choice struct {
	Options []ChoiceOption
	Chosen  int // -1 until a selection is made
	focused bool
	marked  bool
	valid   bool
}

// NewChoice creates a selector with no option chosen.
func NewChoice(options []ChoiceOption) Choice {
	return Choice{Options: options, Chosen: -1}
}

// Update handles left/right and number keys while focused.
func (c Choice) Update(msg tea.Msg) (Choice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || !c.focused || len(c.Options) == 0 {
		return c, nil
	}

	switch key := kmsg.String(); key {
	case "left", "h":
		if c.Chosen <= 0 {
			c.Chosen = 0
		} else {
			c.Chosen--
		}
	case "right", "l", "space":
		if c.Chosen < len(c.Options)-1 {
			c.Chosen++
		}
	default:
		var n int
		if _, err := fmt.Sscanf(key, "%d", &n); err == nil && n >= 1 && n <= len(c.Options) {
			c.Chosen = n - 1
		}
	}
	return c, nil
}

// Focus marks the selector as the active field.
func (c *Choice) Focus() { c.focused = true }

// Blur marks the selector as inactive.
func (c *Choice) Blur() { c.focused = false }

// Value returns the chosen value, or "" when nothing is chosen.
func (c Choice) Value() string {
	if c.Chosen < 0 || c.Chosen >= len(c.Options) {
		return ""
	}
	return c.Options[c.Chosen].Value
}

// Submit marks the selector with a validation result.
func (c *Choice) Submit(valid bool) {
	c.marked = true
	c.valid = valid
}

// View renders the options on one line.
func (c Choice) View() string {
	parts := make([]string, 0, len(c.Options))
	for i, opt := range c.Options {
		label := fmt.Sprintf("%d) %s", i+1, opt.Label)
		switch {
		case i == c.Chosen && c.focused:
			parts = append(parts, theme.Selected.Render("["+label+"]"))
		case i == c.Chosen:
			parts = append(parts, theme.Value.Render("["+label+"]"))
		default:
			parts = append(parts, lipgloss.NewStyle().Foreground(theme.TextDim).Render(" "+label+" "))
		}
	}
	view := strings.Join(parts, "  ")
	if c.marked {
		if c.valid {
			view += " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		} else {
			view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		}
	}
	return view
}
