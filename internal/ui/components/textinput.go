package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/akaun/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with the app's styling. With
// AmountOnly set it drops every key that cannot appear in an RM amount.
type TextInput struct {
	Model      textinput.Model
	AmountOnly bool
	submitted  bool
	valid      bool
}

// NewTextInput creates a new styled text input. It starts blurred.
func NewTextInput(placeholder string, amountOnly bool, limit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if limit > 0 {
		ti.CharLimit = limit
	}
	return TextInput{
		Model:      ti,
		AmountOnly: amountOnly,
	}
}

// amountRunes are the characters money.Parse understands.
const amountRunes = "0123456789.,-"

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.AmountOnly {
		if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.Text != "" {
			if strings.Trim(kmsg.Text, amountRunes) != "" {
				return t, nil
			}
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// Focus gives the input the cursor.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes the cursor.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// View renders the text input.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.submitted {
		if t.valid {
			view += " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		} else {
			view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		}
	}
	return view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the current value.
func (t *TextInput) SetValue(s string) {
	t.Model.SetValue(s)
}

// Submit marks the input as submitted with a validation result.
func (t *TextInput) Submit(valid bool) {
	t.submitted = true
	t.valid = valid
}
