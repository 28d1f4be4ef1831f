package drill

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/akaun/internal/scenario"
	"github.com/abhisek/akaun/internal/ui/components"
	"github.com/abhisek/akaun/internal/ui/theme"
)

func renderLoading(width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n  Menyediakan soalan...")
}

func renderError(width int, msg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render("\n\nRalat: " + msg)
}

func renderQuitConfirm(width, height int) string {
	box := theme.Card.Render(
		theme.Value.Render("Tamatkan latihan ini?") + "\n\n" +
			theme.Hint.Render("Markah tidak akan direkodkan."),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// renderQuestion renders the info line, the question and either the form
// or the feedback panel.
func (s *DrillScreen) renderQuestion(width int) string {
	inner := max(width-4, 20)
	var b strings.Builder

	p := s.sess.Progress()
	done := p.Position - 1
	if s.result != nil {
		done = p.Position
	}
	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Soalan %d/%d", p.Position, p.Total))
	if s.view.Penalty {
		infoLeft += "  " + theme.Penalty.Render("PENALTI")
	}
	infoRight := components.QueueBar{Done: done, Total: p.Total, Penalties: p.PendingPenalties}.View()

	infoLine := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4; pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render("  " + strings.Repeat("─", inner)))
	b.WriteString("\n\n")

	b.WriteString(indent(renderGiven(s.view, inner)))
	b.WriteString("\n")

	b.WriteString(indent(s.renderForm()))
	if s.result != nil {
		b.WriteString("\n")
		b.WriteString(indent(s.renderFeedback(inner)))
	}
	return b.String()
}

// renderGiven renders the question title, narrative, facts and table.
func renderGiven(v scenario.View, width int) string {
	var b strings.Builder
	b.WriteString(theme.Value.Render(v.Title))
	b.WriteString("\n")
	if v.Narrative != "" {
		b.WriteString(lipgloss.NewStyle().Width(width).Foreground(theme.Text).Render(v.Narrative))
		b.WriteString("\n")
	}
	if len(v.Facts) > 0 {
		b.WriteString("\n")
		b.WriteString(renderFacts(v.Facts))
	}
	if v.Table != nil {
		b.WriteString("\n")
		b.WriteString(renderTable(v.Table))
	}
	return b.String()
}

func renderFacts(facts []scenario.Fact) string {
	labelWidth := 0
	for _, f := range facts {
		labelWidth = max(labelWidth, lipgloss.Width(f.Label))
	}
	var b strings.Builder
	for _, f := range facts {
		b.WriteString(theme.Label.Render(padRight(f.Label, labelWidth)))
		b.WriteString("  ")
		b.WriteString(theme.Body.Render(f.Value))
		b.WriteString("\n")
	}
	return b.String()
}

func renderTable(t *scenario.Table) string {
	widths := make([]int, len(t.Header))
	for i, h := range t.Header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	var b strings.Builder
	cells := make([]string, len(t.Header))
	for i, h := range t.Header {
		cells[i] = padRight(h, widths[i])
	}
	b.WriteString(theme.TableHeader.Render(strings.Join(cells, "   ")))
	b.WriteString("\n")
	for _, row := range t.Rows {
		cells = cells[:0]
		for i, cell := range row {
			if i < len(widths) {
				cells = append(cells, padRight(cell, widths[i]))
			}
		}
		b.WriteString(theme.Body.Render(strings.Join(cells, "   ")))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *DrillScreen) renderForm() string {
	labelWidth := 0
	for _, f := range s.fields {
		labelWidth = max(labelWidth, lipgloss.Width(f.spec.Label))
	}
	var b strings.Builder
	for i, f := range s.fields {
		prefix := "  "
		labelStyle := theme.Label
		if i == s.focus && s.result == nil {
			prefix = "▸ "
			labelStyle = theme.Selected
		}
		b.WriteString(labelStyle.Render(prefix + padRight(f.spec.Label, labelWidth)))
		b.WriteString("  ")
		if f.spec.Kind == scenario.FieldChoice {
			b.WriteString(f.choice.View())
		} else {
			b.WriteString("RM " + f.input.View())
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (s *DrillScreen) renderFeedback(width int) string {
	res := s.result
	var b strings.Builder

	style := theme.FeedbackWrong
	if res.Verdict.Correct {
		style = theme.FeedbackCorrect
		b.WriteString(theme.Correct.Render(fmt.Sprintf("Betul!  +%d", res.Delta)))
	} else {
		b.WriteString(theme.Incorrect.Render(fmt.Sprintf("Salah.  %d", res.Delta)))
		if res.PenaltiesAdded > 0 {
			b.WriteString("  ")
			b.WriteString(theme.Penalty.Render(fmt.Sprintf("+%d soalan penalti", res.PenaltiesAdded)))
		}
	}
	b.WriteString("\n")

	ex := res.Verdict.Explanation
	if ex.Summary != "" {
		b.WriteString(theme.Body.Render(ex.Summary))
		b.WriteString("\n")
	}
	if !res.Verdict.Correct {
		if len(ex.Expected) > 0 {
			b.WriteString("\n")
			b.WriteString(theme.Label.Render("Jawapan:"))
			b.WriteString("\n")
			b.WriteString(renderFacts(ex.Expected))
		}
		if len(ex.Steps) > 0 {
			b.WriteString("\n")
			b.WriteString(renderSteps(ex.Steps, width-6))
		}
		b.WriteString(s.renderCoach(width - 6))
	}

	return style.Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

func (s *DrillScreen) renderCoach(width int) string {
	switch {
	case s.coachPending:
		return "\n" + theme.Hint.Render("Jurulatih sedang menulis penerangan...")
	case s.advice != nil:
		var b strings.Builder
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("Jurulatih"))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Foreground(theme.Text).Render(s.advice.Tip))
		b.WriteString("\n")
		if s.advice.FromModel && len(s.advice.Steps) > 0 {
			b.WriteString(renderSteps(s.advice.Steps, width))
		}
		return b.String()
	}
	return ""
}

func renderSteps(steps []string, width int) string {
	var b strings.Builder
	for i, step := range steps {
		line := fmt.Sprintf("%d. %s", i+1, step)
		b.WriteString(lipgloss.NewStyle().Width(width).Foreground(theme.TextDim).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func padRight(s string, width int) string {
	if pad := width - lipgloss.Width(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n") + "\n"
}
