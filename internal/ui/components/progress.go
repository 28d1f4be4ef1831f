package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/akaun/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6 // "  100%"
	}

	barWidth := max(p.Width-labelWidth-percentWidth, 4)
	filled := min(max(int(float64(barWidth)*p.Percent), 0), barWidth)

	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled))

	if p.ShowPercent {
		result += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %d%%", int(p.Percent*100)))
	}

	return result
}

// QueueBar shows one cell per queued question: answered cells filled,
// pending penalty questions in the accent colour.
type QueueBar struct {
	Done      int // questions already answered
	Total     int
	Penalties int // pending penalty questions, always at the tail
}

// View renders the bar followed by "done/total".
func (q QueueBar) View() string {
	pending := max(q.Total-q.Done, 0)
	penalties := min(q.Penalties, pending)
	plain := pending - penalties

	return theme.ProgressFilled.Render(strings.Repeat(" ", q.Done)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", plain)) +
		theme.ProgressPenalty.Render(strings.Repeat(" ", penalties)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("  %d/%d", q.Done, q.Total))
}
