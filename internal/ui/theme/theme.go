// Package theme holds the colours and shared styles of the terminal UI.
package theme

import (
	"charm.land/lipgloss/v2"
)

// Ledger palette: ink on dark paper, green for debit-side success, red for
// errors.
var (
	Primary   = lipgloss.Color("#2DD4BF") // Teal ink
	Secondary = lipgloss.Color("#60A5FA") // Blue
	Accent    = lipgloss.Color("#FBBF24") // Amber
	Success   = lipgloss.Color("#4ADE80") // Green
	Error     = lipgloss.Color("#F87171") // Red
	Text      = lipgloss.Color("#E2E8F0")
	TextDim   = lipgloss.Color("#94A3B8")
	BgDark    = lipgloss.Color("#0B1120")
	BgCard    = lipgloss.Color("#172033")
	Border    = lipgloss.Color("#334155")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Label = lipgloss.NewStyle().
		Foreground(TextDim)

	Value = lipgloss.NewStyle().
		Foreground(Text).
		Bold(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	FeedbackCorrect = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Success).
			Padding(1, 2)

	FeedbackWrong = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Error).
			Padding(1, 2)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Penalty = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressPenalty = lipgloss.NewStyle().
			Background(Accent)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)

	TableHeader = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)
)
