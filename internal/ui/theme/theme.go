package theme

import (
	"charm.land/lipgloss/v2"
)

// Palette: old paper and ink, with brass accents.
var (
	Primary   = lipgloss.Color("#C08A3E") // Brass
	Secondary = lipgloss.Color("#7FA37A") // Sage
	Accent    = lipgloss.Color("#D9A441") // Gold leaf
	Success   = lipgloss.Color("#6BBF59") // Green
	Error     = lipgloss.Color("#D9534F") // Oxblood
	Text      = lipgloss.Color("#EFE6D2") // Parchment
	TextDim   = lipgloss.Color("#9C8F78") // Faded ink
	BgDark    = lipgloss.Color("#1B1612") // Walnut
	BgCard    = lipgloss.Color("#2A221B") // Leather
	Border    = lipgloss.Color("#4A3D30")
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

	// Excerpt is the quoted paragraph on the question card.
	Excerpt = lipgloss.NewStyle().
		Foreground(Text).
		Italic(true)

	Author = lipgloss.NewStyle().
		Foreground(TextDim)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	// Badge marks an open question.
	Badge = lipgloss.NewStyle().
		Foreground(BgDark).
		Background(Accent).
		Bold(true).
		Padding(0, 1)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Muted = lipgloss.NewStyle().
		Foreground(TextDim)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)
