package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/litguess/internal/session"
	"github.com/abhisek/litguess/internal/ui/components"
	"github.com/abhisek/litguess/internal/ui/theme"
)

const titleFull = `╦  ╦╔╦╗╔═╗╦ ╦╔═╗╔═╗╔═╗
║  ║ ║ ║ ╦║ ║║╣ ╚═╗╚═╗
╩═╝╩ ╩ ╚═╝╚═╝╚═╝╚═╝╚═╝`

const titleCompact = "L · I · T · G · U · E · S · S"

// Emblem selects the art above the shelf.
type Emblem int

const (
	EmblemClosed Emblem = iota // Nothing read yet
	EmblemOpen                 // Reading in progress
	EmblemLaurel               // Every work uncovered
)

const emblemClosed = `  ______
 /     /|
/_____/ |
|     | |
|  ❦  | /
|_____|/`

const emblemOpen = ` __...--~~~~~-._   _.-~~~~~--...__
//               ` + "`" + `V'               \\
//                 |                 \\
//__...--~~~~~~-._ | _.-~~~~~~--...__\\`

const emblemLaurel = `  ❧  ✦  ❦
 ❧ FINIS ❦
  ❧  ✦  ❦`

func emblemFor(s session.Snapshot) Emblem {
	switch {
	case s.Total > 0 && s.Solved >= s.Total:
		return EmblemLaurel
	case s.Solved > 0 || s.Failed > 0:
		return EmblemOpen
	}
	return EmblemClosed
}

// contentWidth returns the uniform inner width shared by every section.
func contentWidth(frameWidth int) int {
	// Border (2) plus inner padding (4).
	return min(max(frameWidth-6, 20), 60)
}

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	art := titleFull
	if compact {
		art = titleCompact
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(style.Render(art))
}

func renderEmblem(e Emblem, cw int) string {
	art, fg := emblemClosed, theme.Primary
	switch e {
	case EmblemOpen:
		art = emblemOpen
	case EmblemLaurel:
		art, fg = emblemLaurel, theme.Accent
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
		Render(lipgloss.NewStyle().Foreground(fg).Render(art))
}

// renderShelf shows how much of the archive has been uncovered.
func renderShelf(s session.Snapshot, cw int, compact bool) string {
	bar := components.ProgressBar{Done: s.Solved, Total: s.Total, Width: cw - 4}
	line := bar.View()
	if !compact {
		solved := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
		pending := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
		line = fmt.Sprintf("%s  %s\n%s",
			solved.Render(fmt.Sprintf("❦ %d UNCOVERED", s.Solved)),
			pending.Render(fmt.Sprintf("✎ %d TO REVISIT", s.Failed)),
			line)
	}
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(line)
}

// buttonWidth is the fixed width of a menu button.
const buttonWidth = 24

func renderMenu(items []string, selected int, cw int, disabled map[int]bool) string {
	base := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)
	selectedBtn := base.
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.Primary).
		BorderForeground(theme.Primary)
	normalBtn := base.Foreground(theme.Text)
	disabledBtn := base.Foreground(theme.TextDim)

	var buttons []string
	for i, label := range items {
		switch {
		case disabled[i]:
			buttons = append(buttons, disabledBtn.Render(label))
		case i == selected:
			buttons = append(buttons, selectedBtn.Render("▸ "+label))
		default:
			buttons = append(buttons, normalBtn.Render(label))
		}
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(strings.Join(buttons, "\n"))
}

// renderMenuCompact renders the menu without borders for small terminals.
func renderMenuCompact(items []string, selected int, cw int, disabled map[int]bool) string {
	var lines []string
	for i, label := range items {
		switch {
		case disabled[i]:
			lines = append(lines, theme.Muted.Render("   "+label))
		case i == selected:
			lines = append(lines, lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.Primary).
				Bold(true).
				Render(" ▸ "+label+" "))
		default:
			lines = append(lines, theme.Unselected.Render("   "+label))
		}
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(strings.Join(lines, "\n"))
}

func renderResetPrompt(s session.Snapshot, cw int) string {
	text := fmt.Sprintf("Erase all progress?\n%d uncovered and %d unsolved excerpts will be forgotten.\n\nY to erase · N to keep",
		s.Solved, s.Failed)
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Foreground(theme.Error).Render(text)
}

// renderFrame wraps content in a double border centered in the area.
func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
