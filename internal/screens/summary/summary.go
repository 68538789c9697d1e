package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/litguess/internal/router"
	"github.com/abhisek/litguess/internal/screen"
	"github.com/abhisek/litguess/internal/session"
	"github.com/abhisek/litguess/internal/ui/layout"
	"github.com/abhisek/litguess/internal/ui/theme"
)

// SummaryScreen shows how the run that just ended went.
type SummaryScreen struct {
	summary *session.Summary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

func New(summary *session.Summary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

func (s *SummaryScreen) Init() tea.Cmd { return nil }

func (s *SummaryScreen) Title() string { return "Reading Log" }

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == "enter" {
		return s, router.Pop
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}
	center := func(style lipgloss.Style, text string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(text))
	}

	var b strings.Builder
	b.WriteString(center(theme.Title, "The reading room closes"))
	b.WriteString("\n\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(center(theme.Muted, fmt.Sprintf("Time spent: %d:%02d", mins, secs)))
	b.WriteString("\n\n")

	b.WriteString(center(theme.Body, fmt.Sprintf("Answered: %d        Correct: %d        Accuracy: %.0f%%",
		sum.Answered, sum.Correct, sum.Accuracy*100)))
	b.WriteString("\n")
	b.WriteString(center(theme.Body, fmt.Sprintf("Score: %d        Best streak: %d", sum.Score, sum.BestStreak)))
	b.WriteString("\n\n")

	if len(sum.PerDifficulty) > 0 {
		divider := strings.Repeat("─", max(min(width-8, 48), 0))
		b.WriteString(center(theme.Muted, "By difficulty"))
		b.WriteString("\n")
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Border), divider))
		b.WriteString("\n\n")
		for _, r := range sum.PerDifficulty {
			line := fmt.Sprintf("%-10s %d/%d correct", difficultyLabel(string(r.Difficulty)), r.Correct, r.Answered)
			style := theme.Body
			if r.Correct == r.Answered {
				style = theme.Correct
			}
			b.WriteString(center(style, line))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// difficultyLabel turns "VERY_EASY" into "Very easy".
func difficultyLabel(d string) string {
	s := strings.ToLower(strings.ReplaceAll(d, "_", " "))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
