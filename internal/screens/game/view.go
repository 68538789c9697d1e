package game

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/litguess/internal/session"
	"github.com/abhisek/litguess/internal/ui/layout"
	"github.com/abhisek/litguess/internal/ui/theme"
)

const loadingLabel = "Searching the literary archives…"

func (s *GameScreen) View(width, height int) string {
	if s.confirmReset {
		return s.viewConfirmReset(width, height)
	}
	switch s.snap.Phase {
	case session.PhaseLoading:
		return layout.Center(s.loader.View(), width, height)
	case session.PhaseIdle:
		return s.viewIdle(width, height)
	case session.PhaseCompleted:
		return s.viewCompleted(width, height)
	}
	return s.viewQuestion(width, height)
}

func (s *GameScreen) viewIdle(width, height int) string {
	var b strings.Builder
	if s.snap.Error != "" {
		b.WriteString(theme.Incorrect.Render(s.snap.Error))
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("Press Enter to try again"))
	} else {
		b.WriteString(theme.Hint.Render("Press Enter to open the next excerpt"))
	}
	return layout.Center(b.String(), width, height)
}

func (s *GameScreen) viewCompleted(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(s.game.Messages().Completed))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("You uncovered %d / %d works", s.snap.Solved, s.snap.Total)))
	b.WriteString("\n")
	b.WriteString(theme.Muted.Render(fmt.Sprintf("Final score: %d", s.snap.Score)))
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render("Press Enter to start over"))
	return layout.Center(b.String(), width, height)
}

func (s *GameScreen) viewConfirmReset(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Incorrect.Render("Erase all progress?"))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("%d solved and %d unsolved excerpts will be forgotten.", s.snap.Solved, s.snap.Failed)))
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render("Y to erase · N to keep playing"))
	return layout.Center(b.String(), width, height)
}

func (s *GameScreen) viewQuestion(width, height int) string {
	q := s.snap.Question
	if q == nil {
		return ""
	}
	cardWidth := min(width-4, 96)

	var b strings.Builder
	badge := difficultyBadge(string(q.Difficulty))
	if s.snap.IsOpenQuestion {
		badge += "  " + theme.Badge.Render("×3")
	}
	b.WriteString(badge)
	b.WriteString("\n\n")

	excerpt := theme.Excerpt.Width(cardWidth - 4).Render("“" + q.Paragraph + "”")
	b.WriteString(theme.Card.Width(cardWidth).Render(excerpt))
	b.WriteString("\n\n")

	b.WriteString(theme.Subtitle.Render("Which work is this from?"))
	b.WriteString("\n\n")

	if s.snap.IsOpenQuestion {
		b.WriteString(s.search.View())
	} else {
		b.WriteString(s.options.View())
	}

	if s.snap.Phase == session.PhaseResult && s.snap.LastOutcome != nil {
		b.WriteString("\n\n")
		b.WriteString(s.viewOutcome(*s.snap.LastOutcome))
	}

	return lipgloss.NewStyle().Width(width).Padding(0, 2).Render(b.String())
}

func (s *GameScreen) viewOutcome(out session.Outcome) string {
	msgs := s.game.Messages()
	if out.Correct {
		line := theme.Correct.Render(fmt.Sprintf("✓ %s  +%d", msgs.Correct, out.Points))
		if out.Streak > 1 {
			line += theme.Muted.Render(fmt.Sprintf("   ⚡ %d in a row", out.Streak))
		}
		return line
	}
	return theme.Incorrect.Render("✗ "+msgs.Incorrect) + "  " +
		theme.Body.Render(out.Answer.Title) + theme.Author.Render(" · "+out.Answer.Author)
}

// difficultyBadge renders "VERY_EASY" as a "VERY EASY" badge.
func difficultyBadge(d string) string {
	return theme.Badge.Render(strings.ReplaceAll(d, "_", " "))
}
