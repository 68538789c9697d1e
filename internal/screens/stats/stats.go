// Package stats shows lifetime statistics read from the event log.
package stats

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/litguess/internal/corpus"
	"github.com/abhisek/litguess/internal/screen"
	"github.com/abhisek/litguess/internal/session"
	"github.com/abhisek/litguess/internal/store"
	"github.com/abhisek/litguess/internal/ui/components"
	"github.com/abhisek/litguess/internal/ui/layout"
	"github.com/abhisek/litguess/internal/ui/theme"
)

// recentLimit is how many recent answers are listed.
const recentLimit = 8

type statsLoadedMsg struct {
	Stats  *store.RoundStats
	Recent []store.RoundEventRecord
	Err    error
}

// StatsScreen displays lifetime accuracy, streaks and recent answers.
type StatsScreen struct {
	events store.EventRepo
	game   *session.Game
	corpus *corpus.Corpus

	stats  *store.RoundStats
	recent []store.RoundEventRecord
	loaded bool
	errMsg string
}

var _ screen.Screen = (*StatsScreen)(nil)
var _ screen.KeyHintProvider = (*StatsScreen)(nil)

func New(events store.EventRepo, g *session.Game, c *corpus.Corpus) *StatsScreen {
	return &StatsScreen{events: events, game: g, corpus: c}
}

func (s *StatsScreen) Init() tea.Cmd {
	events := s.events
	return func() tea.Msg {
		ctx := context.Background()

		st, err := events.RoundStats(ctx)
		if err != nil {
			return statsLoadedMsg{Err: err}
		}
		// Served and answered events are interleaved; over-fetch so the
		// answered ones fill the list.
		recs, err := events.QueryRoundEvents(ctx, store.QueryOpts{Limit: recentLimit * 2})
		if err != nil {
			return statsLoadedMsg{Stats: st}
		}
		var recent []store.RoundEventRecord
		for _, r := range recs {
			if r.Action == store.ActionAnswered && len(recent) < recentLimit {
				recent = append(recent, r)
			}
		}
		return statsLoadedMsg{Stats: st, Recent: recent}
	}
}

func (s *StatsScreen) Title() string { return "Statistics" }

func (s *StatsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (s *StatsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(statsLoadedMsg); ok {
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.stats = msg.Stats
			s.recent = msg.Recent
		}
		s.loaded = true
	}
	return s, nil
}

func (s *StatsScreen) View(width, height int) string {
	centered := func(style lipgloss.Style, text string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(text))
	}
	if s.errMsg != "" {
		return "\n\n" + centered(theme.Incorrect, "Error: "+s.errMsg)
	}
	if !s.loaded {
		return "\n\n" + centered(theme.Muted, "Consulting the ledger…")
	}

	var b strings.Builder
	b.WriteString("\n")

	snap := s.game.Snapshot()
	bar := components.ProgressBar{Label: "Works uncovered", Done: snap.Solved, Total: snap.Total, Width: min(width-8, 60)}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n")
	b.WriteString(centered(theme.Muted, fmt.Sprintf("%d excerpts still unsolved · %d questions served", snap.Failed, snap.QuestionCount)))
	b.WriteString("\n\n")

	st := s.stats
	if st == nil || st.Answered == 0 {
		b.WriteString(centered(theme.Hint, "No answers recorded yet. Open the archive to begin!"))
		return b.String()
	}

	b.WriteString(centered(theme.Body, fmt.Sprintf("Answered: %d    Correct: %d    Accuracy: %.0f%%",
		st.Answered, st.Correct, st.Accuracy()*100)))
	b.WriteString("\n")
	b.WriteString(centered(theme.Body, fmt.Sprintf("Best streak: %d    Best run score: %d    Sessions: %d",
		st.BestStreak, st.BestScore, st.SessionsCount)))
	b.WriteString("\n\n")

	for _, d := range corpus.AllDifficulties() {
		ds, ok := st.ByDifficulty[string(d)]
		if !ok {
			continue
		}
		b.WriteString(centered(theme.Body, fmt.Sprintf("%-10s %3d/%-3d", strings.ReplaceAll(string(d), "_", " "), ds.Correct, ds.Answered)))
		b.WriteString("\n")
	}

	if len(s.recent) > 0 && !layout.IsCompactHeight(height) {
		b.WriteString("\n")
		b.WriteString(centered(theme.Subtitle, "Recent answers"))
		b.WriteString("\n")
		for _, r := range s.recent {
			b.WriteString(centered(theme.Body, s.recentLine(r)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (s *StatsScreen) recentLine(r store.RoundEventRecord) string {
	mark := "✗"
	if r.Correct {
		mark = "✓"
	}
	title := r.ParagraphID
	if p, err := s.corpus.Paragraph(r.ParagraphID); err == nil {
		if b, err := s.corpus.Book(p.BookID); err == nil {
			title = b.Title
		}
	}
	return fmt.Sprintf("%s %s  %-32s +%d", r.Timestamp.Format("Jan 02 15:04"), mark, title, r.Points)
}
