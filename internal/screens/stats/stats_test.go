package stats

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/litguess/internal/corpus"
	"github.com/abhisek/litguess/internal/progress"
	"github.com/abhisek/litguess/internal/session"
	"github.com/abhisek/litguess/internal/store"
)

func setup(t *testing.T) (*StatsScreen, store.EventRepo) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "stats.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	c, err := corpus.New(
		[]corpus.Book{{ID: "b1", Title: "Dead Souls", Author: "Nikolai Gogol"}},
		[]corpus.Paragraph{{ID: "p1", Text: "A rather handsome carriage", BookID: "b1"}},
	)
	if err != nil {
		t.Fatal(err)
	}
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	g := session.New(session.Options{
		Fetcher:  &session.LocalFetcher{Corpus: c},
		Progress: progress.NewStore(progress.NewMemoryBackend(), progress.WithLogger(discard)),
		Total:    c.NumParagraphs(),
		Logger:   discard,
	})
	return New(st.EventRepo(), g, c), st.EventRepo()
}

func TestStats_Empty(t *testing.T) {
	s, _ := setup(t)
	s.Update(s.Init()())

	if !s.loaded {
		t.Fatal("screen should be loaded")
	}
	if v := s.View(100, 40); !strings.Contains(v, "No answers recorded yet") {
		t.Errorf("empty view = %q", v)
	}
}

func TestStats_ShowsTotalsAndRecent(t *testing.T) {
	s, events := setup(t)
	ctx := context.Background()
	for _, ev := range []store.RoundEventData{
		{SessionID: "s1", Action: store.ActionServed, ParagraphID: "p1", Difficulty: "MEDIUM"},
		{SessionID: "s1", Action: store.ActionAnswered, ParagraphID: "p1", Difficulty: "MEDIUM", Correct: true, Points: 100, Streak: 1},
	} {
		if err := events.AppendRoundEvent(ctx, ev); err != nil {
			t.Fatal(err)
		}
	}

	s.Update(s.Init()())

	if s.stats == nil || s.stats.Answered != 1 {
		t.Fatalf("stats = %+v", s.stats)
	}
	if len(s.recent) != 1 {
		t.Fatalf("recent = %d, want 1 answered event", len(s.recent))
	}
	v := s.View(100, 40)
	for _, want := range []string{"Accuracy: 100%", "Dead Souls", "Works uncovered"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestStats_LoadingView(t *testing.T) {
	s, _ := setup(t)
	if v := s.View(80, 30); !strings.Contains(v, "Consulting the ledger") {
		t.Errorf("view before load = %q", v)
	}
}
