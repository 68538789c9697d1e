package home

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/litguess/internal/corpus"
	"github.com/abhisek/litguess/internal/progress"
	"github.com/abhisek/litguess/internal/question"
	"github.com/abhisek/litguess/internal/router"
	"github.com/abhisek/litguess/internal/selection"
	"github.com/abhisek/litguess/internal/session"
)

var enter = tea.KeyPressMsg{Code: tea.KeyEnter}
var down = tea.KeyPressMsg{Code: tea.KeyDown}

func typed(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func newHome(t *testing.T, st progress.State) (*HomeScreen, *progress.Store) {
	t.Helper()
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := corpus.New(
		[]corpus.Book{{ID: "b1", Title: "Oblomov"}},
		[]corpus.Paragraph{{ID: "p1", Text: "t", BookID: "b1"}, {ID: "p2", Text: "u", BookID: "b1"}},
	)
	if err != nil {
		t.Fatal(err)
	}
	backend := progress.NewMemoryBackend()
	ps := progress.NewStore(backend, progress.WithLogger(discard))
	ps.Save(context.Background(), st, progress.AllKeys()...)
	ps.Wait()

	g := session.New(session.Options{
		Fetcher: &session.LocalFetcher{
			Corpus:  c,
			Policy:  selection.NewPolicy(rand.New(rand.NewPCG(1, 1))),
			Builder: question.NewBuilder(c, rand.New(rand.NewPCG(1, 2))),
		},
		Progress: ps,
		Total:    c.NumParagraphs(),
		Logger:   discard,
	})
	g.Init(context.Background())
	return New(context.Background(), g, c, nil, discard), ps
}

func TestHome_PlayPushesGame(t *testing.T) {
	h, _ := newHome(t, progress.State{})
	_, cmd := h.Update(enter)
	if cmd == nil {
		t.Fatal("enter on the first item should return a command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("msg = %T, want PushScreenMsg", cmd())
	}
	if msg.Screen.Title() != "The Archive" {
		t.Errorf("pushed %q, want the game", msg.Screen.Title())
	}
}

func TestHome_StatsDisabledWithoutEventLog(t *testing.T) {
	h, _ := newHome(t, progress.State{})
	h.Update(down)
	if h.menu.Selected != itemReset {
		t.Errorf("selected = %d, want the statistics entry skipped", h.menu.Selected)
	}
}

func TestHome_ResetConfirm(t *testing.T) {
	var st progress.State
	st.MarkSolved("p1")
	st.MarkFailed("p2", time.UnixMilli(5))
	h, ps := newHome(t, st)

	if h.snap.Solved != 1 || h.snap.Failed != 1 {
		t.Fatalf("snapshot = %+v", h.snap)
	}

	h.Update(down)
	h.Update(enter)
	if !h.confirmReset {
		t.Fatal("reset should ask first")
	}
	if v := h.View(120, 40); !strings.Contains(v, "Erase all progress?") {
		t.Error("view should show the reset prompt")
	}

	h.Update(typed('n'))
	if h.confirmReset || h.snap.Solved != 1 {
		t.Fatal("n should keep progress")
	}

	h.Update(enter)
	h.Update(typed('y'))
	if h.snap.Solved != 0 || h.snap.Failed != 0 {
		t.Errorf("progress after reset = %+v", h.snap)
	}
	ps.Wait()
	if got := ps.Load(context.Background()); len(got.SolvedParagraphIDs) != 0 {
		t.Errorf("persisted solved = %v, want none", got.SolvedParagraphIDs)
	}
}

func TestHome_BackCancelsReset(t *testing.T) {
	h, _ := newHome(t, progress.State{})
	h.confirmReset = true
	if cmd := h.Back(); cmd != nil {
		t.Error("Back should never leave home")
	}
	if h.confirmReset {
		t.Error("Back should cancel the prompt")
	}
}

func TestEmblemFor(t *testing.T) {
	tests := []struct {
		snap session.Snapshot
		want Emblem
	}{
		{session.Snapshot{Total: 3}, EmblemClosed},
		{session.Snapshot{Total: 3, Failed: 1}, EmblemOpen},
		{session.Snapshot{Total: 3, Solved: 2}, EmblemOpen},
		{session.Snapshot{Total: 3, Solved: 3}, EmblemLaurel},
	}
	for _, tt := range tests {
		if got := emblemFor(tt.snap); got != tt.want {
			t.Errorf("emblemFor(%+v) = %d, want %d", tt.snap, got, tt.want)
		}
	}
}

func TestHome_InitRefreshesSnapshot(t *testing.T) {
	h, _ := newHome(t, progress.State{})
	h.game.Reset(context.Background())
	if err := h.game.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	h.Init()
	if h.snap.QuestionCount != 1 {
		t.Errorf("question count = %d, want 1 after Init", h.snap.QuestionCount)
	}
}
