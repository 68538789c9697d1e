package app

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/litguess/internal/corpus"
	"github.com/abhisek/litguess/internal/progress"
	"github.com/abhisek/litguess/internal/question"
	"github.com/abhisek/litguess/internal/router"
	"github.com/abhisek/litguess/internal/selection"
	"github.com/abhisek/litguess/internal/session"
)

func newTestModel(t *testing.T) AppModel {
	t.Helper()
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := corpus.New(
		[]corpus.Book{{ID: "b1", Title: "Fathers and Sons", Author: "Ivan Turgenev"}},
		[]corpus.Paragraph{{ID: "p1", Text: "Well, Pyotr, not in sight yet?", BookID: "b1"}},
	)
	if err != nil {
		t.Fatal(err)
	}
	g := session.New(session.Options{
		Fetcher: &session.LocalFetcher{
			Corpus:  c,
			Policy:  selection.NewPolicy(rand.New(rand.NewPCG(1, 1))),
			Builder: question.NewBuilder(c, rand.New(rand.NewPCG(1, 2))),
		},
		Progress: progress.NewStore(progress.NewMemoryBackend(), progress.WithLogger(discard)),
		Total:    c.NumParagraphs(),
		Logger:   discard,
	})
	g.Init(context.Background())
	return newAppModel(context.Background(), Deps{Game: g, Corpus: c, Logger: discard})
}

// send runs msg through the model and feeds back a single navigation
// message, the way the runtime would.
func send(m AppModel, msg tea.Msg) AppModel {
	next, cmd := m.Update(msg)
	m = next.(AppModel)
	if cmd == nil {
		return m
	}
	switch nav := cmd().(type) {
	case router.PushScreenMsg, router.PopScreenMsg, router.ReplaceScreenMsg:
		next, _ = m.Update(nav)
		m = next.(AppModel)
	}
	return m
}

func TestApp_EscOnHomeStays(t *testing.T) {
	m := newTestModel(t)
	m = send(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.router.Depth() != 1 {
		t.Errorf("depth = %d, want 1", m.router.Depth())
	}
}

func TestApp_PlayThenLeave(t *testing.T) {
	m := newTestModel(t)
	m = send(m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if got := m.router.Active().Title(); got != "The Archive" {
		t.Fatalf("active = %q, want the game", got)
	}

	m = send(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.router.Depth() != 1 {
		t.Errorf("depth = %d, want back on home", m.router.Depth())
	}
}

func TestApp_CtrlCQuits(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("ctrl+c should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
}

func TestApp_View(t *testing.T) {
	m := newTestModel(t)
	if v := m.render(); v != "" {
		t.Error("view before the first resize should be empty")
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	m = next.(AppModel)
	if v := m.render(); !strings.Contains(v, "too narrow") {
		t.Error("small terminals should get the resize message")
	}

	next, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(AppModel)
	v := m.render()
	for _, want := range []string{"LitGuess", "Home", "❦ 0/1"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
