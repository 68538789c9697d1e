package game

import (
	"context"
	"log/slog"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/litguess/internal/corpus"
	"github.com/abhisek/litguess/internal/router"
	"github.com/abhisek/litguess/internal/screen"
	"github.com/abhisek/litguess/internal/screens/summary"
	"github.com/abhisek/litguess/internal/session"
	"github.com/abhisek/litguess/internal/ui/components"
	"github.com/abhisek/litguess/internal/ui/layout"
)

// optionRows is the most answer options shown at once.
const optionRows = 10

// GameScreen plays rounds until the player leaves.
type GameScreen struct {
	ctx    context.Context
	game   *session.Game
	corpus *corpus.Corpus
	logger *slog.Logger

	snap   session.Snapshot
	ticket session.Ticket

	loader  components.Loader
	options components.OptionList
	search  components.Autocomplete

	confirmReset bool
}

var _ screen.Screen = (*GameScreen)(nil)
var _ screen.KeyHintProvider = (*GameScreen)(nil)
var _ screen.BackHandler = (*GameScreen)(nil)

// New returns a game screen. ctx bounds background fetches and saves.
func New(ctx context.Context, g *session.Game, c *corpus.Corpus, logger *slog.Logger) *GameScreen {
	if logger == nil {
		logger = slog.Default()
	}
	return &GameScreen{ctx: ctx, game: g, corpus: c, logger: logger}
}

func (s *GameScreen) Title() string { return "The Archive" }

// Init picks up wherever the game is: it starts a round when none is in
// progress and otherwise resumes the current phase.
func (s *GameScreen) Init() tea.Cmd {
	s.snap = s.game.Snapshot()
	switch s.snap.Phase {
	case session.PhaseIdle, session.PhaseResult:
		return s.begin()
	case session.PhaseLoading:
		s.loader = components.NewLoader(loadingLabel)
		return s.loader.Tick()
	case session.PhasePlaying:
		s.prepareQuestion()
	}
	return nil
}

// begin moves the game to loading and fetches the next question in the
// background.
func (s *GameScreen) begin() tea.Cmd {
	t, err := s.game.Begin()
	if err != nil {
		s.logger.Debug("begin round", "phase", s.snap.Phase, "error", err)
		s.snap = s.game.Snapshot()
		return nil
	}
	s.ticket = t
	s.snap = s.game.Snapshot()
	s.loader = components.NewLoader(loadingLabel)
	return tea.Batch(s.fetch(t), s.loader.Tick())
}

// fetch resolves t and applies the result to the game from the command
// goroutine, so the round lands even if this screen has been closed.
func (s *GameScreen) fetch(t session.Ticket) tea.Cmd {
	ctx, g := s.ctx, s.game
	return func() tea.Msg {
		return roundDoneMsg{Applied: g.Complete(ctx, g.Fetch(ctx, t))}
	}
}

func (s *GameScreen) prepareQuestion() {
	q := s.snap.Question
	if q == nil {
		return
	}
	if s.snap.IsOpenQuestion {
		s.search = components.NewAutocomplete("Type a title or an author…", s.searchBooks)
		return
	}
	opts := make([]components.Option, len(q.Options))
	for i, b := range q.Options {
		opts[i] = components.Option{Label: b.Title, Detail: b.Author}
	}
	s.options = components.NewOptionList(opts, optionRows)
}

func (s *GameScreen) searchBooks(query string) []components.Suggestion {
	books := s.corpus.Search(query)
	out := make([]components.Suggestion, len(books))
	for i, b := range books {
		out[i] = components.Suggestion{ID: b.ID, Label: b.Title, Detail: b.Author}
	}
	return out
}

func (s *GameScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case roundDoneMsg:
		s.snap = s.game.Snapshot()
		if s.snap.Phase == session.PhasePlaying {
			s.prepareQuestion()
		}
		return s, nil

	case components.LoaderTickMsg:
		if s.snap.Phase != session.PhaseLoading {
			return s, nil
		}
		var cmd tea.Cmd
		s.loader, cmd = s.loader.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.snap.Phase == session.PhasePlaying && s.snap.IsOpenQuestion {
		var cmd tea.Cmd
		s.search, cmd = s.search.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *GameScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirmReset {
		switch key {
		case "y", "Y":
			s.confirmReset = false
			s.game.Reset(s.ctx)
			return s, s.begin()
		case "n", "N", "esc":
			s.confirmReset = false
		}
		return s, nil
	}
	if key == "ctrl+r" && s.snap.Phase != session.PhaseLoading {
		s.confirmReset = true
		return s, nil
	}

	switch s.snap.Phase {
	case session.PhaseIdle, session.PhaseResult:
		switch key {
		case "enter", "space", "n":
			return s, s.begin()
		}

	case session.PhaseCompleted:
		if key == "enter" {
			s.game.Reset(s.ctx)
			return s, s.begin()
		}

	case session.PhasePlaying:
		if s.snap.IsOpenQuestion {
			var cmd tea.Cmd
			s.search, cmd = s.search.Update(msg)
			if chosen, ok := s.search.Chosen(); ok {
				book, err := s.corpus.Book(chosen.ID)
				if err != nil {
					s.logger.Error("chosen book missing from corpus", "book", chosen.ID)
					return s, cmd
				}
				s.answer(book)
			}
			return s, cmd
		}

		s.options, _ = s.options.Update(msg)
		if s.options.Submitted {
			s.answer(s.snap.Question.Options[s.options.Chosen])
		}
	}
	return s, nil
}

func (s *GameScreen) answer(book corpus.Book) {
	q := s.snap.Question
	if _, ok := s.game.Select(s.ctx, book); !ok {
		return
	}
	s.snap = s.game.Snapshot()
	if !s.snap.IsOpenQuestion {
		for i, opt := range q.Options {
			if q.IsCorrect(opt) {
				s.options.Reveal(i)
				break
			}
		}
	}
}

// Back leaves the game, showing a summary if anything was answered.
func (s *GameScreen) Back() tea.Cmd {
	if s.confirmReset {
		s.confirmReset = false
		return nil
	}
	sum := s.game.Summary()
	if sum.Answered == 0 {
		return router.Pop
	}
	return router.Replace(summary.New(sum))
}

func (s *GameScreen) KeyHints() []layout.KeyHint {
	if s.confirmReset {
		return []layout.KeyHint{
			{Key: "Y", Description: "Erase progress"},
			{Key: "N", Description: "Keep it"},
		}
	}
	switch s.snap.Phase {
	case session.PhasePlaying:
		if s.snap.IsOpenQuestion {
			return []layout.KeyHint{
				{Key: "Type", Description: "Search"},
				{Key: "↑↓", Description: "Pick"},
				{Key: "Enter", Description: "Answer"},
				{Key: "Esc", Description: "Leave"},
			}
		}
		return []layout.KeyHint{
			{Key: "↑↓/1-9", Description: "Pick"},
			{Key: "Enter", Description: "Answer"},
			{Key: "Esc", Description: "Leave"},
		}
	case session.PhaseResult:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next excerpt"},
			{Key: "Ctrl+R", Description: "Reset"},
			{Key: "Esc", Description: "Leave"},
		}
	case session.PhaseIdle:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Try again"},
			{Key: "Esc", Description: "Leave"},
		}
	case session.PhaseCompleted:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Play again"},
			{Key: "Esc", Description: "Leave"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Leave"}}
}
