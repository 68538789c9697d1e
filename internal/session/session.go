package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/abhisek/litguess/internal/corpus"
	"github.com/abhisek/litguess/internal/host"
	"github.com/abhisek/litguess/internal/progress"
	"github.com/abhisek/litguess/internal/question"
	"github.com/abhisek/litguess/internal/store"
	"github.com/google/uuid"
)

// ErrInvalidTransition is returned when an operation is not allowed in
// the current phase.
var ErrInvalidTransition = errors.New("session: invalid phase transition")

// Recorder receives round events. store.EventRepo satisfies it.
type Recorder interface {
	AppendRoundEvent(ctx context.Context, data store.RoundEventData) error
}

// Options wires a Game to its collaborators. Fetcher and Progress are
// required.
type Options struct {
	Fetcher  Fetcher
	Progress *progress.Store
	// Total is the number of paragraphs in play, for display.
	Total    int
	Host     host.Host
	Recorder Recorder
	Clock    func() time.Time
	Logger   *slog.Logger
}

// Game is the round state machine. All methods are safe for concurrent
// use; the fetch step runs without holding the lock so a UI can perform
// it in the background.
type Game struct {
	fetcher  Fetcher
	store    *progress.Store
	total    int
	host     host.Host
	recorder Recorder
	clock    func() time.Time
	logger   *slog.Logger
	msgs     Messages

	mu        sync.Mutex
	sessionID string
	phase     Phase
	progress  progress.State
	question  *question.Question
	open      bool
	selected  *corpus.Book
	outcome   *Outcome
	score     int
	streak    int
	errMsg    string
	readySent bool

	// generation is bumped by every Begin and Reset. A fetch result is
	// applied only if its ticket carries the current generation.
	generation uint64

	summary summaryTracker
}

// New creates a Game in PhaseIdle with empty progress. Call Init to load
// persisted progress.
func New(opts Options) *Game {
	g := &Game{
		fetcher:   opts.Fetcher,
		store:     opts.Progress,
		total:     opts.Total,
		host:      opts.Host,
		recorder:  opts.Recorder,
		clock:     opts.Clock,
		logger:    opts.Logger,
		sessionID: uuid.NewString(),
	}
	if g.host == nil {
		g.host = host.Nop{}
	}
	if g.clock == nil {
		g.clock = time.Now
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	g.msgs = MessagesFor(g.host.Locale())
	g.summary.start = g.clock()
	return g
}

// Messages returns the localized strings for the host locale.
func (g *Game) Messages() Messages { return g.msgs }

// Init loads persisted progress and signals the host that the game is
// ready. The ready signal is sent once per Game.
func (g *Game) Init(ctx context.Context) {
	st := g.store.Load(ctx)

	g.mu.Lock()
	g.progress = st
	sendReady := !g.readySent
	g.readySent = true
	g.mu.Unlock()

	g.logger.Info("progress loaded",
		"solved", len(st.SolvedParagraphIDs),
		"failed", len(st.FailedQuestions),
		"questions", st.QuestionCount)
	if sendReady {
		g.host.Ready(ctx)
	}
}

// Ticket authorizes one fetch. It carries a copy of the progress the
// fetch should select against.
type Ticket struct {
	generation uint64
	solved     []string
	failed     []progress.FailedQuestion
}

// Round is the outcome of a fetch, to be applied with Complete.
type Round struct {
	ticket   Ticket
	Question *question.Question
	Err      error
}

// Begin moves the game to PhaseLoading, clearing the previous question,
// selection and error. It is valid from PhaseIdle and PhaseResult.
func (g *Game) Begin() (Ticket, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseIdle && g.phase != PhaseResult {
		return Ticket{}, ErrInvalidTransition
	}
	g.phase = PhaseLoading
	g.question = nil
	g.open = false
	g.selected = nil
	g.outcome = nil
	g.errMsg = ""
	g.generation++

	st := g.progress.Clone()
	return Ticket{
		generation: g.generation,
		solved:     st.SolvedParagraphIDs,
		failed:     st.FailedQuestions,
	}, nil
}

// Fetch runs the fetcher for t. It does not touch game state and may
// block; cancel ctx to abandon it.
func (g *Game) Fetch(ctx context.Context, t Ticket) Round {
	q, err := g.fetcher.Fetch(ctx, t.solved, t.failed)
	return Round{ticket: t, Question: q, Err: err}
}

// Complete applies a fetch result. It reports false, changing nothing,
// when the result is stale because the game was reset or restarted
// since the ticket was issued.
func (g *Game) Complete(ctx context.Context, r Round) bool {
	g.mu.Lock()
	if r.ticket.generation != g.generation || g.phase != PhaseLoading {
		g.mu.Unlock()
		g.logger.Debug("dropping stale question fetch", "generation", r.ticket.generation)
		return false
	}

	switch {
	case r.Err != nil:
		g.phase = PhaseIdle
		g.errMsg = g.msgs.FetchFailed
		g.mu.Unlock()
		g.logger.Error("fetch question", "error", r.Err)
		return true

	case r.Question == nil:
		g.phase = PhaseCompleted
		g.mu.Unlock()
		g.logger.Info("all paragraphs solved", "total", g.total)
		return true
	}

	q := r.Question
	g.phase = PhasePlaying
	g.question = q
	g.open = q.IsOpen()
	g.progress.QuestionCount++
	g.store.Save(ctx, g.progress, progress.KeyQuestionCount)
	ev := store.RoundEventData{
		SessionID:    g.sessionID,
		Action:       store.ActionServed,
		ParagraphID:  q.ParagraphID,
		Difficulty:   string(q.Difficulty),
		OpenQuestion: g.open,
	}
	g.mu.Unlock()

	g.record(ctx, ev)
	g.host.GameplayStart(ctx)
	return true
}

// Start begins a round and fetches its question synchronously.
func (g *Game) Start(ctx context.Context) error {
	t, err := g.Begin()
	if err != nil {
		return err
	}
	g.Complete(ctx, g.Fetch(ctx, t))
	return nil
}

// Next advances from PhaseResult to the next question.
func (g *Game) Next(ctx context.Context) error {
	g.mu.Lock()
	phase := g.phase
	g.mu.Unlock()
	if phase != PhaseResult {
		return ErrInvalidTransition
	}
	return g.Start(ctx)
}

// Select answers the active question with book. It is a no-op returning
// false unless the game is in PhasePlaying.
//
// A correct answer scores Points(streak, open), extends the streak, and
// moves the paragraph to the solved set. A wrong answer resets the
// streak and records the failure time, replacing any earlier one.
func (g *Game) Select(ctx context.Context, book corpus.Book) (Outcome, bool) {
	g.mu.Lock()
	if g.phase != PhasePlaying || g.question == nil {
		g.mu.Unlock()
		return Outcome{}, false
	}

	q := g.question
	out := Outcome{Chosen: book, Answer: q.CorrectBook}
	if q.IsCorrect(book) {
		out.Correct = true
		out.Points = Points(g.streak, g.open)
		g.score += out.Points
		g.streak++
		g.progress.MarkSolved(q.ParagraphID)
		g.store.Save(ctx, g.progress, progress.KeySolved, progress.KeyFailed)
	} else {
		g.streak = 0
		g.progress.MarkFailed(q.ParagraphID, g.clock())
		g.store.Save(ctx, g.progress, progress.KeyFailed)
	}
	out.Streak = g.streak

	selected := book
	g.selected = &selected
	g.outcome = &out
	g.phase = PhaseResult
	g.summary.add(q.Difficulty, out)

	ev := store.RoundEventData{
		SessionID:    g.sessionID,
		Action:       store.ActionAnswered,
		ParagraphID:  q.ParagraphID,
		Difficulty:   string(q.Difficulty),
		OpenQuestion: g.open,
		Correct:      out.Correct,
		ChosenBookID: book.ID,
		Points:       out.Points,
		Streak:       out.Streak,
	}
	g.mu.Unlock()

	g.record(ctx, ev)
	g.host.GameplayStop(ctx)
	return out, true
}

// Reset wipes all progress, score and streak, returns to PhaseIdle and
// persists the cleared state. Any fetch in flight is invalidated.
func (g *Game) Reset(ctx context.Context) {
	g.mu.Lock()
	wasPlaying := g.phase == PhasePlaying
	g.generation++
	g.phase = PhaseIdle
	g.progress = progress.State{}
	g.question = nil
	g.open = false
	g.selected = nil
	g.outcome = nil
	g.score = 0
	g.streak = 0
	g.errMsg = ""
	g.summary.reset(g.clock())
	g.sessionID = uuid.NewString()
	g.store.Save(ctx, g.progress, progress.AllKeys()...)
	g.mu.Unlock()

	g.logger.Info("progress reset")
	if wasPlaying {
		g.host.GameplayStop(ctx)
	}
}

// SessionID identifies the current run in the event log. Reset starts a
// new run.
func (g *Game) SessionID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sessionID
}

// Snapshot returns a copy of the current state.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := Snapshot{
		Phase:          g.phase,
		Question:       g.question,
		IsOpenQuestion: g.open,
		Score:          g.score,
		Streak:         g.streak,
		Error:          g.errMsg,
		Solved:         len(g.progress.SolvedParagraphIDs),
		Failed:         len(g.progress.FailedQuestions),
		Total:          g.total,
		QuestionCount:  g.progress.QuestionCount,
	}
	if g.selected != nil {
		b := *g.selected
		s.Selected = &b
	}
	if g.outcome != nil {
		o := *g.outcome
		s.LastOutcome = &o
	}
	return s
}

// Progress returns a copy of the player's progress.
func (g *Game) Progress() progress.State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.progress.Clone()
}

func (g *Game) record(ctx context.Context, ev store.RoundEventData) {
	if g.recorder == nil {
		return
	}
	if err := g.recorder.AppendRoundEvent(ctx, ev); err != nil {
		g.logger.Warn("record round event", "action", ev.Action, "error", err)
	}
}
