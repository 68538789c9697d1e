package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/abhisek/litguess/internal/corpus"
	"github.com/abhisek/litguess/internal/progress"
	"github.com/abhisek/litguess/internal/question"
	"github.com/abhisek/litguess/internal/selection"
	"github.com/abhisek/litguess/internal/store"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

var (
	bookA = corpus.Book{ID: "a", Title: "Book A"}
	bookB = corpus.Book{ID: "b", Title: "Book B"}
)

func makeQuestion(paragraphID string, d corpus.Difficulty) *question.Question {
	return &question.Question{
		ParagraphID: paragraphID,
		Paragraph:   "text of " + paragraphID,
		CorrectBook: bookA,
		Options:     []corpus.Book{bookA, bookB},
		Difficulty:  d,
	}
}

// queueFetcher hands out queued questions; a nil entry means exhausted.
type queueFetcher struct {
	mu        sync.Mutex
	questions []*question.Question
	err       error
	calls     int
}

func (f *queueFetcher) Fetch(_ context.Context, _ []string, _ []progress.FailedQuestion) (*question.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.questions) == 0 {
		return nil, nil
	}
	q := f.questions[0]
	f.questions = f.questions[1:]
	return q, nil
}

type recordingHost struct {
	mu                 sync.Mutex
	ready, start, stop int
	locale             string
}

func (h *recordingHost) Locale() string {
	if h.locale == "" {
		return "en"
	}
	return h.locale
}
func (h *recordingHost) Ready(context.Context)         { h.mu.Lock(); h.ready++; h.mu.Unlock() }
func (h *recordingHost) GameplayStart(context.Context) { h.mu.Lock(); h.start++; h.mu.Unlock() }
func (h *recordingHost) GameplayStop(context.Context)  { h.mu.Lock(); h.stop++; h.mu.Unlock() }

type memRecorder struct {
	mu     sync.Mutex
	events []store.RoundEventData
}

func (r *memRecorder) AppendRoundEvent(_ context.Context, e store.RoundEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

type fixture struct {
	game     *Game
	fetcher  *queueFetcher
	backend  *progress.MemoryBackend
	store    *progress.Store
	host     *recordingHost
	recorder *memRecorder
	now      time.Time
}

func newFixture(t *testing.T, questions ...*question.Question) *fixture {
	t.Helper()
	f := &fixture{
		fetcher:  &queueFetcher{questions: questions},
		backend:  progress.NewMemoryBackend(),
		host:     &recordingHost{},
		recorder: &memRecorder{},
		now:      time.UnixMilli(1_000_000),
	}
	f.store = progress.NewStore(f.backend, progress.WithLogger(discard))
	f.game = New(Options{
		Fetcher:  f.fetcher,
		Progress: f.store,
		Total:    3,
		Host:     f.host,
		Recorder: f.recorder,
		Clock:    func() time.Time { return f.now },
		Logger:   discard,
	})
	f.game.Init(context.Background())
	return f
}

// persisted waits for background saves and reloads from the backend.
func (f *fixture) persisted() progress.State {
	f.store.Wait()
	return progress.NewStore(f.backend, progress.WithLogger(discard)).Load(context.Background())
}

func TestPoints(t *testing.T) {
	tests := []struct {
		streak int
		open   bool
		want   int
	}{
		{0, false, 100},
		{1, false, 125},
		{2, false, 150},
		{0, true, 300},
		{2, true, 450},
	}
	for _, tt := range tests {
		if got := Points(tt.streak, tt.open); got != tt.want {
			t.Errorf("Points(%d, %v) = %d, want %d", tt.streak, tt.open, got, tt.want)
		}
	}
}

func TestStart_ServesQuestionAndCountsIt(t *testing.T) {
	f := newFixture(t, makeQuestion("p1", corpus.DifficultyHard))
	ctx := context.Background()

	if err := f.game.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s := f.game.Snapshot()
	if s.Phase != PhasePlaying {
		t.Fatalf("Phase = %s, want playing", s.Phase)
	}
	if s.Question == nil || s.Question.ParagraphID != "p1" {
		t.Fatalf("Question = %+v, want p1", s.Question)
	}
	if s.IsOpenQuestion {
		t.Error("HARD question should not be open")
	}
	if s.QuestionCount != 1 {
		t.Errorf("QuestionCount = %d, want 1", s.QuestionCount)
	}
	if got := f.persisted().QuestionCount; got != 1 {
		t.Errorf("persisted QuestionCount = %d, want 1", got)
	}
	if f.host.start != 1 {
		t.Errorf("GameplayStart sent %d times, want 1", f.host.start)
	}
}

func TestSelect_CorrectWithStreak(t *testing.T) {
	f := newFixture(t,
		makeQuestion("p1", corpus.DifficultyMedium),
		makeQuestion("p2", corpus.DifficultyMedium),
		makeQuestion("p3", corpus.DifficultyMedium),
	)
	ctx := context.Background()

	var last Outcome
	for i := 0; i < 3; i++ {
		if i == 0 {
			if err := f.game.Start(ctx); err != nil {
				t.Fatalf("Start: %v", err)
			}
		} else if err := f.game.Next(ctx); err != nil {
			t.Fatalf("Next: %v", err)
		}
		out, ok := f.game.Select(ctx, bookA)
		if !ok {
			t.Fatalf("Select %d ignored", i)
		}
		last = out
	}

	// Third answer is scored with streak 2 before the increment.
	if last.Points != 150 {
		t.Errorf("third answer Points = %d, want 150", last.Points)
	}
	s := f.game.Snapshot()
	if s.Score != 100+125+150 {
		t.Errorf("Score = %d, want 375", s.Score)
	}
	if s.Streak != 3 {
		t.Errorf("Streak = %d, want 3", s.Streak)
	}
	if s.Phase != PhaseResult {
		t.Errorf("Phase = %s, want result", s.Phase)
	}
}

func TestSelect_OpenQuestionTriples(t *testing.T) {
	f := newFixture(t, makeQuestion("p1", corpus.DifficultyVeryEasy))
	ctx := context.Background()
	if err := f.game.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if !f.game.Snapshot().IsOpenQuestion {
		t.Fatal("VERY_EASY question should be open")
	}
	out, ok := f.game.Select(ctx, bookA)
	if !ok || out.Points != 300 {
		t.Errorf("Select = (%+v, %v), want 300 points", out, ok)
	}
	if f.game.Snapshot().Score != 300 {
		t.Errorf("Score = %d, want 300", f.game.Snapshot().Score)
	}
}

func TestSelect_CorrectMovesFailedToSolved(t *testing.T) {
	f := newFixture(t, makeQuestion("p1", corpus.DifficultyHard), makeQuestion("p1", corpus.DifficultyHard))
	ctx := context.Background()

	_ = f.game.Start(ctx)
	f.game.Select(ctx, bookB)
	if _, ok := f.game.Progress().Failure("p1"); !ok {
		t.Fatal("p1 should be failed after a wrong answer")
	}

	_ = f.game.Next(ctx)
	f.game.Select(ctx, bookA)

	p := f.game.Progress()
	if !p.IsSolved("p1") {
		t.Error("p1 should be solved")
	}
	if _, ok := p.Failure("p1"); ok {
		t.Error("p1 should no longer be failed")
	}

	saved := f.persisted()
	if len(saved.SolvedParagraphIDs) != 1 || len(saved.FailedQuestions) != 0 {
		t.Errorf("persisted = %+v, want p1 solved and nothing failed", saved)
	}
}

func TestSelect_SolveIsIdempotent(t *testing.T) {
	f := newFixture(t, makeQuestion("p1", corpus.DifficultyHard), makeQuestion("p1", corpus.DifficultyHard))
	ctx := context.Background()
	_ = f.game.Start(ctx)
	f.game.Select(ctx, bookA)
	_ = f.game.Next(ctx)
	f.game.Select(ctx, bookA)

	if got := len(f.game.Progress().SolvedParagraphIDs); got != 1 {
		t.Errorf("len(solved) = %d, want 1", got)
	}
}

func TestSelect_WrongResetsStreakAndUpsertsFailure(t *testing.T) {
	f := newFixture(t,
		makeQuestion("p1", corpus.DifficultyHard),
		makeQuestion("p2", corpus.DifficultyHard),
		makeQuestion("p2", corpus.DifficultyHard),
	)
	ctx := context.Background()

	_ = f.game.Start(ctx)
	f.game.Select(ctx, bookA)
	_ = f.game.Next(ctx)
	f.now = time.UnixMilli(100)
	out, _ := f.game.Select(ctx, bookB)
	if out.Correct || out.Points != 0 || out.Streak != 0 {
		t.Errorf("wrong answer outcome = %+v", out)
	}

	_ = f.game.Next(ctx)
	f.now = time.UnixMilli(200)
	f.game.Select(ctx, bookB)

	p := f.game.Progress()
	if len(p.FailedQuestions) != 1 {
		t.Fatalf("len(failed) = %d, want 1", len(p.FailedQuestions))
	}
	if got := p.FailedQuestions[0].FailedAt.UnixMilli(); got != 200 {
		t.Errorf("FailedAt = %d, want 200", got)
	}
	if s := f.game.Snapshot(); s.Streak != 0 || s.Score != 100 {
		t.Errorf("Streak/Score = %d/%d, want 0/100", s.Streak, s.Score)
	}
	if saved := f.persisted(); len(saved.FailedQuestions) != 1 || saved.FailedQuestions[0].FailedAt.UnixMilli() != 200 {
		t.Errorf("persisted failures = %+v", saved.FailedQuestions)
	}
}

func TestSelect_IgnoredOutsidePlaying(t *testing.T) {
	f := newFixture(t, makeQuestion("p1", corpus.DifficultyHard))
	ctx := context.Background()

	if _, ok := f.game.Select(ctx, bookA); ok {
		t.Error("Select in idle should be ignored")
	}
	_ = f.game.Start(ctx)
	f.game.Select(ctx, bookA)
	if _, ok := f.game.Select(ctx, bookB); ok {
		t.Error("second Select in result should be ignored")
	}
	if s := f.game.Snapshot(); s.Score != 100 || s.Selected.ID != "a" {
		t.Errorf("state changed by ignored select: %+v", s)
	}
}

func TestStart_InvalidFromPlaying(t *testing.T) {
	f := newFixture(t, makeQuestion("p1", corpus.DifficultyHard))
	ctx := context.Background()
	_ = f.game.Start(ctx)
	if err := f.game.Start(ctx); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Start from playing = %v, want ErrInvalidTransition", err)
	}
	if err := f.game.Next(ctx); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Next from playing = %v, want ErrInvalidTransition", err)
	}
}

func TestStart_FetchErrorReturnsToIdle(t *testing.T) {
	f := newFixture(t)
	f.fetcher.err = errors.New("archive offline")
	ctx := context.Background()

	if err := f.game.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s := f.game.Snapshot()
	if s.Phase != PhaseIdle {
		t.Errorf("Phase = %s, want idle", s.Phase)
	}
	if s.Error != MessagesFor("en").FetchFailed {
		t.Errorf("Error = %q", s.Error)
	}
	if s.QuestionCount != 0 {
		t.Errorf("QuestionCount = %d, want 0", s.QuestionCount)
	}

	// Retrying clears the error.
	f.fetcher.err = nil
	f.fetcher.questions = []*question.Question{makeQuestion("p1", corpus.DifficultyHard)}
	_ = f.game.Start(ctx)
	if s := f.game.Snapshot(); s.Error != "" || s.Phase != PhasePlaying {
		t.Errorf("after retry: Phase=%s Error=%q", s.Phase, s.Error)
	}
}

func TestStart_ExhaustedCompletes(t *testing.T) {
	f := newFixture(t)
	if err := f.game.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if s := f.game.Snapshot(); s.Phase != PhaseCompleted {
		t.Errorf("Phase = %s, want completed", s.Phase)
	}
	if err := f.game.Start(context.Background()); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Start from completed = %v, want ErrInvalidTransition", err)
	}
}

func TestReset_ClearsEverythingAndPersists(t *testing.T) {
	f := newFixture(t, makeQuestion("p1", corpus.DifficultyHard), makeQuestion("p2", corpus.DifficultyHard))
	ctx := context.Background()
	_ = f.game.Start(ctx)
	f.game.Select(ctx, bookA)
	_ = f.game.Next(ctx)

	f.game.Reset(ctx)

	s := f.game.Snapshot()
	if s.Phase != PhaseIdle || s.Score != 0 || s.Streak != 0 || s.Question != nil || s.Solved != 0 || s.QuestionCount != 0 {
		t.Errorf("after reset: %+v", s)
	}
	saved := f.persisted()
	if len(saved.SolvedParagraphIDs) != 0 || saved.QuestionCount != 0 {
		t.Errorf("persisted after reset = %+v", saved)
	}
	if f.host.stop != 2 {
		t.Errorf("GameplayStop sent %d times, want 2 (answer + reset while playing)", f.host.stop)
	}
}

func TestReset_StartsNewRun(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	ps := progress.NewStore(progress.NewMemoryBackend(), progress.WithLogger(discard))
	g := New(Options{
		Fetcher:  &queueFetcher{questions: []*question.Question{makeQuestion("p1", corpus.DifficultyHard), makeQuestion("p2", corpus.DifficultyHard)}},
		Progress: ps,
		Total:    3,
		Recorder: st.EventRepo(),
		Logger:   discard,
	})
	ctx := context.Background()
	g.Init(ctx)

	first := g.SessionID()
	_ = g.Start(ctx)
	if out, _ := g.Select(ctx, bookA); out.Points != 100 {
		t.Fatalf("first run points = %d, want 100", out.Points)
	}
	g.Reset(ctx)
	if g.SessionID() == first {
		t.Error("Reset kept the session id")
	}
	_ = g.Start(ctx)
	if out, _ := g.Select(ctx, bookA); out.Points != 100 {
		t.Fatalf("second run points = %d, want 100", out.Points)
	}
	ps.Wait()

	stats, err := st.EventRepo().RoundStats(ctx)
	if err != nil {
		t.Fatalf("RoundStats: %v", err)
	}
	if stats.BestScore != 100 || stats.SessionsCount != 2 {
		t.Errorf("BestScore = %d, SessionsCount = %d, want 100 and 2", stats.BestScore, stats.SessionsCount)
	}
}

func TestReset_DropsStaleFetch(t *testing.T) {
	f := newFixture(t, makeQuestion("p1", corpus.DifficultyHard))
	ctx := context.Background()

	ticket, err := f.game.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if f.game.Snapshot().Phase != PhaseLoading {
		t.Fatal("expected loading after Begin")
	}
	round := f.game.Fetch(ctx, ticket)

	f.game.Reset(ctx)

	if f.game.Complete(ctx, round) {
		t.Error("stale fetch was applied")
	}
	s := f.game.Snapshot()
	if s.Phase != PhaseIdle || s.Question != nil || s.QuestionCount != 0 {
		t.Errorf("stale fetch changed state: %+v", s)
	}
}

func TestRestart_DropsOlderFetch(t *testing.T) {
	f := newFixture(t, makeQuestion("old", corpus.DifficultyHard), makeQuestion("new", corpus.DifficultyHard))
	ctx := context.Background()

	first, _ := f.game.Begin()
	oldRound := f.game.Fetch(ctx, first)
	f.game.Reset(ctx)
	second, _ := f.game.Begin()
	newRound := f.game.Fetch(ctx, second)

	if !f.game.Complete(ctx, newRound) {
		t.Fatal("current fetch was dropped")
	}
	if f.game.Complete(ctx, oldRound) {
		t.Error("older fetch was applied")
	}
	if q := f.game.Snapshot().Question; q == nil || q.ParagraphID != "new" {
		t.Errorf("Question = %+v, want new", q)
	}
}

func TestInit_LoadsProgressAndSignalsReadyOnce(t *testing.T) {
	backend := progress.NewMemoryBackend()
	seed := progress.NewStore(backend, progress.WithLogger(discard))
	var st progress.State
	st.MarkSolved("p1")
	st.QuestionCount = 5
	seed.Save(context.Background(), st, progress.AllKeys()...)
	seed.Wait()

	h := &recordingHost{}
	g := New(Options{
		Fetcher:  &queueFetcher{},
		Progress: progress.NewStore(backend, progress.WithLogger(discard)),
		Host:     h,
		Logger:   discard,
	})
	g.Init(context.Background())
	g.Init(context.Background())

	if s := g.Snapshot(); s.Solved != 1 || s.QuestionCount != 5 {
		t.Errorf("loaded snapshot = %+v", s)
	}
	if h.ready != 1 {
		t.Errorf("Ready sent %d times, want 1", h.ready)
	}
}

func TestRecordsRoundEvents(t *testing.T) {
	f := newFixture(t, makeQuestion("p1", corpus.DifficultyEasy))
	ctx := context.Background()
	_ = f.game.Start(ctx)
	f.game.Select(ctx, bookA)

	if len(f.recorder.events) != 2 {
		t.Fatalf("recorded %d events, want 2", len(f.recorder.events))
	}
	served, answered := f.recorder.events[0], f.recorder.events[1]
	if served.Action != store.ActionServed || !served.OpenQuestion {
		t.Errorf("served event = %+v", served)
	}
	if answered.Action != store.ActionAnswered || !answered.Correct || answered.Points != 300 || answered.SessionID != f.game.SessionID() {
		t.Errorf("answered event = %+v", answered)
	}
}

func TestMessagesFor(t *testing.T) {
	if MessagesFor("ru-RU").Correct != catalog["ru"].Correct {
		t.Error("ru-RU should map to ru")
	}
	if MessagesFor("xx").Correct != catalog["en"].Correct {
		t.Error("unknown locale should fall back to en")
	}
}

func TestSummary(t *testing.T) {
	f := newFixture(t, makeQuestion("p1", corpus.DifficultyEasy), makeQuestion("p2", corpus.DifficultyHard))
	ctx := context.Background()
	_ = f.game.Start(ctx)
	f.game.Select(ctx, bookA)
	_ = f.game.Next(ctx)
	f.game.Select(ctx, bookB)

	s := f.game.Summary()
	if s.Answered != 2 || s.Correct != 1 || s.BestStreak != 1 || s.Score != 300 {
		t.Errorf("summary = %+v", s)
	}
	if s.Accuracy != 0.5 {
		t.Errorf("Accuracy = %v, want 0.5", s.Accuracy)
	}
	if len(s.PerDifficulty) != 2 || s.PerDifficulty[0].Difficulty != corpus.DifficultyEasy {
		t.Errorf("PerDifficulty = %+v", s.PerDifficulty)
	}
}

// The scenarios below run the real selection policy and question builder.

func newLocalGame(t *testing.T, backend progress.Backend, now *time.Time) (*Game, *progress.Store) {
	t.Helper()
	books := []corpus.Book{{ID: "b1"}, {ID: "b2"}, {ID: "b3"}}
	c, err := corpus.New(books, []corpus.Paragraph{
		{ID: "p1", Text: "one", BookID: "b1", DistractorBookIDs: []string{"b2"}},
		{ID: "p2", Text: "two", BookID: "b2", DistractorBookIDs: []string{"b3"}},
		{ID: "p3", Text: "three", BookID: "b3", DistractorBookIDs: []string{"b1"}},
	})
	if err != nil {
		t.Fatalf("corpus.New: %v", err)
	}
	st := progress.NewStore(backend, progress.WithLogger(discard))
	g := New(Options{
		Fetcher: &LocalFetcher{
			Corpus:  c,
			Policy:  selection.NewPolicy(rand.New(rand.NewPCG(1, 1))),
			Builder: question.NewBuilder(c, rand.New(rand.NewPCG(1, 2))),
		},
		Progress: st,
		Total:    c.NumParagraphs(),
		Clock:    func() time.Time { return *now },
		Logger:   discard,
	})
	g.Init(context.Background())
	return g, st
}

func TestLocal_UnseenThenOldestFailureThenCompleted(t *testing.T) {
	ctx := context.Background()
	backend := progress.NewMemoryBackend()
	seed := progress.NewStore(backend, progress.WithLogger(discard))
	var st progress.State
	st.MarkSolved("p1")
	st.MarkFailed("p2", time.UnixMilli(100))
	seed.Save(ctx, st, progress.AllKeys()...)
	seed.Wait()

	now := time.UnixMilli(50)
	g, _ := newLocalGame(t, backend, &now)

	// p3 is the only unseen paragraph.
	_ = g.Start(ctx)
	q := g.Snapshot().Question
	if q == nil || q.ParagraphID != "p3" {
		t.Fatalf("first question = %+v, want p3", q)
	}
	// Fail p3 at t=50, older than p2's t=100.
	g.Select(ctx, corpus.Book{ID: "wrong"})

	_ = g.Next(ctx)
	if q := g.Snapshot().Question; q.ParagraphID != "p3" {
		t.Fatalf("retry picked %q, want p3 (oldest failure)", q.ParagraphID)
	}
	g.Select(ctx, q.CorrectBook)

	_ = g.Next(ctx)
	q = g.Snapshot().Question
	if q.ParagraphID != "p2" {
		t.Fatalf("retry picked %q, want p2", q.ParagraphID)
	}
	g.Select(ctx, q.CorrectBook)

	_ = g.Next(ctx)
	if s := g.Snapshot(); s.Phase != PhaseCompleted || s.Solved != 3 {
		t.Errorf("final snapshot = %+v, want completed with 3 solved", s)
	}
}

func TestLocalFetcher_HonorsContext(t *testing.T) {
	c, err := corpus.New([]corpus.Book{{ID: "b"}}, []corpus.Paragraph{{ID: "p", Text: "t", BookID: "b"}})
	if err != nil {
		t.Fatal(err)
	}
	f := &LocalFetcher{
		Corpus:  c,
		Policy:  selection.NewPolicy(rand.New(rand.NewPCG(1, 1))),
		Builder: question.NewBuilder(c, rand.New(rand.NewPCG(1, 1))),
		Latency: time.Hour,
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.Fetch(ctx, nil, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Fetch = %v, want context.Canceled", err)
	}
}
