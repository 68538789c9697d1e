package session

import (
	"time"

	"github.com/abhisek/litguess/internal/corpus"
)

// Summary describes the answers given since the game was created or last
// reset.
type Summary struct {
	Duration      time.Duration
	Answered      int
	Correct       int
	Accuracy      float64
	BestStreak    int
	Score         int
	PerDifficulty []DifficultyResult
}

// DifficultyResult tallies answers at one difficulty.
type DifficultyResult struct {
	Difficulty corpus.Difficulty
	Answered   int
	Correct    int
}

type summaryTracker struct {
	start      time.Time
	answered   int
	correct    int
	bestStreak int
	byDiff     map[corpus.Difficulty]*DifficultyResult
}

func (t *summaryTracker) add(d corpus.Difficulty, out Outcome) {
	if t.byDiff == nil {
		t.byDiff = make(map[corpus.Difficulty]*DifficultyResult)
	}
	r, ok := t.byDiff[d]
	if !ok {
		r = &DifficultyResult{Difficulty: d}
		t.byDiff[d] = r
	}
	t.answered++
	r.Answered++
	if out.Correct {
		t.correct++
		r.Correct++
	}
	t.bestStreak = max(t.bestStreak, out.Streak)
}

func (t *summaryTracker) reset(now time.Time) {
	*t = summaryTracker{start: now}
}

// Summary builds a Summary of the current run.
func (g *Game) Summary() *Summary {
	g.mu.Lock()
	defer g.mu.Unlock()

	t := &g.summary
	s := &Summary{
		Duration:   g.clock().Sub(t.start),
		Answered:   t.answered,
		Correct:    t.correct,
		BestStreak: t.bestStreak,
		Score:      g.score,
	}
	if t.answered > 0 {
		s.Accuracy = float64(t.correct) / float64(t.answered)
	}
	// Report in difficulty order, skipping levels never seen.
	for _, d := range corpus.AllDifficulties() {
		if r, ok := t.byDiff[d]; ok {
			s.PerDifficulty = append(s.PerDifficulty, *r)
		}
	}
	return s
}
