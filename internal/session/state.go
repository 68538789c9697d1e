// Package session runs a game: it serves questions, applies the scoring
// and streak rules, and keeps the player's progress persisted.
package session

import (
	"github.com/abhisek/litguess/internal/corpus"
	"github.com/abhisek/litguess/internal/question"
)

// Phase is the current phase of the game.
type Phase int

const (
	PhaseIdle      Phase = iota // Waiting for the player to start
	PhaseLoading                // Fetching the next question
	PhasePlaying                // Question on screen, awaiting an answer
	PhaseResult                 // Showing whether the answer was right
	PhaseCompleted              // Every paragraph has been solved
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhasePlaying:
		return "playing"
	case PhaseResult:
		return "result"
	case PhaseCompleted:
		return "completed"
	}
	return "unknown"
}

// Outcome describes the effect of one answer.
type Outcome struct {
	Correct bool
	// Points awarded for this answer (0 when wrong).
	Points int
	// Streak after the answer was applied.
	Streak int
	// Chosen is the book the player picked.
	Chosen corpus.Book
	// Answer is the correct book.
	Answer corpus.Book
}

// Snapshot is a read-only copy of the game state for rendering.
type Snapshot struct {
	Phase Phase

	// Question is the active question. It is kept through PhaseResult so
	// the answer can be revealed, and cleared on the next start or reset.
	Question *question.Question

	// IsOpenQuestion is true when the question is answered by free-text
	// search and scores triple.
	IsOpenQuestion bool

	// Selected is the book picked for the active question, nil before
	// the player answers.
	Selected *corpus.Book

	// LastOutcome is the result of the most recent answer in this round.
	LastOutcome *Outcome

	Score  int
	Streak int

	// Error is a user-facing message set when the last fetch failed.
	Error string

	// Solved, Failed and Total count paragraphs; QuestionCount is the
	// lifetime number of questions served.
	Solved        int
	Failed        int
	Total         int
	QuestionCount int
}
