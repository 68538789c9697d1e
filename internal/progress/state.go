// Package progress tracks the player's cumulative results and persists
// them through a pluggable key/value backend.
package progress

import (
	"slices"
	"time"
)

// Key names one independently persisted field of State.
type Key string

const (
	KeySolved        Key = "solvedParagraphIds"
	KeyFailed        Key = "failedQuestions"
	KeyQuestionCount Key = "questionCount"
)

// AllKeys returns every persisted key.
func AllKeys() []Key {
	return []Key{KeySolved, KeyFailed, KeyQuestionCount}
}

// FailedQuestion records the most recent failure on a paragraph that has
// not been solved since.
type FailedQuestion struct {
	ParagraphID string
	FailedAt    time.Time
}

// State is the player's cumulative progress.
//
// A paragraph ID never appears in both SolvedParagraphIDs and
// FailedQuestions, and FailedQuestions holds at most one record per
// paragraph.
type State struct {
	// SolvedParagraphIDs lists solved paragraphs in the order they were
	// first solved.
	SolvedParagraphIDs []string

	FailedQuestions []FailedQuestion

	// QuestionCount is the lifetime number of questions served.
	QuestionCount int
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	return State{
		SolvedParagraphIDs: slices.Clone(s.SolvedParagraphIDs),
		FailedQuestions:    slices.Clone(s.FailedQuestions),
		QuestionCount:      s.QuestionCount,
	}
}

// IsSolved reports whether the paragraph has been answered correctly.
func (s State) IsSolved(paragraphID string) bool {
	return slices.Contains(s.SolvedParagraphIDs, paragraphID)
}

// Failure returns the failure record for a paragraph, if any.
func (s State) Failure(paragraphID string) (FailedQuestion, bool) {
	for _, f := range s.FailedQuestions {
		if f.ParagraphID == paragraphID {
			return f, true
		}
	}
	return FailedQuestion{}, false
}

// MarkSolved adds the paragraph to the solved set and drops any failure
// record for it. Solving an already-solved paragraph is a no-op.
func (s *State) MarkSolved(paragraphID string) {
	if !s.IsSolved(paragraphID) {
		s.SolvedParagraphIDs = append(s.SolvedParagraphIDs, paragraphID)
	}
	s.FailedQuestions = slices.DeleteFunc(s.FailedQuestions, func(f FailedQuestion) bool {
		return f.ParagraphID == paragraphID
	})
}

// MarkFailed records a failure at the given time. A paragraph that already
// has a record keeps its position and only gets a new timestamp.
func (s *State) MarkFailed(paragraphID string, at time.Time) {
	for i := range s.FailedQuestions {
		if s.FailedQuestions[i].ParagraphID == paragraphID {
			s.FailedQuestions[i].FailedAt = at
			return
		}
	}
	s.FailedQuestions = append(s.FailedQuestions, FailedQuestion{ParagraphID: paragraphID, FailedAt: at})
}
