package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/abhisek/litguess/internal/corpus"
	"github.com/abhisek/litguess/internal/progress"
	"github.com/abhisek/litguess/internal/question"
	"github.com/abhisek/litguess/internal/selection"
)

// Fetcher produces the next question for the given progress. It returns
// (nil, nil) when there is nothing left to ask.
type Fetcher interface {
	Fetch(ctx context.Context, solved []string, failed []progress.FailedQuestion) (*question.Question, error)
}

// LocalFetcher selects and builds questions from the in-memory corpus.
type LocalFetcher struct {
	Corpus  *corpus.Corpus
	Policy  *selection.Policy
	Builder *question.Builder
	// Latency is an artificial delay before each question, giving the
	// loading screen a moment on screen.
	Latency time.Duration
	Logger  *slog.Logger
}

func (f *LocalFetcher) Fetch(ctx context.Context, solved []string, failed []progress.FailedQuestion) (*question.Question, error) {
	if f.Latency > 0 {
		t := time.NewTimer(f.Latency)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	id, tier := f.Policy.Next(f.Corpus.ParagraphIDs(), solved, failed)
	if tier == selection.TierNone {
		return nil, nil
	}
	if f.Logger != nil {
		f.Logger.Debug("selected paragraph", "paragraph", id, "tier", tier)
	}
	return f.Builder.Build(id)
}
