// Package authoring helps curators extend the corpus. Nothing here runs
// during gameplay.
package authoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/abhisek/litguess/internal/corpus"
	"github.com/abhisek/litguess/internal/llm"
)

// ErrNoCandidates is returned when every book in the corpus is already
// an option for the paragraph.
var ErrNoCandidates = errors.New("authoring: no candidate books left to propose")

// Rejection is a proposed id that was discarded.
type Rejection struct {
	BookID string
	Reason string
}

// Suggestion is the vetted output for one paragraph.
type Suggestion struct {
	ParagraphID string
	// Accepted are new distractors, in the model's order of preference.
	Accepted []corpus.Book
	Rejected []Rejection
	// Difficulty is the model's grade; CurrentDifficulty is the corpus value.
	Difficulty        corpus.Difficulty
	CurrentDifficulty corpus.Difficulty
	Rationale         string
}

// Apply returns p with the accepted distractors appended.
func (s *Suggestion) Apply(p corpus.Paragraph) corpus.Paragraph {
	p.DistractorBookIDs = slices.Clone(p.DistractorBookIDs)
	for _, b := range s.Accepted {
		if !slices.Contains(p.DistractorBookIDs, b.ID) {
			p.DistractorBookIDs = append(p.DistractorBookIDs, b.ID)
		}
	}
	return p
}

// Suggester asks an LLM for distractors and checks every proposed id
// against the corpus.
type Suggester struct {
	provider llm.Provider
	corpus   *corpus.Corpus
	config   Config
	logger   *slog.Logger
}

// NewSuggester returns a Suggester over c.
func NewSuggester(p llm.Provider, c *corpus.Corpus, cfg Config, logger *slog.Logger) *Suggester {
	if cfg.Count <= 0 {
		cfg.Count = DefaultConfig().Count
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Suggester{provider: p, corpus: c, config: cfg, logger: logger}
}

type suggestionOutput struct {
	DistractorBookIDs []string `json:"distractorBookIds"`
	Difficulty        string   `json:"difficulty"`
	Rationale         string   `json:"rationale"`
}

// Suggest proposes new distractors for the paragraph with the given id.
func (s *Suggester) Suggest(ctx context.Context, paragraphID string) (*Suggestion, error) {
	p, err := s.corpus.Paragraph(paragraphID)
	if err != nil {
		return nil, err
	}
	answer, err := s.corpus.Book(p.BookID)
	if err != nil {
		return nil, err
	}
	catalog := candidates(s.corpus, p, s.config.MaxCatalog)
	if len(catalog) == 0 {
		return nil, ErrNoCandidates
	}

	req := llm.UserPrompt(systemPrompt, buildUserMessage(p, answer, catalog, s.config.Count))
	req.Schema = SuggestionSchema
	req.MaxTokens = s.config.MaxTokens
	req.Temperature = s.config.Temperature

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, "distractors"), req)
	if err != nil {
		return nil, fmt.Errorf("suggest distractors for %s: %w", paragraphID, err)
	}
	var out suggestionOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse suggestion for %s: %w", paragraphID, err)
	}

	sug := s.vet(p, out)
	s.logger.Info("distractors suggested",
		"paragraph", paragraphID,
		"accepted", len(sug.Accepted),
		"rejected", len(sug.Rejected))
	return sug, nil
}

// vet keeps the proposed ids that name a known book that is not already
// an option, up to the configured count.
func (s *Suggester) vet(p corpus.Paragraph, out suggestionOutput) *Suggestion {
	sug := &Suggestion{
		ParagraphID:       p.ID,
		Difficulty:        corpus.Difficulty(out.Difficulty),
		CurrentDifficulty: p.Difficulty,
		Rationale:         out.Rationale,
	}
	seen := map[string]bool{}
	reject := func(id, reason string) {
		sug.Rejected = append(sug.Rejected, Rejection{BookID: id, Reason: reason})
	}
	for _, id := range out.DistractorBookIDs {
		switch {
		case seen[id]:
			reject(id, "duplicate")
			continue
		case id == p.BookID:
			reject(id, "correct book")
		case slices.Contains(p.DistractorBookIDs, id):
			reject(id, "already a distractor")
		case len(sug.Accepted) == s.config.Count:
			reject(id, "over limit")
		default:
			book, err := s.corpus.Book(id)
			if err != nil {
				reject(id, "unknown book")
			} else {
				sug.Accepted = append(sug.Accepted, book)
			}
		}
		seen[id] = true
	}
	if !sug.Difficulty.Valid() {
		sug.Difficulty = ""
	}
	return sug
}
