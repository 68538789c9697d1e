// Package question turns corpus paragraphs into multiple-choice questions.
package question

import (
	"math/rand/v2"
	"sync"

	"github.com/abhisek/litguess/internal/corpus"
)

// MaxOptions is the largest number of answer options a question carries.
const MaxOptions = 20

// Question is a single round's prompt: an excerpt plus the books offered
// as answers.
type Question struct {
	ParagraphID string
	Paragraph   string
	CorrectBook corpus.Book
	// Options always contains CorrectBook exactly once and never more
	// than MaxOptions entries.
	Options    []corpus.Book
	Difficulty corpus.Difficulty
}

// IsOpen reports whether the question is answered by free-text search.
func (q *Question) IsOpen() bool {
	return q.Difficulty.IsOpen()
}

// IsCorrect reports whether book is the right answer.
func (q *Question) IsCorrect(book corpus.Book) bool {
	return book.ID == q.CorrectBook.ID
}

// Builder assembles questions from a corpus. It is safe for concurrent
// use; calls are serialized around the random source.
type Builder struct {
	corpus *corpus.Corpus

	mu  sync.Mutex
	rng *rand.Rand
}

// NewBuilder returns a Builder drawing shuffles from rng.
func NewBuilder(c *corpus.Corpus, rng *rand.Rand) *Builder {
	return &Builder{corpus: c, rng: rng}
}

// Build creates a question for the given paragraph. It returns
// *corpus.UnknownParagraphError or *corpus.UnknownBookError when the
// paragraph or one of its books cannot be resolved.
func (b *Builder) Build(paragraphID string) (*Question, error) {
	p, err := b.corpus.Paragraph(paragraphID)
	if err != nil {
		return nil, err
	}

	correct, err := b.corpus.Book(p.BookID)
	if err != nil {
		return nil, &corpus.UnknownBookError{BookID: p.BookID, ParagraphID: p.ID}
	}

	seen := map[string]bool{correct.ID: true}
	distractors := make([]corpus.Book, 0, len(p.DistractorBookIDs))
	for _, id := range p.DistractorBookIDs {
		if seen[id] {
			continue
		}
		book, err := b.corpus.Book(id)
		if err != nil {
			return nil, &corpus.UnknownBookError{BookID: id, ParagraphID: p.ID}
		}
		seen[id] = true
		distractors = append(distractors, book)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// Trim distractors before adding the answer so the cap can never
	// drop the correct book.
	if len(distractors) > MaxOptions-1 {
		b.rng.Shuffle(len(distractors), func(i, j int) {
			distractors[i], distractors[j] = distractors[j], distractors[i]
		})
		distractors = distractors[:MaxOptions-1]
	}

	options := append([]corpus.Book{correct}, distractors...)
	b.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return &Question{
		ParagraphID: p.ID,
		Paragraph:   p.Text,
		CorrectBook: correct,
		Options:     options,
		Difficulty:  p.Difficulty,
	}, nil
}
