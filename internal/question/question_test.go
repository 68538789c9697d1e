package question

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/abhisek/litguess/internal/corpus"
)

func newTestCorpus(t *testing.T, distractors int) *corpus.Corpus {
	t.Helper()
	books := []corpus.Book{{ID: "answer", Title: "The Answer", Author: "A"}}
	var ids []string
	for i := 0; i < distractors; i++ {
		id := fmt.Sprintf("d%02d", i)
		books = append(books, corpus.Book{ID: id, Title: "Distractor " + id, Author: "D"})
		ids = append(ids, id)
	}
	c, err := corpus.New(books, []corpus.Paragraph{
		{ID: "p1", Text: "excerpt", BookID: "answer", DistractorBookIDs: ids, Difficulty: corpus.DifficultyEasy},
	})
	if err != nil {
		t.Fatalf("corpus.New: %v", err)
	}
	return c
}

func countCorrect(q *Question) int {
	n := 0
	for _, o := range q.Options {
		if o.ID == q.CorrectBook.ID {
			n++
		}
	}
	return n
}

func TestBuild_Basic(t *testing.T) {
	c := newTestCorpus(t, 5)
	b := NewBuilder(c, rand.New(rand.NewPCG(1, 2)))

	q, err := b.Build("p1")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if q.ParagraphID != "p1" || q.Paragraph != "excerpt" {
		t.Errorf("question = %+v", q)
	}
	if len(q.Options) != 6 {
		t.Errorf("len(Options) = %d, want 6", len(q.Options))
	}
	if countCorrect(q) != 1 {
		t.Errorf("correct book appears %d times, want 1", countCorrect(q))
	}
	if !q.IsOpen() {
		t.Error("EASY question should be open")
	}
}

func TestBuild_CapsOptionsAndKeepsAnswer(t *testing.T) {
	c := newTestCorpus(t, 40)
	for seed := uint64(0); seed < 50; seed++ {
		b := NewBuilder(c, rand.New(rand.NewPCG(seed, seed)))
		q, err := b.Build("p1")
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if len(q.Options) != MaxOptions {
			t.Fatalf("seed %d: len(Options) = %d, want %d", seed, len(q.Options), MaxOptions)
		}
		if countCorrect(q) != 1 {
			t.Fatalf("seed %d: correct book appears %d times, want 1", seed, countCorrect(q))
		}
	}
}

func TestBuild_DeduplicatesOptions(t *testing.T) {
	books := []corpus.Book{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	c, err := corpus.New(books, []corpus.Paragraph{
		{ID: "p1", Text: "t", BookID: "a", DistractorBookIDs: []string{"b", "b", "a", "c"}},
	})
	if err != nil {
		t.Fatalf("corpus.New: %v", err)
	}
	q, err := NewBuilder(c, rand.New(rand.NewPCG(7, 7))).Build("p1")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	seen := map[string]bool{}
	for _, o := range q.Options {
		if seen[o.ID] {
			t.Errorf("duplicate option %q", o.ID)
		}
		seen[o.ID] = true
	}
	if len(q.Options) != 3 {
		t.Errorf("len(Options) = %d, want 3", len(q.Options))
	}
}

func TestBuild_UnknownParagraph(t *testing.T) {
	b := NewBuilder(newTestCorpus(t, 1), rand.New(rand.NewPCG(1, 1)))
	_, err := b.Build("nope")
	var upe *corpus.UnknownParagraphError
	if !errors.As(err, &upe) {
		t.Fatalf("error = %v, want UnknownParagraphError", err)
	}
	if upe.ParagraphID != "nope" {
		t.Errorf("ParagraphID = %q, want nope", upe.ParagraphID)
	}
}

func TestBuild_ShuffleIsSeeded(t *testing.T) {
	c := newTestCorpus(t, 10)
	q1, _ := NewBuilder(c, rand.New(rand.NewPCG(3, 4))).Build("p1")
	q2, _ := NewBuilder(c, rand.New(rand.NewPCG(3, 4))).Build("p1")
	for i := range q1.Options {
		if q1.Options[i].ID != q2.Options[i].ID {
			t.Fatalf("same seed produced different order at %d: %q vs %q", i, q1.Options[i].ID, q2.Options[i].ID)
		}
	}
}
