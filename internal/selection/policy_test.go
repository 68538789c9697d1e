package selection

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/abhisek/litguess/internal/progress"
)

func failure(id string, ms int64) progress.FailedQuestion {
	return progress.FailedQuestion{ParagraphID: id, FailedAt: time.UnixMilli(ms)}
}

func newPolicy() *Policy {
	return NewPolicy(rand.New(rand.NewPCG(42, 42)))
}

func TestNext_UnseenFirst(t *testing.T) {
	all := []string{"p1", "p2", "p3"}
	failed := []progress.FailedQuestion{failure("p2", 100)}

	got, tier := newPolicy().Next(all, []string{"p1"}, failed)
	if got != "p3" || tier != TierUnseen {
		t.Errorf("Next = (%q, %s), want (p3, unseen)", got, tier)
	}
}

func TestNext_OldestFailureFirst(t *testing.T) {
	all := []string{"p1", "p2", "p3"}
	failed := []progress.FailedQuestion{failure("p2", 100), failure("p3", 50)}

	got, tier := newPolicy().Next(all, []string{"p1"}, failed)
	if got != "p3" || tier != TierRetry {
		t.Errorf("Next = (%q, %s), want (p3, retry)", got, tier)
	}
}

func TestNext_TiesBreakByID(t *testing.T) {
	all := []string{"a", "b"}
	failed := []progress.FailedQuestion{failure("b", 10), failure("a", 10)}
	got, _ := newPolicy().Next(all, nil, failed)
	if got != "a" {
		t.Errorf("Next = %q, want a", got)
	}
}

func TestNext_Exhausted(t *testing.T) {
	got, tier := newPolicy().Next([]string{"p1", "p2"}, []string{"p1", "p2"}, nil)
	if got != "" || tier != TierNone {
		t.Errorf("Next = (%q, %s), want (\"\", none)", got, tier)
	}

	got, tier = newPolicy().Next(nil, nil, nil)
	if got != "" || tier != TierNone {
		t.Errorf("empty corpus: Next = (%q, %s), want (\"\", none)", got, tier)
	}
}

func TestNext_UnseenIsUniform(t *testing.T) {
	all := []string{"a", "b", "c", "d"}
	p := newPolicy()
	counts := map[string]int{}
	const n = 4000
	for i := 0; i < n; i++ {
		id, _ := p.Next(all, nil, nil)
		counts[id]++
	}
	for _, id := range all {
		// Expected 1000 each; allow a generous margin.
		if counts[id] < 800 || counts[id] > 1200 {
			t.Errorf("paragraph %q picked %d times out of %d", id, counts[id], n)
		}
	}
}

func TestNext_NeverPicksSolved(t *testing.T) {
	all := []string{"a", "b", "c"}
	p := newPolicy()
	for i := 0; i < 200; i++ {
		id, _ := p.Next(all, []string{"b"}, nil)
		if id == "b" {
			t.Fatal("picked a solved paragraph")
		}
	}
}

func TestNext_SkipsFailuresOutsideCorpus(t *testing.T) {
	failed := []progress.FailedQuestion{failure("gone", 1), failure("p1", 5)}
	got, tier := newPolicy().Next([]string{"p1"}, nil, failed)
	if got != "p1" || tier != TierRetry {
		t.Errorf("Next = (%q, %s), want (p1, retry)", got, tier)
	}
}
