// Package selection decides which paragraph the player sees next.
package selection

import (
	"math/rand/v2"
	"slices"
	"strings"
	"sync"

	"github.com/abhisek/litguess/internal/progress"
)

// Tier identifies which rule produced a pick.
type Tier int

const (
	// TierNone means every paragraph is solved.
	TierNone Tier = iota
	// TierUnseen is a paragraph never answered before.
	TierUnseen
	// TierRetry is a previously failed paragraph.
	TierRetry
)

func (t Tier) String() string {
	switch t {
	case TierUnseen:
		return "unseen"
	case TierRetry:
		return "retry"
	default:
		return "none"
	}
}

// Policy picks paragraphs in two tiers: unseen paragraphs first, chosen
// uniformly at random, then failed paragraphs oldest failure first. It is
// safe for concurrent use.
type Policy struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewPolicy returns a Policy drawing from rng.
func NewPolicy(rng *rand.Rand) *Policy {
	return &Policy{rng: rng}
}

// Next returns the paragraph to serve and the tier it came from, or
// ("", TierNone) when nothing is left.
func (p *Policy) Next(all []string, solved []string, failed []progress.FailedQuestion) (string, Tier) {
	seen := make(map[string]bool, len(solved)+len(failed))
	for _, id := range solved {
		seen[id] = true
	}
	for _, f := range failed {
		seen[f.ParagraphID] = true
	}

	var unseen []string
	for _, id := range all {
		if !seen[id] {
			unseen = append(unseen, id)
		}
	}
	if len(unseen) > 0 {
		p.mu.Lock()
		i := p.rng.IntN(len(unseen))
		p.mu.Unlock()
		return unseen[i], TierUnseen
	}

	// Records for paragraphs no longer in the corpus are skipped.
	known := make(map[string]bool, len(all))
	for _, id := range all {
		known[id] = true
	}
	retry := slices.DeleteFunc(slices.Clone(failed), func(f progress.FailedQuestion) bool {
		return !known[f.ParagraphID]
	})
	if len(retry) == 0 {
		return "", TierNone
	}

	oldest := slices.MinFunc(retry, func(a, b progress.FailedQuestion) int {
		if c := a.FailedAt.Compare(b.FailedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ParagraphID, b.ParagraphID)
	})
	return oldest.ParagraphID, TierRetry
}
