package authoring

import (
	"fmt"
	"strings"

	"github.com/abhisek/litguess/internal/corpus"
)

const systemPrompt = `You help curate a literature quiz. Players read a short excerpt and pick the book it comes from.

Rules:
- Propose distractor books for the excerpt, chosen only from the catalog you are given. Answer with catalog ids, never titles.
- Good distractors share era, genre, language of origin or style with the true book, so a casual reader could hesitate.
- Never propose the true book or a book that is already a distractor.
- Order the ids from most to least convincing.
- Grade the excerpt: VERY_EASY if it is a famous opening or quotation, EASY if the characters or setting give it away, MEDIUM if a fan would know it, HARD otherwise.`

// buildUserMessage renders the excerpt, its current answer set and the
// candidate catalog.
func buildUserMessage(p corpus.Paragraph, answer corpus.Book, catalog []corpus.Book, count int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Excerpt:\n%s\n\n", p.Text)
	fmt.Fprintf(&b, "True book: %s\n", describe(answer))
	if len(p.DistractorBookIDs) == 0 {
		b.WriteString("Current distractors: none\n")
	} else {
		fmt.Fprintf(&b, "Current distractors: %s\n", strings.Join(p.DistractorBookIDs, ", "))
	}
	fmt.Fprintf(&b, "Propose up to %d new distractors.\n", count)

	b.WriteString("\nCatalog:\n")
	for _, book := range catalog {
		fmt.Fprintf(&b, "- %s\n", describe(book))
	}
	return strings.TrimRight(b.String(), "\n")
}

func describe(b corpus.Book) string {
	if b.Author == "" {
		return fmt.Sprintf("%s: %s", b.ID, b.Title)
	}
	return fmt.Sprintf("%s: %s by %s", b.ID, b.Title, b.Author)
}

// candidates lists the books that may be proposed for p, capped at max.
func candidates(c *corpus.Corpus, p corpus.Paragraph, max int) []corpus.Book {
	taken := map[string]bool{p.BookID: true}
	for _, id := range p.DistractorBookIDs {
		taken[id] = true
	}
	var out []corpus.Book
	for _, b := range c.Books() {
		if taken[b.ID] {
			continue
		}
		out = append(out, b)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}
