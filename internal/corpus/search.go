package corpus

import "strings"

// MaxSearchResults caps the number of books returned by Search.
const MaxSearchResults = 10

type searchEntry struct {
	book   *Book
	title  string
	author string
}

func buildSearchIndex(books []Book) []searchEntry {
	idx := make([]searchEntry, len(books))
	for i := range books {
		idx[i] = searchEntry{
			book:   &books[i],
			title:  Normalize(books[i].Title),
			author: Normalize(books[i].Author),
		}
	}
	return idx
}

var foldReplacer = strings.NewReplacer("ё", "е", "Ё", "е")

// Normalize lowercases s and folds "ё" to "е" so that queries typed
// without diacritics still match.
func Normalize(s string) string {
	return strings.ToLower(foldReplacer.Replace(s))
}

// Search returns up to MaxSearchResults books whose title or author
// contains query, in declaration order. A blank query matches nothing.
// Surrounding whitespace is part of the match, so "war " does not match
// a title ending in "War".
func (c *Corpus) Search(query string) []Book {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	q := Normalize(query)
	var out []Book
	for _, e := range c.searchIndex {
		if strings.Contains(e.title, q) || strings.Contains(e.author, q) {
			out = append(out, *e.book)
			if len(out) == MaxSearchResults {
				break
			}
		}
	}
	return out
}
