// Package corpus holds the immutable set of books and excerpts the game
// draws its questions from.
package corpus

// Difficulty grades how recognizable an excerpt is.
type Difficulty string

const (
	DifficultyVeryEasy Difficulty = "VERY_EASY"
	DifficultyEasy     Difficulty = "EASY"
	DifficultyMedium   Difficulty = "MEDIUM"
	DifficultyHard     Difficulty = "HARD"
)

// AllDifficulties returns the difficulty levels from easiest to hardest.
func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyVeryEasy, DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// IsOpen reports whether questions at this difficulty are answered by
// free-text search instead of picking from the option list.
func (d Difficulty) IsOpen() bool {
	return d == DifficultyVeryEasy || d == DifficultyEasy
}

// Valid reports whether d is one of the known difficulty levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyVeryEasy, DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Book is a work that can appear as an answer option.
type Book struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// Paragraph is an excerpt from a book together with the books offered
// as wrong answers next to it.
type Paragraph struct {
	ID                string     `json:"id"`
	Text              string     `json:"text"`
	BookID            string     `json:"bookId"`
	DistractorBookIDs []string   `json:"distractorBookIds"`
	Difficulty        Difficulty `json:"difficulty,omitempty"`
}

// Corpus is a validated, read-only collection of books and paragraphs.
// All lookups are safe for concurrent use.
type Corpus struct {
	version     string
	books       []Book
	paragraphs  []Paragraph
	bookByID    map[string]*Book
	paraByID    map[string]*Paragraph
	searchIndex []searchEntry
}

// New builds a Corpus from books and paragraphs, checking that every
// reference resolves. Paragraphs without a difficulty default to MEDIUM.
func New(books []Book, paragraphs []Paragraph) (*Corpus, error) {
	return build(File{Version: SupportedVersion, Books: books, Paragraphs: paragraphs})
}

func build(f File) (*Corpus, error) {
	if err := validateIntegrity(f); err != nil {
		return nil, err
	}

	c := &Corpus{
		version:    f.Version,
		books:      append([]Book(nil), f.Books...),
		paragraphs: make([]Paragraph, len(f.Paragraphs)),
		bookByID:   make(map[string]*Book, len(f.Books)),
		paraByID:   make(map[string]*Paragraph, len(f.Paragraphs)),
	}
	for i := range c.books {
		c.bookByID[c.books[i].ID] = &c.books[i]
	}
	for i, p := range f.Paragraphs {
		if p.Difficulty == "" {
			p.Difficulty = DifficultyMedium
		}
		p.DistractorBookIDs = append([]string(nil), p.DistractorBookIDs...)
		c.paragraphs[i] = p
		c.paraByID[p.ID] = &c.paragraphs[i]
	}
	c.searchIndex = buildSearchIndex(c.books)
	return c, nil
}

// Version returns the format version the corpus was loaded from.
func (c *Corpus) Version() string { return c.version }

// Books returns all books in declaration order.
func (c *Corpus) Books() []Book {
	return append([]Book(nil), c.books...)
}

// Paragraphs returns all paragraphs in declaration order.
func (c *Corpus) Paragraphs() []Paragraph {
	out := make([]Paragraph, len(c.paragraphs))
	for i, p := range c.paragraphs {
		p.DistractorBookIDs = append([]string(nil), p.DistractorBookIDs...)
		out[i] = p
	}
	return out
}

// ParagraphIDs returns every paragraph ID in declaration order.
func (c *Corpus) ParagraphIDs() []string {
	ids := make([]string, len(c.paragraphs))
	for i, p := range c.paragraphs {
		ids[i] = p.ID
	}
	return ids
}

// Book looks up a book by ID.
func (c *Corpus) Book(id string) (Book, error) {
	b, ok := c.bookByID[id]
	if !ok {
		return Book{}, &UnknownBookError{BookID: id}
	}
	return *b, nil
}

// Paragraph looks up a paragraph by ID.
func (c *Corpus) Paragraph(id string) (Paragraph, error) {
	p, ok := c.paraByID[id]
	if !ok {
		return Paragraph{}, &UnknownParagraphError{ParagraphID: id}
	}
	out := *p
	out.DistractorBookIDs = append([]string(nil), p.DistractorBookIDs...)
	return out, nil
}

// NumParagraphs returns the number of paragraphs.
func (c *Corpus) NumParagraphs() int { return len(c.paragraphs) }
