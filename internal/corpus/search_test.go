package corpus

import "testing"

func TestSearch(t *testing.T) {
	books := []Book{
		{ID: "b1", Title: "Ёлка", Author: "Фёдор Достоевский"},
		{ID: "b2", Title: "War and Peace", Author: "Leo Tolstoy"},
		{ID: "b3", Title: "Anna Karenina", Author: "Leo Tolstoy"},
	}
	c, err := New(books, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"", nil},
		{"   ", nil},
		{"TOLSTOY", []string{"b2", "b3"}},
		{"peace", []string{"b2"}},
		{"елка", []string{"b1"}},
		{"федор", []string{"b1"}},
		{"zzz", nil},
		{"war ", []string{"b2"}},
		{"peace ", nil},
		{" anna", nil},
	}
	for _, tt := range tests {
		got := c.Search(tt.query)
		if len(got) != len(tt.want) {
			t.Errorf("Search(%q) returned %d books, want %d", tt.query, len(got), len(tt.want))
			continue
		}
		for i := range got {
			if got[i].ID != tt.want[i] {
				t.Errorf("Search(%q)[%d] = %q, want %q", tt.query, i, got[i].ID, tt.want[i])
			}
		}
	}
}

func TestSearch_CapsResults(t *testing.T) {
	var books []Book
	for i := 0; i < MaxSearchResults+5; i++ {
		books = append(books, Book{ID: string(rune('a' + i)), Title: "Same Title", Author: "X"})
	}
	c, err := New(books, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := len(c.Search("same")); got != MaxSearchResults {
		t.Errorf("len(Search) = %d, want %d", got, MaxSearchResults)
	}
}
