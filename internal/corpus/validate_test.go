package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validDoc = `{
  "version": "v1.2.0",
  "books": [
    {"id": "b1", "title": "One", "author": "A"},
    {"id": "b2", "title": "Two", "author": "B"}
  ],
  "paragraphs": [
    {"id": "p1", "text": "Some text.", "bookId": "b1", "distractorBookIds": ["b2"], "difficulty": "EASY"}
  ]
}`

func TestParse_Valid(t *testing.T) {
	c, err := Parse([]byte(validDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.NumParagraphs() != 1 {
		t.Errorf("NumParagraphs() = %d, want 1", c.NumParagraphs())
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "bad json",
			doc:     `{"version":`,
			wantErr: "invalid corpus JSON",
		},
		{
			name:    "missing books",
			doc:     `{"version": "v1.0.0", "paragraphs": []}`,
			wantErr: "corpus schema",
		},
		{
			name:    "unknown difficulty",
			doc:     strings.Replace(validDoc, `"EASY"`, `"TRIVIAL"`, 1),
			wantErr: "corpus schema",
		},
		{
			name:    "invalid version",
			doc:     strings.Replace(validDoc, `"v1.2.0"`, `"one"`, 1),
			wantErr: "not a valid semantic version",
		},
		{
			name:    "future major version",
			doc:     strings.Replace(validDoc, `"v1.2.0"`, `"v2.0.0"`, 1),
			wantErr: "not supported",
		},
		{
			name:    "dangling book",
			doc:     strings.Replace(validDoc, `["b2"]`, `["b9"]`, 1),
			wantErr: `unknown book "b9"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.json")
	if err := os.WriteFile(path, []byte(validDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Version() != "v1.2.0" {
		t.Errorf("Version() = %q, want v1.2.0", c.Version())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
