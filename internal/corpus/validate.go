package corpus

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
)

// SupportedVersion is the newest corpus format this build understands.
// Files are accepted when their major version matches.
const SupportedVersion = "v1.0.0"

const schemaURL = "schema://litguess/corpus.json"

var corpusSchema = map[string]any{
	"type":     "object",
	"required": []any{"version", "books", "paragraphs"},
	"properties": map[string]any{
		"version": map[string]any{"type": "string", "minLength": 1},
		"books": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"required":             []any{"id", "title", "author"},
				"additionalProperties": false,
				"properties": map[string]any{
					"id":     map[string]any{"type": "string", "minLength": 1},
					"title":  map[string]any{"type": "string", "minLength": 1},
					"author": map[string]any{"type": "string"},
				},
			},
		},
		"paragraphs": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"required":             []any{"id", "text", "bookId", "distractorBookIds"},
				"additionalProperties": false,
				"properties": map[string]any{
					"id":     map[string]any{"type": "string", "minLength": 1},
					"text":   map[string]any{"type": "string", "minLength": 1},
					"bookId": map[string]any{"type": "string", "minLength": 1},
					"distractorBookIds": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"difficulty": map[string]any{
						"enum": []any{"VERY_EASY", "EASY", "MEDIUM", "HARD"},
					},
				},
			},
		},
	},
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, corpusSchema); err != nil {
		return nil, fmt.Errorf("add corpus schema: %w", err)
	}
	return c.Compile(schemaURL)
})

// validateDocument checks the raw JSON document against the corpus schema.
func validateDocument(data []byte) error {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("invalid corpus JSON: %w", err)
	}
	sch, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile corpus schema: %w", err)
	}
	if err := sch.Validate(parsed); err != nil {
		return fmt.Errorf("corpus schema: %w", err)
	}
	return nil
}

func checkVersion(v string) error {
	if !semver.IsValid(v) {
		return fmt.Errorf("corpus version %q is not a valid semantic version", v)
	}
	if semver.Major(v) != semver.Major(SupportedVersion) {
		return fmt.Errorf("corpus version %s is not supported (want %s.x.x)", v, semver.Major(SupportedVersion))
	}
	return nil
}

// validateIntegrity performs the structural checks that a schema cannot
// express. It reports every problem found, not just the first.
func validateIntegrity(f File) error {
	var (
		problems []string
		missing  []*UnknownBookError
	)

	books := make(map[string]bool, len(f.Books))
	for _, b := range f.Books {
		if b.ID == "" {
			problems = append(problems, fmt.Sprintf("book %q has an empty id", b.Title))
			continue
		}
		if books[b.ID] {
			problems = append(problems, fmt.Sprintf("duplicate book id: %q", b.ID))
		}
		books[b.ID] = true
	}

	ref := func(paragraphID, bookID string) {
		if books[bookID] {
			return
		}
		e := &UnknownBookError{BookID: bookID, ParagraphID: paragraphID}
		missing = append(missing, e)
		problems = append(problems, e.Error())
	}

	paras := make(map[string]bool, len(f.Paragraphs))
	for _, p := range f.Paragraphs {
		if p.ID == "" {
			problems = append(problems, "paragraph with an empty id")
			continue
		}
		if paras[p.ID] {
			problems = append(problems, fmt.Sprintf("duplicate paragraph id: %q", p.ID))
		}
		paras[p.ID] = true

		if strings.TrimSpace(p.Text) == "" {
			problems = append(problems, fmt.Sprintf("paragraph %q has no text", p.ID))
		}
		if p.Difficulty != "" && !p.Difficulty.Valid() {
			problems = append(problems, fmt.Sprintf("paragraph %q has unknown difficulty %q", p.ID, p.Difficulty))
		}
		ref(p.ID, p.BookID)
		for _, d := range p.DistractorBookIDs {
			ref(p.ID, d)
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems, Missing: missing}
	}
	return nil
}
