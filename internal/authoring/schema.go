package authoring

import (
	"github.com/abhisek/litguess/internal/llm"
	"github.com/abhisek/litguess/internal/question"
)

// SuggestionSchema is the shape of the model's answer.
var SuggestionSchema = &llm.Schema{
	Name:        "distractor-suggestions",
	Description: "Books that a reader could plausibly confuse with the true source of an excerpt",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"distractorBookIds": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"maxItems":    question.MaxOptions - 1,
				"description": "Ids from the catalog, most convincing first",
			},
			"difficulty": map[string]any{
				"type":        "string",
				"enum":        []any{"VERY_EASY", "EASY", "MEDIUM", "HARD"},
				"description": "How recognizable the excerpt is to a well-read adult",
			},
			"rationale": map[string]any{
				"type":        "string",
				"description": "One or two sentences on why these books are good decoys",
			},
		},
		"required":             []any{"distractorBookIds", "difficulty", "rationale"},
		"additionalProperties": false,
	},
}
