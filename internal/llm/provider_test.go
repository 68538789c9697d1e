package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

var suggestionSchema = &Schema{
	Name: "test-suggestions",
	Definition: map[string]any{
		"type":     "object",
		"required": []string{"distractorBookIds"},
		"properties": map[string]any{
			"distractorBookIds": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"maxItems": 3,
			},
		},
	},
}

func TestMockProvider_ReplaysInOrder(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"n":1}`), Usage: newUsage(10, 5)},
		MockResponse{Content: json.RawMessage(`{"n":2}`)},
	)
	ctx := context.Background()

	first, err := mock.Generate(ctx, UserPrompt("sys", "first"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if string(first.Content) != `{"n":1}` || first.Usage.TotalTokens != 15 || first.StopReason != StopEnd {
		t.Errorf("first = %+v", first)
	}
	second, err := mock.Generate(ctx, UserPrompt("sys", "second"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if string(second.Content) != `{"n":2}` {
		t.Errorf("second content = %s", second.Content)
	}

	calls := mock.Calls()
	if len(calls) != 2 || calls[1].Messages[0].Content != "second" {
		t.Errorf("calls = %+v", calls)
	}
}

func TestMockProvider_Exhausted(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavailable *ErrProviderUnavailable
	if !errors.As(err, &unavailable) {
		t.Fatalf("err = %v, want ErrProviderUnavailable", err)
	}
	mock.Push(MockResponse{Content: json.RawMessage(`"ok"`)})
	if _, err := mock.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("after Push: %v", err)
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"valid", `{"distractorBookIds":["a","b"]}`, false},
		{"empty list", `{"distractorBookIds":[]}`, false},
		{"missing field", `{}`, true},
		{"wrong type", `{"distractorBookIds":"a"}`, true},
		{"too many", `{"distractorBookIds":["a","b","c","d"]}`, true},
		{"not json", `distractors: a, b`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(suggestionSchema, json.RawMessage(tt.content))
			if tt.wantErr {
				var invalid *ErrInvalidResponse
				if !errors.As(err, &invalid) {
					t.Fatalf("err = %v, want ErrInvalidResponse", err)
				}
				if string(invalid.Content) != tt.content {
					t.Errorf("Content = %s", invalid.Content)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestFinish_TruncatedStructuredOutput(t *testing.T) {
	req := Request{Schema: suggestionSchema}
	_, err := finish(req, json.RawMessage(`{"distractorBookIds":["a"`), Usage{}, "m", StopMaxTokens)
	var truncated *ErrMaxTokensExceeded
	if !errors.As(err, &truncated) {
		t.Fatalf("err = %v, want ErrMaxTokensExceeded", err)
	}

	// Plain text responses are returned even when cut off.
	resp, err := finish(Request{}, json.RawMessage(`partial`), Usage{}, "m", StopMaxTokens)
	if err != nil || resp.StopReason != StopMaxTokens {
		t.Errorf("finish = (%+v, %v)", resp, err)
	}
}

func TestResolveModel(t *testing.T) {
	if got := resolveModel("claude-haiku", anthropicAliases); got != "claude-haiku-4-5-20251001" {
		t.Errorf("alias resolved to %q", got)
	}
	if got := resolveModel("claude-opus-4-1", anthropicAliases); got != "claude-opus-4-1" {
		t.Errorf("full ID changed to %q", got)
	}
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gpt-4o-mini")
	if c == nil {
		t.Fatal("gpt-4o-mini not priced")
	}
	if got := c.Cost(1_000_000, 1_000_000); got != 0.75 {
		t.Errorf("Cost = %v, want 0.75", got)
	}
	if LookupCost("no-such-model") != nil {
		t.Error("unknown model has a price")
	}
}
