package store

import (
	"context"
	"encoding/json"
	"testing"
)

func TestKV_SetMergesAndNamespaces(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	alice, bob := s.KV("alice"), s.KV("bob")

	if err := alice.Set(ctx, map[string]json.RawMessage{
		"questionCount":      json.RawMessage(`3`),
		"solvedParagraphIds": json.RawMessage(`["p1"]`),
	}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := alice.Set(ctx, map[string]json.RawMessage{"questionCount": json.RawMessage(`4`)}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := bob.Set(ctx, map[string]json.RawMessage{"questionCount": json.RawMessage(`99`)}); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := alice.Get(ctx, []string{"questionCount", "solvedParagraphIds", "missing"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got["questionCount"]) != "4" {
		t.Errorf("questionCount = %s, want 4", got["questionCount"])
	}
	if string(got["solvedParagraphIds"]) != `["p1"]` {
		t.Errorf("solvedParagraphIds = %s, want [\"p1\"]", got["solvedParagraphIds"])
	}
	if _, ok := got["missing"]; ok {
		t.Error("missing key should be absent")
	}

	keys, err := alice.Keys(ctx)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("Keys() = %v, want 2 keys", keys)
	}
}

func TestKV_RejectsInvalidJSON(t *testing.T) {
	s := openTestStore(t)
	err := s.KV("x").Set(context.Background(), map[string]json.RawMessage{"k": json.RawMessage(`{`)})
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestKV_Clear(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	kv := s.KV("x")
	if err := kv.Set(ctx, map[string]json.RawMessage{"k": json.RawMessage(`1`)}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, err := kv.Get(ctx, []string{"k"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Get after Clear = %v, want empty", got)
	}
}
