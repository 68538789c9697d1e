package progress

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// wireFailure is the persisted shape of a FailedQuestion. FailedAt is
// Unix milliseconds.
type wireFailure struct {
	ParagraphID string `json:"paragraphId"`
	FailedAt    int64  `json:"failedAt"`
}

// Encode serializes the requested fields of s. Unrequested fields are
// absent from the result so that a backend merge leaves them untouched.
func Encode(s State, keys ...Key) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(keys))
	for _, k := range keys {
		var v any
		switch k {
		case KeySolved:
			ids := s.SolvedParagraphIDs
			if ids == nil {
				ids = []string{}
			}
			v = ids
		case KeyFailed:
			wf := make([]wireFailure, len(s.FailedQuestions))
			for i, f := range s.FailedQuestions {
				wf[i] = wireFailure{ParagraphID: f.ParagraphID, FailedAt: f.FailedAt.UnixMilli()}
			}
			v = wf
		case KeyQuestionCount:
			v = s.QuestionCount
		default:
			return nil, fmt.Errorf("unknown progress key %q", k)
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", k, err)
		}
		out[string(k)] = raw
	}
	return out, nil
}

// Decode rebuilds a State from persisted values. Missing or malformed
// fields fall back to their empty default independently of each other.
// The returned slice lists the keys that were present but rejected.
func Decode(values map[string]json.RawMessage) (State, []Key) {
	var (
		s   State
		bad []Key
	)

	if raw, ok := present(values, KeySolved); ok {
		ids, ok := decodeSolved(raw)
		if ok {
			s.SolvedParagraphIDs = ids
		} else {
			bad = append(bad, KeySolved)
		}
	}

	if raw, ok := present(values, KeyFailed); ok {
		failed, ok := decodeFailed(raw)
		if ok {
			s.FailedQuestions = failed
		} else {
			bad = append(bad, KeyFailed)
		}
	}

	if raw, ok := present(values, KeyQuestionCount); ok {
		n, ok := decodeCount(raw)
		if ok {
			s.QuestionCount = n
		} else {
			bad = append(bad, KeyQuestionCount)
		}
	}

	// Solved wins over failed if storage ever disagrees.
	for _, id := range s.SolvedParagraphIDs {
		s.MarkSolved(id)
	}
	return s, bad
}

func present(values map[string]json.RawMessage, k Key) (json.RawMessage, bool) {
	raw, ok := values[string(k)]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return nil, false
	}
	return raw, true
}

func decodeSolved(raw json.RawMessage) ([]string, bool) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, false
	}
	seen := make(map[string]bool, len(elems))
	ids := make([]string, 0, len(elems))
	for _, e := range elems {
		var id string
		if err := json.Unmarshal(e, &id); err != nil || id == "" {
			return nil, false
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, true
}

func decodeFailed(raw json.RawMessage) ([]FailedQuestion, bool) {
	var elems []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, false
	}
	var s State
	for _, e := range elems {
		var id string
		if err := json.Unmarshal(e["paragraphId"], &id); err != nil || id == "" {
			return nil, false
		}
		var ms float64
		if err := json.Unmarshal(e["failedAt"], &ms); err != nil || ms < 0 || math.IsInf(ms, 0) {
			return nil, false
		}
		at := time.UnixMilli(int64(ms))
		// Duplicate records collapse to the most recent failure.
		if prev, ok := s.Failure(id); ok && prev.FailedAt.After(at) {
			continue
		}
		s.MarkFailed(id, at)
	}
	return s.FailedQuestions, true
}

func decodeCount(raw json.RawMessage) (int, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	if f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
