package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	From   time.Time // timestamp >= From
	Filter string    // purpose for LLM events, session ID for round events
}

// Round event actions.
const (
	ActionServed   = "served"
	ActionAnswered = "answered"
)

// RoundEventData captures one served question or one answer.
type RoundEventData struct {
	SessionID    string
	Action       string
	ParagraphID  string
	Difficulty   string
	OpenQuestion bool
	// The fields below are only meaningful for ActionAnswered.
	Correct      bool
	ChosenBookID string
	Points       int
	Streak       int
}

// RoundEventRecord is a stored round event.
type RoundEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	RoundEventData
}

// RoundStats aggregates the round event log.
type RoundStats struct {
	Served        int
	Answered      int
	Correct       int
	BestStreak    int
	BestScore     int
	ByDifficulty  map[string]DifficultyStats
	LastAnswerAt  time.Time
	SessionsCount int
}

// DifficultyStats is the answer tally for one difficulty level.
type DifficultyStats struct {
	Answered int
	Correct  int
}

// Accuracy returns the fraction of answers that were correct.
func (s RoundStats) Accuracy() float64 {
	if s.Answered == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Answered)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendRoundEvent records a served question or an answer.
	AppendRoundEvent(ctx context.Context, data RoundEventData) error

	// QueryRoundEvents returns round events, newest first.
	QueryRoundEvents(ctx context.Context, opts QueryOpts) ([]RoundEventRecord, error)

	// RoundStats aggregates every recorded round event.
	RoundStats(ctx context.Context) (*RoundStats, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns a single LLM event, or nil if it doesn't exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	// LLMUsageByPurpose sums token usage per purpose, ordered by purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)

	// LLMUsageByModel sums token usage per model, ordered by model.
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}

// LLMUsageStats is the aggregated usage for one purpose.
type LLMUsageStats struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage is the aggregated usage for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}
