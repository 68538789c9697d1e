package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	kvTable          = "kv_entries"
	roundEventsTable = "round_events"
	llmEventsTable   = "llm_request_events"
)

var (
	kvColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "namespace", Type: field.TypeString},
		{Name: "key", Type: field.TypeString},
		{Name: "value", Type: field.TypeString, Size: 2147483647},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// KVEntriesTable holds one JSON value per (namespace, key).
	KVEntriesTable = &schema.Table{
		Name:       kvTable,
		Columns:    kvColumns,
		PrimaryKey: []*schema.Column{kvColumns[0]},
		Indexes: []*schema.Index{
			{Name: "kventry_namespace_key", Unique: true, Columns: []*schema.Column{kvColumns[1], kvColumns[2]}},
		},
	}

	roundEventColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString},
		{Name: "action", Type: field.TypeString},
		{Name: "paragraph_id", Type: field.TypeString},
		{Name: "difficulty", Type: field.TypeString},
		{Name: "open_question", Type: field.TypeBool, Default: false},
		{Name: "correct", Type: field.TypeBool, Default: false},
		{Name: "chosen_book_id", Type: field.TypeString, Default: ""},
		{Name: "points", Type: field.TypeInt, Default: 0},
		{Name: "streak", Type: field.TypeInt, Default: 0},
	}
	// RoundEventsTable records every served question and every answer.
	RoundEventsTable = &schema.Table{
		Name:       roundEventsTable,
		Columns:    roundEventColumns,
		PrimaryKey: []*schema.Column{roundEventColumns[0]},
		Indexes: []*schema.Index{
			{Name: "roundevent_timestamp", Columns: []*schema.Column{roundEventColumns[2]}},
			{Name: "roundevent_session_id", Columns: []*schema.Column{roundEventColumns[3]}},
			{Name: "roundevent_paragraph_id", Columns: []*schema.Column{roundEventColumns[5]}},
		},
	}

	llmEventColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	// LLMRequestEventsTable records every LLM API call made by the
	// authoring tools.
	LLMRequestEventsTable = &schema.Table{
		Name:       llmEventsTable,
		Columns:    llmEventColumns,
		PrimaryKey: []*schema.Column{llmEventColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmEventColumns[5]}},
		},
	}

	// Tables lists every table managed by the migration.
	Tables = []*schema.Table{
		KVEntriesTable,
		RoundEventsTable,
		LLMRequestEventsTable,
	}
)
