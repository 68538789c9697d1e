package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// KV is a namespaced JSON key/value repository. It satisfies
// progress.Backend: Set merges, leaving keys it is not given untouched.
type KV struct {
	db        *sql.DB
	namespace string
}

// Namespace returns the namespace this repository is scoped to.
func (kv *KV) Namespace() string { return kv.namespace }

// Get returns the stored values for keys. Missing keys are absent from
// the result.
func (kv *KV) Get(ctx context.Context, keys []string) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	query, qargs := entsql.Dialect(dialect.SQLite).
		Select("key", "value").
		From(entsql.Table(kvTable)).
		Where(entsql.And(
			entsql.EQ("namespace", kv.namespace),
			entsql.In("key", args...),
		)).
		Query()

	rows, err := kv.db.QueryContext(ctx, query, qargs...)
	if err != nil {
		return nil, fmt.Errorf("query kv %s: %w", kv.namespace, err)
	}
	defer rows.Close()

	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan kv: %w", err)
		}
		out[k] = json.RawMessage(v)
	}
	return out, rows.Err()
}

// Set upserts values in a single transaction.
func (kv *KV) Set(ctx context.Context, values map[string]json.RawMessage) error {
	if len(values) == 0 {
		return nil
	}

	now := time.Now().UTC()
	ins := entsql.Dialect(dialect.SQLite).
		Insert(kvTable).
		Columns("namespace", "key", "value", "updated_at")
	for k, v := range values {
		if !json.Valid(v) {
			return fmt.Errorf("kv %s: value for %q is not valid JSON", kv.namespace, k)
		}
		ins.Values(kv.namespace, k, string(v), now)
	}
	query, args := ins.
		OnConflict(
			entsql.ConflictColumns("namespace", "key"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := kv.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert kv %s: %w", kv.namespace, err)
	}
	return nil
}

// Keys lists every key stored in the namespace.
func (kv *KV) Keys(ctx context.Context) ([]string, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("key").
		From(entsql.Table(kvTable)).
		Where(entsql.EQ("namespace", kv.namespace)).
		OrderBy("key").
		Query()

	rows, err := kv.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list kv %s: %w", kv.namespace, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan kv key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Clear deletes every key in the namespace.
func (kv *KV) Clear(ctx context.Context) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(kvTable).
		Where(entsql.EQ("namespace", kv.namespace)).
		Query()
	if _, err := kv.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear kv %s: %w", kv.namespace, err)
	}
	return nil
}
