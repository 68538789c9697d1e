package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendRoundEvent(ctx context.Context, data RoundEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(roundEventsTable).
		Columns("sequence", "timestamp", "session_id", "action", "paragraph_id",
			"difficulty", "open_question", "correct", "chosen_book_id", "points", "streak").
		Values(seqNum, time.Now().UTC(), data.SessionID, data.Action, data.ParagraphID,
			data.Difficulty, data.OpenQuestion, data.Correct, data.ChosenBookID, data.Points, data.Streak).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save round event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryRoundEvents(ctx context.Context, opts QueryOpts) ([]RoundEventRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("id", "sequence", "timestamp", "session_id", "action", "paragraph_id",
			"difficulty", "open_question", "correct", "chosen_book_id", "points", "streak").
		From(entsql.Table(roundEventsTable)).
		OrderBy(entsql.Desc("sequence"))
	applyQueryOpts(sel, opts, "session_id")

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query round events: %w", err)
	}
	defer rows.Close()

	var out []RoundEventRecord
	for rows.Next() {
		var e RoundEventRecord
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp, &e.SessionID, &e.Action,
			&e.ParagraphID, &e.Difficulty, &e.OpenQuestion, &e.Correct, &e.ChosenBookID,
			&e.Points, &e.Streak); err != nil {
			return nil, fmt.Errorf("scan round event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepo) RoundStats(ctx context.Context) (*RoundStats, error) {
	stats := &RoundStats{ByDifficulty: make(map[string]DifficultyStats)}

	query, args := entsql.Dialect(dialect.SQLite).
		Select("action", "difficulty",
			entsql.As(entsql.Count("*"), "events"),
			entsql.As(entsql.Sum("correct"), "correct"),
			entsql.As(entsql.Max("streak"), "streak")).
		From(entsql.Table(roundEventsTable)).
		GroupBy("action", "difficulty").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query round totals: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			action, difficulty      string
			events, correct, streak int
		)
		if err := rows.Scan(&action, &difficulty, &events, &correct, &streak); err != nil {
			return nil, fmt.Errorf("scan round totals: %w", err)
		}
		if action == ActionServed {
			stats.Served += events
			continue
		}
		stats.Answered += events
		stats.Correct += correct
		stats.BestStreak = max(stats.BestStreak, streak)
		ds := stats.ByDifficulty[difficulty]
		ds.Answered += events
		ds.Correct += correct
		stats.ByDifficulty[difficulty] = ds
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// One row per run, then the best of them.
	runs := entsql.Dialect(dialect.SQLite).
		Select(entsql.As(entsql.Sum("points"), "total")).
		From(entsql.Table(roundEventsTable)).
		GroupBy("session_id").
		As("runs")
	query, args = entsql.Dialect(dialect.SQLite).
		Select(entsql.Count("*"), entsql.Max("total")).
		From(runs).
		Query()
	var best sql.NullInt64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&stats.SessionsCount, &best); err != nil {
		return nil, fmt.Errorf("query run scores: %w", err)
	}
	stats.BestScore = int(best.Int64)

	query, args = entsql.Dialect(dialect.SQLite).
		Select("timestamp").
		From(entsql.Table(roundEventsTable)).
		Where(entsql.EQ("action", ActionAnswered)).
		OrderBy(entsql.Desc("sequence")).
		Limit(1).
		Query()
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&stats.LastAnswerAt)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("query last answer: %w", err)
	}
	return stats, nil
}

// applyQueryOpts adds the filters shared by every event query.
func applyQueryOpts(sel *entsql.Selector, opts QueryOpts, filterColumn string) {
	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", opts.From.UTC()))
	}
	if opts.Filter != "" {
		preds = append(preds, entsql.EQ(filterColumn, opts.Filter))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
}
