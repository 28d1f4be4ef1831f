package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo backed by the global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder.Insert(tableLLMRequests).
		Columns("sequence", "provider", "model", "purpose", "input_tokens", "output_tokens",
			"latency_ms", "success", "error_message", "request_body", "response_body", "created_at").
		Values(seqNum, data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens,
			data.LatencyMs, boolInt(data.Success), data.ErrorMessage, data.RequestBody, data.ResponseBody,
			time.Now().UnixMilli()).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) CountLLMRequests(ctx context.Context) (int, error) {
	query, args := builder.Select(entsql.Count("*")).From(builder.Table(tableLLMRequests)).Query()

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count LLM requests: %w", err)
	}
	return n, nil
}

const llmColumns = "sequence, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, request_body, response_body, created_at"

func scanLLMRequest(row interface{ Scan(...any) error }) (LLMRequestEvent, error) {
	var (
		e       LLMRequestEvent
		success int
		ms      int64
	)
	err := row.Scan(&e.Sequence, &e.Provider, &e.Model, &e.Purpose, &e.InputTokens, &e.OutputTokens,
		&e.LatencyMs, &success, &e.ErrorMessage, &e.RequestBody, &e.ResponseBody, &ms)
	e.Success = success == 1
	e.Timestamp = time.UnixMilli(ms)
	return e, err
}

func (r *eventRepo) QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	sel := builder.Select(strings.Split(llmColumns, ", ")...).
		From(builder.Table(tableLLMRequests)).
		OrderBy(entsql.Desc("sequence"))
	if opts.Purpose != "" {
		sel = sel.Where(entsql.EQ("purpose", opts.Purpose))
	}
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM requests: %w", err)
	}
	defer rows.Close()

	var out []LLMRequestEvent
	for rows.Next() {
		e, err := scanLLMRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan LLM request: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepo) GetLLMRequest(ctx context.Context, sequence int64) (*LLMRequestEvent, error) {
	query, args := builder.Select(strings.Split(llmColumns, ", ")...).
		From(builder.Table(tableLLMRequests)).
		Where(entsql.EQ("sequence", sequence)).
		Query()

	e, err := scanLLMRequest(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get LLM request %d: %w", sequence, err)
	}
	return &e, nil
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]ModelUsage, error) {
	query, args := builder.Select(
		"model",
		entsql.As(entsql.Count("*"), "calls"),
		entsql.As(entsql.Sum("input_tokens"), "input"),
		entsql.As(entsql.Sum("output_tokens"), "output"),
		entsql.As("CAST(AVG(latency_ms) AS INTEGER)", "avg_ms"),
	).
		From(builder.Table(tableLLMRequests)).
		GroupBy("model").
		OrderBy(entsql.Desc("calls"), "model").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM usage: %w", err)
	}
	defer rows.Close()

	var out []ModelUsage
	for rows.Next() {
		var u ModelUsage
		if err := rows.Scan(&u.Model, &u.Calls, &u.InputTokens, &u.OutputTokens, &u.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan LLM usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
