package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// attemptRepo implements AttemptRepo with the ent SQL builder over database/sql.
type attemptRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *attemptRepo) Record(ctx context.Context, a *AttemptData) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	if a.Sequence == 0 {
		seq, err := r.seq.Next(ctx)
		if err != nil {
			return err
		}
		a.Sequence = seq
	}

	mismatched := a.Mismatched
	if mismatched == nil {
		mismatched = []string{}
	}
	blob, err := json.Marshal(mismatched)
	if err != nil {
		return fmt.Errorf("marshal mismatched: %w", err)
	}

	query, args := builder.Insert(tableAttempts).
		Columns("id", "sequence", "session_id", "drill_id", "player", "family", "question_id",
			"penalty", "correct", "delta", "score", "mismatched", "created_at").
		Values(a.ID, a.Sequence, a.SessionID, a.DrillID, a.Player, a.Family, a.QuestionID,
			boolInt(a.Penalty), boolInt(a.Correct), a.Delta, a.Score, string(blob), a.CreatedAt.UnixMilli()).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save attempt: %w", err)
	}
	return nil
}

func (r *attemptRepo) ForSession(ctx context.Context, sessionID string) ([]AttemptData, error) {
	query, args := builder.Select("id", "sequence", "session_id", "drill_id", "player", "family",
		"question_id", "penalty", "correct", "delta", "score", "mismatched", "created_at").
		From(builder.Table(tableAttempts)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy(entsql.Asc("sequence")).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []AttemptData
	for rows.Next() {
		var (
			a                AttemptData
			penalty, correct int
			blob             string
			ms               int64
		)
		err := rows.Scan(&a.ID, &a.Sequence, &a.SessionID, &a.DrillID, &a.Player, &a.Family,
			&a.QuestionID, &penalty, &correct, &a.Delta, &a.Score, &blob, &ms)
		if err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		if err := json.Unmarshal([]byte(blob), &a.Mismatched); err != nil {
			return nil, fmt.Errorf("unmarshal mismatched: %w", err)
		}
		a.Penalty = penalty != 0
		a.Correct = correct != 0
		a.CreatedAt = time.UnixMilli(ms)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *attemptRepo) Stats(ctx context.Context, sessionID string) (AttemptStats, error) {
	attempts, err := r.ForSession(ctx, sessionID)
	if err != nil {
		return AttemptStats{}, err
	}

	stats := AttemptStats{ByFamily: make(map[string]FamilyStats)}
	for _, a := range attempts {
		stats.Total++
		fs := stats.ByFamily[a.Family]
		fs.Total++
		if a.Correct {
			stats.Correct++
			fs.Correct++
		}
		if a.Penalty {
			stats.Penalties++
		}
		stats.ByFamily[a.Family] = fs
	}
	return stats, nil
}
