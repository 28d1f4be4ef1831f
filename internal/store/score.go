package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// scoreRepo implements ScoreRepo with the ent SQL builder over database/sql.
type scoreRepo struct {
	db *sql.DB
}

func (r *scoreRepo) Insert(ctx context.Context, rec *ScoreRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	query, args := builder.Insert(tableScores).
		Columns("name", "drill_id", "score", "elapsed_seconds", "created_at").
		Values(rec.Name, rec.DrillID, rec.Score, rec.ElapsedSeconds, rec.CreatedAt.UnixMilli()).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("score id: %w", err)
	}
	rec.ID = int(id)
	return nil
}

func (r *scoreRepo) Top(ctx context.Context, drillID string, limit int) ([]ScoreRecord, error) {
	sel := builder.Select("id", "name", "drill_id", "score", "elapsed_seconds", "created_at").
		From(builder.Table(tableScores)).
		Where(entsql.EQ("drill_id", drillID)).
		OrderBy(entsql.Desc("score"), entsql.Asc("elapsed_seconds"), entsql.Asc("created_at"), entsql.Asc("id"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	var out []ScoreRecord
	for rows.Next() {
		var (
			rec ScoreRecord
			ms  int64
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.DrillID, &rec.Score, &rec.ElapsedSeconds, &ms); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		rec.CreatedAt = time.UnixMilli(ms)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *scoreRepo) Drills(ctx context.Context) ([]string, error) {
	query, args := builder.Select("drill_id").
		From(builder.Table(tableScores)).
		Distinct().
		OrderBy("drill_id").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query drills: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan drill: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
