package leaderboard

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const pgTimeout = 5 * time.Second

const pgSchema = `CREATE TABLE IF NOT EXISTS leaderboard_scores (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	drill_id TEXT NOT NULL,
	score INTEGER NOT NULL,
	elapsed_seconds INTEGER NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Postgres stores scores in a shared PostgreSQL table.
type Postgres struct {
	pool  *pgxpool.Pool
	limit int
}

// ParsePostgresURL validates a PostgreSQL connection URL.
func ParsePostgresURL(url string) (*pgxpool.Config, error) {
	if url == "" {
		return nil, fmt.Errorf("database URL is empty")
	}
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("invalid database URL: %w", err)
	}
	return cfg, nil
}

// NewPostgres opens a pool, pings it and creates the scores table.
func NewPostgres(ctx context.Context, url string, limit int) (*Postgres, error) {
	cfg, err := ParsePostgresURL(url)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = 4
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create scores table: %w", err)
	}
	return &Postgres{pool: pool, limit: limit}, nil
}

// Close shuts down the pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

func (p *Postgres) SubmitScore(ctx context.Context, e Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, pgTimeout)
	defer cancel()

	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := p.pool.Exec(ctx,
		`INSERT INTO leaderboard_scores (name, drill_id, score, elapsed_seconds, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		e.Name, e.DrillID, e.Score, e.ElapsedSeconds, ts,
	)
	if err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	return nil
}

func (p *Postgres) FetchScores(ctx context.Context, drillID string) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, pgTimeout)
	defer cancel()

	limit := any(nil)
	if p.limit > 0 {
		limit = p.limit
	}
	rows, err := p.pool.Query(ctx,
		`SELECT name, drill_id, score, elapsed_seconds, created_at
		 FROM leaderboard_scores
		 WHERE drill_id = $1
		 ORDER BY score DESC, elapsed_seconds ASC, created_at ASC
		 LIMIT $2`,
		drillID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.DrillID, &e.Score, &e.ElapsedSeconds, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
