package leaderboard

import (
	"context"
	"fmt"

	"github.com/abhisek/akaun/internal/store"
)

// Local keeps scores in the SQLite store.
type Local struct {
	repo  store.ScoreRepo
	limit int
}

// NewLocal returns a Local backend. limit caps FetchScores; <= 0 is unlimited.
func NewLocal(repo store.ScoreRepo, limit int) *Local {
	return &Local{repo: repo, limit: limit}
}

func (l *Local) SubmitScore(ctx context.Context, e Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	rec := &store.ScoreRecord{
		Name:           e.Name,
		DrillID:        e.DrillID,
		Score:          e.Score,
		ElapsedSeconds: e.ElapsedSeconds,
		CreatedAt:      e.Timestamp,
	}
	if err := l.repo.Insert(ctx, rec); err != nil {
		return fmt.Errorf("save local score: %w", err)
	}
	return nil
}

func (l *Local) FetchScores(ctx context.Context, drillID string) ([]Entry, error) {
	recs, err := l.repo.Top(ctx, drillID, l.limit)
	if err != nil {
		return nil, fmt.Errorf("load local scores: %w", err)
	}
	out := make([]Entry, 0, len(recs))
	for _, r := range recs {
		out = append(out, Entry{
			Name:           r.Name,
			DrillID:        r.DrillID,
			Score:          r.Score,
			ElapsedSeconds: r.ElapsedSeconds,
			Timestamp:      r.CreatedAt,
		})
	}
	return out, nil
}
