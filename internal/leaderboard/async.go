package leaderboard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultSubmitTimeout bounds a background submission.
const DefaultSubmitTimeout = 10 * time.Second

// Async submits scores in the background. SubmitScore always returns nil;
// failures are logged. Reads go straight to the wrapped service.
type Async struct {
	next    Service
	log     *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewAsync wraps next. A zero timeout uses DefaultSubmitTimeout.
func NewAsync(next Service, log *zap.Logger, timeout time.Duration) *Async {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultSubmitTimeout
	}
	return &Async{next: next, log: log, timeout: timeout}
}

func (a *Async) SubmitScore(ctx context.Context, e Entry) error {
	// Detach from the caller so the drill can move on while this runs.
	ctx = context.WithoutCancel(ctx)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(ctx, a.timeout)
		defer cancel()

		if err := a.next.SubmitScore(ctx, e); err != nil {
			a.log.Warn("leaderboard submit failed",
				zap.String("drill_id", e.DrillID),
				zap.String("name", e.Name),
				zap.Int("score", e.Score),
				zap.Error(err),
			)
			return
		}
		a.log.Info("leaderboard score submitted",
			zap.String("drill_id", e.DrillID),
			zap.Int("score", e.Score),
			zap.Int("elapsed_seconds", e.ElapsedSeconds),
		)
	}()
	return nil
}

func (a *Async) FetchScores(ctx context.Context, drillID string) ([]Entry, error) {
	return a.next.FetchScores(ctx, drillID)
}

// Wait blocks until every pending submission has finished.
func (a *Async) Wait() {
	a.wg.Wait()
}
