package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/akaun/internal/leaderboard"
	"github.com/abhisek/akaun/internal/random"
	"github.com/abhisek/akaun/internal/scenario"
	"github.com/abhisek/akaun/internal/store"
)

// New starts a session for drill with a freshly built queue.
func New(drill Drill, opts Options) (*Session, error) {
	if opts.Source == nil {
		opts.Source = random.New()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	s := &Session{drill: drill, opts: opts}
	if err := s.reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// Restart discards all progress and rebuilds the queue.
func (s *Session) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reset()
}

func (s *Session) reset() error {
	queue, err := s.drill.Build(s.opts.Source)
	if err != nil {
		return err
	}
	if len(queue) == 0 {
		return fmt.Errorf("drill %s: empty queue", s.drill.ID)
	}

	s.id = uuid.NewString()
	s.queue = queue
	s.index = 0
	s.phase = PhaseAwaiting
	s.score = 0
	s.mistakes = 0
	s.last = nil
	s.start = s.opts.Now()
	s.end = time.Time{}
	s.perFamily = make(map[scenario.Family]*FamilyResult)

	s.opts.Logger.Debug("session started",
		zap.String("session_id", s.id),
		zap.String("drill_id", s.drill.ID),
		zap.Int("questions", len(queue)),
	)
	return nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Drill returns the drill being played.
func (s *Session) Drill() Drill {
	return s.drill
}

// Current returns the view of the current question. The view carries no
// answers. It returns ErrNoCurrentQuestion once the drill is complete.
func (s *Session) Current() (scenario.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseComplete {
		return scenario.View{}, ErrNoCurrentQuestion
	}
	return s.queue[s.index].View(), nil
}

// LastResult returns the result of the current question if it has been
// graded.
func (s *Session) LastResult() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseGraded || s.last == nil {
		return Result{}, false
	}
	return *s.last, true
}

// Submit grades in against the current question and applies the scoring
// and penalty policy. A question can be graded only once.
func (s *Session) Submit(ctx context.Context, in scenario.Input) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhaseComplete:
		return Result{}, ErrNoCurrentQuestion
	case PhaseGraded:
		return Result{}, ErrAlreadyGraded
	}

	q := s.queue[s.index]
	verdict := scenario.Validate(q, in)

	res := Result{Verdict: verdict, WasPenalty: q.IsPenalty()}
	switch {
	case verdict.Correct && q.IsPenalty():
		res.Delta = PointsCorrectPenalty
	case verdict.Correct:
		res.Delta = PointsCorrect
	default:
		res.Delta = PointsWrong
		s.mistakes++
		penalties := scenario.Penalties(s.opts.Source, q)
		s.queue = append(s.queue, penalties...)
		res.PenaltiesAdded = len(penalties)
	}
	s.score += res.Delta
	res.Score = s.score
	res.Mistakes = s.mistakes
	res.Complete = s.index+1 >= len(s.queue)

	fr, ok := s.perFamily[q.Family()]
	if !ok {
		fr = &FamilyResult{Family: q.Family()}
		s.perFamily[q.Family()] = fr
	}
	fr.Record(verdict.Correct, q.IsPenalty())

	s.phase = PhaseGraded
	s.last = &res

	s.recordAttempt(ctx, q, res)
	return res, nil
}

func (s *Session) recordAttempt(ctx context.Context, q scenario.Question, res Result) {
	if s.opts.Attempts == nil {
		return
	}
	err := s.opts.Attempts.Record(ctx, &store.AttemptData{
		SessionID:  s.id,
		DrillID:    s.drill.ID,
		Player:     s.opts.Player,
		Family:     string(q.Family()),
		QuestionID: q.ID(),
		Penalty:    q.IsPenalty(),
		Correct:    res.Verdict.Correct,
		Delta:      res.Delta,
		Score:      res.Score,
		Mismatched: res.Verdict.Mismatched,
		CreatedAt:  s.opts.Now(),
	})
	if err != nil {
		s.opts.Logger.Warn("record attempt failed",
			zap.String("session_id", s.id),
			zap.String("question_id", q.ID()),
			zap.Error(err),
		)
	}
}

// Advance moves past a graded question. It reports true when that was the
// last question; the session is then complete and the final score has been
// handed to the score sink.
func (s *Session) Advance(ctx context.Context) (bool, error) {
	s.mu.Lock()
	switch s.phase {
	case PhaseComplete:
		s.mu.Unlock()
		return true, ErrNoCurrentQuestion
	case PhaseAwaiting:
		s.mu.Unlock()
		return false, ErrNotGraded
	}

	s.last = nil
	if s.index+1 < len(s.queue) {
		s.index++
		s.phase = PhaseAwaiting
		s.mu.Unlock()
		return false, nil
	}

	entry := s.complete()
	s.mu.Unlock()

	// The sink runs unlocked so a slow backend cannot stall readers.
	s.submit(ctx, entry)
	return true, nil
}

// complete marks the session done and returns its leaderboard entry.
// The caller holds s.mu.
func (s *Session) complete() leaderboard.Entry {
	s.phase = PhaseComplete
	s.end = s.opts.Now()

	entry := leaderboard.Entry{
		Name:           s.opts.Player,
		DrillID:        s.drill.ID,
		Score:          s.score,
		ElapsedSeconds: int(s.elapsedLocked() / time.Second),
		Timestamp:      s.end,
	}
	s.opts.Logger.Info("drill complete",
		zap.String("session_id", s.id),
		zap.String("drill_id", entry.DrillID),
		zap.Int("score", entry.Score),
		zap.Int("mistakes", s.mistakes),
		zap.Int("elapsed_seconds", entry.ElapsedSeconds),
	)
	return entry
}

func (s *Session) submit(ctx context.Context, entry leaderboard.Entry) {
	if s.opts.Scores == nil || entry.Name == "" {
		return
	}
	if err := s.opts.Scores.SubmitScore(ctx, entry); err != nil {
		s.opts.Logger.Warn("submit score failed", zap.String("drill_id", entry.DrillID), zap.Error(err))
	}
}

// Complete reports whether the queue has been exhausted.
func (s *Session) Complete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase == PhaseComplete
}

// Phase returns the session's current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Elapsed returns the time since the drill started, frozen at completion.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsedLocked()
}

func (s *Session) elapsedLocked() time.Duration {
	if !s.end.IsZero() {
		return s.end.Sub(s.start)
	}
	return s.opts.Now().Sub(s.start)
}

// Progress returns the learner's position in the queue.
func (s *Session) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := Progress{
		Position: s.index + 1,
		Total:    len(s.queue),
		Score:    s.score,
		Mistakes: s.mistakes,
		Phase:    s.phase,
	}
	start := s.index + 1
	if s.phase == PhaseAwaiting {
		start = s.index
	}
	for _, q := range s.queue[min(start, len(s.queue)):] {
		if q.IsPenalty() {
			p.PendingPenalties++
		}
	}
	return p
}

// Summary returns the data for the summary screen.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return buildSummary(s)
}

// QueueLen returns the current queue length.
func (s *Session) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}
