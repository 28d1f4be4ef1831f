package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/akaun/internal/leaderboard"
	"github.com/abhisek/akaun/internal/random"
	"github.com/abhisek/akaun/internal/scenario"
	"github.com/abhisek/akaun/internal/store"
)

var (
	// ErrNoCurrentQuestion means the drill is complete; it is not a wrong answer.
	ErrNoCurrentQuestion = errors.New("no current question")

	// ErrAlreadyGraded is returned when the current question was already submitted.
	ErrAlreadyGraded = errors.New("question already graded")

	// ErrNotGraded is returned by Advance before the current question is submitted.
	ErrNotGraded = errors.New("current question not graded yet")
)

// Phase is the state of a session.
type Phase int

const (
	PhaseAwaiting Phase = iota // Current question waits for a submission
	PhaseGraded                // Current question graded; waiting for Advance
	PhaseComplete              // Queue exhausted; score handed to the leaderboard
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaiting:
		return "awaiting"
	case PhaseGraded:
		return "graded"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Scoring deltas.
const (
	PointsCorrect        = 2
	PointsCorrectPenalty = 1
	PointsWrong          = -1
)

// ScoreSink receives the final score of a completed drill. It should not
// block; leaderboard.Async is the usual implementation.
type ScoreSink interface {
	SubmitScore(ctx context.Context, e leaderboard.Entry) error
}

// AttemptRecorder persists graded submissions. store.AttemptRepo satisfies it.
type AttemptRecorder interface {
	Record(ctx context.Context, a *store.AttemptData) error
}

// Options configures a Session. Every field is optional.
type Options struct {
	// Player is the name reported to the leaderboard.
	Player string

	// Source drives question generation and penalty draws.
	Source random.Source

	// Now is the clock used for elapsed time.
	Now func() time.Time

	// Scores receives {score, elapsed} when the drill completes.
	Scores ScoreSink

	// Attempts records every graded submission.
	Attempts AttemptRecorder

	Logger *zap.Logger
}

// Result is what a submission returns to the presentation layer.
type Result struct {
	Verdict scenario.Verdict

	// Delta is the score change caused by this submission.
	Delta int

	// Score and Mistakes are the running totals after this submission.
	Score    int
	Mistakes int

	// WasPenalty reports whether the graded question was a remedial repeat.
	WasPenalty bool

	// PenaltiesAdded is how many remedial questions were appended.
	PenaltiesAdded int

	// Complete reports that Advance will end the drill.
	Complete bool
}

// Session is the state of one drill run: the queue, the position in it,
// and the running score. It is safe for concurrent use.
type Session struct {
	mu sync.Mutex

	id    string
	drill Drill
	opts  Options

	queue    []scenario.Question
	index    int
	phase    Phase
	score    int
	mistakes int
	last     *Result

	start time.Time
	end   time.Time

	perFamily map[scenario.Family]*FamilyResult
}
