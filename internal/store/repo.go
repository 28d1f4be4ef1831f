package store

import (
	"context"
	"time"
)

// ScoreRecord is one completed drill run on the local leaderboard.
type ScoreRecord struct {
	ID             int
	Name           string
	DrillID        string
	Score          int
	ElapsedSeconds int
	CreatedAt      time.Time
}

// ScoreRepo persists completed drill scores.
type ScoreRepo interface {
	// Insert stores a new score and fills in its ID.
	Insert(ctx context.Context, rec *ScoreRecord) error

	// Top returns the best scores for a drill: highest score first, then
	// fastest, then earliest. limit <= 0 means unlimited.
	Top(ctx context.Context, drillID string, limit int) ([]ScoreRecord, error)

	// Drills lists the drill IDs that have at least one score.
	Drills(ctx context.Context) ([]string, error)
}

// AttemptData captures a single graded answer within a session.
type AttemptData struct {
	ID         string
	Sequence   int64
	SessionID  string
	DrillID    string
	Player     string
	Family     string
	QuestionID string
	Penalty    bool
	Correct    bool
	Delta      int
	Score      int
	Mismatched []string
	CreatedAt  time.Time
}

// AttemptStats aggregates the attempts of one session.
type AttemptStats struct {
	Total     int
	Correct   int
	Penalties int
	ByFamily  map[string]FamilyStats
}

// FamilyStats counts attempts for one question family.
type FamilyStats struct {
	Total   int
	Correct int
}

// Accuracy returns the fraction of correct attempts, or 0 with none.
func (f FamilyStats) Accuracy() float64 {
	if f.Total == 0 {
		return 0
	}
	return float64(f.Correct) / float64(f.Total)
}

// AttemptRepo persists graded answers.
type AttemptRepo interface {
	// Record appends an attempt. ID, Sequence and CreatedAt are assigned
	// when empty.
	Record(ctx context.Context, a *AttemptData) error

	// ForSession returns a session's attempts in sequence order.
	ForSession(ctx context.Context, sessionID string) ([]AttemptData, error)

	// Stats aggregates a session's attempts.
	Stats(ctx context.Context, sessionID string) (AttemptStats, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request.
type LLMRequestEvent struct {
	LLMRequestEventData
	Sequence  int64
	Timestamp time.Time
}

// QueryOpts filters LLMRequestEvent queries.
type QueryOpts struct {
	Limit   int
	Purpose string
}

// ModelUsage aggregates the requests made to one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// CountLLMRequests returns how many LLM requests were recorded.
	CountLLMRequests(ctx context.Context) (int, error)

	// QueryLLMRequests returns recent requests, newest first.
	QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMRequest returns one request by sequence, or nil if absent.
	GetLLMRequest(ctx context.Context, sequence int64) (*LLMRequestEvent, error)

	// LLMUsageByModel sums token usage per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
