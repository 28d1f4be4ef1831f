package drill

import (
	"time"

	"github.com/abhisek/akaun/internal/session"
)

// startedMsg is sent once the drill's queue has been built.
type startedMsg struct {
	Session *session.Session
	Err     error
}

// timerTickMsg is sent every second to refresh the clock.
type timerTickMsg time.Time

// coachPollMsg checks whether requested advice has arrived.
type coachPollMsg struct {
	QuestionID string
}

// finishedMsg is sent after the last Advance.
type finishedMsg struct{}
