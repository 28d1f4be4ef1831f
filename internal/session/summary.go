package session

import (
	"time"

	"github.com/abhisek/akaun/internal/scenario"
)

// Summary holds the data displayed on the summary screen.
type Summary struct {
	SessionID string
	DrillID   string
	Title     string
	Player    string
	Score     int
	Mistakes  int
	Answered  int
	Correct   int
	Accuracy  float64
	Elapsed   time.Duration
	Complete  bool
	Families  []FamilyResult
}

// ElapsedSeconds returns the elapsed time in whole seconds.
func (s Summary) ElapsedSeconds() int {
	return int(s.Elapsed / time.Second)
}

func buildSummary(s *Session) Summary {
	sum := Summary{
		SessionID: s.id,
		DrillID:   s.drill.ID,
		Title:     s.drill.Title,
		Player:    s.opts.Player,
		Score:     s.score,
		Mistakes:  s.mistakes,
		Elapsed:   s.elapsedLocked(),
		Complete:  s.phase == PhaseComplete,
	}
	for _, f := range scenario.Families {
		fr, ok := s.perFamily[f]
		if !ok {
			continue
		}
		sum.Families = append(sum.Families, *fr)
		sum.Answered += fr.Attempted
		sum.Correct += fr.Correct
	}
	if sum.Answered > 0 {
		sum.Accuracy = float64(sum.Correct) / float64(sum.Answered)
	}
	return sum
}
