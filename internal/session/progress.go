package session

import "github.com/abhisek/akaun/internal/scenario"

// FamilyResult tracks per-family performance within a single session.
type FamilyResult struct {
	Family    scenario.Family
	Attempted int
	Correct   int
	Penalties int     // Remedial questions answered
	Accuracy  float64 // Correct / Attempted (computed)
}

// Record adds a graded answer to the result.
func (fr *FamilyResult) Record(correct, penalty bool) {
	fr.Attempted++
	if correct {
		fr.Correct++
	}
	if penalty {
		fr.Penalties++
	}
	fr.Accuracy = float64(fr.Correct) / float64(fr.Attempted)
}

// Progress is a snapshot of where the learner is in the queue.
type Progress struct {
	// Position is the 1-based index of the current question.
	Position int

	// Total is the current queue length, including appended penalties.
	Total int

	// PendingPenalties counts remedial questions not yet reached.
	PendingPenalties int

	Score    int
	Mistakes int
	Phase    Phase
}

// Remaining returns how many questions are left, counting the current one
// unless it has been graded.
func (p Progress) Remaining() int {
	r := p.Total - p.Position
	if p.Phase == PhaseAwaiting {
		r++
	}
	return max(r, 0)
}
