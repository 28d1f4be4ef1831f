package scenario

import (
	"strings"

	"github.com/abhisek/akaun/internal/money"
)

// grader accumulates sub-checks. Every check must pass for the submission
// to be correct; there is no partial credit.
type grader struct {
	in     Input
	failed []string
}

func newGrader(in Input) *grader {
	return &grader{in: in}
}

// amount checks a numeric field under tol.
func (g *grader) amount(key string, want float64, tol money.Tolerance) {
	if !money.Within(money.Parse(g.in[key]), want, tol) {
		g.failed = append(g.failed, key)
	}
}

// choice checks a selection field, ignoring case and surrounding space.
func (g *grader) choice(key, want string) {
	if !strings.EqualFold(strings.TrimSpace(g.in[key]), want) {
		g.failed = append(g.failed, key)
	}
}

func (g *grader) verdict(steps []string, expected []Fact) Verdict {
	v := Verdict{
		Correct:    len(g.failed) == 0,
		Mismatched: g.failed,
		Explanation: Explanation{
			Summary:  summaryIncorrect,
			Steps:    steps,
			Expected: expected,
		},
	}
	if v.Correct {
		v.Explanation.Summary = summaryCorrect
	}
	return v
}
