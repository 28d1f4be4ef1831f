package scenario

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/akaun/internal/calendar"
	"github.com/abhisek/akaun/internal/random"
)

func TestLoan_RemainderBelowOneYear(t *testing.T) {
	q := NewLoan(LoanGiven{
		Principal:      24000,
		RatePercent:    5,
		DurationYears:  10,
		TBBalance:      2000,
		TBInterestPaid: 1000,
		MonthsHeld:     12,
	})

	assert.Equal(t, 2400.0, q.want.yearly)
	assert.Equal(t, 2000.0, q.want.current)
	assert.Equal(t, 0.0, q.want.nonCurrent)
	assert.Equal(t, 1200.0, q.want.interest)
	assert.Equal(t, AccruedInterest, q.want.adjustment)
	assert.Equal(t, 200.0, q.want.amount)
}

func TestLoan_NewLoanProRated(t *testing.T) {
	g := BuildLoan(LoanParams{
		New:           true,
		YearEndMonth:  time.March,
		Monthly:       200,
		DurationYears: 5,
		RatePercent:   6,
		MonthsHeld:    4,
		PaidMonths:    2,
	})

	assert.Equal(t, 12000.0, g.Principal)
	assert.Equal(t, calendar.New(2024, time.March, 31), g.YearEnd)
	assert.Equal(t, calendar.New(2023, time.December, 1), g.Start)
	assert.Equal(t, calendar.New(2028, time.November, 30), g.Maturity)
	assert.Equal(t, 11200.0, g.TBBalance)
	assert.Equal(t, 120.0, g.TBInterestPaid)

	q := NewLoan(g)
	assert.Equal(t, 240.0, q.want.interest)
	assert.Equal(t, AccruedInterest, q.want.adjustment)
	assert.Equal(t, 120.0, q.want.amount)
	assert.Equal(t, 2400.0, q.want.current)
	assert.Equal(t, 8800.0, q.want.nonCurrent)

	v := Validate(q, q.Solution())
	assert.True(t, v.Correct)
	assert.Contains(t, v.Explanation.Steps[0], "12000 x 6% x 4/12 = 240")
}

func TestBuildLoan_SeasonedStartShiftedForward(t *testing.T) {
	// Two-year loan started in January of the prior year would be fully
	// repaid by a December year end.
	g := BuildLoan(LoanParams{
		YearEndMonth:  time.December,
		Monthly:       500,
		DurationYears: 2,
		RatePercent:   5,
		YearsPrior:    1,
		StartMonth:    time.January,
		PaidMonths:    10,
	})

	assert.Equal(t, calendar.New(2023, time.February, 1), g.Start)
	assert.Equal(t, 500.0, g.TBBalance)
	assert.Equal(t, 12, g.MonthsHeld)
	assert.True(t, g.Maturity.After(g.YearEnd))

	q := NewLoan(g)
	assert.Equal(t, 500.0, q.want.current)
	assert.Equal(t, 0.0, q.want.nonCurrent)
}

func TestBuildLoan_NewLoanHeldOneMonthNothingPaid(t *testing.T) {
	g := BuildLoan(LoanParams{
		New:           true,
		YearEndMonth:  time.January,
		Monthly:       1000,
		DurationYears: 10,
		RatePercent:   8,
		MonthsHeld:    1,
		PaidMonths:    0,
	})

	assert.Equal(t, calendar.New(2024, time.January, 1), g.Start)
	assert.Equal(t, 0.0, g.TBInterestPaid)
	q := NewLoan(g)
	assert.Equal(t, AccruedInterest, q.want.adjustment)
	assert.Equal(t, q.want.interest, q.want.amount)
}

func TestGenerateLoan_Invariants(t *testing.T) {
	for _, isNew := range []bool{true, false} {
		for seed := range uint64(500) {
			q := GenerateLoan(random.NewSeeded(seed), isNew)
			g, w := q.Given, q.want

			require.Equal(t, isNew, g.IsNew)
			assert.Greater(t, g.TBBalance, 0.0, "seed %d", seed)
			assert.Less(t, g.TBBalance, g.Principal)
			assert.InDelta(t, g.TBBalance, w.current+w.nonCurrent, 1e-9)
			assert.LessOrEqual(t, w.current, w.yearly)
			assert.GreaterOrEqual(t, w.nonCurrent, 0.0)
			assert.True(t, g.Maturity.After(g.YearEnd), "seed %d", seed)

			yearStart := g.YearEnd.AddMonths(-11).FirstOfMonth()
			if isNew {
				assert.Less(t, g.MonthsHeld, 12)
				assert.False(t, g.Start.Before(yearStart), "seed %d start %s", seed, g.Start)
				assert.Equal(t, g.MonthsHeld, calendar.MonthsInclusive(g.Start, g.YearEnd))
			} else {
				assert.Equal(t, 12, g.MonthsHeld)
				assert.False(t, g.Start.After(yearStart), "seed %d start %s", seed, g.Start)
			}

			wantType := PrepaidInterest
			if g.TBInterestPaid < w.interest {
				wantType = AccruedInterest
			}
			assert.Equal(t, wantType, w.adjustment)
			assert.Greater(t, w.amount, 0.0)
			require.True(t, Validate(q, q.Solution()).Correct)
		}
	}
}

func TestLoan_PenaltyKeepsKind(t *testing.T) {
	src := random.NewSeeded(11)
	for _, isNew := range []bool{true, false} {
		for _, p := range Penalties(src, GenerateLoan(src, isNew)) {
			l, ok := p.(*Loan)
			require.True(t, ok)
			assert.True(t, l.IsPenalty())
			assert.Equal(t, isNew, l.Given.IsNew)
		}
	}
}
