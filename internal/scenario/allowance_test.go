package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/akaun/internal/random"
)

func TestAllowance_Increase(t *testing.T) {
	q := NewAllowance(AllowanceGiven{Receivables: 40000, OldAllowance: 1500, RatePercent: 5})

	assert.Equal(t, 2000.0, q.want.newAllowance)
	assert.Equal(t, Expense, q.want.category)
	assert.Equal(t, 500.0, q.want.amount)

	v := Validate(q, Input{KeyNewAllowance: "2000", KeyCategory: "BELANJA", KeyAdjustment: "500"})
	assert.True(t, v.Correct)
	assert.Empty(t, v.Mismatched)
	assert.Equal(t, summaryCorrect, v.Explanation.Summary)
}

func TestAllowance_Decrease(t *testing.T) {
	q := NewAllowance(AllowanceGiven{Receivables: 40000, OldAllowance: 2300, RatePercent: 5})

	assert.Equal(t, Revenue, q.want.category)
	assert.Equal(t, 300.0, q.want.amount)
}

func TestAllowance_WrongCategoryFailsWholeSubmission(t *testing.T) {
	q := NewAllowance(AllowanceGiven{Receivables: 40000, OldAllowance: 1500, RatePercent: 5})

	v := Validate(q, Input{KeyNewAllowance: "2000", KeyCategory: "HASIL", KeyAdjustment: "500"})

	assert.False(t, v.Correct)
	assert.Equal(t, []string{KeyCategory}, v.Mismatched)
	assert.Equal(t, summaryIncorrect, v.Explanation.Summary)
	assert.Contains(t, v.Explanation.Steps[0], "40000 x 5% = 2000")
}

func TestBuildAllowance_ClampsAtZero(t *testing.T) {
	g := BuildAllowance(AllowanceParams{Thousands: 10, RatePercent: 2, Increase: true, Step: 5})

	assert.Equal(t, 0.0, g.OldAllowance)
	q := NewAllowance(g)
	assert.Equal(t, Expense, q.want.category)
	assert.Equal(t, 200.0, q.want.amount)
}

func TestGenerateAllowance_Invariants(t *testing.T) {
	for seed := range uint64(500) {
		q := GenerateAllowance(random.NewSeeded(seed))
		g := q.Given

		assert.InDelta(t, g.Receivables*g.RatePercent/100, q.want.newAllowance, 1e-9)
		assert.Equal(t, q.want.newAllowance > g.OldAllowance, q.want.category == Expense, "seed %d", seed)
		assert.GreaterOrEqual(t, g.OldAllowance, 0.0)
		assert.Greater(t, q.want.amount, 0.0)
		require.True(t, Validate(q, q.Solution()).Correct, "seed %d", seed)
	}
}

func TestAllowance_ViewHidesAnswer(t *testing.T) {
	q := NewAllowance(AllowanceGiven{Receivables: 40000, OldAllowance: 1500, RatePercent: 5})
	v := q.View()

	assert.Equal(t, FamilyAllowance, v.Family)
	assert.False(t, v.Penalty)
	require.Len(t, v.Form, 3)
	for _, f := range v.Facts {
		assert.NotEqual(t, "RM 2,000", f.Value)
	}
}
