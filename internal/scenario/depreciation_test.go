package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/akaun/internal/random"
)

func TestDepreciation_StraightLine(t *testing.T) {
	q := NewDepreciation(DepreciationGiven{
		AssetName: "Kenderaan", Cost: 50000, OpeningAccumDep: 10000, Method: StraightLine, RatePercent: 10,
	})

	assert.Equal(t, 5000.0, q.want.expense)
	assert.Equal(t, Expense, q.want.category)
	assert.Equal(t, 15000.0, q.want.newAccumDep)
}

func TestDepreciation_ReducingBalanceUsesCarryingAmount(t *testing.T) {
	q := NewDepreciation(DepreciationGiven{
		AssetName: "Jentera", Cost: 50000, OpeningAccumDep: 10000, Method: ReducingBalance, RatePercent: 10,
	})

	assert.Equal(t, 4000.0, q.want.expense)
	assert.Equal(t, 14000.0, q.want.newAccumDep)

	v := Validate(q, Input{KeyDepExpense: "5000", KeyCategory: "BELANJA", KeyNewAccumDep: "15000"})
	assert.False(t, v.Correct)
	assert.ElementsMatch(t, []string{KeyDepExpense, KeyNewAccumDep}, v.Mismatched)
	assert.Contains(t, v.Explanation.Steps[0], "(50000 - 10000) x 10%")
}

func TestDepreciation_StraightLineIgnoresOpening(t *testing.T) {
	for _, opening := range []float64{0, 5000, 20000, 35000} {
		q := NewDepreciation(DepreciationGiven{Cost: 80000, OpeningAccumDep: opening, Method: StraightLine, RatePercent: 15})
		assert.Equal(t, 12000.0, q.want.expense, "opening %v", opening)
	}
}

func TestGenerateDepreciation_Invariants(t *testing.T) {
	for seed := range uint64(500) {
		q := GenerateDepreciation(random.NewSeeded(seed))
		g := q.Given

		base := g.Cost
		if g.Method == ReducingBalance {
			base = g.Cost - g.OpeningAccumDep
		}
		assert.InDelta(t, base*g.RatePercent/100, q.want.expense, 0.005, "seed %d", seed)
		assert.Less(t, q.want.newAccumDep, g.Cost)
		require.True(t, Validate(q, q.Solution()).Correct, "seed %d", seed)
	}
}
