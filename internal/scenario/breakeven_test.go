package scenario

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/akaun/internal/random"
)

func TestBreakEven_Itemized(t *testing.T) {
	q := NewBreakEven(BreakEvenGiven{
		Presentation:  ItemizedList,
		Price:         10,
		FixedItems:    []CostLine{{Label: "Sewa", Amount: 3000}, {Label: "Gaji", Amount: 2000}},
		VariableItems: []CostLine{{Label: "Bahan", Amount: 4}, {Label: "Buruh", Amount: 3.5}},
		Target:        UnitsForProfit,
		TargetValue:   1000,
	})
	w := q.want

	assert.Equal(t, 5000.0, w.fixed)
	assert.Equal(t, 7.5, w.variable)
	assert.Equal(t, 2.5, w.contribution)
	assert.Equal(t, 2000.0, w.units)
	assert.Equal(t, 20000.0, w.revenue)
	assert.Equal(t, 2400.0, w.target)
}

func TestBreakEven_HighLow(t *testing.T) {
	q := NewBreakEven(BreakEvenGiven{
		Presentation: HighLow,
		Price:        10,
		Points: []CostPoint{
			{Units: LowVolume, TotalCost: 20000},
			{Units: HighVolume, TotalCost: 35000},
		},
		Target:      ProfitForUnits,
		TargetValue: 3000,
	})
	w := q.want

	assert.Equal(t, 7.5, w.variable)
	assert.Equal(t, 5000.0, w.fixed)
	assert.Equal(t, 2000.0, w.units)
	assert.Equal(t, 2500.0, w.target)

	v := Validate(q, Input{})
	assert.Contains(t, v.Explanation.Steps[0], "(35000 - 20000) / (4000 - 2000) = 7.5")
}

func TestBreakEven_PresentationsAgree(t *testing.T) {
	for seed := range uint64(300) {
		p := DrawBreakEven(random.NewSeeded(seed), ZeroPoint)
		var answers []breakEvenAnswer
		for _, pres := range Presentations {
			p.Presentation = pres
			q := NewBreakEven(BuildBreakEven(p))
			answers = append(answers, q.want)
			require.True(t, Validate(q, q.Solution()).Correct, "seed %d %s", seed, pres)
		}
		for _, a := range answers[1:] {
			assert.InDelta(t, answers[0].fixed, a.fixed, 1e-6, "seed %d", seed)
			assert.InDelta(t, answers[0].variable, a.variable, 1e-6, "seed %d", seed)
			assert.InDelta(t, answers[0].units, a.units, 1e-6, "seed %d", seed)
			assert.InDelta(t, answers[0].target, a.target, 1e-6, "seed %d", seed)
		}
	}
}

func TestGenerateBreakEven_RoundNumbers(t *testing.T) {
	for _, pres := range Presentations {
		for seed := range uint64(200) {
			q := GenerateBreakEven(random.NewSeeded(seed), pres)
			w := q.want

			assert.Greater(t, w.contribution, 0.0)
			assert.InDelta(t, math.Round(w.units), w.units, 1e-6, "seed %d", seed)
			assert.Zero(t, int(math.Round(w.units))%100)
			assert.InDelta(t, w.units*q.Given.Price, w.revenue, 1e-6)
			if q.Given.Target == ProfitForUnits {
				assert.Greater(t, w.target, 0.0)
			} else {
				assert.Greater(t, w.target, w.units)
			}
		}
	}
}

func TestBreakEven_Tolerances(t *testing.T) {
	q := NewBreakEven(BuildBreakEven(BreakEvenParams{
		Presentation:      HighLow,
		PriceHalves:       20,
		MarginHalves:      5,
		BreakEvenHundreds: 20,
		Target:            UnitsForProfit,
		TargetHundreds:    4,
	}))
	require.Equal(t, 7.5, q.want.variable)
	require.Equal(t, 2000.0, q.want.units)

	tests := []struct {
		key, value string
		ok         bool
	}{
		{KeyVariableCost, "7.54", true},
		{KeyVariableCost, "7.56", false},
		{KeyContribution, "2.46", true},
		{KeyContribution, "2.44", false},
		{KeyBreakEvenUnits, "2000.9", true},
		{KeyBreakEvenUnits, "2001.1", false},
		{KeyBreakEvenRevenue, "19999.1", true},
		{KeyBreakEvenRevenue, "19998.9", false},
	}
	for _, tt := range tests {
		in := q.Solution()
		in[tt.key] = tt.value
		assert.Equal(t, tt.ok, Validate(q, in).Correct, "%s=%s", tt.key, tt.value)
	}
}

func TestBreakEven_ViewLayouts(t *testing.T) {
	src := random.NewSeeded(5)

	zp := GenerateBreakEven(src, ZeroPoint).View()
	require.NotNil(t, zp.Table)
	assert.Len(t, zp.Table.Rows, 3)
	assert.Equal(t, "0", zp.Table.Rows[0][0])

	hl := GenerateBreakEven(src, HighLow).View()
	require.NotNil(t, hl.Table)
	assert.Equal(t, []string{"2,000", "4,000"}, []string{hl.Table.Rows[0][0], hl.Table.Rows[1][0]})

	il := GenerateBreakEven(src, ItemizedList).View()
	assert.Nil(t, il.Table)
	assert.Len(t, il.Facts, 5)
	assert.Len(t, il.Form, 6)
}
