package scenario

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/akaun/internal/calendar"
	"github.com/abhisek/akaun/internal/random"
)

func TestAccrualBank_Loads(t *testing.T) {
	for _, level := range []int{1, 2} {
		bank, err := AccrualBank(level)
		require.NoError(t, err)
		require.Len(t, bank, 8)

		ids := map[string]bool{}
		for _, q := range bank {
			assert.False(t, ids[q.ID()], "duplicate %s", q.ID())
			ids[q.ID()] = true
			assert.Equal(t, level, q.Level())
			assert.Equal(t, q.want.typ.Class(), q.want.class)
			assert.True(t, Validate(q, q.Solution()).Correct, "item %s", q.ID())
		}
	}
}

func TestAccrualBank_UnknownLevel(t *testing.T) {
	_, err := AccrualBank(3)

	var be *BankError
	require.ErrorAs(t, err, &be)
}

func TestAccrualBank_FreshValues(t *testing.T) {
	a, err := AccrualBank(1)
	require.NoError(t, err)
	b, err := AccrualBank(1)
	require.NoError(t, err)

	assert.NotSame(t, a[0], b[0])
	assert.Equal(t, a[0].Given, b[0].Given)
}

func TestAccrual_InsurancePrepaid(t *testing.T) {
	bank, err := AccrualBank(1)
	require.NoError(t, err)
	q := bank[0]

	assert.Equal(t, "acc-l1-1", q.ID())
	v := Validate(q, Input{
		KeyAccrualType: "prepaid_exp",
		KeyClass:       "as",
		KeyAdjustment:  "RM 400",
		KeyFinal:       "1,600",
	})
	assert.True(t, v.Correct)
}

func TestAccrual_Level2Derivation(t *testing.T) {
	bank, err := AccrualBank(2)
	require.NoError(t, err)
	q := bank[0]

	assert.Equal(t, calendar.New(2024, 12, 31), q.Given.YearEnd)
	v := Validate(q, Input{})
	assert.False(t, v.Correct)
	assert.Len(t, v.Mismatched, 4)

	joined := strings.Join(v.Explanation.Steps, "\n")
	assert.Contains(t, joined, "3 bulan dalam tahun semasa, 9 bulan selepas")
	assert.Contains(t, joined, "2400 x 9/12")
}

func TestAccrual_PenaltyRepeatsSameItem(t *testing.T) {
	q, err := GenerateAccrual(random.NewSeeded(7), 2)
	require.NoError(t, err)

	ps := Penalties(random.NewSeeded(8), q)
	require.Len(t, ps, PenaltiesPerMistake)
	for _, p := range ps {
		a, ok := p.(*Accrual)
		require.True(t, ok)
		assert.True(t, a.IsPenalty())
		assert.Equal(t, q.Given, a.Given)
		assert.NotEqual(t, q.ID(), a.ID())
		assert.True(t, strings.HasPrefix(a.ID(), q.entry.id+"-retry"))
	}
	assert.NotEqual(t, ps[0].ID(), ps[1].ID())
	assert.False(t, q.IsPenalty())

	again := Penalties(random.NewSeeded(9), ps[0])
	assert.True(t, strings.HasPrefix(again[0].ID(), q.entry.id+"-retry1-"))
}

func TestGenerateAccrual_MatchesGenerate(t *testing.T) {
	for _, level := range []int{1, 2} {
		direct, err := GenerateAccrual(random.NewSeeded(11), level)
		require.NoError(t, err)
		viaVariant, err := Generate(random.NewSeeded(11), Variant{Family: FamilyAccrual, Level: level})
		require.NoError(t, err)
		assert.Equal(t, direct.entry.id, viaVariant.(*Accrual).entry.id)
	}

	_, err := GenerateAccrual(random.NewSeeded(11), 3)
	var bankErr *BankError
	assert.ErrorAs(t, err, &bankErr)
	_, err = Generate(random.NewSeeded(11), Variant{Family: FamilyAccrual, Level: 3})
	assert.ErrorAs(t, err, &bankErr)
}

func TestParseBank_Errors(t *testing.T) {
	const item = `
items:
  - id: x-1
    item: Sewa
    trialBalance: 5000
    type: PREPAID_EXP
    adjustment: 1000
    final: 4000
`
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "version: [v1"},
		{"missing version", "level: 1" + item},
		{"future major", "version: v2.0.0\nlevel: 1" + item},
		{"not semver", "version: 1.0\nlevel: 1" + item},
		{"bad level", "version: v1.0.0\nlevel: 4" + item},
		{"no items", "version: v1.0.0\nlevel: 1\nitems: []"},
		{"duplicate id", "version: v1.0.0\nlevel: 1" + item + strings.TrimPrefix(item, "\nitems:")},
		{"final mismatch", "version: v1.0.0\nlevel: 1" + strings.Replace(item, "final: 4000", "final: 6000", 1)},
		{"unknown type", "version: v1.0.0\nlevel: 1" + strings.Replace(item, "PREPAID_EXP", "OTHER", 1)},
		{"level 2 without year end", "version: v1.0.0\nlevel: 2" + item},
		{"derived mismatch", `version: v1.0.0
level: 2
items:
  - id: x-2
    yearEnd: "2024-12-31"
    item: Gaji
    trialBalance: 10000
    type: ACCRUED_EXP
    adjustment: 500
    final: 10500
    monthly:
      amount: 300
      months: 2
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseBank("test.yaml", []byte(tt.data))
			require.Error(t, err)

			var be *BankError
			require.True(t, errors.As(err, &be))
			assert.Equal(t, "test.yaml", be.Bank)
		})
	}
}

func TestParseBank_MinorVersionAccepted(t *testing.T) {
	data := `version: v1.3.0
level: 1
items:
  - id: x-1
    item: Sewa
    trialBalance: 5000
    type: PREPAID_EXP
    adjustment: 1000
    final: 4000
`
	entries, err := parseBank("test.yaml", []byte(data))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 4000.0, entries[0].final)
}

func TestSplitPeriod(t *testing.T) {
	tests := []struct {
		start, end      calendar.Date
		months          int
		inside, outside int
	}{
		{calendar.New(2024, 10, 1), calendar.New(2024, 12, 31), 12, 3, 9},
		{calendar.New(2024, 10, 1), calendar.New(2025, 6, 30), 12, 9, 3},
		{calendar.New(2025, 1, 1), calendar.New(2024, 12, 31), 6, 0, 6},
		{calendar.New(2023, 1, 1), calendar.New(2024, 12, 31), 12, 12, 0},
	}
	for _, tt := range tests {
		in, out := splitPeriod(tt.start, tt.end, tt.months)
		assert.Equal(t, tt.inside, in)
		assert.Equal(t, tt.outside, out)
	}
}
