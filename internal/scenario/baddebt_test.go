package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/akaun/internal/random"
)

func TestBadDebt_WriteOff(t *testing.T) {
	q := NewBadDebt(BadDebtGiven{Kind: WriteOff, Amount: 300, Receivables: 8000, Bank: 12000})

	assert.Equal(t, Expense, q.want.category)
	assert.Equal(t, 7700.0, q.want.newReceivables)
	assert.Equal(t, 12000.0, q.want.newBank)

	v := Validate(q, Input{
		KeyBadDebtType:    "BAD_DEBT",
		KeyCategory:       "BELANJA",
		KeyIncomeAmount:   "300",
		KeyNewReceivables: "7700",
	})
	assert.True(t, v.Correct)

	form := q.View().Form
	require.Len(t, form, 4)
	assert.Equal(t, KeyNewReceivables, form[3].Key)
}

func TestBadDebt_Recovery(t *testing.T) {
	q := NewBadDebt(BadDebtGiven{Kind: Recovery, Amount: 500, Receivables: 8000, Bank: 12000})

	assert.Equal(t, Revenue, q.want.category)
	assert.Equal(t, 12500.0, q.want.newBank)
	assert.Equal(t, 8000.0, q.want.newReceivables)

	// The receivables field is not asked for a recovery.
	v := Validate(q, Input{
		KeyBadDebtType:    "BAD_DEBT_RECOVERED",
		KeyCategory:       "HASIL",
		KeyIncomeAmount:   "500",
		KeyNewBank:        "12500",
		KeyNewReceivables: "rubbish",
	})
	assert.True(t, v.Correct)
	assert.Equal(t, KeyNewBank, q.View().Form[3].Key)
}

func TestBadDebt_WrongTypeFails(t *testing.T) {
	q := NewBadDebt(BadDebtGiven{Kind: Recovery, Amount: 500, Receivables: 8000, Bank: 12000})
	in := q.Solution()
	in[KeyBadDebtType] = string(WriteOff)

	v := Validate(q, in)
	assert.False(t, v.Correct)
	assert.Equal(t, []string{KeyBadDebtType}, v.Mismatched)
	assert.Equal(t, "Jenis: Hutang Lapuk Terpulih (Hasil).", v.Explanation.Steps[0])
}

func TestGenerateBadDebt_Ranges(t *testing.T) {
	kinds := map[BadDebtKind]bool{}
	for seed := range uint64(300) {
		q := GenerateBadDebt(random.NewSeeded(seed))
		g := q.Given
		kinds[g.Kind] = true

		assert.GreaterOrEqual(t, g.Amount, 200.0)
		assert.LessOrEqual(t, g.Amount, 600.0)
		assert.GreaterOrEqual(t, g.Receivables, 5000.0)
		assert.Less(t, g.Receivables, 10000.0)
		assert.GreaterOrEqual(t, g.Bank, 5000.0)
		assert.Less(t, g.Bank, 15000.0)
		assert.Greater(t, q.want.newReceivables, 0.0)
		require.True(t, Validate(q, q.Solution()).Correct)
	}
	assert.Len(t, kinds, 2)
}
