package scenario

import (
	"fmt"

	"github.com/abhisek/akaun/internal/money"
	"github.com/abhisek/akaun/internal/random"
)

// Bad debt field keys.
const (
	KeyBadDebtType    = "badDebtType"
	KeyIncomeAmount   = "incomeAmount"
	KeyNewReceivables = "newReceivables"
	KeyNewBank        = "newBank"
)

// BadDebtKind distinguishes a write-off from a recovery.
type BadDebtKind string

const (
	WriteOff BadDebtKind = "BAD_DEBT"
	Recovery BadDebtKind = "BAD_DEBT_RECOVERED"
)

// Label returns the Malay display label.
func (k BadDebtKind) Label() string {
	if k == Recovery {
		return "Hutang Lapuk Terpulih"
	}
	return "Hutang Lapuk"
}

// BadDebtGiven holds the figures shown for a bad debt question.
type BadDebtGiven struct {
	Kind        BadDebtKind `json:"kind"`
	Amount      float64     `json:"amount"`
	Receivables float64     `json:"receivables"`
	Bank        float64     `json:"bank"`
}

type badDebtAnswer struct {
	category       Category
	income         float64
	newReceivables float64
	newBank        float64
}

// BadDebt is a bad debt write-off or recovery question. Only the balance
// the event touches is asked: receivables for a write-off, bank for a
// recovery.
type BadDebt struct {
	meta
	Given BadDebtGiven
	want  badDebtAnswer
}

// BadDebtParams are the primitive draws behind a bad debt question.
type BadDebtParams struct {
	Kind BadDebtKind
	// Hundreds written off or recovered, 2..6.
	Hundreds int
	// ReceivablesHundreds, 50..99.
	ReceivablesHundreds int
	// BankHundreds, 50..149.
	BankHundreds int
}

// DrawBadDebt picks bad debt parameters from src.
func DrawBadDebt(src random.Source) BadDebtParams {
	kind := WriteOff
	if random.Chance(src) {
		kind = Recovery
	}
	return BadDebtParams{
		Kind:                kind,
		Hundreds:            random.IntRange(src, 2, 6),
		ReceivablesHundreds: random.IntRange(src, 50, 99),
		BankHundreds:        random.IntRange(src, 50, 149),
	}
}

// BuildBadDebt derives the given figures from p.
func BuildBadDebt(p BadDebtParams) BadDebtGiven {
	return BadDebtGiven{
		Kind:        p.Kind,
		Amount:      float64(p.Hundreds * 100),
		Receivables: float64(p.ReceivablesHundreds * 100),
		Bank:        float64(p.BankHundreds * 100),
	}
}

// NewBadDebt solves g and returns the question.
func NewBadDebt(g BadDebtGiven) *BadDebt {
	return &BadDebt{meta: newMeta("bd"), Given: g, want: solveBadDebt(g)}
}

// GenerateBadDebt returns a fresh random bad debt question.
func GenerateBadDebt(src random.Source) *BadDebt {
	return NewBadDebt(BuildBadDebt(DrawBadDebt(src)))
}

func solveBadDebt(g BadDebtGiven) badDebtAnswer {
	a := badDebtAnswer{
		category:       Expense,
		income:         g.Amount,
		newReceivables: g.Receivables,
		newBank:        g.Bank,
	}
	if g.Kind == Recovery {
		a.category = Revenue
		a.newBank = g.Bank + g.Amount
	} else {
		a.newReceivables = g.Receivables - g.Amount
	}
	return a
}

func (q *BadDebt) Family() Family { return FamilyBadDebt }

func (q *BadDebt) View() View {
	g := q.Given
	narrative := fmt.Sprintf("Hutang sebanyak %s dihapus kira sebagai hutang lapuk.", money.Format(g.Amount))
	balance := FieldSpec{Key: KeyNewReceivables, Label: "Baki ABT Baru (PKK)", Kind: FieldAmount}
	if g.Kind == Recovery {
		narrative = fmt.Sprintf("Hutang lapuk yang telah dihapus kira dahulu sebanyak %s diterima semula melalui bank.",
			money.Format(g.Amount))
		balance = FieldSpec{Key: KeyNewBank, Label: "Baki Bank Baru (PKK)", Kind: FieldAmount}
	}
	return View{
		ID:        q.id,
		Family:    FamilyBadDebt,
		Title:     "Hutang Lapuk",
		Penalty:   q.isPenalty,
		Narrative: narrative,
		Facts: []Fact{
			{Label: "Amaun", Value: money.Format(g.Amount)},
			{Label: "Akaun Belum Terima (ABT)", Value: money.Format(g.Receivables)},
			{Label: "Bank", Value: money.Format(g.Bank)},
		},
		Form: []FieldSpec{
			{Key: KeyBadDebtType, Label: "Jenis", Kind: FieldChoice, Choices: []Choice{
				{Value: string(WriteOff), Label: WriteOff.Label()},
				{Value: string(Recovery), Label: Recovery.Label()},
			}},
			{Key: KeyCategory, Label: "Kategori Untung Rugi", Kind: FieldChoice, Choices: categoryChoices()},
			{Key: KeyIncomeAmount, Label: "Amaun (UR)", Kind: FieldAmount},
			balance,
		},
	}
}

func (q *BadDebt) Solution() Input {
	in := Input{
		KeyBadDebtType:  string(q.Given.Kind),
		KeyCategory:     string(q.want.category),
		KeyIncomeAmount: money.Plain(q.want.income),
	}
	if q.Given.Kind == Recovery {
		in[KeyNewBank] = money.Plain(q.want.newBank)
	} else {
		in[KeyNewReceivables] = money.Plain(q.want.newReceivables)
	}
	return in
}

func (q *BadDebt) check(in Input) Verdict {
	g := newGrader(in)
	g.choice(KeyBadDebtType, string(q.Given.Kind))
	g.choice(KeyCategory, string(q.want.category))
	g.amount(KeyIncomeAmount, q.want.income, money.Sen)

	gv := q.Given
	var steps []string
	var balance Fact
	if gv.Kind == Recovery {
		g.amount(KeyNewBank, q.want.newBank, money.Sen)
		steps = []string{
			"Jenis: Hutang Lapuk Terpulih (Hasil).",
			fmt.Sprintf("Rekod dalam UR: %s.", money.Format(gv.Amount)),
			fmt.Sprintf("Baki Bank Baru (PKK) = %s + %s = %s.",
				money.Plain(gv.Bank), money.Plain(gv.Amount), money.Format(q.want.newBank)),
		}
		balance = Fact{Label: "Baki Bank Baru", Value: money.Format(q.want.newBank)}
	} else {
		g.amount(KeyNewReceivables, q.want.newReceivables, money.Sen)
		steps = []string{
			"Jenis: Hutang Lapuk (Belanja).",
			fmt.Sprintf("Rekod dalam UR: %s.", money.Format(gv.Amount)),
			fmt.Sprintf("Baki ABT Baru (PKK) = %s - %s = %s.",
				money.Plain(gv.Receivables), money.Plain(gv.Amount), money.Format(q.want.newReceivables)),
		}
		balance = Fact{Label: "Baki ABT Baru", Value: money.Format(q.want.newReceivables)}
	}
	return g.verdict(steps, []Fact{
		{Label: "Jenis", Value: gv.Kind.Label()},
		{Label: "Kategori", Value: q.want.category.Label()},
		{Label: "Amaun (UR)", Value: money.Format(q.want.income)},
		balance,
	})
}

func (q *BadDebt) penalty(src random.Source, _ int) Question {
	p := GenerateBadDebt(src)
	p.isPenalty = true
	return p
}
