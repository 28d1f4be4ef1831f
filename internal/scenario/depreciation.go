package scenario

import (
	"fmt"

	"github.com/abhisek/akaun/internal/money"
	"github.com/abhisek/akaun/internal/random"
)

// Depreciation field keys.
const (
	KeyDepExpense  = "expense"
	KeyNewAccumDep = "newAccumDep"
)

// DepreciationGiven holds the figures shown for a depreciation (Susut
// Nilai) question.
type DepreciationGiven struct {
	AssetName       string  `json:"assetName"`
	Cost            float64 `json:"cost"`
	OpeningAccumDep float64 `json:"openingAccumDep"`
	Method          Method  `json:"method"`
	RatePercent     float64 `json:"ratePercent"`
}

type depreciationAnswer struct {
	expense     float64
	category    Category
	newAccumDep float64
}

// Depreciation is a single-year depreciation question.
type Depreciation struct {
	meta
	Given DepreciationGiven
	want  depreciationAnswer
}

// DepreciationParams are the primitive draws behind a depreciation question.
type DepreciationParams struct {
	AssetName string
	// TenThousands of cost, 2..9.
	TenThousands int
	Method       Method
	// RatePercent is one of 10, 15, 20.
	RatePercent int
	// OpeningPercent of cost already depreciated, 10..39.
	OpeningPercent int
}

var (
	assetNames        = []string{"Kenderaan", "Lengkapan", "Alatan Pejabat", "Jentera"}
	depreciationRates = []int{10, 15, 20}
)

// DrawDepreciation picks depreciation parameters from src.
func DrawDepreciation(src random.Source) DepreciationParams {
	method := StraightLine
	if random.Chance(src) {
		method = ReducingBalance
	}
	return DepreciationParams{
		AssetName:      random.Pick(src, assetNames),
		TenThousands:   random.IntRange(src, 2, 9),
		Method:         method,
		RatePercent:    random.Pick(src, depreciationRates),
		OpeningPercent: random.IntRange(src, 10, 39),
	}
}

// BuildDepreciation derives the given figures from p.
func BuildDepreciation(p DepreciationParams) DepreciationGiven {
	cost := float64(p.TenThousands * 10000)
	return DepreciationGiven{
		AssetName:       p.AssetName,
		Cost:            cost,
		OpeningAccumDep: cost * float64(p.OpeningPercent) / 100,
		Method:          p.Method,
		RatePercent:     float64(p.RatePercent),
	}
}

// NewDepreciation solves g and returns the question.
func NewDepreciation(g DepreciationGiven) *Depreciation {
	return &Depreciation{meta: newMeta("sn"), Given: g, want: solveDepreciation(g)}
}

// GenerateDepreciation returns a fresh random depreciation question.
func GenerateDepreciation(src random.Source) *Depreciation {
	return NewDepreciation(BuildDepreciation(DrawDepreciation(src)))
}

// annualDepreciation is one year's charge. Reducing balance always works on
// the carrying amount, never on cost alone.
func annualDepreciation(method Method, cost, accum, ratePercent float64) float64 {
	base := cost
	if method == ReducingBalance {
		base = cost - accum
	}
	return base * ratePercent / 100
}

func solveDepreciation(g DepreciationGiven) depreciationAnswer {
	exp := money.Round2(annualDepreciation(g.Method, g.Cost, g.OpeningAccumDep, g.RatePercent))
	return depreciationAnswer{
		expense:     exp,
		category:    Expense,
		newAccumDep: g.OpeningAccumDep + exp,
	}
}

func (q *Depreciation) Family() Family { return FamilyDepreciation }

func (q *Depreciation) View() View {
	g := q.Given
	return View{
		ID:      q.id,
		Family:  FamilyDepreciation,
		Title:   "Susut Nilai (SN)",
		Penalty: q.isPenalty,
		Narrative: fmt.Sprintf("Susut nilai %s dikira pada kadar %s%% setahun mengikut kaedah %s.",
			g.AssetName, money.Plain(g.RatePercent), g.Method.Label()),
		Facts: []Fact{
			{Label: "Aset", Value: g.AssetName},
			{Label: "Kos", Value: money.Format(g.Cost)},
			{Label: "SNT Awal", Value: money.Format(g.OpeningAccumDep)},
			{Label: "Kaedah", Value: g.Method.Label()},
			{Label: "Kadar", Value: money.Plain(g.RatePercent) + "%"},
		},
		Form: []FieldSpec{
			{Key: KeyDepExpense, Label: "Susut Nilai Tahun Semasa (UR)", Kind: FieldAmount},
			{Key: KeyCategory, Label: "Kategori Untung Rugi", Kind: FieldChoice, Choices: categoryChoices()},
			{Key: KeyNewAccumDep, Label: "SNT Akhir (PKK)", Kind: FieldAmount},
		},
	}
}

func (q *Depreciation) Solution() Input {
	return Input{
		KeyDepExpense:  money.Plain(q.want.expense),
		KeyCategory:    string(q.want.category),
		KeyNewAccumDep: money.Plain(q.want.newAccumDep),
	}
}

func (q *Depreciation) check(in Input) Verdict {
	g := newGrader(in)
	g.amount(KeyDepExpense, q.want.expense, money.Sen)
	g.choice(KeyCategory, string(q.want.category))
	g.amount(KeyNewAccumDep, q.want.newAccumDep, money.Sen)

	gv := q.Given
	formula := fmt.Sprintf("%s x %s%%", money.Plain(gv.Cost), money.Plain(gv.RatePercent))
	if gv.Method == ReducingBalance {
		formula = fmt.Sprintf("(%s - %s) x %s%%",
			money.Plain(gv.Cost), money.Plain(gv.OpeningAccumDep), money.Plain(gv.RatePercent))
	}
	steps := []string{
		fmt.Sprintf("Pengiraan: %s = %s.", formula, money.Plain(q.want.expense)),
		"Kategori sentiasa BELANJA.",
		fmt.Sprintf("Terkumpul: %s (Lama) + %s (Baru) = %s.",
			money.Plain(gv.OpeningAccumDep), money.Plain(q.want.expense), money.Plain(q.want.newAccumDep)),
	}
	return g.verdict(steps, []Fact{
		{Label: "Susut Nilai", Value: money.Format(q.want.expense)},
		{Label: "Kategori", Value: q.want.category.Label()},
		{Label: "SNT Akhir", Value: money.Format(q.want.newAccumDep)},
	})
}

func (q *Depreciation) penalty(src random.Source, _ int) Question {
	p := GenerateDepreciation(src)
	p.isPenalty = true
	return p
}
