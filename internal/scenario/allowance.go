package scenario

import (
	"fmt"
	"math"

	"github.com/abhisek/akaun/internal/money"
	"github.com/abhisek/akaun/internal/random"
)

// Allowance field keys.
const (
	KeyNewAllowance = "newAllowance"
	KeyCategory     = "category"
	KeyAdjustment   = "adjustmentAmount"
)

// AllowanceGiven holds the figures shown for a doubtful-debt allowance
// (Peruntukan Hutang Ragu) question.
type AllowanceGiven struct {
	Receivables  float64 `json:"receivables"`
	OldAllowance float64 `json:"oldAllowance"`
	RatePercent  float64 `json:"ratePercent"`
}

type allowanceAnswer struct {
	newAllowance float64
	category     Category
	amount       float64
}

// Allowance is a doubtful-debt allowance question.
type Allowance struct {
	meta
	Given AllowanceGiven
	want  allowanceAnswer
}

// AllowanceParams are the primitive draws behind a generated allowance
// question.
type AllowanceParams struct {
	// Thousands of receivables, 10..59.
	Thousands int
	// RatePercent is one of 2, 3, 4, 5.
	RatePercent int
	// Increase selects an upward adjustment (expense).
	Increase bool
	// Step is the hundreds the old allowance differs by, 1..5.
	Step int
}

var allowanceRates = []int{2, 3, 4, 5}

// DrawAllowance picks allowance parameters from src.
func DrawAllowance(src random.Source) AllowanceParams {
	return AllowanceParams{
		Thousands:   random.IntRange(src, 10, 59),
		RatePercent: random.Pick(src, allowanceRates),
		Increase:    random.Chance(src),
		Step:        random.IntRange(src, 1, 5),
	}
}

// BuildAllowance derives the given figures from p. A downward perturbation
// that would push the old allowance below zero is clamped at zero.
func BuildAllowance(p AllowanceParams) AllowanceGiven {
	receivables := float64(p.Thousands * 1000)
	newAllowance := receivables * float64(p.RatePercent) / 100
	delta := float64(p.Step * 100)

	old := newAllowance + delta
	if p.Increase {
		old = math.Max(0, newAllowance-delta)
	}
	return AllowanceGiven{
		Receivables:  receivables,
		OldAllowance: old,
		RatePercent:  float64(p.RatePercent),
	}
}

// NewAllowance solves g and returns the question.
func NewAllowance(g AllowanceGiven) *Allowance {
	return &Allowance{meta: newMeta("phr"), Given: g, want: solveAllowance(g)}
}

// GenerateAllowance returns a fresh random allowance question.
func GenerateAllowance(src random.Source) *Allowance {
	return NewAllowance(BuildAllowance(DrawAllowance(src)))
}

func solveAllowance(g AllowanceGiven) allowanceAnswer {
	newAllowance := money.Round2(g.Receivables * g.RatePercent / 100)
	adj := newAllowance - g.OldAllowance
	cat := Revenue
	if adj > 0 {
		cat = Expense
	}
	return allowanceAnswer{
		newAllowance: newAllowance,
		category:     cat,
		amount:       math.Abs(adj),
	}
}

func (q *Allowance) Family() Family { return FamilyAllowance }

func (q *Allowance) View() View {
	g := q.Given
	return View{
		ID:      q.id,
		Family:  FamilyAllowance,
		Title:   "Peruntukan Hutang Ragu (PHR)",
		Penalty: q.isPenalty,
		Narrative: fmt.Sprintf(
			"Peruntukan hutang ragu dikekalkan pada kadar %s%% atas akaun belum terima.",
			money.Plain(g.RatePercent)),
		Facts: []Fact{
			{Label: "Akaun Belum Terima (ABT)", Value: money.Format(g.Receivables)},
			{Label: "PHR Lama", Value: money.Format(g.OldAllowance)},
			{Label: "Kadar PHR", Value: money.Plain(g.RatePercent) + "%"},
		},
		Form: []FieldSpec{
			{Key: KeyNewAllowance, Label: "PHR Baru (PKK)", Kind: FieldAmount},
			{Key: KeyCategory, Label: "Kategori Untung Rugi", Kind: FieldChoice, Choices: categoryChoices()},
			{Key: KeyAdjustment, Label: "Amaun Pelarasan (UR)", Kind: FieldAmount},
		},
	}
}

func (q *Allowance) Solution() Input {
	return Input{
		KeyNewAllowance: money.Plain(q.want.newAllowance),
		KeyCategory:     string(q.want.category),
		KeyAdjustment:   money.Plain(q.want.amount),
	}
}

func (q *Allowance) check(in Input) Verdict {
	g := newGrader(in)
	g.amount(KeyNewAllowance, q.want.newAllowance, money.Sen)
	g.choice(KeyCategory, string(q.want.category))
	g.amount(KeyAdjustment, q.want.amount, money.Sen)

	diff := q.want.newAllowance - q.Given.OldAllowance
	direction := "Negatif"
	if diff > 0 {
		direction = "Positif"
	}
	steps := []string{
		fmt.Sprintf("Pengiraan: %s x %s%% = %s (PHR Baru).",
			money.Plain(q.Given.Receivables), money.Plain(q.Given.RatePercent), money.Plain(q.want.newAllowance)),
		fmt.Sprintf("Pelarasan: %s - %s = %s.",
			money.Plain(q.want.newAllowance), money.Plain(q.Given.OldAllowance), money.Plain(diff)),
		fmt.Sprintf("Oleh kerana %s, ia adalah %s sebanyak %s.",
			direction, q.want.category, money.Plain(q.want.amount)),
	}
	return g.verdict(steps, []Fact{
		{Label: "PHR Baru", Value: money.Format(q.want.newAllowance)},
		{Label: "Kategori", Value: q.want.category.Label()},
		{Label: "Amaun Pelarasan", Value: money.Format(q.want.amount)},
	})
}

func (q *Allowance) penalty(src random.Source, _ int) Question {
	p := GenerateAllowance(src)
	p.isPenalty = true
	return p
}
