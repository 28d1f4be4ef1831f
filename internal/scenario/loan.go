package scenario

import (
	"fmt"
	"math"
	"time"

	"github.com/abhisek/akaun/internal/calendar"
	"github.com/abhisek/akaun/internal/money"
	"github.com/abhisek/akaun/internal/random"
)

// Loan field keys. The adjustment amount reuses KeyAdjustment.
const (
	KeyInterestExpense = "interestExpense"
	KeyInterestType    = "interestAdjustmentType"
	KeyCurrentPortion  = "currentLiability"
	KeyNonCurrent      = "nonCurrentLiability"
)

// LoanYear is the fiscal year every loan question is set in.
const LoanYear = 2024

// InterestAdjustment is the year-end interest adjustment on a loan.
type InterestAdjustment string

const (
	AccruedInterest InterestAdjustment = "BELUM_BAYAR"
	PrepaidInterest InterestAdjustment = "PRABAYAR"
)

// Label returns the Malay display label.
func (a InterestAdjustment) Label() string {
	if a == PrepaidInterest {
		return "Faedah Prabayar"
	}
	return "Faedah Belum Bayar"
}

// LoanGiven holds what a learner sees for a loan question.
type LoanGiven struct {
	Principal      float64       `json:"principal"`
	RatePercent    float64       `json:"ratePercent"`
	DurationYears  int           `json:"durationYears"`
	Start          calendar.Date `json:"start"`
	Maturity       calendar.Date `json:"maturity"`
	YearEnd        calendar.Date `json:"yearEnd"`
	TBBalance      float64       `json:"tbBalance"`
	TBInterestPaid float64       `json:"tbInterestPaid"`
	IsNew          bool          `json:"isNew"`
	MonthsHeld     int           `json:"monthsHeld"`
}

type loanAnswer struct {
	interest   float64
	adjustment InterestAdjustment
	amount     float64
	yearly     float64
	current    float64
	nonCurrent float64
}

// Loan is a loan interest and liability split question.
type Loan struct {
	meta
	Given LoanGiven
	want  loanAnswer
}

// LoanParams are the primitive draws behind a loan question.
type LoanParams struct {
	New bool
	// YearEndMonth closes the fiscal year on its last day.
	YearEndMonth time.Month
	// Monthly repayment, one of 200, 300, 400, 500, 1000.
	Monthly       int
	DurationYears int
	RatePercent   int
	// MonthsHeld this year, 1..11 for a new loan. Ignored for a seasoned
	// loan, which is always held 12 months.
	MonthsHeld int
	// YearsPrior and StartMonth place a seasoned loan's start.
	YearsPrior int
	StartMonth time.Month
	// PaidMonths of interest already in the trial balance.
	PaidMonths int
}

var (
	loanMonthly = []int{200, 300, 400, 500, 1000}
	loanRates   = []int{3, 4, 5, 6, 8}
)

// DrawLoan picks loan parameters from src. isNew selects a loan taken out
// during the current year.
func DrawLoan(src random.Source, isNew bool) LoanParams {
	p := LoanParams{
		New:           isNew,
		YearEndMonth:  time.Month(random.IntRange(src, 1, 12)),
		Monthly:       random.Pick(src, loanMonthly),
		DurationYears: random.IntRange(src, 2, 10),
		RatePercent:   random.Pick(src, loanRates),
	}
	accrued := random.Chance(src)
	if isNew {
		p.MonthsHeld = random.IntRange(src, 1, 11)
		step := random.IntRange(src, 1, 2)
		if accrued {
			p.PaidMonths = max(0, p.MonthsHeld-step)
		} else {
			p.PaidMonths = p.MonthsHeld + step
		}
		return p
	}

	p.MonthsHeld = 12
	p.YearsPrior = random.IntRange(src, 1, max(1, p.DurationYears-2))
	if p.YearsPrior == 1 {
		p.StartMonth = time.Month(random.IntRange(src, 1, int(p.YearEndMonth)))
	} else {
		p.StartMonth = time.Month(random.IntRange(src, 1, 12))
	}
	if accrued {
		p.PaidMonths = random.IntRange(src, 9, 11)
	} else {
		p.PaidMonths = random.IntRange(src, 13, 15)
	}
	return p
}

// BuildLoan derives the given figures from p. A seasoned loan whose start
// would leave no balance is moved forward so that at least one month of
// repayments remains outstanding.
func BuildLoan(p LoanParams) LoanGiven {
	yearEnd := calendar.EndOfMonth(LoanYear, p.YearEndMonth)
	principal := p.Monthly * 12 * p.DurationYears
	term := p.DurationYears * 12

	var start calendar.Date
	held, elapsed := p.MonthsHeld, p.MonthsHeld
	if p.New {
		start = yearEnd.FirstOfMonth().AddMonths(-(held - 1))
	} else {
		held = 12
		start = calendar.StartOfMonth(LoanYear-p.YearsPrior, p.StartMonth)
		elapsed = calendar.MonthsInclusive(start, yearEnd)
		if elapsed >= term {
			start = start.AddMonths(elapsed - term + 1)
			elapsed = calendar.MonthsInclusive(start, yearEnd)
		}
	}

	monthlyInterest := float64(principal*p.RatePercent) / 1200
	return LoanGiven{
		Principal:      float64(principal),
		RatePercent:    float64(p.RatePercent),
		DurationYears:  p.DurationYears,
		Start:          start,
		Maturity:       start.AddMonths(term - 1).LastOfMonth(),
		YearEnd:        yearEnd,
		TBBalance:      float64(principal - p.Monthly*elapsed),
		TBInterestPaid: money.Round2(monthlyInterest * float64(p.PaidMonths)),
		IsNew:          p.New,
		MonthsHeld:     held,
	}
}

// NewLoan solves g and returns the question.
func NewLoan(g LoanGiven) *Loan {
	return &Loan{meta: newMeta("loan"), Given: g, want: solveLoan(g)}
}

// GenerateLoan returns a fresh random loan question of the requested kind.
func GenerateLoan(src random.Source, isNew bool) *Loan {
	return NewLoan(BuildLoan(DrawLoan(src, isNew)))
}

func solveLoan(g LoanGiven) loanAnswer {
	interest := money.Round2(g.Principal * g.RatePercent * float64(g.MonthsHeld) / 1200)
	adj := PrepaidInterest
	if g.TBInterestPaid < interest {
		adj = AccruedInterest
	}
	yearly := g.Principal / float64(g.DurationYears)
	current := math.Min(yearly, g.TBBalance)
	return loanAnswer{
		interest:   interest,
		adjustment: adj,
		amount:     money.Round2(math.Abs(interest - g.TBInterestPaid)),
		yearly:     yearly,
		current:    current,
		nonCurrent: g.TBBalance - current,
	}
}

func (q *Loan) Family() Family { return FamilyLoan }

func (q *Loan) View() View {
	g := q.Given
	title := "Pinjaman (Lama)"
	if g.IsNew {
		title = "Pinjaman (Baru)"
	}
	return View{
		ID:      q.id,
		Family:  FamilyLoan,
		Title:   title,
		Penalty: q.isPenalty,
		Narrative: fmt.Sprintf(
			"Pinjaman %s diperoleh pada %s dengan kadar faedah %s%% setahun. Pinjaman dibayar balik secara ansuran bulanan yang sama selama %d tahun dan matang pada %s.",
			money.Format(g.Principal), g.Start, money.Plain(g.RatePercent), g.DurationYears, g.Maturity),
		Facts: []Fact{
			{Label: "Tahun Berakhir", Value: g.YearEnd.String()},
			{Label: "Pinjaman Asal", Value: money.Format(g.Principal)},
			{Label: "Baki Pinjaman (Imbangan Duga)", Value: money.Format(g.TBBalance)},
			{Label: "Faedah Dibayar (Imbangan Duga)", Value: money.Format(g.TBInterestPaid)},
		},
		Form: []FieldSpec{
			{Key: KeyInterestExpense, Label: "Faedah Pinjaman (UR)", Kind: FieldAmount},
			{Key: KeyInterestType, Label: "Jenis Pelarasan Faedah", Kind: FieldChoice, Choices: []Choice{
				{Value: string(AccruedInterest), Label: AccruedInterest.Label()},
				{Value: string(PrepaidInterest), Label: PrepaidInterest.Label()},
			}},
			{Key: KeyAdjustment, Label: "Amaun Pelarasan (PKK)", Kind: FieldAmount},
			{Key: KeyCurrentPortion, Label: "Liabiliti Semasa", Kind: FieldAmount},
			{Key: KeyNonCurrent, Label: "Liabiliti Bukan Semasa", Kind: FieldAmount},
		},
	}
}

func (q *Loan) Solution() Input {
	return Input{
		KeyInterestExpense: money.Plain(q.want.interest),
		KeyInterestType:    string(q.want.adjustment),
		KeyAdjustment:      money.Plain(q.want.amount),
		KeyCurrentPortion:  money.Plain(q.want.current),
		KeyNonCurrent:      money.Plain(q.want.nonCurrent),
	}
}

func (q *Loan) check(in Input) Verdict {
	g := newGrader(in)
	g.amount(KeyInterestExpense, q.want.interest, money.Sen)
	g.choice(KeyInterestType, string(q.want.adjustment))
	g.amount(KeyAdjustment, q.want.amount, money.Sen)
	g.amount(KeyCurrentPortion, q.want.current, money.Sen)
	g.amount(KeyNonCurrent, q.want.nonCurrent, money.Sen)

	gv, w := q.Given, q.want
	formula := fmt.Sprintf("%s x %s%%", money.Plain(gv.Principal), money.Plain(gv.RatePercent))
	if gv.IsNew {
		formula += fmt.Sprintf(" x %d/12", gv.MonthsHeld)
	}
	cmp := ">"
	if w.adjustment == AccruedInterest {
		cmp = "<"
	}
	current := fmt.Sprintf("Liabiliti Semasa: bayaran balik setahun = %s / %d tahun = %s.",
		money.Plain(gv.Principal), gv.DurationYears, money.Plain(w.yearly))
	if w.current < w.yearly {
		current = fmt.Sprintf("Liabiliti Semasa: baki %s kurang daripada bayaran balik setahun %s, jadi keseluruhan baki ialah liabiliti semasa.",
			money.Plain(gv.TBBalance), money.Plain(w.yearly))
	}
	steps := []string{
		fmt.Sprintf("Faedah (UR): %s = %s.", formula, money.Plain(w.interest)),
		fmt.Sprintf("Pelarasan: Bayar (%s) %s Belanja (%s), maka %s sebanyak %s.",
			money.Plain(gv.TBInterestPaid), cmp, money.Plain(w.interest), w.adjustment.Label(), money.Plain(w.amount)),
		current,
		fmt.Sprintf("Liabiliti Bukan Semasa: %s - %s = %s.",
			money.Plain(gv.TBBalance), money.Plain(w.current), money.Plain(w.nonCurrent)),
	}
	return g.verdict(steps, []Fact{
		{Label: "Faedah Pinjaman", Value: money.Format(w.interest)},
		{Label: "Jenis Pelarasan", Value: w.adjustment.Label()},
		{Label: "Amaun Pelarasan", Value: money.Format(w.amount)},
		{Label: "Liabiliti Semasa", Value: money.Format(w.current)},
		{Label: "Liabiliti Bukan Semasa", Value: money.Format(w.nonCurrent)},
	})
}

// penalty keeps the new or seasoned flavour of the missed loan.
func (q *Loan) penalty(src random.Source, _ int) Question {
	p := GenerateLoan(src, q.Given.IsNew)
	p.isPenalty = true
	return p
}
