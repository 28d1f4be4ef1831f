package scenario

import (
	"fmt"
	"math"
	"time"

	"github.com/abhisek/akaun/internal/calendar"
	"github.com/abhisek/akaun/internal/money"
	"github.com/abhisek/akaun/internal/random"
)

// Disposal field keys.
const (
	KeyDepSold         = "depSold"
	KeyDepRetained     = "depRetained"
	KeyAccumSold       = "accumSoldToDisposal"
	KeyAccumRetained   = "accumRetainedClosing"
	KeyBookValue       = "bookValue"
	KeyGainOrLoss      = "gainOrLoss"
	KeyGainLossAmount  = "gainLossAmount"
	KeyFinalCost       = "finalCost"
	KeyFinalAccumDep   = "finalAccumDep"
	KeyProceedsAccount = "proceedsAccount"
)

// DisposalYear is the fiscal year every disposal question is set in.
const DisposalYear = 2024

// Outcome is the result of a disposal.
type Outcome string

const (
	Gain Outcome = "UNTUNG"
	Loss Outcome = "RUGI"
)

// Label returns the Malay display label.
func (o Outcome) Label() string {
	if o == Loss {
		return "Rugi Pelupusan"
	}
	return "Untung Pelupusan"
}

// PaymentMode is how disposal proceeds were received.
type PaymentMode string

const (
	PaidByBank PaymentMode = "BANK"
	PaidByCash PaymentMode = "TUNAI"
)

// Label returns the Malay display label.
func (p PaymentMode) Label() string {
	if p == PaidByCash {
		return "Tunai"
	}
	return "Bank"
}

// DisposalGiven holds what a learner sees for an asset disposal question.
// At level 1 the trial balance holds only the unit being sold; at level 2
// it also holds a retained unit that stays on the books.
type DisposalGiven struct {
	Level            int           `json:"level"`
	AssetName        string        `json:"assetName"`
	TBCost           float64       `json:"tbCost"`
	TBAccumDep       float64       `json:"tbAccumDep"`
	SoldCost         float64       `json:"soldCost"`
	SoldPurchase     calendar.Date `json:"soldPurchase"`
	// RetainedPurchase is set at level 2 only.
	RetainedPurchase calendar.Date `json:"retainedPurchase,omitzero"`
	Method           Method        `json:"method"`
	RatePercent      float64       `json:"ratePercent"`
	YearEnd          calendar.Date `json:"yearEnd"`
	DisposalDate     calendar.Date `json:"disposalDate"`
	Proceeds         float64       `json:"proceeds"`
	Payment          PaymentMode   `json:"payment"`
}

// YearStart is the first day of the fiscal year ending at YearEnd.
func (g DisposalGiven) YearStart() calendar.Date {
	return g.YearEnd.AddMonths(-11).FirstOfMonth()
}

type disposalAnswer struct {
	soldOpening     float64
	retainedOpening float64
	depSold         float64
	depRetained     float64
	accumSold       float64
	accumRetained   float64
	bookValue       float64
	outcome         Outcome
	gainLoss        float64
	finalCost       float64
	finalAccum      float64
}

// Disposal is an asset disposal question.
type Disposal struct {
	meta
	Given DisposalGiven
	want  disposalAnswer
}

// DisposalParams are the primitive draws behind a disposal question.
type DisposalParams struct {
	Level        int
	AssetName    string
	Method       Method
	RatePercent  int
	YearEndMonth time.Month
	// SoldUnits and RetainedUnits of 12000 cost.
	SoldUnits     int
	RetainedUnits int
	// Months between purchase and the fiscal year start, 12..42.
	SoldAgeMonths     int
	RetainedAgeMonths int
	// DisposalMonth of the fiscal year, 1..11; the unit is sold on that
	// month's last day.
	DisposalMonth int
	// ProceedsPercent of book value, 60..140.
	ProceedsPercent int
	Payment         PaymentMode
}

// DrawDisposal picks disposal parameters for level 1 or 2 from src.
func DrawDisposal(src random.Source, level int) DisposalParams {
	method := StraightLine
	if random.Chance(src) {
		method = ReducingBalance
	}
	payment := PaidByBank
	if random.Chance(src) {
		payment = PaidByCash
	}
	p := DisposalParams{
		Level:           level,
		AssetName:       random.Pick(src, assetNames),
		Method:          method,
		RatePercent:     random.Pick(src, depreciationRates),
		YearEndMonth:    time.Month(random.IntRange(src, 1, 12)),
		SoldUnits:       random.IntRange(src, 1, 5),
		SoldAgeMonths:   random.IntRange(src, 12, 42),
		DisposalMonth:   random.IntRange(src, 1, 11),
		ProceedsPercent: random.IntRange(src, 60, 140),
		Payment:         payment,
	}
	if level == 2 {
		p.RetainedUnits = random.IntRange(src, 1, 5)
		p.RetainedAgeMonths = random.IntRange(src, 12, 42)
	}
	return p
}

const disposalUnitCost = 12000

// BuildDisposal derives the given figures from p.
func BuildDisposal(p DisposalParams) DisposalGiven {
	yearEnd := calendar.EndOfMonth(DisposalYear, p.YearEndMonth)
	yearStart := yearEnd.AddMonths(-11).FirstOfMonth()
	rate := float64(p.RatePercent)

	soldCost := float64(p.SoldUnits * disposalUnitCost)
	soldPurchase := yearStart.AddMonths(-p.SoldAgeMonths)
	tbCost := soldCost
	tbAccum := openingAccumDep(p.Method, soldCost, rate, soldPurchase, yearStart)

	var retainedPurchase calendar.Date
	if p.Level == 2 {
		retainedCost := float64(p.RetainedUnits * disposalUnitCost)
		retainedPurchase = yearStart.AddMonths(-p.RetainedAgeMonths)
		tbCost += retainedCost
		tbAccum += openingAccumDep(p.Method, retainedCost, rate, retainedPurchase, yearStart)
	}

	disposal := yearStart.AddMonths(p.DisposalMonth - 1).LastOfMonth()
	g := DisposalGiven{
		Level:            p.Level,
		AssetName:        p.AssetName,
		TBCost:           tbCost,
		TBAccumDep:       money.Round2(tbAccum),
		SoldCost:         soldCost,
		SoldPurchase:     soldPurchase,
		RetainedPurchase: retainedPurchase,
		Method:           p.Method,
		RatePercent:      rate,
		YearEnd:          yearEnd,
		DisposalDate:     disposal,
		Payment:          p.Payment,
	}

	bv := soldCost - soldAccumToDisposal(g)
	proceeds := math.Round(bv*float64(p.ProceedsPercent)/100/100) * 100
	if math.Abs(proceeds-bv) < 1 {
		proceeds += 100
	}
	g.Proceeds = math.Max(100, proceeds)
	return g
}

// NewDisposal solves g and returns the question.
func NewDisposal(g DisposalGiven) *Disposal {
	return &Disposal{meta: newMeta(fmt.Sprintf("disp%d", g.Level)), Given: g, want: solveDisposal(g)}
}

// GenerateDisposal returns a fresh random disposal question for level.
func GenerateDisposal(src random.Source, level int) *Disposal {
	return NewDisposal(BuildDisposal(DrawDisposal(src, level)))
}

// openingAccumDep replays depreciation fiscal year by fiscal year from
// purchase up to yearStart. The purchase year is pro-rated by the months
// owned. Reducing balance chains on the carrying amount, and no year may
// depreciate below zero.
func openingAccumDep(method Method, cost, ratePercent float64, purchase, yearStart calendar.Date) float64 {
	lastEnd := yearStart.AddMonths(-1).LastOfMonth()
	accum := 0.0
	for cursor := purchase.FirstOfMonth(); cursor.Before(yearStart); {
		back := calendar.MonthsBetween(cursor, lastEnd) / 12
		end := lastEnd.AddMonths(-back * 12).LastOfMonth()
		months := calendar.MonthsInclusive(cursor, end)
		charge := money.Round2(annualDepreciation(method, cost, accum, ratePercent) * float64(months) / 12)
		accum += math.Min(charge, cost-accum)
		cursor = end.AddMonths(1).FirstOfMonth()
	}
	return money.Round2(accum)
}

// soldAccumToDisposal is the sold unit's opening accumulated depreciation
// plus this year's charge up to the disposal date.
func soldAccumToDisposal(g DisposalGiven) float64 {
	opening, charge := soldDepreciation(g)
	return opening + charge
}

func soldDepreciation(g DisposalGiven) (opening, charge float64) {
	opening = openingAccumDep(g.Method, g.SoldCost, g.RatePercent, g.SoldPurchase, g.YearStart())
	months := calendar.MonthsInclusive(g.YearStart(), g.DisposalDate)
	charge = money.Round2(annualDepreciation(g.Method, g.SoldCost, opening, g.RatePercent) * float64(months) / 12)
	return opening, math.Min(charge, g.SoldCost-opening)
}

func solveDisposal(g DisposalGiven) disposalAnswer {
	var a disposalAnswer
	a.soldOpening, a.depSold = soldDepreciation(g)
	a.accumSold = money.Round2(a.soldOpening + a.depSold)
	a.bookValue = money.Round2(g.SoldCost - a.accumSold)

	a.outcome = Loss
	if g.Proceeds > a.bookValue {
		a.outcome = Gain
	}
	a.gainLoss = money.Round2(math.Abs(g.Proceeds - a.bookValue))
	a.finalCost = g.TBCost - g.SoldCost

	if g.Level == 2 {
		a.retainedOpening = money.Round2(g.TBAccumDep - a.soldOpening)
		a.depRetained = money.Round2(math.Min(
			annualDepreciation(g.Method, a.finalCost, a.retainedOpening, g.RatePercent),
			a.finalCost-a.retainedOpening))
		a.accumRetained = money.Round2(a.retainedOpening + a.depRetained)
	}
	a.finalAccum = a.accumRetained
	return a
}

func (q *Disposal) Family() Family { return FamilyDisposal }

// Level returns 1 for a single-unit disposal and 2 when a retained unit is
// also depreciated.
func (q *Disposal) Level() int { return q.Given.Level }

func (q *Disposal) View() View {
	g := q.Given
	narrative := fmt.Sprintf(
		"%s berkos %s yang dibeli pada %s telah dijual pada %s dengan harga %s secara %s. Susut nilai dikira pada kadar %s%% setahun mengikut kaedah %s, berdasarkan bulan pemilikan.",
		g.AssetName, money.Format(g.SoldCost), g.SoldPurchase, g.DisposalDate,
		money.Format(g.Proceeds), g.Payment.Label(), money.Plain(g.RatePercent), g.Method.Label())
	if g.Level == 2 {
		narrative += " Baki aset lain tidak dijual dan disusutnilaikan setahun penuh."
	}
	form := []FieldSpec{
		{Key: KeyDepSold, Label: "Susut Nilai Aset Dijual (UR)", Kind: FieldAmount},
	}
	if g.Level == 2 {
		form = append(form, FieldSpec{Key: KeyDepRetained, Label: "Susut Nilai Aset Tidak Dijual (UR)", Kind: FieldAmount})
	}
	form = append(form, FieldSpec{Key: KeyAccumSold, Label: "SNT Aset Dijual hingga Tarikh Jual", Kind: FieldAmount})
	if g.Level == 2 {
		form = append(form, FieldSpec{Key: KeyAccumRetained, Label: "SNT Akhir Aset Tidak Dijual", Kind: FieldAmount})
	}
	form = append(form,
		FieldSpec{Key: KeyBookValue, Label: "Nilai Buku pada Tarikh Jual", Kind: FieldAmount},
		FieldSpec{Key: KeyGainOrLoss, Label: "Untung atau Rugi", Kind: FieldChoice, Choices: []Choice{
			{Value: string(Gain), Label: Gain.Label()},
			{Value: string(Loss), Label: Loss.Label()},
		}},
		FieldSpec{Key: KeyGainLossAmount, Label: "Amaun Untung/Rugi (UR)", Kind: FieldAmount},
		FieldSpec{Key: KeyProceedsAccount, Label: "Akaun Penerimaan Hasil Jualan", Kind: FieldChoice, Choices: []Choice{
			{Value: string(PaidByBank), Label: PaidByBank.Label()},
			{Value: string(PaidByCash), Label: PaidByCash.Label()},
		}},
		FieldSpec{Key: KeyFinalCost, Label: "Kos Akhir (PKK)", Kind: FieldAmount},
		FieldSpec{Key: KeyFinalAccumDep, Label: "SNT Akhir (PKK)", Kind: FieldAmount},
	)
	facts := []Fact{
		{Label: "Tahun Berakhir", Value: g.YearEnd.String()},
		{Label: fmt.Sprintf("%s (Imbangan Duga)", g.AssetName), Value: money.Format(g.TBCost)},
		{Label: "SNT (Imbangan Duga)", Value: money.Format(g.TBAccumDep)},
		{Label: "Kos Aset Dijual", Value: money.Format(g.SoldCost)},
		{Label: "Tarikh Beli", Value: g.SoldPurchase.String()},
	}
	if g.Level == 2 && !g.RetainedPurchase.IsZero() {
		facts = append(facts,
			Fact{Label: "Kos Aset Tidak Dijual", Value: money.Format(g.TBCost - g.SoldCost)},
			Fact{Label: "Tarikh Beli Aset Tidak Dijual", Value: g.RetainedPurchase.String()},
		)
	}
	facts = append(facts,
		Fact{Label: "Tarikh Jual", Value: g.DisposalDate.String()},
		Fact{Label: "Hasil Jualan", Value: money.Format(g.Proceeds)},
	)
	return View{
		ID:        q.id,
		Family:    FamilyDisposal,
		Title:     fmt.Sprintf("Pelupusan Aset (Tahap %d)", g.Level),
		Penalty:   q.isPenalty,
		Narrative: narrative,
		Facts:     facts,
		Form:      form,
	}
}

func (q *Disposal) Solution() Input {
	w := q.want
	in := Input{
		KeyDepSold:         money.Plain(w.depSold),
		KeyAccumSold:       money.Plain(w.accumSold),
		KeyBookValue:       money.Plain(w.bookValue),
		KeyGainOrLoss:      string(w.outcome),
		KeyGainLossAmount:  money.Plain(w.gainLoss),
		KeyProceedsAccount: string(q.Given.Payment),
		KeyFinalCost:       money.Plain(w.finalCost),
		KeyFinalAccumDep:   money.Plain(w.finalAccum),
	}
	if q.Given.Level == 2 {
		in[KeyDepRetained] = money.Plain(w.depRetained)
		in[KeyAccumRetained] = money.Plain(w.accumRetained)
	}
	return in
}

func (q *Disposal) check(in Input) Verdict {
	gv, w := q.Given, q.want
	g := newGrader(in)
	g.amount(KeyDepSold, w.depSold, money.Ringgit)
	g.amount(KeyAccumSold, w.accumSold, money.Ringgit)
	g.amount(KeyBookValue, w.bookValue, money.Ringgit)
	g.choice(KeyGainOrLoss, string(w.outcome))
	g.amount(KeyGainLossAmount, w.gainLoss, money.Ringgit)
	g.choice(KeyProceedsAccount, string(gv.Payment))
	g.amount(KeyFinalCost, w.finalCost, money.Ringgit)
	g.amount(KeyFinalAccumDep, w.finalAccum, money.Ringgit)
	if gv.Level == 2 {
		g.amount(KeyDepRetained, w.depRetained, money.Ringgit)
		g.amount(KeyAccumRetained, w.accumRetained, money.Ringgit)
	}

	months := calendar.MonthsInclusive(gv.YearStart(), gv.DisposalDate)
	steps := []string{
		fmt.Sprintf("SNT awal aset dijual (dari %s hingga %s): %s.",
			gv.SoldPurchase, gv.YearStart().AddMonths(-1).LastOfMonth(), money.Plain(w.soldOpening)),
		fmt.Sprintf("Susut nilai tahun semasa aset dijual (%d bulan): %s.", months, money.Plain(w.depSold)),
		fmt.Sprintf("SNT hingga tarikh jual: %s + %s = %s.",
			money.Plain(w.soldOpening), money.Plain(w.depSold), money.Plain(w.accumSold)),
		fmt.Sprintf("Nilai buku: %s - %s = %s.", money.Plain(gv.SoldCost), money.Plain(w.accumSold), money.Plain(w.bookValue)),
		fmt.Sprintf("%s: |%s - %s| = %s.", w.outcome.Label(),
			money.Plain(gv.Proceeds), money.Plain(w.bookValue), money.Plain(w.gainLoss)),
		fmt.Sprintf("Hasil jualan diterima melalui %s.", gv.Payment.Label()),
	}
	if gv.Level == 2 {
		steps = append(steps,
			fmt.Sprintf("Aset tidak dijual: SNT awal %s + susut nilai setahun %s = %s.",
				money.Plain(w.retainedOpening), money.Plain(w.depRetained), money.Plain(w.accumRetained)))
	}
	steps = append(steps,
		fmt.Sprintf("Kos akhir: %s - %s = %s.", money.Plain(gv.TBCost), money.Plain(gv.SoldCost), money.Plain(w.finalCost)),
		fmt.Sprintf("SNT akhir hanya milik aset yang tinggal: %s.", money.Plain(w.finalAccum)),
	)

	expected := []Fact{{Label: "Susut Nilai Aset Dijual", Value: money.Format(w.depSold)}}
	if gv.Level == 2 {
		expected = append(expected, Fact{Label: "Susut Nilai Aset Tidak Dijual", Value: money.Format(w.depRetained)})
	}
	expected = append(expected,
		Fact{Label: "SNT Aset Dijual", Value: money.Format(w.accumSold)},
		Fact{Label: "Nilai Buku", Value: money.Format(w.bookValue)},
		Fact{Label: w.outcome.Label(), Value: money.Format(w.gainLoss)},
		Fact{Label: "Kos Akhir", Value: money.Format(w.finalCost)},
		Fact{Label: "SNT Akhir", Value: money.Format(w.finalAccum)},
	)
	return g.verdict(steps, expected)
}

// penalty keeps the disposal level.
func (q *Disposal) penalty(src random.Source, _ int) Question {
	p := GenerateDisposal(src, q.Given.Level)
	p.isPenalty = true
	return p
}
