package scenario

import (
	"fmt"

	"github.com/abhisek/akaun/internal/calendar"
	"github.com/abhisek/akaun/internal/money"
	"github.com/abhisek/akaun/internal/random"
)

// Accrual field keys.
const (
	KeyAccrualType = "accrualType"
	KeyClass       = "class"
	KeyFinal       = "finalAmount"
)

// AccrualType classifies an end-of-year accrual or prepayment.
type AccrualType string

const (
	AccruedExpense  AccrualType = "ACCRUED_EXP"
	PrepaidExpense  AccrualType = "PREPAID_EXP"
	AccruedRevenue  AccrualType = "ACCRUED_REV"
	UnearnedRevenue AccrualType = "UNEARNED_REV"
)

var accrualTypes = []AccrualType{AccruedExpense, PrepaidExpense, AccruedRevenue, UnearnedRevenue}

// Label returns the Malay display label.
func (t AccrualType) Label() string {
	switch t {
	case AccruedExpense:
		return "Belanja Belum Bayar"
	case PrepaidExpense:
		return "Belanja Prabayar"
	case AccruedRevenue:
		return "Hasil Belum Terima"
	case UnearnedRevenue:
		return "Hasil Belum Terperoleh"
	}
	return string(t)
}

// Class returns where the adjustment sits in the statement of financial
// position. Amounts owed to the business are current assets; amounts it
// owes, in cash or in service, are current liabilities.
func (t AccrualType) Class() Class {
	switch t {
	case PrepaidExpense, AccruedRevenue:
		return CurrentAsset
	}
	return CurrentLiability
}

// sign is +1 when the adjustment raises the income statement figure and -1
// when it reduces it.
func (t AccrualType) sign() float64 {
	switch t {
	case AccruedExpense, AccruedRevenue:
		return 1
	}
	return -1
}

func (t AccrualType) valid() bool {
	for _, v := range accrualTypes {
		if v == t {
			return true
		}
	}
	return false
}

// AccrualGiven holds what a learner sees for an accrual question.
type AccrualGiven struct {
	Level        int           `json:"level"`
	Item         string        `json:"item"`
	TrialBalance float64       `json:"trialBalance"`
	Narrative    string        `json:"narrative"`
	YearEnd      calendar.Date `json:"yearEnd"`
}

type accrualAnswer struct {
	typ        AccrualType
	class      Class
	adjustment float64
	final      float64
}

// Accrual is a question from one of the fixed accrual banks.
type Accrual struct {
	meta
	Given AccrualGiven
	want  accrualAnswer
	entry accrualEntry
}

// AccrualBank returns the questions of the bank for level in file order.
// Each call returns fresh question values.
func AccrualBank(level int) ([]*Accrual, error) {
	entries, err := loadBank(level)
	if err != nil {
		return nil, err
	}
	out := make([]*Accrual, len(entries))
	for i, e := range entries {
		out[i] = newAccrual(e)
	}
	return out, nil
}

// GenerateAccrual returns a random item of the level's bank.
func GenerateAccrual(src random.Source, level int) (*Accrual, error) {
	bank, err := AccrualBank(level)
	if err != nil {
		return nil, err
	}
	return random.Pick(src, bank), nil
}

func newAccrual(e accrualEntry) *Accrual {
	return &Accrual{
		meta:  meta{id: e.id},
		Given: e.given,
		want: accrualAnswer{
			typ:        e.typ,
			class:      e.typ.Class(),
			adjustment: e.adjust,
			final:      e.final,
		},
		entry: e,
	}
}

func (q *Accrual) Family() Family { return FamilyAccrual }

// Level returns the bank level, 1 or 2.
func (q *Accrual) Level() int { return q.Given.Level }

func (q *Accrual) View() View {
	g := q.Given
	facts := []Fact{
		{Label: "Butiran", Value: g.Item},
		{Label: "Imbangan Duga", Value: money.Format(g.TrialBalance)},
	}
	if !g.YearEnd.IsZero() {
		facts = append(facts, Fact{Label: "Tahun Berakhir", Value: g.YearEnd.String()})
	}
	typeChoices := make([]Choice, len(accrualTypes))
	for i, t := range accrualTypes {
		typeChoices[i] = Choice{Value: string(t), Label: t.Label()}
	}
	return View{
		ID:        q.id,
		Family:    FamilyAccrual,
		Title:     fmt.Sprintf("Akruan dan Prabayar (Tahap %d)", g.Level),
		Penalty:   q.isPenalty,
		Narrative: g.Narrative,
		Facts:     facts,
		Form: []FieldSpec{
			{Key: KeyAccrualType, Label: "Jenis Pelarasan", Kind: FieldChoice, Choices: typeChoices},
			{Key: KeyClass, Label: "Kategori PKK", Kind: FieldChoice, Choices: classChoices()},
			{Key: KeyAdjustment, Label: "Amaun Pelarasan (PKK)", Kind: FieldAmount},
			{Key: KeyFinal, Label: "Amaun Akhir (UR)", Kind: FieldAmount},
		},
	}
}

func (q *Accrual) Solution() Input {
	return Input{
		KeyAccrualType: string(q.want.typ),
		KeyClass:       string(q.want.class),
		KeyAdjustment:  money.Plain(q.want.adjustment),
		KeyFinal:       money.Plain(q.want.final),
	}
}

func (q *Accrual) check(in Input) Verdict {
	g := newGrader(in)
	g.choice(KeyAccrualType, string(q.want.typ))
	g.choice(KeyClass, string(q.want.class))
	g.amount(KeyAdjustment, q.want.adjustment, money.Sen)
	g.amount(KeyFinal, q.want.final, money.Sen)

	op := "-"
	if q.want.typ.sign() > 0 {
		op = "+"
	}
	steps := []string{fmt.Sprintf("Jenis: %s (%s).", q.want.typ.Label(), q.want.class.Label())}
	if s := q.derivation(); s != "" {
		steps = append(steps, s)
	}
	steps = append(steps,
		fmt.Sprintf("Amaun Pelarasan: %s.", money.Format(q.want.adjustment)),
		fmt.Sprintf("Amaun Akhir: %s %s %s = %s.",
			money.Plain(q.Given.TrialBalance), op, money.Plain(q.want.adjustment), money.Format(q.want.final)),
	)
	return g.verdict(steps, []Fact{
		{Label: "Jenis", Value: q.want.typ.Label()},
		{Label: "Kategori PKK", Value: q.want.class.Label()},
		{Label: "Amaun Pelarasan", Value: money.Format(q.want.adjustment)},
		{Label: "Amaun Akhir", Value: money.Format(q.want.final)},
	})
}

// derivation explains month-based adjustments for items that carry them.
func (q *Accrual) derivation() string {
	e := q.entry
	switch {
	case e.period != nil:
		start, err := calendar.Parse(e.period.Start)
		if err != nil {
			return ""
		}
		inside, outside := splitPeriod(start, q.Given.YearEnd, e.period.Months)
		return fmt.Sprintf("Tempoh %d bulan dari %s: %d bulan dalam tahun semasa, %d bulan selepas %s. %s x %d/%d.",
			e.period.Months, start, inside, outside, q.Given.YearEnd,
			money.Plain(q.Given.TrialBalance), outside, e.period.Months)
	case e.monthly != nil:
		return fmt.Sprintf("%s sebulan x %d bulan.", money.Format(e.monthly.Amount), e.monthly.Months)
	case e.annual > 0:
		return fmt.Sprintf("%s setahun - %s diterima.", money.Format(e.annual), money.Format(q.Given.TrialBalance))
	}
	return ""
}

// penalty repeats the same bank item under a new ID.
func (q *Accrual) penalty(_ random.Source, n int) Question {
	c := *q
	c.meta = penaltyMeta(meta{id: q.entry.id}, n)
	return &c
}
