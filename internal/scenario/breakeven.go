package scenario

import (
	"fmt"
	"math"

	"github.com/abhisek/akaun/internal/money"
	"github.com/abhisek/akaun/internal/random"
)

// Break-even field keys.
const (
	KeyFixedCost        = "fixedCost"
	KeyVariableCost     = "variableCostPerUnit"
	KeyContribution     = "contributionMarginPerUnit"
	KeyBreakEvenUnits   = "breakEvenUnits"
	KeyBreakEvenRevenue = "breakEvenRevenue"
	KeyTargetAnswer     = "targetAnswer"
)

// Presentation is how break-even data is laid out for the learner.
type Presentation string

const (
	ZeroPoint    Presentation = "ZERO_POINT"
	ItemizedList Presentation = "ITEMIZED_LIST"
	HighLow      Presentation = "HIGH_LOW"
)

// Presentations lists every layout.
var Presentations = []Presentation{ZeroPoint, ItemizedList, HighLow}

// TargetQuestion is the follow-up asked after the break-even point.
type TargetQuestion string

const (
	UnitsForProfit TargetQuestion = "FIND_UNITS_FOR_PROFIT"
	ProfitForUnits TargetQuestion = "FIND_PROFIT_FOR_UNITS"
)

// High-low volumes.
const (
	LowVolume  = 2000
	HighVolume = 4000
)

// zeroPointVolumes are the non-zero rows of a zero-point table.
var zeroPointVolumes = []int{1000, 3000}

// CostPoint is one row of a cost and revenue table.
type CostPoint struct {
	Units     int     `json:"units"`
	TotalCost float64 `json:"totalCost"`
	Revenue   float64 `json:"revenue,omitempty"`
}

// CostLine is one item of an itemized cost list.
type CostLine struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// BreakEvenGiven holds the presentation data of a break-even (TPM)
// question. Only the fields for Presentation are populated.
type BreakEvenGiven struct {
	Presentation  Presentation   `json:"presentation"`
	Price         float64        `json:"price"`
	Points        []CostPoint    `json:"points,omitempty"`
	FixedItems    []CostLine     `json:"fixedItems,omitempty"`
	VariableItems []CostLine     `json:"variableItems,omitempty"`
	Target        TargetQuestion `json:"target"`
	TargetValue   float64        `json:"targetValue"`
}

type breakEvenAnswer struct {
	fixed        float64
	variable     float64
	contribution float64
	units        float64
	revenue      float64
	target       float64
}

// BreakEven is a cost-volume-profit question.
type BreakEven struct {
	meta
	Given BreakEvenGiven
	want  breakEvenAnswer
}

// BreakEvenParams are the primitive draws behind a break-even question.
// Money is counted in half ringgit so every derived figure stays round.
type BreakEvenParams struct {
	Presentation Presentation
	// PriceHalves is the selling price in half ringgit, 20..60.
	PriceHalves int
	// MarginHalves is the contribution margin in half ringgit,
	// 3..PriceHalves/2.
	MarginHalves int
	// BreakEvenHundreds of units, 10..40.
	BreakEvenHundreds int
	Target            TargetQuestion
	// TargetHundreds of units beyond break-even, 5..20.
	TargetHundreds int
}

// DrawBreakEven picks break-even parameters for presentation from src.
func DrawBreakEven(src random.Source, presentation Presentation) BreakEvenParams {
	price := random.IntRange(src, 20, 60)
	target := UnitsForProfit
	if random.Chance(src) {
		target = ProfitForUnits
	}
	return BreakEvenParams{
		Presentation:      presentation,
		PriceHalves:       price,
		MarginHalves:      random.IntRange(src, 3, price/2),
		BreakEvenHundreds: random.IntRange(src, 10, 40),
		Target:            target,
		TargetHundreds:    random.IntRange(src, 5, 20),
	}
}

// BuildBreakEven lays out the cost structure from p. Fixed cost is the
// contribution margin times a whole number of units, so the break-even
// point always divides evenly.
func BuildBreakEven(p BreakEvenParams) BreakEvenGiven {
	price := float64(p.PriceHalves) / 2
	margin := float64(p.MarginHalves) / 2
	variable := price - margin
	units := p.BreakEvenHundreds * 100
	fixed := margin * float64(units)
	totalCost := func(n int) float64 { return fixed + variable*float64(n) }

	g := BreakEvenGiven{Presentation: p.Presentation, Price: price, Target: p.Target}
	switch p.Presentation {
	case ZeroPoint:
		g.Points = []CostPoint{{Units: 0, TotalCost: fixed}}
		for _, n := range zeroPointVolumes {
			g.Points = append(g.Points, CostPoint{Units: n, TotalCost: totalCost(n), Revenue: price * float64(n)})
		}
	case ItemizedList:
		rent := float64(int(fixed*0.6/50)) * 50
		material := math.Floor(variable) / 2
		g.FixedItems = []CostLine{
			{Label: "Sewa kilang", Amount: rent},
			{Label: "Gaji penyelia", Amount: fixed - rent},
		}
		g.VariableItems = []CostLine{
			{Label: "Bahan langsung seunit", Amount: material},
			{Label: "Buruh langsung seunit", Amount: variable - material},
		}
	case HighLow:
		g.Points = []CostPoint{
			{Units: LowVolume, TotalCost: totalCost(LowVolume)},
			{Units: HighVolume, TotalCost: totalCost(HighVolume)},
		}
	}

	extra := float64(p.TargetHundreds * 100)
	if p.Target == UnitsForProfit {
		g.TargetValue = margin * extra
	} else {
		g.TargetValue = float64(units) + extra
	}
	return g
}

// NewBreakEven solves g and returns the question.
func NewBreakEven(g BreakEvenGiven) *BreakEven {
	return &BreakEven{meta: newMeta("tpm"), Given: g, want: solveBreakEven(g)}
}

// GenerateBreakEven returns a fresh random break-even question laid out as
// presentation.
func GenerateBreakEven(src random.Source, presentation Presentation) *BreakEven {
	return NewBreakEven(BuildBreakEven(DrawBreakEven(src, presentation)))
}

// costStructure recovers fixed cost and variable cost per unit from the
// presentation data alone.
func costStructure(g BreakEvenGiven) (fixed, variable float64) {
	switch g.Presentation {
	case ZeroPoint:
		for _, pt := range g.Points {
			if pt.Units == 0 {
				fixed = pt.TotalCost
			}
		}
		for _, pt := range g.Points {
			if pt.Units > 0 {
				return fixed, (pt.TotalCost - fixed) / float64(pt.Units)
			}
		}
	case ItemizedList:
		for _, l := range g.FixedItems {
			fixed += l.Amount
		}
		for _, l := range g.VariableItems {
			variable += l.Amount
		}
	case HighLow:
		if len(g.Points) < 2 {
			return 0, 0
		}
		lo, hi := g.Points[0], g.Points[len(g.Points)-1]
		variable = (hi.TotalCost - lo.TotalCost) / float64(hi.Units-lo.Units)
		fixed = lo.TotalCost - variable*float64(lo.Units)
	}
	return fixed, variable
}

func solveBreakEven(g BreakEvenGiven) breakEvenAnswer {
	fixed, variable := costStructure(g)
	cm := g.Price - variable
	units := fixed / cm
	a := breakEvenAnswer{
		fixed:        fixed,
		variable:     variable,
		contribution: cm,
		units:        units,
		revenue:      units * g.Price,
	}
	if g.Target == UnitsForProfit {
		a.target = (fixed + g.TargetValue) / cm
	} else {
		a.target = g.TargetValue*cm - fixed
	}
	return a
}

func (q *BreakEven) Family() Family { return FamilyBreakEven }

func (q *BreakEven) View() View {
	g := q.Given
	v := View{
		ID:      q.id,
		Family:  FamilyBreakEven,
		Title:   "Titik Pulang Modal (TPM)",
		Penalty: q.isPenalty,
		Facts:   []Fact{{Label: "Harga Jualan Seunit", Value: money.Format(g.Price)}},
	}
	switch g.Presentation {
	case ZeroPoint:
		v.Narrative = "Jadual berikut menunjukkan jumlah kos dan jumlah hasil pada beberapa tingkat keluaran."
		t := &Table{Header: []string{"Unit", "Jumlah Kos", "Jumlah Hasil"}}
		for _, pt := range g.Points {
			t.Rows = append(t.Rows, []string{money.Number(float64(pt.Units)), money.Format(pt.TotalCost), money.Format(pt.Revenue)})
		}
		v.Table = t
	case ItemizedList:
		v.Narrative = "Maklumat kos berikut diperoleh daripada rekod perniagaan."
		for _, l := range g.FixedItems {
			v.Facts = append(v.Facts, Fact{Label: l.Label, Value: money.Format(l.Amount)})
		}
		for _, l := range g.VariableItems {
			v.Facts = append(v.Facts, Fact{Label: l.Label, Value: money.Format(l.Amount)})
		}
	case HighLow:
		v.Narrative = "Jumlah kos pada dua tingkat keluaran adalah seperti berikut. Gunakan kaedah tinggi-rendah."
		t := &Table{Header: []string{"Unit", "Jumlah Kos"}}
		for _, pt := range g.Points {
			t.Rows = append(t.Rows, []string{money.Number(float64(pt.Units)), money.Format(pt.TotalCost)})
		}
		v.Table = t
	}

	targetLabel := fmt.Sprintf("Unit perlu dijual untuk untung %s", money.Format(g.TargetValue))
	if g.Target == ProfitForUnits {
		targetLabel = fmt.Sprintf("Untung pada jualan %s unit", money.Number(g.TargetValue))
	}
	v.Form = []FieldSpec{
		{Key: KeyFixedCost, Label: "Jumlah Kos Tetap", Kind: FieldAmount},
		{Key: KeyVariableCost, Label: "Kos Berubah Seunit", Kind: FieldAmount},
		{Key: KeyContribution, Label: "Margin Caruman Seunit", Kind: FieldAmount},
		{Key: KeyBreakEvenUnits, Label: "TPM (Unit)", Kind: FieldAmount},
		{Key: KeyBreakEvenRevenue, Label: "TPM (RM)", Kind: FieldAmount},
		{Key: KeyTargetAnswer, Label: targetLabel, Kind: FieldAmount},
	}
	return v
}

func (q *BreakEven) Solution() Input {
	w := q.want
	return Input{
		KeyFixedCost:        money.Plain(w.fixed),
		KeyVariableCost:     money.Plain(w.variable),
		KeyContribution:     money.Plain(w.contribution),
		KeyBreakEvenUnits:   money.Plain(w.units),
		KeyBreakEvenRevenue: money.Plain(w.revenue),
		KeyTargetAnswer:     money.Plain(w.target),
	}
}

func (q *BreakEven) check(in Input) Verdict {
	gv, w := q.Given, q.want
	g := newGrader(in)
	g.amount(KeyFixedCost, w.fixed, money.Ringgit)
	g.amount(KeyVariableCost, w.variable, money.Ratio)
	g.amount(KeyContribution, w.contribution, money.Ratio)
	g.amount(KeyBreakEvenUnits, w.units, money.Ringgit)
	g.amount(KeyBreakEvenRevenue, w.revenue, money.Ringgit)
	g.amount(KeyTargetAnswer, w.target, money.Ringgit)

	var costStep string
	switch gv.Presentation {
	case ZeroPoint:
		costStep = fmt.Sprintf("Kos tetap ialah jumlah kos pada 0 unit = %s. Kos berubah seunit = (jumlah kos - kos tetap) / unit = %s.",
			money.Plain(w.fixed), money.Plain(w.variable))
	case ItemizedList:
		costStep = fmt.Sprintf("Jumlahkan item kos tetap = %s dan item kos berubah seunit = %s.",
			money.Plain(w.fixed), money.Plain(w.variable))
	case HighLow:
		lo, hi := gv.Points[0], gv.Points[len(gv.Points)-1]
		costStep = fmt.Sprintf("Kos berubah seunit = (%s - %s) / (%d - %d) = %s. Kos tetap = %s - (%s x %d) = %s.",
			money.Plain(hi.TotalCost), money.Plain(lo.TotalCost), hi.Units, lo.Units, money.Plain(w.variable),
			money.Plain(lo.TotalCost), money.Plain(w.variable), lo.Units, money.Plain(w.fixed))
	}
	targetStep := fmt.Sprintf("Unit untuk untung sasaran = (%s + %s) / %s = %s.",
		money.Plain(w.fixed), money.Plain(gv.TargetValue), money.Plain(w.contribution), money.Plain(w.target))
	if gv.Target == ProfitForUnits {
		targetStep = fmt.Sprintf("Untung = (%s x %s) - %s = %s.",
			money.Plain(gv.TargetValue), money.Plain(w.contribution), money.Plain(w.fixed), money.Plain(w.target))
	}
	steps := []string{
		costStep,
		fmt.Sprintf("Margin caruman seunit = %s - %s = %s.", money.Plain(gv.Price), money.Plain(w.variable), money.Plain(w.contribution)),
		fmt.Sprintf("TPM (unit) = %s / %s = %s unit.", money.Plain(w.fixed), money.Plain(w.contribution), money.Plain(w.units)),
		fmt.Sprintf("TPM (RM) = %s x %s = %s.", money.Plain(w.units), money.Plain(gv.Price), money.Plain(w.revenue)),
		targetStep,
	}
	return g.verdict(steps, []Fact{
		{Label: "Kos Tetap", Value: money.Format(w.fixed)},
		{Label: "Kos Berubah Seunit", Value: money.Format(w.variable)},
		{Label: "Margin Caruman Seunit", Value: money.Format(w.contribution)},
		{Label: "TPM (Unit)", Value: money.Number(w.units)},
		{Label: "TPM (RM)", Value: money.Format(w.revenue)},
		{Label: "Jawapan Sasaran", Value: money.Number(w.target)},
	})
}

// penalty keeps the presentation of the missed question.
func (q *BreakEven) penalty(src random.Source, _ int) Question {
	p := GenerateBreakEven(src, q.Given.Presentation)
	p.isPenalty = true
	return p
}
