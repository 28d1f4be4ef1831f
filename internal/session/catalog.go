package session

import (
	"errors"
	"fmt"

	"github.com/abhisek/akaun/internal/random"
	"github.com/abhisek/akaun/internal/scenario"
)

// ErrUnknownDrill is returned by Lookup for an ID not in the catalog.
var ErrUnknownDrill = errors.New("unknown drill")

// Drill is one entry of the drill menu.
type Drill struct {
	ID          string
	Title       string
	Description string
	Family      scenario.Family

	// variants lists one entry per generated question. Ignored when bank > 0.
	variants []scenario.Variant
	// bank selects a curated accrual bank instead of generated questions.
	bank    int
	shuffle bool
}

// Size returns the number of questions the drill starts with.
func (d Drill) Size() int {
	if d.bank > 0 {
		b, err := scenario.AccrualBank(d.bank)
		if err != nil {
			return 0
		}
		return len(b)
	}
	return len(d.variants)
}

// Build creates the drill's initial queue.
func (d Drill) Build(src random.Source) ([]scenario.Question, error) {
	var qs []scenario.Question
	if d.bank > 0 {
		bank, err := scenario.AccrualBank(d.bank)
		if err != nil {
			return nil, fmt.Errorf("drill %s: %w", d.ID, err)
		}
		for _, q := range bank {
			qs = append(qs, q)
		}
	} else {
		for _, v := range d.variants {
			q, err := scenario.Generate(src, v)
			if err != nil {
				return nil, fmt.Errorf("drill %s: %w", d.ID, err)
			}
			qs = append(qs, q)
		}
	}
	if d.shuffle {
		qs = random.Shuffle(src, qs)
	}
	return qs, nil
}

// QuestionsPerDrill is the size of every generated drill.
const QuestionsPerDrill = 10

func repeat(v scenario.Variant, n int) []scenario.Variant {
	out := make([]scenario.Variant, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func loanVariants() []scenario.Variant {
	out := repeat(scenario.Variant{Family: scenario.FamilyLoan, NewLoan: true}, 4)
	return append(out, repeat(scenario.Variant{Family: scenario.FamilyLoan}, 6)...)
}

func breakEvenVariants() []scenario.Variant {
	out := make([]scenario.Variant, QuestionsPerDrill)
	for i := range out {
		out[i] = scenario.Variant{
			Family:       scenario.FamilyBreakEven,
			Presentation: scenario.Presentations[i%len(scenario.Presentations)],
		}
	}
	return out
}

var catalog = []Drill{
	{
		ID:          "DRILL-PHR",
		Title:       "Peruntukan Hutang Ragu",
		Description: "Kira peruntukan baharu dan pelarasannya.",
		Family:      scenario.FamilyAllowance,
		variants:    repeat(scenario.Variant{Family: scenario.FamilyAllowance}, QuestionsPerDrill),
	},
	{
		ID:          "DRILL-SN",
		Title:       "Susut Nilai",
		Description: "Kaedah garis lurus dan baki berkurangan.",
		Family:      scenario.FamilyDepreciation,
		variants:    repeat(scenario.Variant{Family: scenario.FamilyDepreciation}, QuestionsPerDrill),
	},
	{
		ID:          "DRILL-ACC-L1",
		Title:       "Akruan & Terdahulu (Tahap 1)",
		Description: "Belanja dan hasil terakru atau terdahulu.",
		Family:      scenario.FamilyAccrual,
		bank:        1,
		shuffle:     true,
	},
	{
		ID:          "DRILL-ACC-L2",
		Title:       "Akruan & Terdahulu (Tahap 2)",
		Description: "Pelarasan mengikut bilangan bulan antara tarikh.",
		Family:      scenario.FamilyAccrual,
		bank:        2,
		shuffle:     true,
	},
	{
		ID:          "DRILL-HL",
		Title:       "Hutang Lapuk & Terpulih",
		Description: "Hapus kira hutang lapuk dan terimaan semula.",
		Family:      scenario.FamilyBadDebt,
		variants:    repeat(scenario.Variant{Family: scenario.FamilyBadDebt}, QuestionsPerDrill),
	},
	{
		ID:          "DRILL-LOAN",
		Title:       "Pinjaman & Faedah",
		Description: "Faedah belum bayar/prabayar dan pengasingan liabiliti.",
		Family:      scenario.FamilyLoan,
		variants:    loanVariants(),
		shuffle:     true,
	},
	{
		ID:          "DRILL-DISPOSAL-L1",
		Title:       "Pelupusan Aset (Tahap 1)",
		Description: "Untung atau rugi pelupusan satu aset.",
		Family:      scenario.FamilyDisposal,
		variants:    repeat(scenario.Variant{Family: scenario.FamilyDisposal, Level: 1}, QuestionsPerDrill),
	},
	{
		ID:          "DRILL-DISPOSAL-L2",
		Title:       "Pelupusan Aset (Tahap 2)",
		Description: "Aset dilupus dan aset yang masih digunakan.",
		Family:      scenario.FamilyDisposal,
		variants:    repeat(scenario.Variant{Family: scenario.FamilyDisposal, Level: 2}, QuestionsPerDrill),
	},
	{
		ID:          "DRILL-TPM",
		Title:       "Titik Pulang Modal",
		Description: "Kos tetap, margin caruman dan sasaran untung.",
		Family:      scenario.FamilyBreakEven,
		variants:    breakEvenVariants(),
		shuffle:     true,
	},
}

// Drills returns the catalog in menu order.
func Drills() []Drill {
	return append([]Drill(nil), catalog...)
}

// Lookup finds a drill by ID.
func Lookup(id string) (Drill, error) {
	for _, d := range catalog {
		if d.ID == id {
			return d, nil
		}
	}
	return Drill{}, fmt.Errorf("%w: %q", ErrUnknownDrill, id)
}
