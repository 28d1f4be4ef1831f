package session

import (
	"errors"
	"testing"

	"github.com/abhisek/akaun/internal/random"
	"github.com/abhisek/akaun/internal/scenario"
)

func TestFamilyResult_Record(t *testing.T) {
	fr := &FamilyResult{Family: scenario.FamilyLoan}
	fr.Record(true, false)
	fr.Record(false, false)
	fr.Record(true, true)

	if fr.Attempted != 3 || fr.Correct != 2 || fr.Penalties != 1 {
		t.Errorf("result = %+v", fr)
	}
	if fr.Accuracy < 0.66 || fr.Accuracy > 0.67 {
		t.Errorf("accuracy = %v", fr.Accuracy)
	}
}

func TestProgress_Remaining(t *testing.T) {
	tests := []struct {
		name string
		p    Progress
		want int
	}{
		{"first question awaiting", Progress{Position: 1, Total: 10, Phase: PhaseAwaiting}, 10},
		{"first question graded", Progress{Position: 1, Total: 10, Phase: PhaseGraded}, 9},
		{"complete", Progress{Position: 10, Total: 10, Phase: PhaseComplete}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Remaining(); got != tt.want {
				t.Errorf("Remaining() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCatalog(t *testing.T) {
	wantSizes := map[string]int{
		"DRILL-PHR":         10,
		"DRILL-SN":          10,
		"DRILL-HL":          10,
		"DRILL-LOAN":        10,
		"DRILL-DISPOSAL-L1": 10,
		"DRILL-DISPOSAL-L2": 10,
		"DRILL-TPM":         10,
	}
	src := random.NewSeeded(3)
	for _, d := range Drills() {
		qs, err := d.Build(src)
		if err != nil {
			t.Fatalf("%s: build: %v", d.ID, err)
		}
		if len(qs) != d.Size() {
			t.Errorf("%s: built %d, size says %d", d.ID, len(qs), d.Size())
		}
		if want, ok := wantSizes[d.ID]; ok && len(qs) != want {
			t.Errorf("%s: %d questions, want %d", d.ID, len(qs), want)
		}
		seen := map[string]bool{}
		for _, q := range qs {
			if q.Family() != d.Family {
				t.Errorf("%s: question family %s, want %s", d.ID, q.Family(), d.Family)
			}
			if q.IsPenalty() {
				t.Errorf("%s: initial queue holds a penalty", d.ID)
			}
			if seen[q.ID()] {
				t.Errorf("%s: duplicate id %s", d.ID, q.ID())
			}
			seen[q.ID()] = true
		}
	}
}

func TestCatalog_LoanMix(t *testing.T) {
	d, err := Lookup("DRILL-LOAN")
	if err != nil {
		t.Fatal(err)
	}
	qs, err := d.Build(random.NewSeeded(9))
	if err != nil {
		t.Fatal(err)
	}
	newLoans := 0
	for _, q := range qs {
		if q.(*scenario.Loan).Given.IsNew {
			newLoans++
		}
	}
	if newLoans != 4 {
		t.Errorf("new loans = %d, want 4", newLoans)
	}
}

func TestCatalog_BreakEvenMixesPresentations(t *testing.T) {
	d, err := Lookup("DRILL-TPM")
	if err != nil {
		t.Fatal(err)
	}
	qs, err := d.Build(random.NewSeeded(10))
	if err != nil {
		t.Fatal(err)
	}
	seen := map[scenario.Presentation]int{}
	for _, q := range qs {
		seen[q.(*scenario.BreakEven).Given.Presentation]++
	}
	if len(seen) != len(scenario.Presentations) {
		t.Errorf("presentations = %v", seen)
	}
}

func TestLookup_Unknown(t *testing.T) {
	if _, err := Lookup("DRILL-NOPE"); !errors.Is(err, ErrUnknownDrill) {
		t.Errorf("err = %v, want ErrUnknownDrill", err)
	}
}
