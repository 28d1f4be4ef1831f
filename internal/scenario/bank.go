package scenario

import (
	"embed"
	"fmt"
	"math"
	"sync"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/akaun/internal/calendar"
)

//go:embed banks/*.yaml
var bankFS embed.FS

// bankMajor is the bank file format this build understands.
const bankMajor = "v1"

// BankError reports a bank file or item that failed to load.
type BankError struct {
	Bank   string
	ItemID string
	Err    error
}

func (e *BankError) Error() string {
	if e.ItemID != "" {
		return fmt.Sprintf("bank %s: item %s: %v", e.Bank, e.ItemID, e.Err)
	}
	return fmt.Sprintf("bank %s: %v", e.Bank, e.Err)
}

func (e *BankError) Unwrap() error { return e.Err }

type bankFile struct {
	Version string     `yaml:"version"`
	Level   int        `yaml:"level"`
	Items   []bankItem `yaml:"items"`
}

type bankItem struct {
	ID           string         `yaml:"id"`
	YearEnd      string         `yaml:"yearEnd"`
	Item         string         `yaml:"item"`
	TrialBalance float64        `yaml:"trialBalance"`
	Type         AccrualType    `yaml:"type"`
	Narrative    string         `yaml:"narrative"`
	Adjustment   float64        `yaml:"adjustment"`
	Final        float64        `yaml:"final"`
	Period       *servicePeriod `yaml:"period"`
	Monthly      *monthlyRate   `yaml:"monthly"`
	Annual       float64        `yaml:"annual"`
}

// servicePeriod is a payment covering Months months from Start, part of
// which falls after the year end.
type servicePeriod struct {
	Start  string `yaml:"start"`
	Months int    `yaml:"months"`
}

// monthlyRate is a recurring amount with Months months outstanding at the
// year end.
type monthlyRate struct {
	Amount float64 `yaml:"amount"`
	Months int     `yaml:"months"`
}

var banks = map[int]func() ([]accrualEntry, error){
	1: sync.OnceValues(func() ([]accrualEntry, error) { return readBank("banks/level1.yaml") }),
	2: sync.OnceValues(func() ([]accrualEntry, error) { return readBank("banks/level2.yaml") }),
}

// accrualEntry is a validated bank item.
type accrualEntry struct {
	id      string
	given   AccrualGiven
	typ     AccrualType
	adjust  float64
	final   float64
	period  *servicePeriod
	monthly *monthlyRate
	annual  float64
}

func loadBank(level int) ([]accrualEntry, error) {
	load, ok := banks[level]
	if !ok {
		return nil, &BankError{Bank: fmt.Sprintf("level%d", level), Err: fmt.Errorf("no bank for level %d", level)}
	}
	return load()
}

func readBank(name string) ([]accrualEntry, error) {
	data, err := bankFS.ReadFile(name)
	if err != nil {
		return nil, &BankError{Bank: name, Err: err}
	}
	return parseBank(name, data)
}

func parseBank(name string, data []byte) ([]accrualEntry, error) {
	var f bankFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &BankError{Bank: name, Err: fmt.Errorf("decode: %w", err)}
	}
	if !semver.IsValid(f.Version) || semver.Major(f.Version) != bankMajor {
		return nil, &BankError{Bank: name, Err: fmt.Errorf("unsupported version %q", f.Version)}
	}
	if f.Level != 1 && f.Level != 2 {
		return nil, &BankError{Bank: name, Err: fmt.Errorf("invalid level %d", f.Level)}
	}
	if len(f.Items) == 0 {
		return nil, &BankError{Bank: name, Err: fmt.Errorf("no items")}
	}

	seen := make(map[string]bool, len(f.Items))
	out := make([]accrualEntry, 0, len(f.Items))
	for _, it := range f.Items {
		if seen[it.ID] {
			return nil, &BankError{Bank: name, ItemID: it.ID, Err: fmt.Errorf("duplicate id")}
		}
		seen[it.ID] = true

		e, err := it.entry(f.Level)
		if err != nil {
			return nil, &BankError{Bank: name, ItemID: it.ID, Err: err}
		}
		out = append(out, e)
	}
	return out, nil
}

func (it bankItem) entry(level int) (accrualEntry, error) {
	if !it.Type.valid() {
		return accrualEntry{}, fmt.Errorf("unknown type %q", it.Type)
	}
	if it.Adjustment <= 0 || it.TrialBalance <= 0 {
		return accrualEntry{}, fmt.Errorf("amounts must be positive")
	}

	var yearEnd calendar.Date
	if it.YearEnd != "" {
		d, err := calendar.Parse(it.YearEnd)
		if err != nil {
			return accrualEntry{}, err
		}
		yearEnd = d
	}
	if level == 2 && yearEnd.IsZero() {
		return accrualEntry{}, fmt.Errorf("level 2 items need a year end")
	}

	if want := it.TrialBalance + it.Type.sign()*it.Adjustment; math.Abs(want-it.Final) >= 0.01 {
		return accrualEntry{}, fmt.Errorf("final %v does not match %v", it.Final, want)
	}

	derived, ok, err := it.derivedAdjustment(yearEnd)
	if err != nil {
		return accrualEntry{}, err
	}
	if ok && math.Abs(derived-it.Adjustment) >= 0.01 {
		return accrualEntry{}, fmt.Errorf("adjustment %v does not match derived %v", it.Adjustment, derived)
	}

	return accrualEntry{
		id: it.ID,
		given: AccrualGiven{
			Level:        level,
			Item:         it.Item,
			TrialBalance: it.TrialBalance,
			Narrative:    it.Narrative,
			YearEnd:      yearEnd,
		},
		typ:     it.Type,
		adjust:  it.Adjustment,
		final:   it.Final,
		period:  it.Period,
		monthly: it.Monthly,
		annual:  it.Annual,
	}, nil
}

// derivedAdjustment recomputes the adjustment from structured data when
// the item carries any. ok is false for items described only in prose.
func (it bankItem) derivedAdjustment(yearEnd calendar.Date) (float64, bool, error) {
	switch {
	case it.Period != nil:
		if yearEnd.IsZero() || it.Period.Months <= 0 {
			return 0, false, fmt.Errorf("period needs a year end and a positive length")
		}
		start, err := calendar.Parse(it.Period.Start)
		if err != nil {
			return 0, false, err
		}
		_, outside := splitPeriod(start, yearEnd, it.Period.Months)
		return it.TrialBalance * float64(outside) / float64(it.Period.Months), true, nil
	case it.Monthly != nil:
		return it.Monthly.Amount * float64(it.Monthly.Months), true, nil
	case it.Annual > 0:
		return it.Annual - it.TrialBalance, true, nil
	}
	return 0, false, nil
}

// splitPeriod divides a service period of months months beginning at start
// into the months that fall on or before yearEnd and those after it.
func splitPeriod(start, yearEnd calendar.Date, months int) (inside, outside int) {
	inside = calendar.MonthsInclusive(start, yearEnd)
	inside = max(0, min(inside, months))
	return inside, months - inside
}
