package scenario

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/akaun/internal/random"
)

// Family identifies a question family.
type Family string

const (
	FamilyAllowance    Family = "phr"
	FamilyDepreciation Family = "sn"
	FamilyAccrual      Family = "accrual"
	FamilyBadDebt      Family = "baddebt"
	FamilyLoan         Family = "loan"
	FamilyDisposal     Family = "disposal"
	FamilyBreakEven    Family = "tpm"
)

// Families lists every family in menu order.
var Families = []Family{
	FamilyAllowance,
	FamilyDepreciation,
	FamilyAccrual,
	FamilyBadDebt,
	FamilyLoan,
	FamilyDisposal,
	FamilyBreakEven,
}

var familyLabels = map[Family]string{
	FamilyAllowance:    "Peruntukan Hutang Ragu",
	FamilyDepreciation: "Susut Nilai",
	FamilyAccrual:      "Akruan & Terdahulu",
	FamilyBadDebt:      "Hutang Lapuk",
	FamilyLoan:         "Pinjaman",
	FamilyDisposal:     "Pelupusan Aset",
	FamilyBreakEven:    "Titik Pulang Modal",
}

// Label is the Malay display name.
func (f Family) Label() string {
	if l, ok := familyLabels[f]; ok {
		return l
	}
	return string(f)
}

// ParseFamily accepts a family key such as "phr" or "tpm".
func ParseFamily(s string) (Family, bool) {
	f := Family(strings.ToLower(strings.TrimSpace(s)))
	_, ok := familyLabels[f]
	return f, ok
}

// Category is the income statement (Untung Rugi) side of an adjustment.
type Category string

const (
	Expense Category = "BELANJA"
	Revenue Category = "HASIL"
)

// Label returns the Malay display label.
func (c Category) Label() string {
	if c == Revenue {
		return "Hasil"
	}
	return "Belanja"
}

// Class is the statement of financial position (PKK) classification.
type Class string

const (
	CurrentAsset     Class = "AS"
	CurrentLiability Class = "LS"
)

// Label returns the Malay display label.
func (c Class) Label() string {
	if c == CurrentLiability {
		return "Liabiliti Semasa"
	}
	return "Aset Semasa"
}

// Method is a depreciation method.
type Method string

const (
	StraightLine    Method = "SL"
	ReducingBalance Method = "RB"
)

// Label returns the Malay display label.
func (m Method) Label() string {
	if m == ReducingBalance {
		return "Baki Berkurangan"
	}
	return "Garis Lurus"
}

// Question is one drill item. The set of implementations is closed: every
// family type lives in this package and carries its own grader and penalty
// generator, so dispatch never needs an unchecked cast.
//
// Given fields are exported on each concrete type; the correct answer is
// held unexported and reaches callers only through a graded Verdict or
// Solution.
type Question interface {
	// ID uniquely identifies the question within a drill.
	ID() string

	// Family returns the question family tag.
	Family() Family

	// IsPenalty reports whether the question is a remedial repeat.
	IsPenalty() bool

	// View returns the read-only presentation of the given fields.
	View() View

	// Solution returns the answer key as a field map that Validate accepts.
	Solution() Input

	check(in Input) Verdict
	penalty(src random.Source, n int) Question
}

// meta is embedded by every family type.
type meta struct {
	id        string
	isPenalty bool
}

func (m meta) ID() string      { return m.id }
func (m meta) IsPenalty() bool { return m.isPenalty }

func newMeta(prefix string) meta {
	return meta{id: prefix + "-" + uuid.New().String()[:8]}
}

func penaltyMeta(m meta, n int) meta {
	return meta{
		id:        fmt.Sprintf("%s-retry%d-%s", m.id, n, uuid.New().String()[:8]),
		isPenalty: true,
	}
}

// Input maps form field keys to the raw strings a learner typed or selected.
type Input map[string]string

// FieldKind tells the presentation layer how to collect a field.
type FieldKind string

const (
	FieldAmount FieldKind = "amount"
	FieldChoice FieldKind = "choice"
)

// Choice is one option of a choice field.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldSpec describes one answer field.
type FieldSpec struct {
	Key     string    `json:"key"`
	Label   string    `json:"label"`
	Kind    FieldKind `json:"kind"`
	Choices []Choice  `json:"choices,omitempty"`
}

// Fact is a labelled given value.
type Fact struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Table is an optional tabular presentation of given data.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// View is everything a learner may see before grading.
type View struct {
	ID        string      `json:"id"`
	Family    Family      `json:"family"`
	Title     string      `json:"title"`
	Penalty   bool        `json:"penalty"`
	Narrative string      `json:"narrative,omitempty"`
	Facts     []Fact      `json:"facts"`
	Table     *Table      `json:"table,omitempty"`
	Form      []FieldSpec `json:"form"`
}

// Explanation reproduces the defining computation of a question.
type Explanation struct {
	Summary  string   `json:"summary"`
	Steps    []string `json:"steps"`
	Expected []Fact   `json:"expected"`
}

// Verdict is the result of grading one submission.
type Verdict struct {
	Correct     bool        `json:"correct"`
	Mismatched  []string    `json:"mismatched,omitempty"`
	Explanation Explanation `json:"explanation"`
}

const (
	summaryCorrect   = "Tahniah! Jawapan anda betul."
	summaryIncorrect = "Jawapan kurang tepat. Semak semula pengiraan."
)

// Validate grades in against q. It never mutates q and returns the same
// verdict for the same arguments.
func Validate(q Question, in Input) Verdict {
	return q.check(in)
}

// PenaltiesPerMistake is how many remedial questions a wrong answer adds.
const PenaltiesPerMistake = 2

// Penalties returns the remedial questions for a wrong answer to q, all
// flagged as penalties and of the same family and sub-variant.
func Penalties(src random.Source, q Question) []Question {
	out := make([]Question, 0, PenaltiesPerMistake)
	for n := 1; n <= PenaltiesPerMistake; n++ {
		out = append(out, q.penalty(src, n))
	}
	return out
}

func categoryChoices() []Choice {
	return []Choice{
		{Value: string(Expense), Label: Expense.Label()},
		{Value: string(Revenue), Label: Revenue.Label()},
	}
}

func classChoices() []Choice {
	return []Choice{
		{Value: string(CurrentAsset), Label: CurrentAsset.Label()},
		{Value: string(CurrentLiability), Label: CurrentLiability.Label()},
	}
}
