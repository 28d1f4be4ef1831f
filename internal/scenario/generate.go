package scenario

import (
	"fmt"

	"github.com/abhisek/akaun/internal/random"
)

// Variant selects a family and, where the family has one, its sub-variant.
type Variant struct {
	Family Family
	// Level is the accrual bank or disposal level, 1 or 2.
	Level int
	// NewLoan selects a loan taken out during the current year.
	NewLoan bool
	// Presentation is the break-even layout. Empty picks one at random.
	Presentation Presentation
}

func (v Variant) String() string {
	switch v.Family {
	case FamilyAccrual, FamilyDisposal:
		return fmt.Sprintf("%s/L%d", v.Family, v.Level)
	case FamilyLoan:
		if v.NewLoan {
			return "loan/new"
		}
		return "loan/old"
	case FamilyBreakEven:
		if v.Presentation != "" {
			return fmt.Sprintf("tpm/%s", v.Presentation)
		}
	}
	return string(v.Family)
}

// Generate returns one fresh question of v.
func Generate(src random.Source, v Variant) (Question, error) {
	switch v.Family {
	case FamilyAllowance:
		return GenerateAllowance(src), nil
	case FamilyDepreciation:
		return GenerateDepreciation(src), nil
	case FamilyAccrual:
		q, err := GenerateAccrual(src, v.Level)
		if err != nil {
			return nil, err
		}
		return q, nil
	case FamilyBadDebt:
		return GenerateBadDebt(src), nil
	case FamilyLoan:
		return GenerateLoan(src, v.NewLoan), nil
	case FamilyDisposal:
		if v.Level != 1 && v.Level != 2 {
			return nil, fmt.Errorf("disposal level %d: %w", v.Level, ErrUnknownVariant)
		}
		return GenerateDisposal(src, v.Level), nil
	case FamilyBreakEven:
		p := v.Presentation
		switch p {
		case "":
			p = random.Pick(src, Presentations)
		case ZeroPoint, ItemizedList, HighLow:
		default:
			return nil, fmt.Errorf("presentation %q: %w", p, ErrUnknownVariant)
		}
		return GenerateBreakEven(src, p), nil
	}
	return nil, fmt.Errorf("family %q: %w", v.Family, ErrUnknownVariant)
}
