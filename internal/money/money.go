// Package money parses learner input, compares amounts under a tolerance
// and formats ringgit values.
package money

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Tolerance is the open bound on |got - want| for an answer to count.
type Tolerance float64

const (
	// Sen is the tolerance for plain currency answers.
	Sen Tolerance = 0.01

	// Ratio is used for per-unit figures derived by division.
	Ratio Tolerance = 0.05

	// Ringgit is used for whole-unit and whole-ringgit answers that may
	// carry compounded rounding.
	Ringgit Tolerance = 1.0
)

// Within reports whether got is strictly closer than tol to want. NaN on
// either side never matches.
func Within(got, want float64, tol Tolerance) bool {
	return math.Abs(got-want) < float64(tol)
}

// Parse reads an amount typed by a learner. It accepts an optional "RM"
// prefix, thousands separators and surrounding spaces. Anything it cannot
// read becomes NaN, which fails every comparison.
func Parse(s string) float64 {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.EqualFold(s[:2], "rm") {
		s = strings.TrimSpace(s[2:])
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

var printer = message.NewPrinter(language.Malay)

// Format renders v as "RM 1,234" or "RM 1,234.50" when there are sen.
func Format(v float64) string {
	return "RM " + Number(v)
}

// Number renders v with thousands separators and no currency prefix.
func Number(v float64) string {
	v = Round2(v)
	if v == math.Trunc(v) {
		return printer.Sprintf("%d", int64(v))
	}
	return printer.Sprintf("%.2f", v)
}

// Plain renders v for templated working lines: no separators, no trailing
// zeros beyond what is needed.
func Plain(v float64) string {
	return strconv.FormatFloat(Round2(v), 'f', -1, 64)
}
