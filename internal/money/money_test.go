package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"2000", 2000},
		{" 2000 ", 2000},
		{"RM2000", 2000},
		{"rm 1,600", 1600},
		{"1,234.50", 1234.5},
		{"-500", -500},
		{"0.5", 0.5},
	}
	for _, tt := range tests {
		if got := Parse(tt.input); got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, input := range []string{"", "   ", "abc", "12a", "RM", "1.2.3", "Inf", "NaN"} {
		if got := Parse(input); !math.IsNaN(got) {
			t.Errorf("Parse(%q) = %v, want NaN", input, got)
		}
	}
}

func TestWithin_Boundaries(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
		tol  Tolerance
		ok   bool
	}{
		{"exact", 2000, 2000, Sen, true},
		{"sen inside", 2000.009, 2000, Sen, true},
		{"sen outside", 2000.011, 2000, Sen, false},
		{"sen below", 1999.991, 2000, Sen, true},
		{"ratio inside", 2.549, 2.5, Ratio, true},
		{"ratio outside", 2.551, 2.5, Ratio, false},
		{"ringgit inside", 2000.99, 2000, Ringgit, true},
		{"ringgit outside", 2001.01, 2000, Ringgit, false},
		{"nan got", math.NaN(), 2000, Ringgit, false},
		{"nan want", 2000, math.NaN(), Ringgit, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok, Within(tt.got, tt.want, tt.tol))
		})
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1234.57, Round2(1234.567))
	assert.Equal(t, 0.01, Round2(0.005))
	assert.Equal(t, -0.01, Round2(-0.005))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "RM 1,600", Format(1600))
	assert.Equal(t, "RM 0", Format(0))
	assert.Contains(t, Format(1234.5), "1,234.5")
}

func TestPlain(t *testing.T) {
	assert.Equal(t, "1600", Plain(1600))
	assert.Equal(t, "2.5", Plain(2.5))
	assert.Equal(t, "333.33", Plain(333.333))
}
