// Package calendar is a small year/month/day date type for fiscal-year
// arithmetic. Months are counted as whole calendar months, which is how
// the curriculum pro-rates interest, depreciation and prepayments.
package calendar

import (
	"fmt"
	"time"
)

// Date is a calendar date without a time of day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// New returns a normalized Date. Out-of-range months and days roll over the
// same way time.Date does.
func New(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// DaysIn returns the number of days in the given month, leap years included.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// EndOfMonth returns the last day of the given month.
func EndOfMonth(year int, month time.Month) Date {
	return Date{Year: year, Month: month, Day: DaysIn(year, month)}
}

// StartOfMonth returns the first day of the given month.
func StartOfMonth(year int, month time.Month) Date {
	return Date{Year: year, Month: month, Day: 1}
}

// AddMonths moves the date by n whole months, keeping the day where the
// target month allows it and clamping to the month end otherwise.
func (d Date) AddMonths(n int) Date {
	idx := d.monthIndex() + n
	year := floorDiv(idx, 12)
	month := time.Month(idx-year*12) + 1
	day := d.Day
	if last := DaysIn(year, month); day > last {
		day = last
	}
	return Date{Year: year, Month: month, Day: day}
}

// FirstOfMonth returns the first day of d's month.
func (d Date) FirstOfMonth() Date {
	return StartOfMonth(d.Year, d.Month)
}

// LastOfMonth returns the last day of d's month.
func (d Date) LastOfMonth() Date {
	return EndOfMonth(d.Year, d.Month)
}

// MonthsBetween returns the number of month boundaries from a to b, ignoring
// the day of month. It is negative when b is in an earlier month than a.
func MonthsBetween(a, b Date) int {
	return b.monthIndex() - a.monthIndex()
}

// MonthsInclusive counts the calendar months from a's month through b's
// month, both ends included. A date range inside one month counts as 1.
func MonthsInclusive(a, b Date) int {
	return MonthsBetween(a, b) + 1
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool {
	return d.Compare(o) < 0
}

// After reports whether d is strictly later than o.
func (d Date) After(o Date) bool {
	return d.Compare(o) > 0
}

// Compare returns -1, 0 or +1.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(int(d.Month) - int(o.Month))
	default:
		return sign(d.Day - o.Day)
	}
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Time converts d to midnight UTC.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// ISO formats d as YYYY-MM-DD.
func (d Date) ISO() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// String formats d in Malay, e.g. "31 Disember 2024".
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d %s %d", d.Day, MonthName(d.Month), d.Year)
}

// Parse reads a YYYY-MM-DD date.
func Parse(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

var malayMonths = [...]string{
	"Januari", "Februari", "Mac", "April", "Mei", "Jun",
	"Julai", "Ogos", "September", "Oktober", "November", "Disember",
}

// MonthName returns the Malay name of m.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return m.String()
	}
	return malayMonths[m-1]
}

func (d Date) monthIndex() int {
	return d.Year*12 + int(d.Month) - 1
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
