// Package dates parses the date fields of a grant and answers the
// ordering and range questions asked by the date checks.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Layout is the only accepted date layout (after any time part is removed).
const Layout = "%Y-%m-%d"

// ErrorKind classifies a failed parse.
type ErrorKind int

const (
	// FormatMismatch means the text does not start with a YYYY-MM-DD date.
	FormatMismatch ErrorKind = iota
	// UnconvertedData means a date was read but characters remain after it.
	UnconvertedData
	// OutOfRange means the text is well formed but names a day that does
	// not exist, such as 2023-02-29.
	OutOfRange
)

func (k ErrorKind) String() string {
	switch k {
	case FormatMismatch:
		return "format mismatch"
	case UnconvertedData:
		return "unconverted data"
	case OutOfRange:
		return "out of range"
	default:
		return "unknown"
	}
}

// ParseError reports why a date string could not be turned into a date.
type ParseError struct {
	Input string
	Kind  ErrorKind
	// Detail is the leftover text for UnconvertedData and the reason for OutOfRange.
	Detail string
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case FormatMismatch:
		return fmt.Sprintf("time data %q does not match format '%s'", e.Input, Layout)
	case UnconvertedData:
		return "unconverted data remains: " + e.Detail
	default:
		return e.Detail
	}
}

// Impossible reports whether the error is a calendar-impossible date
// rather than a formatting problem.
func (e *ParseError) Impossible() bool {
	return e.Kind == OutOfRange
}

// The month and day alternations are ordered so that the first matching
// branch wins, which mirrors a backtracking strptime implementation.
var dateRe = regexp.MustCompile(`^([0-9]{4})-(1[0-2]|0[1-9]|[1-9])-(3[01]|[12][0-9]|0[1-9]|[1-9]| [1-9])`)

// Parse reads a YYYY-MM-DD date, ignoring anything from the first "T".
// The result is midnight in loc.
func Parse(raw string, loc *time.Location) (time.Time, error) {
	if i := strings.IndexByte(raw, 'T'); i >= 0 {
		raw = raw[:i]
	}

	m := dateRe.FindStringSubmatch(raw)
	if m == nil {
		return time.Time{}, &ParseError{Input: raw, Kind: FormatMismatch}
	}
	if len(m[0]) != len(raw) {
		return time.Time{}, &ParseError{Input: raw, Kind: UnconvertedData, Detail: raw[len(m[0]):]}
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(strings.TrimSpace(m[3]))

	if year < 1 {
		return time.Time{}, &ParseError{Input: raw, Kind: OutOfRange, Detail: fmt.Sprintf("year %d is out of range", year)}
	}
	if day > daysIn(time.Month(month), year) {
		return time.Time{}, &ParseError{Input: raw, Kind: OutOfRange, Detail: "day is out of range for month"}
	}

	if loc == nil {
		loc = time.Local
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc), nil
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// AddYears moves t by n calendar years. A 29 February that lands on a
// non-leap year becomes 28 February instead of rolling into March.
func AddYears(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	y += n
	if m == time.February && d == 29 && !isLeap(y) {
		d = 28
	}
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
