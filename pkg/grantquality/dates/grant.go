package dates

import (
	"time"

	"github.com/ukaji3/grantquality-go/pkg/grantquality/jsonvalue"
)

// Field is one of the date fields read from a grant.
type Field int

const (
	AwardDate Field = iota
	PlannedStartDate
	PlannedEndDate
	ActualStartDate
	ActualEndDate
)

// Fields lists every date field in the order checks inspect them.
var Fields = []Field{AwardDate, PlannedStartDate, PlannedEndDate, ActualStartDate, ActualEndDate}

var fieldNames = [...]string{"award_date", "planned_start_date", "planned_end_date", "actual_start_date", "actual_end_date"}

var fieldLocations = [...]string{
	"/awardDate",
	"/plannedDates/0/startDate",
	"/plannedDates/0/endDate",
	"/actualDates/0/startDate",
	"/actualDates/0/endDate",
}

var fieldPaths = [...][]any{
	{"awardDate"},
	{"plannedDates", 0, "startDate"},
	{"plannedDates", 0, "endDate"},
	{"actualDates", 0, "startDate"},
	{"actualDates", 0, "endDate"},
}

func (f Field) String() string { return fieldNames[f] }

// JSONLocation is the pointer suffix of the field below a grant.
func (f Field) JSONLocation() string { return fieldLocations[f] }

// Entry is the outcome of parsing one date field.
type Entry struct {
	Raw  string
	Date time.Time
	Err  *ParseError
}

// GrantDates holds the parsed date fields of one grant. Fields that are
// missing, empty or not strings are absent.
type GrantDates struct {
	present [len(fieldNames)]bool
	entries [len(fieldNames)]Entry
}

// Extract parses every date field of grant.
func Extract(grant jsonvalue.Value, loc *time.Location) *GrantDates {
	gd := &GrantDates{}
	for _, f := range Fields {
		raw, ok := rawDate(grant, f)
		if !ok {
			continue
		}
		gd.present[f] = true
		e := Entry{Raw: raw}
		d, err := Parse(raw, loc)
		if err != nil {
			e.Err = err.(*ParseError)
		} else {
			e.Date = d
		}
		gd.entries[f] = e
	}
	return gd
}

func rawDate(grant jsonvalue.Value, f Field) (string, bool) {
	s, err := grant.LookupString(fieldPaths[f]...)
	if err != nil || s == "" {
		return "", false
	}
	return s, true
}

// Present reports whether the field carried a non-empty string.
func (g *GrantDates) Present(f Field) bool { return g.present[f] }

// Date returns the parsed date of f when it is present and valid.
func (g *GrantDates) Date(f Field) (time.Time, bool) {
	if !g.present[f] || g.entries[f].Err != nil {
		return time.Time{}, false
	}
	return g.entries[f].Date, true
}

// Error returns the parse error of f, or nil.
func (g *GrantDates) Error(f Field) *ParseError {
	if !g.present[f] {
		return nil
	}
	return g.entries[f].Err
}

func (g *GrantDates) sameRaw(grant jsonvalue.Value) bool {
	for _, f := range Fields {
		raw, ok := rawDate(grant, f)
		if ok != g.present[f] || raw != g.entries[f].Raw {
			return false
		}
	}
	return true
}

// Cache memoizes GrantDates per grant id for the length of one run, since
// several checks read the same grant's dates. An entry is only reused when
// the raw date strings match, so grants sharing an id stay correct.
//
// A Cache is not safe for concurrent use.
type Cache struct {
	loc     *time.Location
	entries map[string]*GrantDates
}

// NewCache returns an empty cache producing dates in loc.
func NewCache(loc *time.Location) *Cache {
	if loc == nil {
		loc = time.Local
	}
	return &Cache{loc: loc, entries: make(map[string]*GrantDates)}
}

// Get returns the parsed dates of grant.
func (c *Cache) Get(grant jsonvalue.Value) *GrantDates {
	key := grant.GetOr("id", jsonvalue.NewNull()).Text()
	if gd, ok := c.entries[key]; ok && gd.sameRaw(grant) {
		return gd
	}
	gd := Extract(grant, c.loc)
	c.entries[key] = gd
	return gd
}

// Len returns the number of cached grants.
func (c *Cache) Len() int { return len(c.entries) }
