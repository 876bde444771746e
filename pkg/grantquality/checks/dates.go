package checks

import (
	"time"

	"github.com/ukaji3/grantquality-go/pkg/grantquality/dates"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/jsonvalue"
)

const (
	plannedFutureYears = 12
	actualFutureYears  = 5
	pastYears          = 25
)

var ImpossibleDates = &Kind{
	Name:     "ImpossibleDates",
	Class:    QualityAccuracy,
	Category: CategoryDates,
	Heading:  "dates that don’t exist",
	Messages: always("Your data contains dates that didn't, or won't, exist - such as the 31st of September, " +
		"or the 29th of February in a year that's not a leap year. This error is commonly caused by typos during data entry."),
	process: func(c *check, grant jsonvalue.Value, prefix string) {
		gd := c.env.Dates.Get(grant)
		for _, f := range dates.Fields {
			// Dates in another format are a schema matter, not an
			// impossible day.
			if err := gd.Error(f); err != nil && err.Impossible() {
				c.fail(prefix + f.JSONLocation())
				return
			}
		}
	},
}

const startAfterEndMessage = "This can happen when the fields are accidentally reversed, or if there is a typo in the date. " +
	"This can also be caused by inconsistent date formatting when data was prepared using spreadsheet software."

var PlannedStartDateBeforeEndDate = &Kind{
	Name:     "PlannedStartDateBeforeEndDate",
	Class:    QualityAccuracy,
	Category: CategoryDates,
	Heading:  "Planned Dates:Start Date entries that are after the corresponding Planned Dates:End Date",
	Messages: always(startAfterEndMessage),
	process:  startAfterEnd(dates.PlannedStartDate, dates.PlannedEndDate),
}

var ActualStartDateBeforeEndDate = &Kind{
	Name:     "ActualStartDateBeforeEndDate",
	Class:    QualityAccuracy,
	Category: CategoryDates,
	Heading:  "Actual Dates:Start Date entries that are after the corresponding Actual Dates:End Date",
	Messages: always(startAfterEndMessage),
	process:  startAfterEnd(dates.ActualStartDate, dates.ActualEndDate),
}

func startAfterEnd(start, end dates.Field) func(*check, jsonvalue.Value, string) {
	return func(c *check, grant jsonvalue.Value, prefix string) {
		gd := c.env.Dates.Get(grant)
		s, okStart := gd.Date(start)
		e, okEnd := gd.Date(end)
		if okStart && okEnd && s.After(e) {
			c.fail(prefix + start.JSONLocation())
		}
	}
}

var FarFuturePlannedDates = &Kind{
	Name:     "FarFuturePlannedDates",
	Class:    QualityAccuracy,
	Category: CategoryDates,
	Heading:  "Planned Dates that are over 12 years in the future",
	Messages: always("Your data contains Planned Dates that are more than 12 years into the future. " +
		"You can disregard this error notice if your data describes activities that run a long time into the future, " +
		"but you should check for data entry errors if this isn't expected."),
	process: firstDateBeyond([]dates.Field{dates.PlannedStartDate, dates.PlannedEndDate}, func(d, now time.Time) bool {
		return d.After(dates.AddYears(now, plannedFutureYears))
	}),
}

var FarFutureActualDates = &Kind{
	Name:     "FarFutureActualDates",
	Class:    QualityAccuracy,
	Category: CategoryDates,
	Heading:  "Actual Date entries that are over 5 years in the future",
	Messages: always("Your data contains Actual Date entries that are more than 5 years into the future. " +
		"You can disregard this error notice if your data describes activities far in the future, " +
		"but you should check for data entry errors if this isn't expected."),
	process: firstDateBeyond([]dates.Field{dates.ActualStartDate, dates.ActualEndDate}, func(d, now time.Time) bool {
		return d.After(dates.AddYears(now, actualFutureYears))
	}),
}

var FarPastDates = &Kind{
	Name:     "FarPastDates",
	Class:    QualityAccuracy,
	Category: CategoryDates,
	Heading:  "dates that are over 25 years ago",
	Messages: always("Your data contains dates that are more than 25 years ago. You can disregard this error notice if your " +
		"data is about activities far in the past, but you should check for data entry errors if this isn't expected."),
	process: firstDateBeyond(dates.Fields, func(d, now time.Time) bool {
		return d.Before(dates.AddYears(now, -pastYears))
	}),
}

var PostDatedAwardDates = &Kind{
	Name:     "PostDatedAwardDates",
	Class:    QualityAccuracy,
	Category: CategoryDates,
	Heading:  "Award Dates that are in the future",
	Messages: always("Your data contains grant Award Dates in the future. This date is when the decision to award the grant " +
		"was made so it would normally be in the past. This error can happen when there is a typo in the date, or the data " +
		"includes grants that are not yet fully committed"),
	process: firstDateBeyond([]dates.Field{dates.AwardDate}, func(d, now time.Time) bool {
		return d.After(now)
	}),
}

// firstDateBeyond counts a grant once, at the first of fields whose valid
// date is out of range relative to the run's reference time.
func firstDateBeyond(fields []dates.Field, outOfRange func(d, now time.Time) bool) func(*check, jsonvalue.Value, string) {
	return func(c *check, grant jsonvalue.Value, prefix string) {
		gd := c.env.Dates.Get(grant)
		for _, f := range fields {
			if d, ok := gd.Date(f); ok && outOfRange(d, c.env.Now) {
				c.fail(prefix + f.JSONLocation())
				return
			}
		}
	}
}
