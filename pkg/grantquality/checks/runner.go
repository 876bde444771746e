package checks

import (
	"fmt"
	"time"

	"github.com/go-faster/errors"

	"github.com/ukaji3/grantquality-go/pkg/grantquality/aggregates"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/jsonvalue"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/models"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/spreadsheet"
)

// Run creates one check per kind, passes every grant of data through all
// of them in dataset order and returns the results of the checks that
// failed, in kind order.
//
// Locations are resolved through sourceMap when it is non-empty. If any
// location of a check is missing from the map, that check keeps its JSON
// locations and reports no spreadsheet locations.
//
// A dataset without a "grants" array gives no results. A nil env is built
// from data with the default registry and the current time. A panic
// inside a check aborts the run and is returned as an error.
func Run(data jsonvalue.Value, sourceMap spreadsheet.SourceMap, kinds []*Kind, env *Env) (results []models.CheckResult, err error) {
	grants, ok := aggregates.Grants(data)
	if !ok {
		return []models.CheckResult{}, nil
	}
	if env == nil {
		env = NewEnv(grants, nil, nil, time.Time{})
	}

	defer func() {
		if r := recover(); r != nil {
			results = nil
			if e, ok := r.(error); ok {
				err = errors.Wrap(e, "run checks")
				return
			}
			err = errors.Errorf("run checks: %v", r)
		}
	}()

	instances := make([]Check, len(kinds))
	for i, k := range kinds {
		instances[i] = k.New(env)
	}
	for num, grant := range grants {
		prefix := fmt.Sprintf("grants/%d", num)
		for _, c := range instances {
			c.Process(grant, prefix)
		}
	}

	results = make([]models.CheckResult, 0, len(instances))
	for _, c := range instances {
		if !c.Failed() {
			continue
		}
		message := c.ProduceMessage()
		locations := c.JSONLocations()
		spreadsheetLocations := []models.SpreadsheetLocation{}
		if len(sourceMap) > 0 {
			if resolved, ok := sourceMap.ResolveAll(locations); ok {
				spreadsheetLocations = resolved
			}
		}
		results = append(results, models.CheckResult{
			Message:              message,
			JSONLocations:        locations,
			SpreadsheetLocations: spreadsheetLocations,
		})
	}
	return results, nil
}
