package grantquality

import (
	"encoding/json"
	"strings"

	"github.com/go-faster/errors"

	"github.com/ukaji3/grantquality-go/pkg/grantquality/jsonvalue"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/spreadsheet"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/validation"
)

// Validation error groups.
const (
	GroupRequired = "required"
	GroupFormat   = "format"
	GroupOther    = "other"
)

// GroupedError is a validation error with its values and, for spreadsheet
// input, the table of cells around the first examples. It encodes as the
// pair [error_json, {values, spreadsheet_style_errors_table}].
type GroupedError struct {
	ErrorJSON string
	Values    []jsonvalue.Value
	// SpreadsheetTable is nil unless the data came from a spreadsheet and
	// the error is inside a grant.
	SpreadsheetTable spreadsheet.Table
}

func (g GroupedError) MarshalJSON() ([]byte, error) {
	values := g.Values
	if values == nil {
		values = []jsonvalue.Value{}
	}
	extra := struct {
		Values []jsonvalue.Value  `json:"values"`
		Table  spreadsheet.Table `json:"spreadsheet_style_errors_table"`
	}{values, g.SpreadsheetTable}
	return json.Marshal([]any{g.ErrorJSON, extra})
}

// GroupValidationErrors sorts validation errors into the required, format
// and other groups, keeping their order within each group. Groups without
// errors are left out. A oneOf error counts as a format error when its
// first alternative has a format.
func GroupValidationErrors(list validation.List, fileType FileType, wb spreadsheet.Workbook) (map[string][]GroupedError, error) {
	grouped := map[string][]GroupedError{}
	for _, entry := range list {
		fields, err := entry.Fields()
		if err != nil {
			return nil, errors.Wrap(ErrInvalidJSON, err.Error())
		}
		validator, _ := fields.GetOr("validator", jsonvalue.NewNull()).Str()
		pathNoNumber := fields.GetOr("path_no_number", jsonvalue.NewNull()).Text()

		g := GroupedError{ErrorJSON: entry.ErrorJSON, Values: entry.Values}
		if fileType.Spreadsheet() && strings.Contains(pathNoNumber, "grants/") {
			examples := make([]spreadsheet.Example, 0, len(entry.Values))
			for _, v := range entry.Values {
				examples = append(examples, spreadsheet.ExampleFromValue(v))
			}
			g.SpreadsheetTable = spreadsheet.BuildTable(examples, wb)
		}

		switch {
		case validator == "required":
			grouped[GroupRequired] = append(grouped[GroupRequired], g)
		case validator == "format" || (validator == "oneOf" && firstHasFormat(fields)):
			grouped[GroupFormat] = append(grouped[GroupFormat], g)
		default:
			grouped[GroupOther] = append(grouped[GroupOther], g)
		}
	}
	return grouped, nil
}

func firstHasFormat(fields jsonvalue.Value) bool {
	first, err := fields.Lookup("validator_value", 0)
	if err != nil {
		return false
	}
	switch first.Kind() {
	case jsonvalue.Object:
		return first.Has("format")
	case jsonvalue.String:
		s, _ := first.Str()
		return strings.Contains(s, "format")
	default:
		return false
	}
}

// ValueCount is the number of failing values across all validation errors.
func ValueCount(list validation.List) int {
	n := 0
	for _, e := range list {
		n += len(e.Values)
	}
	return n
}
