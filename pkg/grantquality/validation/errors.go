package validation

import (
	"encoding/json"
	"os"

	"github.com/go-faster/errors"

	"github.com/ukaji3/grantquality-go/pkg/grantquality/jsonvalue"
)

// Error describes one kind of schema violation. Identical violations at
// different places share an Error and differ only in their values.
//
// Fields are declared in key order so that the encoded form is stable and
// can be used as a grouping key.
type Error struct {
	Message      string `json:"message"`
	PathNoNumber string `json:"path_no_number"`
	Validator    string `json:"validator"`
	// ValidatorValue is the schema value of the failing keyword, when it
	// is meaningful to show (a format name, an enum list, ...).
	ValidatorValue any `json:"validator_value,omitempty"`
}

// Entry is one distinct validation error with every value that raised it.
// It encodes as the pair [error_json, values].
type Entry struct {
	// ErrorJSON is the encoded Error, or any object with at least the
	// validator and path_no_number keys when read from another validator.
	ErrorJSON string
	// Values are objects with a path, the offending value when it is a
	// scalar and, for spreadsheet input, sheet, col_alpha, row_number and
	// header.
	Values []jsonvalue.Value
}

// List is the validation outcome of a dataset, in first-seen order.
type List []Entry

// Fields decodes ErrorJSON.
func (e Entry) Fields() (jsonvalue.Value, error) {
	v, err := jsonvalue.Parse([]byte(e.ErrorJSON))
	if err != nil {
		return jsonvalue.Value{}, errors.Wrap(err, "decode validation error")
	}
	if v.Kind() != jsonvalue.Object {
		return jsonvalue.Value{}, errors.Errorf("decode validation error: expected an object, got %s", v.Kind())
	}
	return v, nil
}

func (e Entry) MarshalJSON() ([]byte, error) {
	values := e.Values
	if values == nil {
		values = []jsonvalue.Value{}
	}
	return json.Marshal([]any{e.ErrorJSON, values})
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return errors.Wrap(err, "decode validation error pair")
	}
	if len(pair) != 2 {
		return errors.Errorf("decode validation error pair: expected 2 items, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &e.ErrorJSON); err != nil {
		return errors.Wrap(err, "decode validation error json")
	}
	values, err := jsonvalue.Parse(pair[1])
	if err != nil {
		return errors.Wrap(err, "decode validation error values")
	}
	if values.Kind() != jsonvalue.Array {
		return errors.Errorf("decode validation error values: expected an array, got %s", values.Kind())
	}
	e.Values = values.Items()
	return nil
}

// Count returns the number of distinct errors.
func (l List) Count() int { return len(l) }

// ParseList decodes a JSON array of [error_json, values] pairs.
func ParseList(data []byte) (List, error) {
	var l List
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, err
	}
	if l == nil {
		l = List{}
	}
	return l, nil
}

// LoadList reads a validation error file.
func LoadList(path string) (List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read validation errors %s", path)
	}
	return ParseList(data)
}
