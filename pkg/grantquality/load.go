package grantquality

import (
	"encoding/json"
	"os"

	"github.com/go-faster/errors"

	"github.com/ukaji3/grantquality-go/pkg/grantquality/jsonvalue"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/spreadsheet"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/validation"
)

func readInput(kind, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, NewInputError(kind, path, ErrFileNotFound)
	}
	if err != nil {
		return nil, NewInputError(kind, path, err)
	}
	return data, nil
}

func checkExists(kind, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return NewInputError(kind, path, ErrFileNotFound)
	}
	return nil
}

// invalid wraps a decoding failure so that it matches ErrInvalidJSON.
func invalid(kind, path string, err error) error {
	return NewInputError(kind, path, errors.Wrap(ErrInvalidJSON, err.Error()))
}

// LoadDataset reads a grants dataset. The document must be a JSON object;
// whether it has grants is left to the run.
func LoadDataset(path string) (jsonvalue.Value, error) {
	data, err := readInput("grants", path)
	if err != nil {
		return jsonvalue.Value{}, err
	}
	v, err := jsonvalue.Parse(data)
	if err != nil {
		return jsonvalue.Value{}, invalid("grants", path, err)
	}
	if v.Kind() != jsonvalue.Object {
		return jsonvalue.Value{}, invalid("grants", path, errors.Errorf("expected an object, got %s", v.Kind()))
	}
	return v, nil
}

// LoadSourceMap reads the converter's cell source map.
func LoadSourceMap(path string) (spreadsheet.SourceMap, error) {
	data, err := readInput("cell source map", path)
	if err != nil {
		return nil, err
	}
	m, err := spreadsheet.ParseSourceMap(data)
	if err != nil {
		return nil, invalid("cell source map", path, err)
	}
	return m, nil
}

// LoadValidationErrors reads a list of [error_json, values] pairs.
func LoadValidationErrors(path string) (validation.List, error) {
	data, err := readInput("validation errors", path)
	if err != nil {
		return nil, err
	}
	list, err := validation.ParseList(data)
	if err != nil {
		return nil, invalid("validation errors", path, err)
	}
	return list, nil
}

// LoadCodelists reads additional codelist values keyed by field path.
func LoadCodelists(path string) (CodelistValues, error) {
	data, err := readInput("codelists", path)
	if err != nil {
		return nil, err
	}
	var c CodelistValues
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, invalid("codelists", path, err)
	}
	return c, nil
}

// OpenWorkbook opens the workbook the dataset was converted from.
func OpenWorkbook(path string) (*spreadsheet.ExcelWorkbook, error) {
	if err := checkExists("workbook", path); err != nil {
		return nil, err
	}
	wb, err := spreadsheet.OpenExcel(path)
	if err != nil {
		return nil, NewInputError("workbook", path, err)
	}
	return wb, nil
}

// LoadSchema compiles a JSON Schema file.
func LoadSchema(path string) (*validation.Validator, error) {
	if err := checkExists("schema", path); err != nil {
		return nil, err
	}
	v, err := validation.Load(path)
	if err != nil {
		return nil, NewInputError("schema", path, err)
	}
	return v, nil
}
