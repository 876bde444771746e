package spreadsheet

import (
	"os"
	"strconv"

	"github.com/go-faster/errors"

	"github.com/ukaji3/grantquality-go/pkg/grantquality/jsonvalue"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/models"
)

// SourceEntry is one origin of a JSON pointer in the converted workbook.
type SourceEntry struct {
	Sheet  string
	Letter string
	Row    int
	Header string
}

// SourceMap maps JSON pointers ("grants/0/title") to the cells they were
// converted from. Pointers to whole objects carry only a sheet and row.
type SourceMap map[string][]SourceEntry

// ParseSourceMap decodes the converter's cell source map, whose values are
// lists of [sheet, letter, row, header] or [sheet, row] tuples.
func ParseSourceMap(data []byte) (SourceMap, error) {
	doc, err := jsonvalue.Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, "parse cell source map")
	}
	if doc.Kind() != jsonvalue.Object {
		return nil, errors.Errorf("parse cell source map: expected an object, got %s", doc.Kind())
	}

	m := make(SourceMap, len(doc.Keys()))
	for _, pointer := range doc.Keys() {
		tuples, _ := doc.Get(pointer)
		for _, tuple := range tuples.Items() {
			m[pointer] = append(m[pointer], entryFromTuple(tuple.Items()))
		}
	}
	return m, nil
}

// LoadSourceMap reads a cell source map file.
func LoadSourceMap(path string) (SourceMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read cell source map %s", path)
	}
	return ParseSourceMap(data)
}

func entryFromTuple(items []jsonvalue.Value) SourceEntry {
	var e SourceEntry
	text := func(i int) string {
		if i >= len(items) || items[i].IsNull() {
			return ""
		}
		return items[i].Text()
	}
	number := func(i int) int {
		if i >= len(items) {
			return 0
		}
		n, _ := strconv.Atoi(items[i].Text())
		return n
	}

	e.Sheet = text(0)
	if len(items) == 2 {
		e.Row = number(1)
		return e
	}
	e.Letter = text(1)
	e.Row = number(2)
	e.Header = text(3)
	return e
}

// Resolve returns the first origin of pointer.
func (m SourceMap) Resolve(pointer string) (models.SpreadsheetLocation, bool) {
	entries, ok := m[pointer]
	if !ok || len(entries) == 0 {
		return models.SpreadsheetLocation{}, false
	}
	e := entries[0]
	return models.SpreadsheetLocation{Sheet: e.Sheet, Letter: e.Letter, RowNumber: e.Row, Header: e.Header}, true
}

// ResolveAll resolves every pointer, reporting false if any is missing.
func (m SourceMap) ResolveAll(pointers []string) ([]models.SpreadsheetLocation, bool) {
	out := make([]models.SpreadsheetLocation, 0, len(pointers))
	for _, p := range pointers {
		loc, ok := m.Resolve(p)
		if !ok {
			return nil, false
		}
		out = append(out, loc)
	}
	return out, true
}
