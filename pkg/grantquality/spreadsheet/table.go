// Package spreadsheet maps JSON error locations back onto the cells of the
// spreadsheet a dataset was converted from, and builds the small tables of
// example and context cells shown next to validation errors.
package spreadsheet

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/grantquality-go/pkg/grantquality/jsonvalue"
)

// NoColumn stands in for the column of errors that have no concrete cell,
// such as a missing required field.
const NoColumn = "???"

// exampleLimit bounds how many examples decide the table's extent.
const exampleLimit = 3

// Example is one failing value reported by the validator.
type Example struct {
	Sheet string
	// Row is 0 when HasRow is false.
	Row    int
	HasRow bool
	// Column is the column letter, or NoColumn.
	Column string
	// Value is the reported value. A missing value is the empty string; an
	// explicit null is kept as null and is not treated as an example.
	Value jsonvalue.Value
}

// ExampleFromValue reads an example object with the keys sheet,
// row_number, col_alpha and value.
func ExampleFromValue(v jsonvalue.Value) Example {
	e := Example{Column: NoColumn, Value: jsonvalue.NewString("")}
	if sheet, ok := v.Get("sheet"); ok && !sheet.IsNull() {
		e.Sheet = sheet.Text()
	}
	if row, ok := v.Get("row_number"); ok {
		if n, ok := row.Num(); ok {
			e.Row = int(n.IntPart())
			e.HasRow = true
		}
	}
	if col, ok := v.Get("col_alpha"); ok && !col.IsNull() {
		e.Column = col.Text()
	}
	if value, ok := v.Get("value"); ok {
		e.Value = value
	}
	return e
}

// CellType distinguishes failing values from their surroundings.
type CellType string

const (
	CellExample CellType = "example"
	CellContext CellType = "context"
)

// Cell is one entry of a Grid.
type Cell struct {
	Type  CellType `json:"type"`
	Value any      `json:"value"`
}

// GridRow is a row number followed by one cell per column.
type GridRow struct {
	Number int
	Cells  []Cell
}

// Grid is the table for one sheet.
type Grid struct {
	Columns []string
	Rows    []GridRow
}

// MarshalJSON encodes the grid as [["", col...], [row, cell...]...].
func (g Grid) MarshalJSON() ([]byte, error) {
	out := make([][]any, 0, len(g.Rows)+1)
	header := make([]any, 0, len(g.Columns)+1)
	header = append(header, "")
	for _, c := range g.Columns {
		header = append(header, c)
	}
	out = append(out, header)
	for _, r := range g.Rows {
		row := make([]any, 0, len(r.Cells)+1)
		row = append(row, r.Number)
		for _, c := range r.Cells {
			row = append(row, c)
		}
		out = append(out, row)
	}
	return json.Marshal(out)
}

// Table maps sheet names to grids.
type Table map[string]Grid

// BuildTable lays out the examples as a grid per sheet. Only the first
// three examples decide which sheets, rows and columns appear. With a
// workbook (and a real column for every one of those examples) the rows
// and columns are padded by one on each side and the header row is added,
// and the padding is filled with the workbook's values. wb may be nil.
func BuildTable(examples []Example, wb Workbook) Table {
	first := examples
	if len(first) > exampleLimit {
		first = first[:exampleLimit]
	}

	sheetSet := map[string]bool{}
	for _, e := range first {
		sheetSet[e.Sheet] = true
	}
	sheets := make([]string, 0, len(sheetSet))
	for s := range sheetSet {
		sheets = append(sheets, s)
	}
	sort.Strings(sheets)

	out := make(Table, len(sheets))
	for _, sheet := range sheets {
		rowSet := map[int]bool{}
		colSet := map[string]bool{}
		for _, e := range first {
			if e.Sheet != sheet {
				continue
			}
			if e.HasRow {
				rowSet[e.Row] = true
			}
			colSet[e.Column] = true
		}
		rows := sortedInts(rowSet)
		cols := sortedStrings(colSet)

		if wb != nil && !colSet[NoColumn] {
			rows = ExtendNumbers(rows)
			cols = extendColumns(cols)
			if len(rows) > 0 && rows[0] != 1 {
				rows = append([]int{1}, rows...)
			}
		}

		// Every example in range is shown as an example, not only the first
		// few, so that a failing cell is never displayed as context.
		lookup := map[string]jsonvalue.Value{}
		rowIn := toSet(rows)
		colIn := map[string]bool{}
		for _, c := range cols {
			colIn[c] = true
		}
		for _, e := range examples {
			if e.Sheet == sheet && e.HasRow && rowIn[e.Row] && colIn[e.Column] {
				lookup[cellKey(e.Column, e.Row)] = e.Value
			}
		}

		grid := Grid{Columns: cols, Rows: make([]GridRow, 0, len(rows))}
		for _, r := range rows {
			gr := GridRow{Number: r, Cells: make([]Cell, 0, len(cols))}
			for _, c := range cols {
				gr.Cells = append(gr.Cells, resolveCell(lookup, wb, sheet, c, r))
			}
			grid.Rows = append(grid.Rows, gr)
		}
		out[sheet] = grid
	}
	return out
}

func resolveCell(lookup map[string]jsonvalue.Value, wb Workbook, sheet, col string, row int) Cell {
	key := cellKey(col, row)
	if v, ok := lookup[key]; ok && !v.IsNull() {
		return Cell{Type: CellExample, Value: v}
	}
	if wb == nil {
		return Cell{Type: CellContext, Value: ""}
	}
	v, ok := wb.CellValue(sheet, key)
	if !ok || v == nil {
		return Cell{Type: CellContext, Value: ""}
	}
	if t, ok := v.(time.Time); ok {
		v = formatTime(t)
	}
	return Cell{Type: CellContext, Value: v}
}

func cellKey(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// formatTime renders t as an ISO-8601 UTC timestamp with a +00:00 offset,
// adding microseconds only when they are non-zero.
func formatTime(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond()/1000 != 0 {
		return t.Format("2006-01-02T15:04:05.000000") + "+00:00"
	}
	return t.Format("2006-01-02T15:04:05") + "+00:00"
}

func extendColumns(cols []string) []string {
	nums := make([]int, 0, len(cols))
	for _, c := range cols {
		n, err := excelize.ColumnNameToNumber(c)
		if err != nil {
			continue
		}
		nums = append(nums, n)
	}
	sort.Ints(nums)
	extended := ExtendNumbers(nums)
	out := make([]string, 0, len(extended))
	for _, n := range extended {
		name, err := excelize.ColumnNumberToName(n)
		if err != nil {
			continue
		}
		out = append(out, name)
	}
	return out
}

// ExtendNumbers pads a sorted list of positive integers with the number
// before and after each entry, without duplicating neighbours and without
// going below 1. Two numbers with a single gap between them share their
// padding, so [4, 6] becomes [3, 4, 5, 6, 7] while [4, 8] stays split as
// [3, 4, 5, 7, 8, 9].
func ExtendNumbers(numbers []int) []int {
	out := make([]int, 0, len(numbers)*3)
	prev := -1
	for i, n := range numbers {
		if prev != n-1 && prev+1 != n-1 && n-1 > 0 {
			out = append(out, n-1)
		}
		out = append(out, n)
		if i+1 >= len(numbers) || numbers[i+1] != n+1 {
			out = append(out, n+1)
		}
		prev = n
	}
	return out
}

func sortedInts(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

func sortedStrings(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func toSet(nums []int) map[int]bool {
	out := make(map[int]bool, len(nums))
	for _, n := range nums {
		out[n] = true
	}
	return out
}
