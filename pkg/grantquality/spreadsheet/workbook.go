package spreadsheet

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"
)

// Workbook gives read access to the cells of the workbook a dataset was
// converted from.
type Workbook interface {
	// CellValue returns the value at cell (e.g. "C5") of sheet. It reports
	// false when the sheet or the cell does not exist.
	CellValue(sheet, cell string) (any, bool)
}

// MapWorkbook is an in-memory Workbook keyed by sheet, then cell reference.
type MapWorkbook map[string]map[string]any

// CellValue implements Workbook.
func (m MapWorkbook) CellValue(sheet, cell string) (any, bool) {
	cells, ok := m[sheet]
	if !ok {
		return nil, false
	}
	v, ok := cells[cell]
	return v, ok
}

// ExcelWorkbook reads cells from an xlsx file through excelize.
type ExcelWorkbook struct {
	f        *excelize.File
	date1904 bool
}

// OpenExcel opens an xlsx workbook. The caller must Close it.
func OpenExcel(path string) (*ExcelWorkbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open workbook %s", path)
	}
	return NewExcelWorkbook(f), nil
}

// NewExcelWorkbook wraps an already opened file.
func NewExcelWorkbook(f *excelize.File) *ExcelWorkbook {
	wb := &ExcelWorkbook{f: f}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		wb.date1904 = *props.Date1904
	}
	return wb
}

// Close releases the underlying file.
func (w *ExcelWorkbook) Close() error {
	return w.f.Close()
}

// SheetNames lists the sheets in workbook order.
func (w *ExcelWorkbook) SheetNames() []string {
	return w.f.GetSheetList()
}

// CellValue implements Workbook. Numbers come back as int64 or float64,
// booleans as bool, dates as time.Time in UTC and everything else as a
// string. An empty cell is (nil, true).
func (w *ExcelWorkbook) CellValue(sheet, cell string) (any, bool) {
	if idx, err := w.f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, false
	}
	if _, _, err := excelize.CellNameToCoordinates(cell); err != nil {
		return nil, false
	}

	raw, err := w.f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, false
	}
	if raw == "" {
		return nil, true
	}

	cellType, err := w.f.GetCellType(sheet, cell)
	if err != nil {
		return raw, true
	}
	switch cellType {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true"), true
	case excelize.CellTypeDate:
		if t, ok := w.serialToTime(raw); ok {
			return t, true
		}
		return raw, true
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if w.hasDateFormat(sheet, cell) {
			if t, ok := w.serialToTime(raw); ok {
				return t, true
			}
		}
		return parseValue(raw), true
	default:
		return raw, true
	}
}

func (w *ExcelWorkbook) serialToTime(raw string) (time.Time, bool) {
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			return t.UTC(), true
		}
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, w.date1904)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// Built-in number formats 14-22 and 45-47 are dates or times; the ranges
// 27-36 and 50-58 are the East Asian date formats.
func builtinDateFormat(id int) bool {
	return (id >= 14 && id <= 22) || (id >= 27 && id <= 36) || (id >= 45 && id <= 47) || (id >= 50 && id <= 58)
}

func (w *ExcelWorkbook) hasDateFormat(sheet, cell string) bool {
	idx, err := w.f.GetCellStyle(sheet, cell)
	if err != nil || idx == 0 {
		return false
	}
	style, err := w.f.GetStyle(idx)
	if err != nil || style == nil {
		return false
	}
	if builtinDateFormat(style.NumFmt) {
		return true
	}
	if style.CustomNumFmt == nil {
		return false
	}
	return customDateFormat(*style.CustomNumFmt)
}

// customDateFormat looks for date or time tokens outside quoted literals
// and bracketed sections such as colours.
func customDateFormat(format string) bool {
	inQuote, inBracket := false, false
	for _, r := range strings.ToLower(format) {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		case r == 'y' || r == 'm' || r == 'd' || r == 'h' || r == 's':
			return true
		}
	}
	return false
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
