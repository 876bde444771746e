package spreadsheet

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func TestExcelWorkbookCellValue(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "grants"
	if _, err := f.NewSheet(sheetName); err != nil {
		t.Fatalf("Failed to add sheet: %v", err)
	}
	f.SetCellValue(sheetName, "A1", "Identifier")
	f.SetCellValue(sheetName, "B1", "Amount Awarded")
	f.SetCellValue(sheetName, "A2", "360G-x-1")
	f.SetCellValue(sheetName, "B2", 100)
	f.SetCellValue(sheetName, "C2", 200.5)
	f.SetCellValue(sheetName, "D2", true)
	f.SetCellValue(sheetName, "E2", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))

	tmpFile := filepath.Join(t.TempDir(), "grants.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}

	wb, err := OpenExcel(tmpFile)
	if err != nil {
		t.Fatalf("OpenExcel failed: %v", err)
	}
	defer wb.Close()

	tests := []struct {
		cell     string
		expected any
	}{
		{"A1", "Identifier"},
		{"A2", "360G-x-1"},
		{"B2", int64(100)},
		{"C2", 200.5},
		{"D2", true},
		{"F2", nil},
	}
	for _, tt := range tests {
		got, ok := wb.CellValue(sheetName, tt.cell)
		if !ok {
			t.Errorf("CellValue(%q) reported missing", tt.cell)
			continue
		}
		if got != tt.expected {
			t.Errorf("CellValue(%q) = %v (type: %T), expected %v (type: %T)", tt.cell, got, got, tt.expected, tt.expected)
		}
	}

	got, ok := wb.CellValue(sheetName, "E2")
	if !ok {
		t.Fatalf("CellValue(E2) reported missing")
	}
	date, isTime := got.(time.Time)
	if !isTime {
		t.Fatalf("Expected time.Time for E2, got %T", got)
	}
	if diff := date.Sub(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)); diff > time.Second || diff < -time.Second {
		t.Errorf("Expected 2024-03-05, got %v", date)
	}

	if _, ok := wb.CellValue("missing", "A1"); ok {
		t.Errorf("Expected missing sheet to report false")
	}
	if _, ok := wb.CellValue(sheetName, "not a cell"); ok {
		t.Errorf("Expected invalid cell reference to report false")
	}
}

func TestExcelWorkbookInTable(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetCellValue("Sheet1", "B1", "Title")
	f.SetCellValue("Sheet1", "B2", "Grant one")
	f.SetCellValue("Sheet1", "C2", 5)

	table := BuildTable([]Example{example("Sheet1", 2, "C", "5")}, NewExcelWorkbook(f))
	grid := table["Sheet1"]

	if len(grid.Columns) != 3 || grid.Columns[0] != "B" || grid.Columns[2] != "D" {
		t.Fatalf("Unexpected columns %v", grid.Columns)
	}
	if got := grid.Rows[0].Cells[0]; got.Type != CellContext || got.Value != "Title" {
		t.Errorf("Expected header context cell, got %+v", got)
	}
	if got := grid.Rows[1].Cells[1]; got.Type != CellExample {
		t.Errorf("Expected example cell at C2, got %+v", got)
	}
	if got := grid.Rows[2].Cells[0]; got.Value != "" {
		t.Errorf("Expected empty context at B3, got %+v", got)
	}
}

func TestCustomDateFormat(t *testing.T) {
	tests := []struct {
		format   string
		expected bool
	}{
		{"yyyy-mm-dd", true},
		{"dd/mm/yy hh:mm", true},
		{"#,##0.00", false},
		{`"Day "0`, false},
		{"[Red]0.00", false},
		{"[$-409]d-mmm", true},
	}
	for _, tt := range tests {
		if got := customDateFormat(tt.format); got != tt.expected {
			t.Errorf("customDateFormat(%q) = %v, expected %v", tt.format, got, tt.expected)
		}
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		expected any
	}{
		{"123", int64(123)},
		{"123.45", 123.45},
		{"-100", int64(-100)},
		{"GB-CHC-1", "GB-CHC-1"},
		{"", ""},
	}

	for _, tt := range tests {
		result := parseValue(tt.input)
		if result != tt.expected {
			t.Errorf("parseValue(%q) = %v (type: %T), expected %v (type: %T)",
				tt.input, result, result, tt.expected, tt.expected)
		}
	}
}

func TestFormatTime(t *testing.T) {
	if got := formatTime(time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)); got != "2020-01-02T03:04:05+00:00" {
		t.Errorf("formatTime = %q", got)
	}
	if got := formatTime(time.Date(2020, 1, 2, 3, 4, 5, 1500, time.UTC)); got != "2020-01-02T03:04:05.000001+00:00" {
		t.Errorf("formatTime = %q", got)
	}
}
