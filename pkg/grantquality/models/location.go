package models

// SpreadsheetLocation is the cell a JSON pointer was converted from.
type SpreadsheetLocation struct {
	Sheet string `json:"sheet"`
	// Letter is the column letter, empty when the converter did not record one.
	Letter    string `json:"letter"`
	RowNumber int    `json:"row_number"`
	Header    string `json:"header"`
}
