// Package models defines the data structures produced by a quality run.
package models

// CheckMessage is the rendered outcome of one failed check.
type CheckMessage struct {
	// Heading is the one-line summary, starting with the grant count.
	Heading string `json:"heading"`
	// Message explains the finding and how to address it.
	Message string `json:"message"`
	// Type is the check name, e.g. "ZeroAmountTest".
	Type string `json:"type"`
	// Count is the number of failures counted by the check.
	Count int `json:"count"`
	// Percentage is Count over the check's relevant grant total (0..1).
	Percentage float64 `json:"percentage"`
	// Category groups checks for display ("Dates", "Organisations", ...).
	Category string `json:"category"`
	// Importance is 100 for critical findings and 0 otherwise.
	Importance int `json:"importance"`
}

// CheckResult pairs a message with the places the check failed.
type CheckResult struct {
	Message CheckMessage `json:"message"`
	// JSONLocations are pointers such as "grants/0/amountAwarded".
	JSONLocations []string `json:"json_locations"`
	// SpreadsheetLocations is empty for JSON input, or when any location
	// could not be found in the cell source map.
	SpreadsheetLocations []SpreadsheetLocation `json:"spreadsheet_locations"`
}
