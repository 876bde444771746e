// Package output writes run results as JSON or as a terminal report.
package output

import "encoding/json"

// ToJSON serializes v, indented by two spaces when pretty is set.
func ToJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
