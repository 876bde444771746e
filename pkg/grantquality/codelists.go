package grantquality

import "sort"

// CodelistValue lists the values of one field that are not in the field's
// codelist.
type CodelistValue struct {
	Path        string   `json:"path"`
	Field       string   `json:"field"`
	Codelist    string   `json:"codelist"`
	CodelistURL string   `json:"codelist_url"`
	IsOpen      bool     `json:"isopen"`
	Values      []string `json:"values"`
	// ExtensionCodelist is set when the codelist comes from an extension.
	ExtensionCodelist bool `json:"extension_codelist"`
}

// CodelistValues maps a field path to its additional codelist values.
type CodelistValues map[string]CodelistValue

// Split separates open codelists, where other values are allowed, from
// closed ones, where other values are errors.
func (c CodelistValues) Split() (open, closed CodelistValues) {
	open, closed = CodelistValues{}, CodelistValues{}
	for path, v := range c {
		if v.IsOpen {
			open[path] = v
		} else {
			closed[path] = v
		}
	}
	return open, closed
}

// ValueCount is the number of additional values across all fields.
func (c CodelistValues) ValueCount() int {
	n := 0
	for _, v := range c {
		n += len(v.Values)
	}
	return n
}

// Paths returns the field paths in sorted order.
func (c CodelistValues) Paths() []string {
	paths := make([]string, 0, len(c))
	for p := range c {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
