// Package coverage counts which fields a dataset uses.
package coverage

import (
	"sort"

	"github.com/ukaji3/grantquality-go/pkg/grantquality/jsonvalue"
)

// Field is the coverage of one field path.
type Field struct {
	// TotalFields counts every occurrence of the path in the dataset.
	TotalFields int `json:"total_fields"`
	// GrantsWithField counts the grants using the path at least once. It
	// is nil for paths outside the grants array.
	GrantsWithField *int `json:"grants_with_field"`
	// Standard reports whether the schema defines the path.
	Standard bool `json:"standard"`
}

// Report maps field paths such as "/grants/recipientOrganization/name" to
// their coverage.
type Report map[string]Field

// FieldsPresent counts every field path of data. Keys are walked
// recursively; arrays of objects are walked under the array's own path, so
// list indexes never appear.
func FieldsPresent(data jsonvalue.Value) map[string]int {
	counts := map[string]int{}
	walk(data, "", func(path string) { counts[path]++ })
	return counts
}

// UniqueFieldsPresent counts, for each field path below "/grants", the
// grants that use it.
func UniqueFieldsPresent(data jsonvalue.Value) map[string]int {
	counts := map[string]int{}
	grants, err := data.LookupArray("grants")
	if err != nil {
		return counts
	}
	for _, grant := range grants {
		seen := map[string]struct{}{}
		walk(grant, "", func(path string) { seen[path] = struct{}{} })
		for path := range seen {
			counts["/grants"+path]++
		}
	}
	return counts
}

func walk(v jsonvalue.Value, prefix string, visit func(string)) {
	if v.Kind() != jsonvalue.Object {
		return
	}
	for _, key := range v.Keys() {
		path := prefix + "/" + key
		visit(path)
		member, _ := v.Get(key)
		switch member.Kind() {
		case jsonvalue.Array:
			for _, item := range member.Items() {
				walk(item, path, visit)
			}
		case jsonvalue.Object:
			walk(member, path, visit)
		}
	}
}

// Compute builds the coverage report of data. schemaFields lists the paths
// the schema defines; it may be nil.
func Compute(data jsonvalue.Value, schemaFields map[string]bool) Report {
	unique := UniqueFieldsPresent(data)
	report := Report{}
	for path, total := range FieldsPresent(data) {
		f := Field{TotalFields: total, Standard: schemaFields[path]}
		if n, ok := unique[path]; ok {
			f.GrantsWithField = &n
		}
		report[path] = f
	}
	return report
}

// Paths returns the report's paths in sorted order.
func (r Report) Paths() []string {
	paths := make([]string, 0, len(r))
	for p := range r {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
