package checks

// Range maps the half-open interval [Lo, Hi) to a value.
type Range struct {
	Lo, Hi float64
	Value  string
}

// RangeTable is an ordered list of ranges. Lookup returns the value of the
// first range containing the key, so earlier entries take precedence over
// overlapping later ones.
type RangeTable []Range

// Lookup returns the value for x, or "" when no range contains it.
func (t RangeTable) Lookup(x float64) string {
	for _, r := range t {
		if x >= r.Lo && x < r.Hi {
			return r.Value
		}
	}
	return ""
}

// always is a table answering msg for every percentage.
func always(msg string) RangeTable {
	return RangeTable{{Lo: 0, Hi: 100, Value: msg}}
}
