package aggregates

import (
	"encoding/json"
	"sort"
)

// StringSet is an unordered set of strings that encodes as a sorted JSON array.
type StringSet map[string]struct{}

// Add inserts s.
func (s StringSet) Add(v string) { s[v] = struct{}{} }

// Has reports whether v is in the set.
func (s StringSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Sorted returns the members in ascending order.
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON implements json.Marshaler.
func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *StringSet) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*s = make(StringSet, len(items))
	for _, v := range items {
		s.Add(v)
	}
	return nil
}
