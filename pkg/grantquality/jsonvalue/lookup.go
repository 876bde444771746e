package jsonvalue

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
)

// ErrAbsent is matched by every LookupError. Callers that treat a missing
// or mistyped field as "not present" test for it with errors.Is.
var ErrAbsent = errors.New("value absent")

// LookupError describes why a path could not be followed.
type LookupError struct {
	// Path is the portion of the path that was followed, including the
	// step that failed.
	Path   string
	Reason string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %s: %s", e.Path, e.Reason)
}

// Is makes errors.Is(err, ErrAbsent) true for every LookupError.
func (e *LookupError) Is(target error) bool {
	return target == ErrAbsent
}

// Lookup follows path through nested objects and arrays. Each step is a
// string (object member) or an int (array index).
func (v Value) Lookup(path ...any) (Value, error) {
	cur := v
	var followed strings.Builder
	for _, step := range path {
		switch s := step.(type) {
		case string:
			followed.WriteString("/" + s)
			if cur.kind != Object {
				return Value{}, &LookupError{Path: followed.String(), Reason: "not an object (" + cur.kind.String() + ")"}
			}
			next, ok := cur.Get(s)
			if !ok {
				return Value{}, &LookupError{Path: followed.String(), Reason: "missing key"}
			}
			cur = next
		case int:
			followed.WriteString("/" + strconv.Itoa(s))
			if cur.kind != Array {
				return Value{}, &LookupError{Path: followed.String(), Reason: "not an array (" + cur.kind.String() + ")"}
			}
			next, ok := cur.Index(s)
			if !ok {
				return Value{}, &LookupError{Path: followed.String(), Reason: "index out of range"}
			}
			cur = next
		default:
			panic(fmt.Sprintf("jsonvalue: unsupported path step %T", step))
		}
	}
	return cur, nil
}

// LookupString is Lookup followed by a string kind check.
func (v Value) LookupString(path ...any) (string, error) {
	found, err := v.Lookup(path...)
	if err != nil {
		return "", err
	}
	s, ok := found.Str()
	if !ok {
		return "", &LookupError{Path: pathString(path), Reason: "not a string (" + found.kind.String() + ")"}
	}
	return s, nil
}

// LookupArray is Lookup followed by an array kind check.
func (v Value) LookupArray(path ...any) ([]Value, error) {
	found, err := v.Lookup(path...)
	if err != nil {
		return nil, err
	}
	if found.kind != Array {
		return nil, &LookupError{Path: pathString(path), Reason: "not an array (" + found.kind.String() + ")"}
	}
	return found.arr, nil
}

// GetOr returns the member named key, or def when it is missing.
func (v Value) GetOr(key string, def Value) Value {
	if found, ok := v.Get(key); ok {
		return found
	}
	return def
}

func pathString(path []any) string {
	var b strings.Builder
	for _, step := range path {
		fmt.Fprintf(&b, "/%v", step)
	}
	return b.String()
}

// Leaf is a scalar (or non-object array element) reached by Flatten.
type Leaf struct {
	Path  string
	Value Value
}

// Flatten walks an object in sorted key order and returns its leaves with
// slash-separated paths. Objects inside arrays are walked under
// "key/index"; any other array element is itself a leaf.
func Flatten(v Value) []Leaf {
	var out []Leaf
	flatten(v, "", &out)
	return out
}

func flatten(v Value, path string, out *[]Leaf) {
	if v.kind != Object {
		return
	}
	keys := make([]string, len(v.obj.keys))
	copy(keys, v.obj.keys)
	sort.Strings(keys)
	for _, key := range keys {
		member, _ := v.Get(key)
		switch member.kind {
		case Array:
			for num, item := range member.arr {
				itemPath := fmt.Sprintf("%s/%s/%d", path, key, num)
				if item.kind == Object {
					flatten(item, itemPath, out)
				} else {
					*out = append(*out, Leaf{Path: itemPath, Value: item})
				}
			}
		case Object:
			flatten(member, path+"/"+key, out)
		default:
			*out = append(*out, Leaf{Path: path + "/" + key, Value: member})
		}
	}
}
