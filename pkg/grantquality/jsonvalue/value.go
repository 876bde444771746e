// Package jsonvalue models loosely typed JSON documents as a tagged value.
//
// Field access goes through a Value that knows its own kind, not through
// type assertions on interface{} trees.
package jsonvalue

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	// Null is the zero Kind, so the zero Value is JSON null.
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Value is an immutable JSON value.
type Value struct {
	kind Kind
	b    bool
	// s holds the string for String and the literal text for Number.
	s   string
	arr []Value
	obj *object
}

type object struct {
	keys  []string
	vals  []Value
	index map[string]int
}

func newObject(size int) *object {
	return &object{
		keys:  make([]string, 0, size),
		vals:  make([]Value, 0, size),
		index: make(map[string]int, size),
	}
}

// set keeps the first position of a key and the last value written to it.
func (o *object) set(key string, v Value) {
	if i, ok := o.index[key]; ok {
		o.vals[i] = v
		return
	}
	o.index[key] = len(o.keys)
	o.keys = append(o.keys, key)
	o.vals = append(o.vals, v)
}

// Member is one key/value pair of an object, used by NewObject.
type Member struct {
	Key   string
	Value Value
}

// NewNull returns JSON null.
func NewNull() Value { return Value{} }

// NewBool returns a JSON boolean.
func NewBool(b bool) Value { return Value{kind: Bool, b: b} }

// NewString returns a JSON string.
func NewString(s string) Value { return Value{kind: String, s: s} }

// NewNumber returns a JSON number from its literal text. The literal is
// kept as given so that re-encoding is lossless.
func NewNumber(literal string) Value { return Value{kind: Number, s: literal} }

// NewInt returns a JSON integer.
func NewInt(i int64) Value { return Value{kind: Number, s: decimal.NewFromInt(i).String()} }

// NewArray returns a JSON array holding items.
func NewArray(items ...Value) Value {
	arr := make([]Value, len(items))
	copy(arr, items)
	return Value{kind: Array, arr: arr}
}

// NewObject returns a JSON object with members in the given order.
func NewObject(members ...Member) Value {
	obj := newObject(len(members))
	for _, m := range members {
		obj.set(m.Key, m.Value)
	}
	return Value{kind: Object, obj: obj}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is JSON null.
func (v Value) IsNull() bool { return v.kind == Null }

// Get returns the member named key. It reports false when v is not an
// object or has no such member.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	i, ok := v.obj.index[key]
	if !ok {
		return Value{}, false
	}
	return v.obj.vals[i], true
}

// Has reports whether v is an object with a member named key, whatever its value.
func (v Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Index returns the i-th array element.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != Array || i < 0 || i >= len(v.arr) {
		return Value{}, false
	}
	return v.arr[i], true
}

// Items returns the elements of an array, or nil for any other kind.
func (v Value) Items() []Value {
	if v.kind != Array {
		return nil
	}
	return v.arr
}

// Keys returns the member names of an object in document order.
func (v Value) Keys() []string {
	if v.kind != Object {
		return nil
	}
	return v.obj.keys
}

// Len returns the number of characters of a string, elements of an array
// or members of an object. Other kinds have length 0.
func (v Value) Len() int {
	switch v.kind {
	case String:
		return utf8.RuneCountInString(v.s)
	case Array:
		return len(v.arr)
	case Object:
		return len(v.obj.keys)
	default:
		return 0
	}
}

// Str returns the string held by v.
func (v Value) Str() (string, bool) {
	if v.kind != String {
		return "", false
	}
	return v.s, true
}

// Boolean returns the boolean held by v.
func (v Value) Boolean() (bool, bool) {
	if v.kind != Bool {
		return false, false
	}
	return v.b, true
}

// Num returns the number held by v as an exact decimal.
func (v Value) Num() (decimal.Decimal, bool) {
	if v.kind != Number {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(v.s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Literal returns the source text of a number.
func (v Value) Literal() string {
	if v.kind != Number {
		return ""
	}
	return v.s
}

// Truthy follows the usual dynamic-language notion of truth: null, false,
// zero, the empty string and empty containers are false.
func (v Value) Truthy() bool {
	switch v.kind {
	case Bool:
		return v.b
	case Number:
		d, ok := v.Num()
		return ok && !d.IsZero()
	case String:
		return v.s != ""
	case Array:
		return len(v.arr) > 0
	case Object:
		return len(v.obj.keys) > 0
	default:
		return false
	}
}

// Text renders v for display and for string comparisons. Strings are
// returned unquoted, numbers as their literal, booleans as True/False and
// null as None. Containers render as compact JSON.
func (v Value) Text() string {
	switch v.kind {
	case Null:
		return "None"
	case Bool:
		if v.b {
			return "True"
		}
		return "False"
	case Number, String:
		return v.s
	default:
		b, err := v.MarshalJSON()
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// Equal reports deep equality. Numbers compare by value, so 1 equals 1.0.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case Null:
		return true
	case Bool:
		return v.b == other.b
	case Number:
		a, okA := v.Num()
		b, okB := other.Num()
		if !okA || !okB {
			return v.s == other.s
		}
		return a.Equal(b)
	case String:
		return v.s == other.s
	case Array:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(v.obj.keys) != len(other.obj.keys) {
			return false
		}
		for i, key := range v.obj.keys {
			ov, ok := other.Get(key)
			if !ok || !v.obj.vals[i].Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

// HasPrefixFold reports whether v is a string starting with prefix,
// ignoring case.
func (v Value) HasPrefixFold(prefix string) bool {
	s, ok := v.Str()
	if !ok {
		return false
	}
	return strings.HasPrefix(strings.ToLower(s), strings.ToLower(prefix))
}
