// Package jsonvalue defines the values produced by the grammar engines.
//
// Scalars map to plain Go values: nil (null), bool, string and Number, which
// keeps the raw literal text so that re-serialization is byte-faithful.
// Composites are *Object (insertion-ordered members) and *Array. Both carry
// out-of-band formatting metadata that is invisible to enumeration, equality
// and MarshalJSON.
package jsonvalue

import (
	"encoding/json"
	"fmt"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/lattice-substrate/jsonparse/internal/jsonstr"
)

// Number is a JSON number kept as its source literal.
type Number string

// String returns the literal text.
func (n Number) String() string { return string(n) }

// Float64 returns the number as an IEEE 754 double.
func (n Number) Float64() (float64, error) {
	return strconv.ParseFloat(string(n), 64)
}

// Int64 returns the number as an int64.
func (n Number) Int64() (int64, error) {
	return strconv.ParseInt(string(n), 10, 64)
}

// MarshalJSON writes the literal unchanged.
func (n Number) MarshalJSON() ([]byte, error) {
	if n == "" {
		return nil, fmt.Errorf("jsonvalue: empty number literal")
	}
	return []byte(n), nil
}

// Format is the layout detected on a parsed composite value.
type Format struct {
	// Indent is the whitespace used per nesting level ("" for compact text).
	Indent string
	// Newline is the line-break sequence, "" when the text had a single line.
	Newline string
}

// HasNewline reports whether a newline style was detected.
func (f Format) HasNewline() bool { return f.Newline != "" }

type meta struct {
	format   Format
	attached bool
}

// Object is a JSON object whose members keep their insertion order.
// Setting an existing key replaces its value in place.
type Object struct {
	members *orderedmap.OrderedMap[string, any]
	meta
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{members: orderedmap.New[string, any]()}
}

// Set adds or replaces a member.
func (o *Object) Set(key string, v any) {
	o.members.Set(key, v)
}

// Get returns the member value for key.
func (o *Object) Get(key string) (any, bool) {
	return o.members.Get(key)
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	_, ok := o.members.Delete(key)
	return ok
}

// Len returns the number of members.
func (o *Object) Len() int { return o.members.Len() }

// Keys returns the member names in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.members.Len())
	for pair := o.members.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Range calls fn for each member in order until fn returns false.
func (o *Object) Range(fn func(key string, v any) bool) {
	for pair := o.members.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// MarshalJSON writes the object compactly in member order.
func (o *Object) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	var err error
	first := true
	o.Range(func(key string, v any) bool {
		if !first {
			buf = append(buf, ',')
		}
		first = false
		buf = jsonstr.Append(buf, key)
		buf = append(buf, ':')
		var raw []byte
		raw, err = json.Marshal(v)
		if err != nil {
			return false
		}
		buf = append(buf, raw...)
		return true
	})
	if err != nil {
		return nil, err
	}
	return append(buf, '}'), nil
}

// Array is a JSON array.
type Array struct {
	elems []any
	meta
}

// NewArray returns an array holding elems.
func NewArray(elems ...any) *Array {
	return &Array{elems: elems}
}

// Append adds v at the end.
func (a *Array) Append(v any) { a.elems = append(a.elems, v) }

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.elems) }

// At returns the i'th element.
func (a *Array) At(i int) any { return a.elems[i] }

// SetAt replaces the i'th element.
func (a *Array) SetAt(i int, v any) { a.elems[i] = v }

// Values returns a copy of the elements.
func (a *Array) Values() []any {
	out := make([]any, len(a.elems))
	copy(out, a.elems)
	return out
}

// Range calls fn for each element in order until fn returns false.
func (a *Array) Range(fn func(i int, v any) bool) {
	for i, v := range a.elems {
		if !fn(i, v) {
			return
		}
	}
}

// MarshalJSON writes the array compactly.
func (a *Array) MarshalJSON() ([]byte, error) {
	if a.elems == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a.elems)
}

// Attach records f on a composite value. It only succeeds once per value and
// reports false for scalars or values that already carry a format.
func Attach(v any, f Format) bool {
	m := metaOf(v)
	if m == nil || m.attached {
		return false
	}
	m.format = f
	m.attached = true
	return true
}

// FormatOf returns the format attached to v, if any.
func FormatOf(v any) (Format, bool) {
	m := metaOf(v)
	if m == nil || !m.attached {
		return Format{}, false
	}
	return m.format, true
}

func metaOf(v any) *meta {
	switch c := v.(type) {
	case *Object:
		if c == nil {
			return nil
		}
		return &c.meta
	case *Array:
		if c == nil {
			return nil
		}
		return &c.meta
	default:
		return nil
	}
}

// IsComposite reports whether v is an *Object or *Array.
func IsComposite(v any) bool {
	return metaOf(v) != nil
}
