package format

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"

	jsoncanonicalizer "github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"

	"github.com/lattice-substrate/jsonparse/internal/jsonstr"
	"github.com/lattice-substrate/jsonparse/jsonvalue"
)

// Marshal writes v laid out according to f. An empty f.Indent produces
// compact text. An empty f.Newline with a non-empty indent uses "\n".
//
// v may hold the values produced by the parser, plus the Go values a reviver
// is likely to return: float64 and the other numeric kinds, json.Number,
// []any and map[string]any (written in key order). Non-finite floats are
// written as null.
func Marshal(v any, f jsonvalue.Format) ([]byte, error) {
	w := writer{indent: f.Indent, newline: f.Newline}
	if w.indent != "" && w.newline == "" {
		w.newline = "\n"
	}
	return w.value(nil, v, 0)
}

type writer struct {
	indent  string
	newline string
}

func (w *writer) value(buf []byte, v any, depth int) ([]byte, error) {
	switch x := v.(type) {
	case nil:
		return append(buf, "null"...), nil
	case bool:
		return strconv.AppendBool(buf, x), nil
	case string:
		return jsonstr.Append(buf, x), nil
	case jsonvalue.Number:
		if x == "" {
			return nil, fmt.Errorf("format: empty number literal")
		}
		return append(buf, x...), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return nil, fmt.Errorf("format: number %q: %w", x.String(), err)
		}
		return appendFloat(buf, f)
	case float64:
		return appendFloat(buf, x)
	case float32:
		return appendFloat(buf, float64(x))
	case *jsonvalue.Object:
		if x == nil {
			return append(buf, "null"...), nil
		}
		return w.object(buf, x, depth)
	case *jsonvalue.Array:
		if x == nil {
			return append(buf, "null"...), nil
		}
		return w.array(buf, x.Values(), depth)
	case []any:
		if x == nil {
			return append(buf, "null"...), nil
		}
		return w.array(buf, x, depth)
	case map[string]any:
		if x == nil {
			return append(buf, "null"...), nil
		}
		return w.object(buf, sortedObject(x), depth)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return appendFloat(buf, float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return appendFloat(buf, float64(rv.Uint()))
	}
	return nil, fmt.Errorf("format: unsupported value of type %T", v)
}

// appendFloat writes f the way ECMAScript's Number.prototype.toString does.
func appendFloat(buf []byte, f float64) ([]byte, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return append(buf, "null"...), nil
	}
	s, err := jsoncanonicalizer.NumberToJSON(f)
	if err != nil {
		return nil, fmt.Errorf("format: number serialization error: %w", err)
	}
	return append(buf, s...), nil
}

func (w *writer) object(buf []byte, o *jsonvalue.Object, depth int) ([]byte, error) {
	if o.Len() == 0 {
		return append(buf, '{', '}'), nil
	}
	buf = append(buf, '{')
	var err error
	i := 0
	o.Range(func(key string, v any) bool {
		if i > 0 {
			buf = append(buf, ',')
		}
		i++
		buf = w.breakLine(buf, depth+1)
		buf = jsonstr.Append(buf, key)
		buf = append(buf, ':')
		if w.indent != "" {
			buf = append(buf, ' ')
		}
		buf, err = w.value(buf, v, depth+1)
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	buf = w.breakLine(buf, depth)
	return append(buf, '}'), nil
}

func (w *writer) array(buf []byte, elems []any, depth int) ([]byte, error) {
	if len(elems) == 0 {
		return append(buf, '[', ']'), nil
	}
	buf = append(buf, '[')
	for i, v := range elems {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = w.breakLine(buf, depth+1)
		var err error
		buf, err = w.value(buf, v, depth+1)
		if err != nil {
			return nil, err
		}
	}
	buf = w.breakLine(buf, depth)
	return append(buf, ']'), nil
}

// breakLine starts a new line indented depth levels. Compact layout writes
// nothing.
func (w *writer) breakLine(buf []byte, depth int) []byte {
	if w.indent == "" {
		return buf
	}
	buf = append(buf, w.newline...)
	for i := 0; i < depth; i++ {
		buf = append(buf, w.indent...)
	}
	return buf
}

func sortedObject(m map[string]any) *jsonvalue.Object {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	o := jsonvalue.NewObject()
	for _, k := range keys {
		o.Set(k, m[k])
	}
	return o
}
