// Package jsonparse parses JSON text strictly, remembers how the text was laid
// out, and explains failures.
//
// A successful Parse returns the decoded value; objects and arrays carry the
// indentation unit and newline style of the source, readable with FormatOf
// and used by Marshal to write the value back in the same layout. A failed
// Parse returns a *jsonerr.Error with a classified kind, the failure position
// in characters, the original grammar failure and an excerpt of the text.
// Input that is not text at all is rejected with a *jsonerr.TypeError.
package jsonparse

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/tliron/commonlog"
	xunicode "golang.org/x/text/encoding/unicode"

	"github.com/lattice-substrate/jsonparse/engine"
	"github.com/lattice-substrate/jsonparse/format"
	"github.com/lattice-substrate/jsonparse/jsonerr"
	"github.com/lattice-substrate/jsonparse/jsonvalue"
)

var log = commonlog.GetLogger("jsonparse")

const byteOrderMark = "\uFEFF"

// Parse parses input, which must be a string, []byte or []rune (or a named
// type over one of them), with default options.
func Parse(input any) (any, error) {
	return parse(input, nil, Parse)
}

// ParseWithOptions parses input as Parse does. A nil opts selects the
// defaults.
func ParseWithOptions(input any, opts *Options) (any, error) {
	return parse(input, opts, ParseWithOptions)
}

// TryParse is Parse without diagnostics: any failure yields (nil, false).
func TryParse(input any) (any, bool) {
	return TryParseWithOptions(input, nil)
}

// TryParseWithOptions is ParseWithOptions without diagnostics. Stack capture
// is disabled since the error is discarded.
func TryParseWithOptions(input any, opts *Options) (any, bool) {
	quiet := Options{}
	if opts != nil {
		quiet = *opts
	}
	quiet.Tracer = jsonerr.NoopTracer{}
	v, err := parse(input, &quiet, TryParseWithOptions)
	if err != nil {
		return nil, false
	}
	return v, true
}

func parse(input any, opts *Options, caller any) (any, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	text, err := textOf(input)
	if err != nil {
		return nil, err
	}
	eng, err := engine.Lookup(opts.engine(), opts.engineOptions())
	if err != nil {
		return nil, fmt.Errorf("jsonparse: %w", err)
	}

	v, err := eng.Parse(text)
	if err != nil {
		log.Debugf("%s engine rejected %d bytes: %v", eng.Name(), len(text), err)
		return nil, jsonerr.New(err, text,
			jsonerr.WithWindow(opts.window()),
			jsonerr.WithCaller(caller),
			jsonerr.WithTracer(opts.tracer()),
		)
	}

	v = jsonvalue.Revive(v, opts.reviver())
	if jsonvalue.IsComposite(v) {
		jsonvalue.Attach(v, format.Detect(text, v))
	}
	return v, nil
}

// textOf returns the JSON text held by input. One leading byte order mark is
// removed; a []byte is decoded as UTF-8 with invalid sequences replaced by
// U+FFFD.
func textOf(input any) (string, error) {
	switch in := input.(type) {
	case string:
		return strings.TrimPrefix(in, byteOrderMark), nil
	case []byte:
		out, err := xunicode.UTF8BOM.NewDecoder().Bytes(in)
		if err != nil {
			return "", fmt.Errorf("jsonparse: decode input: %w", err)
		}
		return string(out), nil
	case []rune:
		if len(in) == 0 {
			return "", jsonerr.NewTypeError(input)
		}
		return strings.TrimPrefix(string(in), byteOrderMark), nil
	}
	if in, ok := asText(input); ok {
		return textOf(in)
	}
	return "", jsonerr.NewTypeError(input)
}

var (
	stringType = reflect.TypeOf("")
	bytesType  = reflect.TypeOf([]byte(nil))
	runesType  = reflect.TypeOf([]rune(nil))
)

// asText converts named string, byte slice and rune slice types, such as
// json.RawMessage, to their unnamed form.
func asText(input any) (any, bool) {
	if input == nil {
		return nil, false
	}
	v := reflect.ValueOf(input)
	t := v.Type()
	switch {
	case t.Kind() == reflect.String:
		return v.Convert(stringType).Interface(), true
	case t.Kind() != reflect.Slice:
		return nil, false
	case t.ConvertibleTo(bytesType):
		return v.Convert(bytesType).Interface(), true
	case t.ConvertibleTo(runesType) && v.Len() > 0:
		return v.Convert(runesType).Interface(), true
	}
	return nil, false
}

// FormatOf returns the layout recorded on a value returned by Parse.
func FormatOf(v any) (jsonvalue.Format, bool) {
	return jsonvalue.FormatOf(v)
}

// Marshal writes v in the layout recorded on it by Parse, or compactly when
// v carries none.
func Marshal(v any) ([]byte, error) {
	f, _ := jsonvalue.FormatOf(v)
	return format.Marshal(v, f)
}
