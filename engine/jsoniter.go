package engine

import (
	"io"
	"regexp"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"github.com/lattice-substrate/jsonparse/jsonvalue"
)

var iterConfig = jsoniter.Config{
	EscapeHTML: true,
	UseNumber:  true,
}.Froze()

var numberLiteral = regexp.MustCompile(`^-?(?:0|[1-9][0-9]*)(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?$`)

// Jsoniter walks the text with a json-iterator Iterator. Its failures are
// plain errors; the position is only embedded in the message as an offset
// relative to a quoted snippet ("error found in #N byte of ...|snippet|...").
type Jsoniter struct{}

// Name implements Engine.
func (Jsoniter) Name() string { return NameJsoniter }

// Parse implements Engine.
func (Jsoniter) Parse(text string) (any, error) {
	iter := jsoniter.ParseString(iterConfig, text)
	v := readIter(iter)
	if iter.Error != nil && iter.Error != io.EOF {
		return nil, iter.Error
	}

	iter.WhatIsNext()
	switch iter.Error {
	case io.EOF:
		return v, nil
	case nil:
		iter.ReportError("Parse", "unexpected data after top-level value")
	}
	return nil, iter.Error
}

func readIter(iter *jsoniter.Iterator) any {
	switch iter.WhatIsNext() {
	case jsoniter.ObjectValue:
		obj := jsonvalue.NewObject()
		iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
			obj.Set(key, readIter(it))
			return it.Error == nil
		})
		return obj
	case jsoniter.ArrayValue:
		arr := jsonvalue.NewArray()
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			arr.Append(readIter(it))
			return it.Error == nil
		})
		return arr
	case jsoniter.StringValue:
		return iter.ReadString()
	case jsoniter.NumberValue:
		n := iter.ReadNumber()
		if !numberLiteral.MatchString(string(n)) {
			iter.ReportError("ReadNumber", "invalid number literal "+strconv.Quote(string(n)))
			return nil
		}
		return jsonvalue.Number(n)
	case jsoniter.BoolValue:
		return iter.ReadBool()
	case jsoniter.NilValue:
		iter.ReadNil()
		return nil
	default:
		if iter.Error == io.EOF {
			iter.ReportError("ReadAny", "unexpected end of JSON input")
		} else {
			iter.ReportError("ReadAny", "expect any JSON value")
		}
		return nil
	}
}
