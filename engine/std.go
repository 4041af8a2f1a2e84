package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/lattice-substrate/jsonparse/jsonvalue"
)

// Std validates with encoding/json and builds the ordered tree from the
// decoder's token stream. Failures are *json.SyntaxError values whose Offset
// counts the bytes read, including the offending one.
type Std struct{}

// Name implements Engine.
func (Std) Name() string { return NameStd }

// Parse implements Engine.
func (Std) Parse(text string) (any, error) {
	var raw json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, err
	}
	return decodeTokens(text)
}

// decodeTokens walks text with json.Decoder.Token so that object members
// keep their source order. text is expected to be valid already.
func decodeTokens(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	v, err := readToken(dec)
	if err != nil {
		return nil, err
	}

	end := int(dec.InputOffset())
	if _, err := dec.Token(); err != io.EOF {
		return nil, &SyntaxError{
			Offset: end,
			Msg:    fmt.Sprintf("invalid character after top-level value at offset %d", end),
		}
	}
	return v, nil
}

func readToken(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return readObject(dec)
		case '[':
			return readArray(dec)
		default:
			return nil, fmt.Errorf("engine: unexpected delimiter %q", rune(t))
		}
	case json.Number:
		return jsonvalue.Number(t), nil
	default:
		// string, bool or nil
		return t, nil
	}
}

func readObject(dec *json.Decoder) (any, error) {
	obj := jsonvalue.NewObject()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("engine: object key is %T, not string", tok)
		}
		val, err := readToken(dec)
		if err != nil {
			return nil, err
		}
		obj.Set(key, val)
	}
	if _, err := dec.Token(); err != nil { // '}'
		return nil, err
	}
	return obj, nil
}

func readArray(dec *json.Decoder) (any, error) {
	arr := jsonvalue.NewArray()
	for dec.More() {
		elem, err := readToken(dec)
		if err != nil {
			return nil, err
		}
		arr.Append(elem)
	}
	if _, err := dec.Token(); err != nil { // ']'
		return nil, err
	}
	return arr, nil
}
