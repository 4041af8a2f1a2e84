package engine

import (
	gojson "github.com/goccy/go-json"
)

// Goccy validates with github.com/goccy/go-json, whose failures are
// *gojson.SyntaxError values with their own wording and Offset semantics.
// goccy decodes objects into Go maps, so the ordered tree is rebuilt from the
// encoding/json token stream once the text is known to be valid.
type Goccy struct{}

// Name implements Engine.
func (Goccy) Name() string { return NameGoccy }

// Parse implements Engine.
func (Goccy) Parse(text string) (any, error) {
	var v any
	if err := gojson.Unmarshal([]byte(text), &v); err != nil {
		return nil, err
	}
	return decodeTokens(text)
}
