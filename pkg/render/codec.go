package render

import (
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-sdui/pkg/schema"
	"github.com/goliatone/go-sdui/pkg/validation"
)

// OptionCodec carries option values of any JSON type through string-only
// channels such as HTML option values or terminal choices.
type OptionCodec struct{}

// Encode serialises value as JSON.
func (OptionCodec) Encode(value any) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(raw)
}

// Decode reverses Encode. Text that is not valid JSON is returned as is, so
// values written by hand still round trip as strings.
func (OptionCodec) Decode(raw string) any {
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return raw
	}
	return value
}

// DecodeFor decodes raw for field and returns the declared option value it
// encodes, so int options come back as ints and large integers keep their
// precision. Values matching no option decode as Decode does.
func (c OptionCodec) DecodeFor(field schema.Field, raw string) any {
	options := field.Options()
	for _, option := range options {
		if c.Encode(option.Value) == raw {
			return option.Value
		}
	}
	decoded := c.Decode(raw)
	for _, option := range options {
		if validation.Stringify(option.Value) == validation.Stringify(decoded) {
			return option.Value
		}
	}
	return decoded
}
