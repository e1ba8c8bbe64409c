package render

import (
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-sdui/pkg/schema"
)

// int64 covers [-2^63, 2^63).
const int64Bound = float64(1 << 63)

// ParseNumber converts raw text typed into a numeric widget. Integer fields
// yield int64 (fractional input is truncated), other fields float64.
// Unparsable input, including integers outside the int64 range, yields 0 of
// the matching type.
func ParseNumber(field schema.Field, raw string) any {
	raw = strings.TrimSpace(raw)
	if field.Kind() == schema.TypeInteger {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || f >= int64Bound || f < -int64Bound {
			return int64(0)
		}
		return int64(f)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return float64(0)
	}
	return f
}

// ParseBool reads toggle input. Anything unrecognised is false.
func ParseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "yes", "y", "checked":
		return true
	}
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && b
}
