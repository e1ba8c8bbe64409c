package condition

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrEmpty is returned by Parse for blank expressions.
	ErrEmpty = errors.New("condition: empty expression")
	// ErrMalformed is returned when an expression does not split into exactly
	// a field and a literal around one supported operator.
	ErrMalformed = errors.New("condition: malformed expression")
)

// Multi-character operators must come before their single-character prefixes
// or `a >= 1` would split on `>`.
var grammarOperators = []Operator{
	OpEquals,
	OpNotEquals,
	OpGreaterOrEqual,
	OpLessOrEqual,
	OpGreater,
	OpLess,
}

// Parse lowers the `<field> <operator> <literal>` grammar into a Predicate.
// The first operator (in grammar order) contained in the expression decides
// the split; the split must produce exactly two non-empty parts.
func Parse(expr string) (Predicate, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return Predicate{}, ErrEmpty
	}

	for _, op := range grammarOperators {
		if !strings.Contains(trimmed, string(op)) {
			continue
		}
		parts := strings.Split(trimmed, string(op))
		if len(parts) != 2 {
			return Predicate{}, fmt.Errorf("%w: %q", ErrMalformed, expr)
		}
		field := strings.TrimSpace(parts[0])
		raw := strings.TrimSpace(parts[1])
		if field == "" || raw == "" {
			return Predicate{}, fmt.Errorf("%w: %q", ErrMalformed, expr)
		}
		return Predicate{
			Field:    field,
			Operator: op,
			Value:    ParseLiteral(raw),
		}, nil
	}

	return Predicate{}, fmt.Errorf("%w: no operator in %q", ErrMalformed, expr)
}

// ParseLiteral interprets the right-hand side of an expression: quoted text is
// a string, true/false a bool, null a nil, undefined the Undefined literal,
// numeric text a float64; anything else is kept as a bare string.
func ParseLiteral(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) >= 2 {
		first, last := trimmed[0], trimmed[len(trimmed)-1]
		if (first == '\'' || first == '"') && first == last {
			return trimmed[1 : len(trimmed)-1]
		}
	}

	switch trimmed {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	case "undefined":
		return Undefined
	}

	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return trimmed
}
