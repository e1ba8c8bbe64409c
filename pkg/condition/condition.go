package condition

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Operator identifies a comparison applied by a Predicate.
type Operator string

const (
	OpEquals         Operator = "=="
	OpNotEquals      Operator = "!="
	OpGreater        Operator = ">"
	OpLess           Operator = "<"
	OpGreaterOrEqual Operator = ">="
	OpLessOrEqual    Operator = "<="
	OpIn             Operator = "in"
	OpNotIn          Operator = "not_in"
)

var operatorAliases = map[string]Operator{
	"==":               OpEquals,
	"=":                OpEquals,
	"eq":               OpEquals,
	"equals":           OpEquals,
	"!=":               OpNotEquals,
	"ne":               OpNotEquals,
	"neq":              OpNotEquals,
	"not_equals":       OpNotEquals,
	">":                OpGreater,
	"gt":               OpGreater,
	"greater_than":     OpGreater,
	"<":                OpLess,
	"lt":               OpLess,
	"less_than":        OpLess,
	">=":               OpGreaterOrEqual,
	"gte":              OpGreaterOrEqual,
	"greater_or_equal": OpGreaterOrEqual,
	"<=":               OpLessOrEqual,
	"lte":              OpLessOrEqual,
	"less_or_equal":    OpLessOrEqual,
	"in":               OpIn,
	"not_in":           OpNotIn,
	"nin":              OpNotIn,
}

// ParseOperator resolves symbolic and named operator spellings (for example
// "equals", "gte", ">=") into the canonical Operator.
func ParseOperator(raw string) (Operator, bool) {
	op, ok := operatorAliases[strings.ToLower(strings.TrimSpace(raw))]
	return op, ok
}

// Predicate is the structured visibility rule: the field named Field is
// compared against Value using Operator.
type Predicate struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value"`
}

func (p Predicate) String() string {
	return fmt.Sprintf("%s %s %s", p.Field, p.Operator, formatLiteral(p.Value))
}

type undefinedLiteral struct{}

func (undefinedLiteral) String() string { return "undefined" }

func (undefinedLiteral) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// Undefined is the literal produced by the `undefined` keyword. It only
// equals a value that is absent from the value map; a present nil is null.
var Undefined any = undefinedLiteral{}

// Condition is the schema-facing wrapper around a predicate. It decodes from
// either a JSON string (the expression grammar) or a structured object.
// Expressions that fail to parse keep Expr set and a nil Predicate; they
// evaluate to Indeterminate.
type Condition struct {
	Expr      string
	Predicate *Predicate
}

// FromExpr lowers a string expression into a Condition.
func FromExpr(expr string) *Condition {
	cond := &Condition{Expr: strings.TrimSpace(expr)}
	if cond.Expr == "" {
		return nil
	}
	if pred, err := Parse(cond.Expr); err == nil {
		cond.Predicate = &pred
	}
	return cond
}

// FromPredicate wraps a structured predicate.
func FromPredicate(pred Predicate) *Condition {
	return &Condition{Predicate: &pred}
}

// Empty reports whether the condition carries no rule at all.
func (c *Condition) Empty() bool {
	return c == nil || (c.Predicate == nil && strings.TrimSpace(c.Expr) == "")
}

// DependsOn returns the field referenced by the condition, when known.
func (c *Condition) DependsOn() string {
	if c == nil || c.Predicate == nil {
		return ""
	}
	return c.Predicate.Field
}

func (c *Condition) String() string {
	if c == nil {
		return ""
	}
	if c.Expr != "" {
		return c.Expr
	}
	if c.Predicate != nil {
		return c.Predicate.String()
	}
	return ""
}

// UnmarshalJSON accepts a string expression or a predicate object.
func (c *Condition) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*c = Condition{}
		return nil
	}
	if trimmed[0] == '"' {
		var expr string
		if err := json.Unmarshal(trimmed, &expr); err != nil {
			return fmt.Errorf("condition: decode expression: %w", err)
		}
		lowered := FromExpr(expr)
		if lowered == nil {
			*c = Condition{}
			return nil
		}
		*c = *lowered
		return nil
	}

	var pred Predicate
	if err := json.Unmarshal(trimmed, &pred); err != nil {
		return fmt.Errorf("condition: decode predicate: %w", err)
	}
	*c = Condition{Predicate: &pred}
	return nil
}

// MarshalJSON writes the original expression when the condition came from the
// string grammar, otherwise the structured predicate.
func (c Condition) MarshalJSON() ([]byte, error) {
	if c.Expr != "" {
		return json.Marshal(c.Expr)
	}
	if c.Predicate != nil {
		return json.Marshal(c.Predicate)
	}
	return []byte("null"), nil
}

func formatLiteral(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return "'" + v + "'"
	case undefinedLiteral:
		return "undefined"
	default:
		return fmt.Sprint(v)
	}
}
