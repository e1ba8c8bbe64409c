package condition

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Outcome is the tri-state result of evaluating a predicate.
type Outcome int

const (
	False Outcome = iota
	True
	// Indeterminate marks a predicate that could not be evaluated (malformed
	// expression, unknown operator). It is treated as visible.
	Indeterminate
)

// Visible reports whether a field guarded by this outcome is active.
func (o Outcome) Visible() bool {
	return o != False
}

func (o Outcome) String() string {
	switch o {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "indeterminate"
	}
}

func outcomeOf(ok bool) Outcome {
	if ok {
		return True
	}
	return False
}

// Evaluator evaluates predicates against a value map. The zero value is not
// usable; construct with New.
type Evaluator struct {
	logger logrus.FieldLogger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger routes malformed-condition warnings to logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New constructs an Evaluator logging to the logrus standard logger unless
// overridden.
func New(options ...Option) *Evaluator {
	e := &Evaluator{logger: logrus.StandardLogger()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

var defaultEvaluator = New()

// Evaluate is the boolean form of the expression contract: true when the
// expression holds or cannot be evaluated.
func Evaluate(expr string, values map[string]any) bool {
	return defaultEvaluator.Evaluate(expr, values).Visible()
}

// Active reports whether a field guarded by cond is active for values. A nil
// or empty condition is always active.
func Active(cond *Condition, values map[string]any) bool {
	return defaultEvaluator.EvaluateCondition(cond, values).Visible()
}

// Evaluate parses expr and evaluates it against values.
func (e *Evaluator) Evaluate(expr string, values map[string]any) Outcome {
	pred, err := Parse(expr)
	if err != nil {
		e.warn(expr, err)
		return Indeterminate
	}
	return e.EvaluatePredicate(pred, values)
}

// EvaluateCondition evaluates a schema condition. Empty conditions are True.
func (e *Evaluator) EvaluateCondition(cond *Condition, values map[string]any) Outcome {
	if cond.Empty() {
		return True
	}
	if cond.Predicate != nil {
		return e.EvaluatePredicate(*cond.Predicate, values)
	}
	return e.Evaluate(cond.Expr, values)
}

// EvaluatePredicate compares the referenced field value with the predicate
// literal. Equality is strict (no cross-type coercion); ordering operators
// compare numerically and any non-numeric side yields False.
func (e *Evaluator) EvaluatePredicate(pred Predicate, values map[string]any) Outcome {
	field := strings.TrimSpace(pred.Field)
	if field == "" {
		e.warn(pred.String(), fmt.Errorf("%w: missing field", ErrMalformed))
		return Indeterminate
	}
	op, ok := ParseOperator(string(pred.Operator))
	if !ok {
		e.warn(pred.String(), fmt.Errorf("%w: unsupported operator %q", ErrMalformed, pred.Operator))
		return Indeterminate
	}

	value, present := Lookup(values, field)

	switch op {
	case OpEquals:
		return outcomeOf(strictEqual(value, present, pred.Value))
	case OpNotEquals:
		return outcomeOf(!strictEqual(value, present, pred.Value))
	case OpIn, OpNotIn:
		list, ok := List(pred.Value)
		if !ok {
			e.warn(pred.String(), fmt.Errorf("%w: %s expects a list", ErrMalformed, op))
			return Indeterminate
		}
		found := false
		for _, candidate := range list {
			if strictEqual(value, present, candidate) {
				found = true
				break
			}
		}
		if op == OpIn {
			return outcomeOf(found)
		}
		return outcomeOf(!found)
	}

	left := toNumber(value, present)
	right := toNumber(pred.Value, true)
	if math.IsNaN(left) || math.IsNaN(right) {
		return False
	}
	switch op {
	case OpGreater:
		return outcomeOf(left > right)
	case OpLess:
		return outcomeOf(left < right)
	case OpGreaterOrEqual:
		return outcomeOf(left >= right)
	case OpLessOrEqual:
		return outcomeOf(left <= right)
	}
	return Indeterminate
}

func (e *Evaluator) warn(expr string, err error) {
	if e == nil || e.logger == nil {
		return
	}
	e.logger.WithError(err).WithField("condition", expr).Warn("condition: evaluation failed, field kept visible")
}

// Lookup resolves key in values. Exact keys win; dotted keys traverse nested
// maps.
func Lookup(values map[string]any, key string) (any, bool) {
	key = strings.TrimSpace(key)
	if len(values) == 0 || key == "" {
		return nil, false
	}
	if v, ok := values[key]; ok {
		return v, true
	}
	if !strings.Contains(key, ".") {
		return nil, false
	}

	var current any = values
	for _, part := range strings.Split(key, ".") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, false
		}
		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		case map[string]string:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		default:
			return nil, false
		}
	}
	return current, true
}

func strictEqual(value any, present bool, literal any) bool {
	if _, isUndefined := literal.(undefinedLiteral); isUndefined {
		return !present
	}
	if !present {
		return false
	}
	if literal == nil || value == nil {
		return literal == nil && value == nil
	}

	if lf, ok := Number(value); ok {
		rf, ok := Number(literal)
		return ok && lf == rf
	}
	switch v := value.(type) {
	case string:
		s, ok := literal.(string)
		return ok && v == s
	case bool:
		b, ok := literal.(bool)
		return ok && v == b
	}
	return false
}

// Number normalises Go numeric kinds (and json.Number) to float64. Strings
// are not numbers.
func Number(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// toNumber coerces for ordering comparisons. Absent values, nil, booleans,
// collections and non-numeric strings become NaN.
func toNumber(value any, present bool) float64 {
	if !present {
		return math.NaN()
	}
	if f, ok := Number(value); ok {
		return f
	}
	if s, ok := value.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}
	return math.NaN()
}

// List widens the common slice shapes to []any.
func List(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	case []float64:
		out := make([]any, len(v))
		for i, f := range v {
			out[i] = f
		}
		return out, true
	case []int:
		out := make([]any, len(v))
		for i, n := range v {
			out[i] = n
		}
		return out, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
