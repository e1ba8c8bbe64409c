package condition

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestEvaluateExpressions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		expr   string
		values map[string]any
		want   bool
	}{
		{name: "bool equality", expr: "x == true", values: map[string]any{"x": true}, want: true},
		{name: "bool mismatch", expr: "x == true", values: map[string]any{"x": false}, want: false},
		{name: "quoted inequality", expr: "x != 'kelly'", values: map[string]any{"x": "atr"}, want: true},
		{name: "double quoted equality", expr: `mode == "atr"`, values: map[string]any{"mode": "atr"}, want: true},
		{name: "gte below", expr: "score >= 50", values: map[string]any{"score": 42}, want: false},
		{name: "gte equal", expr: "score >= 50", values: map[string]any{"score": 50}, want: true},
		{name: "lte", expr: "score <= 50", values: map[string]any{"score": 12.5}, want: true},
		{name: "gt numeric string", expr: "period > 50", values: map[string]any{"period": "60"}, want: true},
		{name: "lt", expr: "period < 50", values: map[string]any{"period": int64(60)}, want: false},
		{name: "malformed fail-open", expr: "totally malformed", values: map[string]any{}, want: true},
		{name: "number equality across kinds", expr: "count == 3", values: map[string]any{"count": 3}, want: true},
		{name: "strict no string coercion", expr: "count == 3", values: map[string]any{"count": "3"}, want: false},
		{name: "bare string literal", expr: "sizing == kelly", values: map[string]any{"sizing": "kelly"}, want: true},
		{name: "null literal", expr: "target == null", values: map[string]any{"target": nil}, want: true},
		{name: "null is not undefined", expr: "target == undefined", values: map[string]any{"target": nil}, want: false},
		{name: "undefined literal", expr: "target == undefined", values: map[string]any{}, want: true},
		{name: "dotted lookup", expr: "risk.enabled == true", values: map[string]any{"risk": map[string]any{"enabled": true}}, want: true},
		{name: "non numeric ordering", expr: "mode > 5", values: map[string]any{"mode": "fast"}, want: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Evaluate(tc.expr, tc.values); got != tc.want {
				t.Fatalf("Evaluate(%q) = %v, want %v", tc.expr, got, tc.want)
			}
		})
	}
}

func TestEvaluateUnsetOrderingIsFalseNotIndeterminate(t *testing.T) {
	t.Parallel()

	eval := New(WithLogger(quietLogger()))
	got := eval.Evaluate("period > 50", map[string]any{})
	if got != False {
		t.Fatalf("expected False for unset ordering comparison, got %s", got)
	}
	if got.Visible() {
		t.Fatalf("expected hidden outcome")
	}
}

func TestEvaluateMalformedIsIndeterminateAndLogged(t *testing.T) {
	t.Parallel()

	logger, hook := test.NewNullLogger()
	eval := New(WithLogger(logger))

	got := eval.Evaluate("a == b == c", nil)
	if got != Indeterminate {
		t.Fatalf("expected Indeterminate, got %s", got)
	}
	if !got.Visible() {
		t.Fatalf("indeterminate outcome must be visible")
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.WarnLevel {
		t.Fatalf("expected a warning to be logged, got %#v", entry)
	}
	if entry.Data["condition"] != "a == b == c" {
		t.Fatalf("expected condition field on log entry, got %#v", entry.Data)
	}
}

func TestEvaluatePredicateStructured(t *testing.T) {
	t.Parallel()

	eval := New(WithLogger(quietLogger()))
	values := map[string]any{"A": "x", "tf": "1h"}

	cases := []struct {
		name string
		pred Predicate
		want Outcome
	}{
		{name: "equals alias", pred: Predicate{Field: "A", Operator: "equals", Value: "x"}, want: True},
		{name: "not_equals alias", pred: Predicate{Field: "A", Operator: "not_equals", Value: "x"}, want: False},
		{name: "gte alias", pred: Predicate{Field: "n", Operator: "gte", Value: 1.0}, want: False},
		{name: "in list", pred: Predicate{Field: "tf", Operator: OpIn, Value: []any{"15m", "1h"}}, want: True},
		{name: "not in list", pred: Predicate{Field: "tf", Operator: OpNotIn, Value: []any{"15m", "1h"}}, want: False},
		{name: "in without list", pred: Predicate{Field: "tf", Operator: OpIn, Value: "1h"}, want: Indeterminate},
		{name: "unknown operator", pred: Predicate{Field: "A", Operator: "matches", Value: "x"}, want: Indeterminate},
		{name: "missing field", pred: Predicate{Operator: OpEquals, Value: "x"}, want: Indeterminate},
	}

	for _, tc := range cases {
		if got := eval.EvaluatePredicate(tc.pred, values); got != tc.want {
			t.Fatalf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestConditionDecodesBothShapes(t *testing.T) {
	t.Parallel()

	var payload struct {
		Expr   *Condition `json:"expr"`
		Object *Condition `json:"object"`
		Broken *Condition `json:"broken"`
	}
	raw := []byte(`{
		"expr": "period > 50",
		"object": {"field": "A", "operator": "equals", "value": "x"},
		"broken": "no operator here"
	}`)
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if payload.Expr.Predicate == nil || payload.Expr.Predicate.Operator != OpGreater || payload.Expr.Predicate.Value != 50.0 {
		t.Fatalf("expression not lowered: %#v", payload.Expr)
	}
	if payload.Object.DependsOn() != "A" {
		t.Fatalf("expected structured predicate on A, got %#v", payload.Object)
	}
	if payload.Broken.Predicate != nil || payload.Broken.Expr == "" {
		t.Fatalf("broken expression should keep Expr only, got %#v", payload.Broken)
	}

	eval := New(WithLogger(quietLogger()))
	if got := eval.EvaluateCondition(payload.Broken, nil); got != Indeterminate {
		t.Fatalf("broken condition should be indeterminate, got %s", got)
	}
	if got := eval.EvaluateCondition(nil, nil); got != True {
		t.Fatalf("nil condition should be true, got %s", got)
	}

	out, err := json.Marshal(payload.Expr)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"period > 50"` {
		t.Fatalf("expected expression round trip, got %s", out)
	}
}

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
