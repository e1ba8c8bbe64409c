package validation

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-sdui/pkg/condition"
	"github.com/goliatone/go-sdui/pkg/schema"
)

func conditionalSections() []schema.Section {
	return []schema.Section{{
		ID: "main",
		Fields: []schema.Field{
			{Name: "A", Type: schema.TypeString},
			{
				Name:      "B",
				Type:      schema.TypeString,
				Required:  true,
				Condition: condition.FromPredicate(condition.Predicate{Field: "A", Operator: "equals", Value: "x"}),
			},
		},
	}}
}

func TestValidateAllSkipsInactiveFields(t *testing.T) {
	t.Parallel()

	sections := conditionalSections()

	result := ValidateAll(sections, map[string]any{"A": "y"})
	if !result.Valid || len(result.Errors) != 0 {
		t.Fatalf("expected hidden B to be skipped, got %+v", result)
	}

	result = ValidateAll(sections, map[string]any{"A": "x", "B": ""})
	if result.Valid {
		t.Fatalf("expected B to be required once shown")
	}
	if issue, ok := result.Issue("B"); !ok || issue.Kind != KindRequired {
		t.Fatalf("expected required issue on B, got %+v", result.Errors)
	}
}

func TestValidateAllIsIdempotent(t *testing.T) {
	t.Parallel()

	sections := conditionalSections()
	values := map[string]any{"A": "x"}

	first := ValidateAll(sections, values)
	second := ValidateAll(sections, values)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("results differ (-first +second):\n%s", diff)
	}
	if len(values) != 1 {
		t.Fatalf("values were mutated: %+v", values)
	}
}

func TestValidateAllMalformedConditionKeepsFieldActive(t *testing.T) {
	t.Parallel()

	validator := New(WithLogger(quietLogger()))
	sections := []schema.Section{{
		ID: "main",
		Fields: []schema.Field{{
			Name:      "threshold",
			Type:      schema.TypeNumber,
			Required:  true,
			Condition: condition.FromExpr("totally malformed"),
		}},
	}}

	result := validator.ValidateAll(sections, map[string]any{})
	if _, ok := result.Issue("threshold"); !ok {
		t.Fatalf("expected fail-open field to be validated, got %+v", result)
	}
}

func TestValidateFormPeriodThresholdScenario(t *testing.T) {
	t.Parallel()

	form, err := schema.ParseBytes([]byte(`{
		"id": "rsi",
		"fields": [
			{"name": "period", "type": "integer", "required": true, "min": 2, "max": 200, "default": 14},
			{"name": "threshold", "type": "number", "required": true, "condition": "period > 50"}
		]
	}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	result := ValidateForm(form, map[string]any{})
	want := map[string]Kind{"period": KindRequired}
	got := make(map[string]Kind)
	for name, issue := range result.Errors {
		got[name] = issue.Kind
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected issues (-want +got):\n%s", diff)
	}

	result = ValidateForm(form, map[string]any{"period": 80})
	if issue, ok := result.Issue("threshold"); !ok || issue.Kind != KindRequired {
		t.Fatalf("expected threshold to be required when period > 50, got %+v", result.Errors)
	}

	result = ValidateForm(form, map[string]any{"period": 80, "threshold": "0.7"})
	if !result.Valid {
		t.Fatalf("expected valid, got %+v", result.Errors)
	}
}
