package render

import (
	"github.com/goliatone/go-sdui/pkg/condition"
	"github.com/goliatone/go-sdui/pkg/schema"
)

// EffectiveValue is the value a widget displays: the caller's value when
// present and non-nil, otherwise the field default.
func EffectiveValue(field schema.Field, values map[string]any) any {
	if value, ok := values[field.Name]; ok && value != nil {
		return value
	}
	return field.Default
}

// SeedDefaults returns a copy of values with every field default merged under
// the explicit values. values is not modified.
func SeedDefaults(form schema.Form, values map[string]any) map[string]any {
	out := copyValues(values)
	for _, field := range form.AllFields() {
		if field.Default == nil {
			continue
		}
		if current, ok := out[field.Name]; ok && current != nil {
			continue
		}
		out[field.Name] = field.Default
	}
	return out
}

// Submission returns the values of the fields that are currently active.
// Values of hidden fields and keys that match no field are left out; the
// caller's map keeps them.
func Submission(form schema.Form, values map[string]any) map[string]any {
	return submission(condition.New(), form, values)
}

func submission(evaluator *condition.Evaluator, form schema.Form, values map[string]any) map[string]any {
	out := make(map[string]any)
	for _, field := range form.AllFields() {
		value, ok := values[field.Name]
		if !ok {
			continue
		}
		if !active(evaluator, field, values) {
			continue
		}
		out[field.Name] = value
	}
	return out
}

func active(evaluator *condition.Evaluator, field schema.Field, values map[string]any) bool {
	if field.Condition.Empty() {
		return true
	}
	return evaluator.EvaluateCondition(field.Condition, values).Visible()
}

func copyValues(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for key, value := range values {
		out[key] = value
	}
	return out
}
