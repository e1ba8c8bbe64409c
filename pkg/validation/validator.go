package validation

import (
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-sdui/pkg/condition"
	"github.com/goliatone/go-sdui/pkg/schema"
)

// Result is the outcome of one validation pass. A new Result is produced on
// every call.
type Result struct {
	Valid  bool             `json:"valid"`
	Errors map[string]Issue `json:"errors"`
}

// Issue returns the issue recorded for field, if any.
func (r Result) Issue(field string) (Issue, bool) {
	issue, ok := r.Errors[field]
	return issue, ok
}

// Validator checks field values against their schema. The zero value is not
// usable; construct with New.
type Validator struct {
	evaluator *condition.Evaluator
	message   MessageFunc
	logger    logrus.FieldLogger
}

// Option customises a Validator.
type Option func(*Validator)

// WithEvaluator sets the condition evaluator used to decide which fields
// participate in validation.
func WithEvaluator(evaluator *condition.Evaluator) Option {
	return func(v *Validator) {
		if evaluator != nil {
			v.evaluator = evaluator
		}
	}
}

// WithMessages replaces the English default messages.
func WithMessages(fn MessageFunc) Option {
	return func(v *Validator) {
		if fn != nil {
			v.message = fn
		}
	}
}

// WithLogger sets the logger for debug output. When no evaluator is supplied
// the default evaluator shares this logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// New constructs a Validator.
func New(options ...Option) *Validator {
	v := &Validator{
		message: DefaultMessage,
		logger:  logrus.StandardLogger(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(v)
		}
	}
	if v.evaluator == nil {
		v.evaluator = condition.New(condition.WithLogger(v.logger))
	}
	return v
}

var defaultValidator = New()

// ValidateField validates one value with the default validator. A nil Issue
// means the value is acceptable.
func ValidateField(field schema.Field, value any) *Issue {
	return defaultValidator.ValidateField(field, value)
}

// ValidateAll validates every active field of sections with the default
// validator.
func ValidateAll(sections []schema.Section, values map[string]any) Result {
	return defaultValidator.ValidateAll(sections, values)
}

// ValidateForm validates sections and ungrouped fields of form.
func ValidateForm(form schema.Form, values map[string]any) Result {
	return defaultValidator.ValidateForm(form, values)
}

// ValidateAll evaluates each field's condition, skips fields that are not
// active and records the first issue of every remaining field.
func (v *Validator) ValidateAll(sections []schema.Section, values map[string]any) Result {
	result := Result{Valid: true, Errors: make(map[string]Issue)}
	for _, section := range sections {
		v.collect(&result, section.Fields, values)
	}
	result.Valid = len(result.Errors) == 0
	return result
}

// ValidateForm is ValidateAll over the form's sections plus its ungrouped
// fields.
func (v *Validator) ValidateForm(form schema.Form, values map[string]any) Result {
	result := v.ValidateAll(form.Sections, values)
	v.collect(&result, form.Fields, values)
	result.Valid = len(result.Errors) == 0
	return result
}

// Active reports whether field currently participates in the form.
func (v *Validator) Active(field schema.Field, values map[string]any) bool {
	if field.Condition.Empty() {
		return true
	}
	return v.evaluator.EvaluateCondition(field.Condition, values).Visible()
}

func (v *Validator) collect(result *Result, fields []schema.Field, values map[string]any) {
	for _, field := range fields {
		if !v.Active(field, values) {
			v.logger.WithField("field", field.Name).Debug("validation: skipping inactive field")
			continue
		}
		value, _ := condition.Lookup(values, field.Name)
		if issue := v.ValidateField(field, value); issue != nil {
			result.Errors[field.Name] = *issue
		}
	}
}
