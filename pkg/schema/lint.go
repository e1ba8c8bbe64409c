package schema

import (
	"fmt"
	"regexp"

	"github.com/goliatone/go-sdui/pkg/condition"
)

// Severity ranks lint findings.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// LintIssue is a problem in a schema that does not stop it from loading but
// that a schema author should fix.
type LintIssue struct {
	Section  string   `json:"section,omitempty"`
	Field    string   `json:"field,omitempty"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Lint reports schema-level inconsistencies: inverted bounds, select fields
// without options, unknown field types and conditions that cannot be
// evaluated or reference missing fields.
func Lint(form Form) []LintIssue {
	var issues []LintIssue
	names := make(map[string]struct{})
	for _, field := range form.AllFields() {
		names[field.Name] = struct{}{}
	}

	for _, section := range form.Sections {
		if len(section.Fields) == 0 {
			issues = append(issues, LintIssue{Section: section.ID, Severity: SeverityWarning, Message: "section has no fields"})
		}
	}

	for _, field := range form.AllFields() {
		add := func(severity Severity, format string, args ...any) {
			issues = append(issues, LintIssue{
				Section:  field.Group,
				Field:    field.Name,
				Severity: severity,
				Message:  fmt.Sprintf(format, args...),
			})
		}

		if !field.Type.Known() {
			add(SeverityWarning, "unknown field_type %q is treated as text", field.Type)
		}
		if field.Type.HasOptions() && len(field.Options()) == 0 {
			add(SeverityWarning, "%s field declares no options; membership is not checked", field.Type)
		}
		if n := field.Numeric; n != nil && n.Min != nil && n.Max != nil && *n.Min > *n.Max {
			add(SeverityError, "min %v is greater than max %v", *n.Min, *n.Max)
		}
		if t := field.Text; t != nil {
			if t.MinLength != nil && t.MaxLength != nil && *t.MinLength > *t.MaxLength {
				add(SeverityError, "min_length %d is greater than max_length %d", *t.MinLength, *t.MaxLength)
			}
			if t.Pattern != "" {
				if _, err := regexp.Compile(t.Pattern); err != nil {
					add(SeverityError, "pattern does not compile: %v", err)
				}
			}
		}
		if c := field.Collection; c != nil && c.MinItems != nil && c.MaxItems != nil && *c.MinItems > *c.MaxItems {
			add(SeverityError, "min_items %d is greater than max_items %d", *c.MinItems, *c.MaxItems)
		}

		if field.Condition.Empty() {
			continue
		}
		if field.Condition.Predicate == nil {
			add(SeverityWarning, "condition %q cannot be parsed; field is always shown", field.Condition.Expr)
			continue
		}
		if _, ok := condition.ParseOperator(string(field.Condition.Predicate.Operator)); !ok {
			add(SeverityWarning, "condition operator %q is not supported; field is always shown", field.Condition.Predicate.Operator)
		}
		dep := field.Condition.DependsOn()
		switch {
		case dep == field.Name:
			add(SeverityWarning, "condition references the field itself")
		case dep != "":
			if _, ok := names[dep]; !ok {
				add(SeverityWarning, "condition references unknown field %q", dep)
			}
		}
	}
	return issues
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []LintIssue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}
