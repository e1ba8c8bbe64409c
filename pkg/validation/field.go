package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/goliatone/go-sdui/pkg/condition"
	"github.com/goliatone/go-sdui/pkg/schema"
)

// ValidateField checks value against field and returns the first failure, or
// nil when the value is acceptable. Empty values only fail required fields.
func (v *Validator) ValidateField(field schema.Field, value any) *Issue {
	if IsEmpty(value) {
		if !field.Required {
			return nil
		}
		if field.Kind() == schema.TypeMultiSelect {
			return v.issue(field, KindEmptyArray, nil)
		}
		return v.issue(field, KindRequired, nil)
	}

	switch field.Kind() {
	case schema.TypeInteger:
		return v.integer(field, value)
	case schema.TypeNumber:
		return v.number(field, value)
	case schema.TypeBoolean:
		if _, ok := value.(bool); !ok {
			return v.issue(field, KindInvalidType, map[string]any{"expected": "boolean"})
		}
		return nil
	case schema.TypeSelect:
		return v.selectOne(field, value)
	case schema.TypeMultiSelect, schema.TypeMultiTimeframe:
		return v.selectMany(field, value)
	case schema.TypeSymbol:
		if s, ok := value.(string); !ok || strings.TrimSpace(s) == "" {
			return v.issue(field, KindInvalidSymbol, nil)
		}
		return nil
	case schema.TypeSymbols:
		return v.symbols(field, value)
	default:
		return v.text(field, value)
	}
}

// IsEmpty reports nil, blank strings and empty lists.
func IsEmpty(value any) bool {
	if value == nil || value == condition.Undefined {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	if list, ok := condition.List(value); ok {
		return len(list) == 0
	}
	return false
}

func (v *Validator) integer(field schema.Field, value any) *Issue {
	n, ok := coerceNumber(value)
	if !ok || n != math.Trunc(n) {
		return v.issue(field, KindInvalidType, map[string]any{"expected": "integer"})
	}
	return v.bounds(field, n)
}

func (v *Validator) number(field schema.Field, value any) *Issue {
	n, ok := coerceNumber(value)
	if !ok {
		return v.issue(field, KindInvalidType, map[string]any{"expected": "number"})
	}
	return v.bounds(field, n)
}

func (v *Validator) bounds(field schema.Field, n float64) *Issue {
	if field.Numeric == nil {
		return nil
	}
	if min := field.Numeric.Min; min != nil && n < *min {
		return v.issue(field, KindMin, map[string]any{"min": *min})
	}
	if max := field.Numeric.Max; max != nil && n > *max {
		return v.issue(field, KindMax, map[string]any{"max": *max})
	}
	return nil
}

func (v *Validator) selectOne(field schema.Field, value any) *Issue {
	options := field.Options()
	if len(options) == 0 {
		return nil
	}
	if !hasOption(options, value) {
		return v.issue(field, KindInvalidOption, map[string]any{"value": value})
	}
	return nil
}

func (v *Validator) selectMany(field schema.Field, value any) *Issue {
	list, ok := condition.List(value)
	if !ok {
		return v.issue(field, KindInvalidType, map[string]any{"expected": "list"})
	}
	if options := field.Options(); len(options) > 0 {
		for _, item := range list {
			if !hasOption(options, item) {
				return v.issue(field, KindInvalidOption, map[string]any{"value": item})
			}
		}
	}
	return v.items(field, len(list))
}

func (v *Validator) symbols(field schema.Field, value any) *Issue {
	list, ok := condition.List(value)
	if !ok {
		return v.issue(field, KindInvalidSymbol, nil)
	}
	for _, item := range list {
		if s, ok := item.(string); !ok || strings.TrimSpace(s) == "" {
			return v.issue(field, KindInvalidSymbol, map[string]any{"value": item})
		}
	}
	return v.items(field, len(list))
}

func (v *Validator) items(field schema.Field, count int) *Issue {
	if field.Collection == nil {
		return nil
	}
	if min := field.Collection.MinItems; min != nil && count < *min {
		return v.issue(field, KindMinItems, map[string]any{"min_items": *min})
	}
	if max := field.Collection.MaxItems; max != nil && count > *max {
		return v.issue(field, KindMaxItems, map[string]any{"max_items": *max})
	}
	return nil
}

func (v *Validator) text(field schema.Field, value any) *Issue {
	if field.Text == nil {
		return nil
	}
	s := Stringify(value)
	length := utf8.RuneCountInString(s)
	if min := field.Text.MinLength; min != nil && length < *min {
		return v.issue(field, KindMinLength, map[string]any{"min_length": *min})
	}
	if max := field.Text.MaxLength; max != nil && length > *max {
		return v.issue(field, KindMaxLength, map[string]any{"max_length": *max})
	}
	if field.Text.Pattern != "" {
		re, err := compilePattern(field.Text.Pattern)
		if err != nil {
			v.logger.WithError(err).WithField("field", field.Name).Warn("validation: pattern ignored")
			return nil
		}
		if !re.MatchString(s) {
			return v.issue(field, KindPattern, map[string]any{"pattern": field.Text.Pattern})
		}
	}
	return nil
}

func (v *Validator) issue(field schema.Field, kind Kind, params map[string]any) *Issue {
	return &Issue{
		Field:   field.Name,
		Kind:    kind,
		Message: v.message(kind, field.DisplayLabel(), params),
		Params:  params,
	}
}

// coerceNumber accepts Go numbers and numeric strings. NaN and infinities
// are rejected.
func coerceNumber(value any) (float64, bool) {
	n, ok := condition.Number(value)
	if !ok {
		s, isString := value.(string)
		if !isString {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func hasOption(options []schema.Option, value any) bool {
	want := Stringify(value)
	for _, option := range options {
		if Stringify(option.Value) == want {
			return true
		}
	}
	return false
}

// Stringify renders a scalar the way option membership compares values:
// numbers in their shortest form, everything else via fmt.
func Stringify(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	if n, ok := condition.Number(value); ok {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	if b, ok := value.(bool); ok {
		return strconv.FormatBool(b)
	}
	return fmt.Sprint(value)
}

var patterns sync.Map

func compilePattern(pattern string) (*regexp.Regexp, error) {
	if cached, ok := patterns.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	patterns.Store(pattern, re)
	return re, nil
}
