package validation

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/goliatone/go-sdui/pkg/condition"
	"github.com/goliatone/go-sdui/pkg/schema"
)

func ptr[T any](v T) *T { return &v }

func TestValidateFieldRequiredEmptyValues(t *testing.T) {
	t.Parallel()

	types := []schema.FieldType{
		schema.TypeInteger, schema.TypeNumber, schema.TypeBoolean, schema.TypeString,
		schema.TypeSelect, schema.TypeSymbol, schema.TypeSymbols, schema.TypeText,
		schema.TypeRange, schema.FieldType("mystery"),
	}
	empties := []any{nil, "", "   ", []any{}, []string{}, condition.Undefined}

	for _, typ := range types {
		field := schema.Field{Name: "f", Type: typ, Required: true}
		for _, value := range empties {
			issue := ValidateField(field, value)
			if issue == nil {
				t.Fatalf("%s: expected required issue for %#v", typ, value)
			}
			if issue.Kind != KindRequired {
				t.Fatalf("%s: expected kind %q, got %q", typ, KindRequired, issue.Kind)
			}
		}
	}
}

func TestValidateFieldMultiSelectEmptyArray(t *testing.T) {
	t.Parallel()

	field := schema.Field{Name: "tf", Label: "Timeframe", Type: schema.TypeMultiSelect, Required: true}
	issue := ValidateField(field, []any{})
	if issue == nil || issue.Kind != KindEmptyArray {
		t.Fatalf("expected empty_array issue, got %+v", issue)
	}
	if !strings.Contains(issue.Message, "timeframe") {
		t.Fatalf("unexpected message %q", issue.Message)
	}
}

func TestValidateFieldOptionalEmptyIgnoresConstraints(t *testing.T) {
	t.Parallel()

	field := schema.Field{
		Name:    "period",
		Type:    schema.TypeInteger,
		Numeric: &schema.NumericConstraints{Min: ptr(10.0)},
	}
	for _, value := range []any{nil, "", []any{}} {
		if issue := ValidateField(field, value); issue != nil {
			t.Fatalf("expected optional empty %#v to be valid, got %+v", value, issue)
		}
	}
}

func TestValidateFieldInteger(t *testing.T) {
	t.Parallel()

	field := schema.Field{
		Name:     "period",
		Type:     schema.TypeInteger,
		Required: true,
		Numeric:  &schema.NumericConstraints{Min: ptr(1.0), Max: ptr(100.0)},
	}

	cases := []struct {
		value any
		kind  Kind
	}{
		{value: 14},
		{value: float64(14)},
		{value: "14"},
		{value: int64(100)},
		{value: 150, kind: KindMax},
		{value: 0, kind: KindMin},
		{value: 1.5, kind: KindInvalidType},
		{value: "abc", kind: KindInvalidType},
		{value: true, kind: KindInvalidType},
	}
	for _, tc := range cases {
		issue := ValidateField(field, tc.value)
		if tc.kind == "" {
			if issue != nil {
				t.Fatalf("%#v: expected valid, got %+v", tc.value, issue)
			}
			continue
		}
		if issue == nil || issue.Kind != tc.kind {
			t.Fatalf("%#v: expected %q, got %+v", tc.value, tc.kind, issue)
		}
	}
}

func TestValidateFieldNumberAndRange(t *testing.T) {
	t.Parallel()

	for _, typ := range []schema.FieldType{schema.TypeNumber, schema.TypeRange} {
		field := schema.Field{Name: "pct", Type: typ, Numeric: &schema.NumericConstraints{Min: ptr(0.1), Max: ptr(50.0)}}
		if issue := ValidateField(field, "2.5"); issue != nil {
			t.Fatalf("%s: expected valid, got %+v", typ, issue)
		}
		if issue := ValidateField(field, 0.05); issue == nil || issue.Kind != KindMin {
			t.Fatalf("%s: expected min issue, got %+v", typ, issue)
		}
		if issue := ValidateField(field, "NaN"); issue == nil || issue.Kind != KindInvalidType {
			t.Fatalf("%s: expected invalid_type for NaN, got %+v", typ, issue)
		}
		if issue := ValidateField(field, 60); issue == nil || issue.Params["max"] != 50.0 {
			t.Fatalf("%s: expected max issue with params, got %+v", typ, issue)
		}
	}
}

func TestValidateFieldBoolean(t *testing.T) {
	t.Parallel()

	field := schema.Field{Name: "enabled", Type: schema.TypeBoolean}
	if issue := ValidateField(field, false); issue != nil {
		t.Fatalf("expected false to be valid, got %+v", issue)
	}
	if issue := ValidateField(field, "true"); issue == nil || issue.Kind != KindInvalidType {
		t.Fatalf("expected invalid_type, got %+v", issue)
	}
}

func TestValidateFieldSelect(t *testing.T) {
	t.Parallel()

	field := schema.Field{
		Name:   "mode",
		Type:   schema.TypeSelect,
		Choice: &schema.ChoiceConstraints{Options: []schema.Option{{Value: "a"}, {Value: "b"}}},
	}
	if issue := ValidateField(field, "a"); issue != nil {
		t.Fatalf("expected a to be valid, got %+v", issue)
	}
	if issue := ValidateField(field, "c"); issue == nil || issue.Kind != KindInvalidOption {
		t.Fatalf("expected invalid_option, got %+v", issue)
	}

	numeric := schema.Field{
		Name:   "lookback",
		Type:   schema.TypeSelect,
		Choice: &schema.ChoiceConstraints{Options: []schema.Option{{Value: float64(5)}, {Value: float64(10)}}},
	}
	for _, value := range []any{5, float64(10), "10"} {
		if issue := ValidateField(numeric, value); issue != nil {
			t.Fatalf("%#v: expected stringified membership, got %+v", value, issue)
		}
	}

	open := schema.Field{Name: "free", Type: schema.TypeSelect}
	if issue := ValidateField(open, "anything"); issue != nil {
		t.Fatalf("expected select without options to be exempt, got %+v", issue)
	}
}

func TestValidateFieldMultiSelect(t *testing.T) {
	t.Parallel()

	field := schema.Field{
		Name:       "timeframes",
		Type:       schema.TypeMultiTimeframe,
		Choice:     &schema.ChoiceConstraints{Options: []schema.Option{{Value: "1m"}, {Value: "5m"}, {Value: "1h"}}},
		Collection: &schema.CollectionConstraints{MaxItems: ptr(2)},
	}
	if issue := ValidateField(field, []string{"1m", "1h"}); issue != nil {
		t.Fatalf("expected valid, got %+v", issue)
	}
	if issue := ValidateField(field, "1m"); issue == nil || issue.Kind != KindInvalidType {
		t.Fatalf("expected invalid_type for scalar, got %+v", issue)
	}
	if issue := ValidateField(field, []any{"1m", "1d"}); issue == nil || issue.Kind != KindInvalidOption {
		t.Fatalf("expected invalid_option, got %+v", issue)
	}
	if issue := ValidateField(field, []any{"1m", "5m", "1h"}); issue == nil || issue.Kind != KindMaxItems {
		t.Fatalf("expected max_items, got %+v", issue)
	}
}

func TestValidateFieldSymbols(t *testing.T) {
	t.Parallel()

	one := schema.Field{Name: "symbol", Type: schema.TypeSymbolPicker}
	if issue := ValidateField(one, "005930"); issue != nil {
		t.Fatalf("expected valid symbol, got %+v", issue)
	}
	if issue := ValidateField(one, 42); issue == nil || issue.Kind != KindInvalidSymbol {
		t.Fatalf("expected invalid_symbol, got %+v", issue)
	}

	many := schema.Field{Name: "universe", Type: schema.TypeSymbols, Collection: &schema.CollectionConstraints{MinItems: ptr(2)}}
	if issue := ValidateField(many, []any{"AAPL", " "}); issue == nil || issue.Kind != KindInvalidSymbol {
		t.Fatalf("expected invalid_symbol for blank entry, got %+v", issue)
	}
	if issue := ValidateField(many, []string{"AAPL"}); issue == nil || issue.Kind != KindMinItems {
		t.Fatalf("expected min_items, got %+v", issue)
	}
	if issue := ValidateField(many, []string{"AAPL", "MSFT"}); issue != nil {
		t.Fatalf("expected valid, got %+v", issue)
	}
}

func TestValidateFieldText(t *testing.T) {
	t.Parallel()

	plain := schema.Field{Name: "note", Type: schema.TypeString}
	if issue := ValidateField(plain, "anything at all"); issue != nil {
		t.Fatalf("expected unconstrained string to be valid, got %+v", issue)
	}

	field := schema.Field{
		Name: "code",
		Type: schema.TypeText,
		Text: &schema.TextConstraints{MinLength: ptr(2), MaxLength: ptr(4), Pattern: `^[A-Z]+$`},
	}
	cases := map[string]Kind{
		"AB":    "",
		"A":     KindMinLength,
		"ABCDE": KindMaxLength,
		"ab":    KindPattern,
	}
	for value, kind := range cases {
		issue := ValidateField(field, value)
		if kind == "" {
			if issue != nil {
				t.Fatalf("%q: expected valid, got %+v", value, issue)
			}
			continue
		}
		if issue == nil || issue.Kind != kind {
			t.Fatalf("%q: expected %q, got %+v", value, kind, issue)
		}
	}
}

func TestValidateFieldBadPatternIsLoggedAndIgnored(t *testing.T) {
	t.Parallel()

	logger, hook := test.NewNullLogger()
	validator := New(WithLogger(logger))
	field := schema.Field{Name: "code", Type: schema.TypeString, Text: &schema.TextConstraints{Pattern: "("}}

	if issue := validator.ValidateField(field, "x"); issue != nil {
		t.Fatalf("expected bad pattern to be ignored, got %+v", issue)
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.WarnLevel {
		t.Fatalf("expected a warning, got %+v", entry)
	}
}

func TestCustomMessages(t *testing.T) {
	t.Parallel()

	validator := New(WithMessages(func(kind Kind, label string, _ map[string]any) string {
		return label + ":" + string(kind)
	}))
	issue := validator.ValidateField(schema.Field{Name: "period", Label: "Period", Type: schema.TypeInteger, Required: true}, nil)
	if issue == nil || issue.Message != "Period:required" {
		t.Fatalf("unexpected issue %+v", issue)
	}
	if got := issue.Error(); got != "validation: period: Period:required" {
		t.Fatalf("unexpected error text %q", got)
	}
}
