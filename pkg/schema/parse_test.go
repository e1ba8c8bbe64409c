package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-sdui/pkg/condition"
)

const strategyDialect = `{
	"strategy_id": "rsi_mean_reversion",
	"name": "RSI <b>Mean</b> Reversion",
	"sections": [
		{"id": "indicator", "label": "Indicator", "order": 1, "fields": [
			{"name": "period", "field_type": "integer", "label": "Period", "required": true, "min": 2, "max": 200, "default": 14},
			{"name": "source", "field_type": "select", "options": ["close", {"value": "hl2", "label": "High/Low"}]}
		]}
	],
	"fields": [
		{"name": "threshold", "field_type": "number", "group": "indicator", "condition": "period > 50", "min": 0},
		{"name": "note", "field_type": "string", "min_length": 1, "pattern": "^[a-z]+$"}
	]
}`

const uiDialect = `
strategy_id: grid
groups:
  - key: grid
    title: Grid
    collapsed: true
fields:
  - key: levels
    type: range
    section: grid
    default_value: 10
    help_text: "Number of <script>alert(1)</script>levels"
  - key: symbol
    type: symbol_picker
    section: grid
    show_when:
      field: levels
      operator: gt
      value: 5
  - key: timeframes
    type: multi-select
    section: grid
    options: ["1m", "5m"]
    max_items: 2
`

func TestParseStrategyDialect(t *testing.T) {
	t.Parallel()

	form, err := ParseBytes([]byte(strategyDialect))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if form.ID != "rsi_mean_reversion" {
		t.Fatalf("unexpected id %q", form.ID)
	}
	if form.Name != "RSI Mean Reversion" {
		t.Fatalf("expected markup stripped from name, got %q", form.Name)
	}

	section, ok := form.Section("indicator")
	if !ok {
		t.Fatalf("indicator section missing")
	}
	var names []string
	for _, field := range section.Fields {
		names = append(names, field.Name)
	}
	if diff := cmp.Diff([]string{"period", "source", "threshold"}, names); diff != "" {
		t.Fatalf("section fields mismatch (-want +got):\n%s", diff)
	}

	period, _ := form.Field("period")
	if period.Numeric == nil || *period.Numeric.Min != 2 || *period.Numeric.Max != 200 {
		t.Fatalf("unexpected numeric constraints %+v", period.Numeric)
	}
	if period.Text != nil || period.Choice != nil {
		t.Fatalf("only the numeric variant should be populated: %+v", period)
	}

	source, _ := form.Field("source")
	wantOptions := []Option{{Value: "close", Label: "close"}, {Value: "hl2", Label: "High/Low"}}
	if diff := cmp.Diff(wantOptions, source.Options()); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	threshold, _ := form.Field("threshold")
	if threshold.Group != "indicator" || threshold.Condition.DependsOn() != "period" {
		t.Fatalf("unexpected threshold %+v", threshold)
	}

	note, _ := form.Field("note")
	if note.Text == nil || note.Text.Pattern != "^[a-z]+$" || *note.Text.MinLength != 1 {
		t.Fatalf("unexpected text constraints %+v", note.Text)
	}
	if len(form.Fields) != 1 || form.Fields[0].Name != "note" {
		t.Fatalf("expected note to stay ungrouped, got %+v", form.Fields)
	}
}

func TestParseUIDialectYAML(t *testing.T) {
	t.Parallel()

	doc := MustNewDocument(SourceFromFS("grid.yaml"), []byte(uiDialect))
	form, err := Parse(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	section, ok := form.Section("grid")
	if !ok || section.Label != "Grid" || !section.Collapsed {
		t.Fatalf("unexpected section %+v", section)
	}

	levels, _ := form.Field("levels")
	if levels.Type != TypeRange || levels.Kind() != TypeNumber {
		t.Fatalf("range should keep its tag and lower to number: %+v", levels)
	}
	if levels.Default != float64(10) {
		t.Fatalf("expected default_value alias, got %#v", levels.Default)
	}
	if levels.Description != "Number of levels" {
		t.Fatalf("expected script stripped from help text, got %q", levels.Description)
	}

	symbol, _ := form.Field("symbol")
	if symbol.Kind() != TypeSymbol {
		t.Fatalf("expected symbol kind, got %s", symbol.Kind())
	}
	want := condition.Predicate{Field: "levels", Operator: "gt", Value: float64(5)}
	if symbol.Condition == nil || symbol.Condition.Predicate == nil {
		t.Fatalf("expected structured show_when")
	}
	if diff := cmp.Diff(want, *symbol.Condition.Predicate); diff != "" {
		t.Fatalf("predicate mismatch (-want +got):\n%s", diff)
	}

	timeframes, _ := form.Field("timeframes")
	if timeframes.Type != TypeMultiSelect || timeframes.Collection == nil || *timeframes.Collection.MaxItems != 2 {
		t.Fatalf("unexpected multi-select %+v", timeframes)
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		raw  string
		want error
	}{
		"missing name":      {raw: `{"fields":[{"type":"string"}]}`, want: ErrMissingFieldName},
		"duplicate field":   {raw: `{"fields":[{"name":"a"},{"name":"a"}]}`, want: ErrDuplicateField},
		"duplicate section": {raw: `{"sections":[{"id":"a"}],"groups":[{"key":"a"}]}`, want: ErrDuplicateSection},
		"unknown fragment":  {raw: `{"fragments":["risk.nope"]}`, want: ErrUnknownFragment},
	}
	for name, tc := range cases {
		name, tc := name, tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseBytes([]byte(tc.raw))
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if _, err := ParseBytes([]byte(`{"fields": [`)); err == nil {
		t.Fatalf("expected syntax error")
	}
}

func TestParseUnknownGroupCreatesSection(t *testing.T) {
	t.Parallel()

	form, err := ParseBytes([]byte(`{"fields":[{"name":"a","group":"Advanced"}]}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	section, ok := form.Section("Advanced")
	if !ok || len(section.Fields) != 1 {
		t.Fatalf("expected implicit section, got %+v", form.Sections)
	}
}

func TestParseUnknownTypeIsPreserved(t *testing.T) {
	t.Parallel()

	form, err := ParseBytes([]byte(`{"fields":[{"name":"color","type":"colour_wheel"}]}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	field, _ := form.Field("color")
	if field.Type != "colour_wheel" || field.Kind() != TypeString || field.Type.Known() {
		t.Fatalf("unexpected field %+v", field)
	}
}

func TestFormJSONRoundTrip(t *testing.T) {
	t.Parallel()

	form, err := ParseBytes([]byte(strategyDialect))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	raw, err := json.Marshal(form)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Form
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(form.AllFields(), decoded.AllFields()); diff != "" {
		t.Fatalf("fields changed across round trip (-want +got):\n%s", diff)
	}
}

func TestFragmentFormRoundTrip(t *testing.T) {
	t.Parallel()

	form, err := ParseBytes([]byte(`{"id": "grid", "fragments": ["risk.exit_config"], "fields": [{"name": "levels", "field_type": "integer"}]}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	raw, err := json.Marshal(form)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	decoded, err := ParseBytes(raw)
	if err != nil {
		t.Fatalf("reparse serialized form: %v", err)
	}
	if len(decoded.Sections) != 1 || decoded.Sections[0].ID != "exit_config" {
		t.Fatalf("expected a single exit_config section, got %+v", decoded.Sections)
	}
	if diff := cmp.Diff([]string{FragmentExitConfig}, decoded.Fragments); diff != "" {
		t.Fatalf("fragments mismatch (-want +got):\n%s", diff)
	}
}
