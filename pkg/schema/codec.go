package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-sdui/pkg/condition"
)

// wireField is the flat JSON shape served by the backend. It accepts the
// spellings of both dialects (name/key, default/default_value,
// description/help_text, condition/show_when, group/section).
type wireField struct {
	Name         string               `json:"name,omitempty"`
	Key          string               `json:"key,omitempty"`
	FieldType    FieldType            `json:"field_type,omitempty"`
	Type         FieldType            `json:"type,omitempty"`
	Label        string               `json:"label,omitempty"`
	Description  string               `json:"description,omitempty"`
	HelpText     string               `json:"help_text,omitempty"`
	Placeholder  string               `json:"placeholder,omitempty"`
	Default      any                  `json:"default,omitempty"`
	DefaultValue any                  `json:"default_value,omitempty"`
	Required     bool                 `json:"required"`
	Group        string               `json:"group,omitempty"`
	Section      string               `json:"section,omitempty"`
	Order        int                  `json:"order,omitempty"`
	Widget       string               `json:"widget,omitempty"`
	Condition    *condition.Condition `json:"condition,omitempty"`
	ShowWhen     *condition.Condition `json:"show_when,omitempty"`
	Min          *float64             `json:"min,omitempty"`
	Max          *float64             `json:"max,omitempty"`
	Step         *float64             `json:"step,omitempty"`
	MinLength    *int                 `json:"min_length,omitempty"`
	MaxLength    *int                 `json:"max_length,omitempty"`
	Pattern      string               `json:"pattern,omitempty"`
	Options      []Option             `json:"options,omitempty"`
	MinItems     *int                 `json:"min_items,omitempty"`
	MaxItems     *int                 `json:"max_items,omitempty"`
	Metadata     map[string]string    `json:"metadata,omitempty"`
}

// UnmarshalJSON decodes either dialect and lowers it into the variant form.
func (f *Field) UnmarshalJSON(data []byte) error {
	var wire wireField
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("schema: decode field: %w", err)
	}
	*f = wire.lower()
	return nil
}

// MarshalJSON writes the canonical flat shape.
func (f Field) MarshalJSON() ([]byte, error) {
	wire := wireField{
		Name:        f.Name,
		FieldType:   f.Type,
		Label:       f.Label,
		Description: f.Description,
		Placeholder: f.Placeholder,
		Default:     f.Default,
		Required:    f.Required,
		Group:       f.Group,
		Order:       f.Order,
		Widget:      f.Widget,
		Metadata:    f.Metadata,
	}
	if !f.Condition.Empty() {
		wire.Condition = f.Condition
	}
	if f.Numeric != nil {
		wire.Min, wire.Max, wire.Step = f.Numeric.Min, f.Numeric.Max, f.Numeric.Step
	}
	if f.Text != nil {
		wire.MinLength, wire.MaxLength, wire.Pattern = f.Text.MinLength, f.Text.MaxLength, f.Text.Pattern
	}
	if f.Choice != nil {
		wire.Options = f.Choice.Options
	}
	if f.Collection != nil {
		wire.MinItems, wire.MaxItems = f.Collection.MinItems, f.Collection.MaxItems
	}
	return json.Marshal(wire)
}

func (w wireField) lower() Field {
	field := Field{
		Name:        firstNonEmpty(w.Name, w.Key),
		Type:        w.FieldType,
		Label:       w.Label,
		Description: firstNonEmpty(w.Description, w.HelpText),
		Placeholder: w.Placeholder,
		Default:     w.Default,
		Required:    w.Required,
		Group:       firstNonEmpty(w.Group, w.Section),
		Order:       w.Order,
		Widget:      strings.TrimSpace(w.Widget),
		Metadata:    w.Metadata,
	}
	field.Name = strings.TrimSpace(field.Name)
	if field.Type == "" {
		field.Type = w.Type
	}
	field.Type = field.Type.Normalize()
	if field.Type == "" {
		if len(w.Options) > 0 {
			field.Type = TypeSelect
		} else {
			field.Type = TypeString
		}
	}
	if field.Default == nil {
		field.Default = w.DefaultValue
	}

	switch {
	case !w.ShowWhen.Empty():
		field.Condition = w.ShowWhen
	case !w.Condition.Empty():
		field.Condition = w.Condition
	}

	if field.Type.IsNumeric() && (w.Min != nil || w.Max != nil || w.Step != nil) {
		field.Numeric = &NumericConstraints{Min: w.Min, Max: w.Max, Step: w.Step}
	}
	if field.Kind() == TypeString && (w.MinLength != nil || w.MaxLength != nil || w.Pattern != "") {
		field.Text = &TextConstraints{MinLength: w.MinLength, MaxLength: w.MaxLength, Pattern: w.Pattern}
	}
	if field.Type.HasOptions() || len(w.Options) > 0 {
		field.Choice = &ChoiceConstraints{Options: w.Options}
	}
	if field.Type.IsMulti() && (w.MinItems != nil || w.MaxItems != nil) {
		field.Collection = &CollectionConstraints{MinItems: w.MinItems, MaxItems: w.MaxItems}
	}
	return field
}

// UnmarshalJSON accepts both an option object and a bare scalar shorthand
// (`"1h"` becomes `{value: "1h", label: "1h"}`).
func (o *Option) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		type plain Option
		var decoded plain
		if err := json.Unmarshal(trimmed, &decoded); err != nil {
			return fmt.Errorf("schema: decode option: %w", err)
		}
		*o = Option(decoded)
		return nil
	}
	var scalar any
	if err := json.Unmarshal(trimmed, &scalar); err != nil {
		return fmt.Errorf("schema: decode option: %w", err)
	}
	*o = Option{Value: scalar, Label: fmt.Sprint(scalar)}
	return nil
}

type wireSection struct {
	ID          string  `json:"id"`
	Key         string  `json:"key"`
	Label       string  `json:"label"`
	Name        string  `json:"name"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Order       int     `json:"order"`
	Collapsed   bool    `json:"collapsed"`
	Fields      []Field `json:"fields"`
}

// UnmarshalJSON accepts the label spellings of both dialects
// (label/name/title) and id/key.
func (s *Section) UnmarshalJSON(data []byte) error {
	var wire wireSection
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("schema: decode section: %w", err)
	}
	*s = Section{
		ID:          strings.TrimSpace(firstNonEmpty(wire.ID, wire.Key)),
		Label:       firstNonEmpty(wire.Label, wire.Name, wire.Title),
		Description: wire.Description,
		Order:       wire.Order,
		Collapsed:   wire.Collapsed,
		Fields:      wire.Fields,
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
