package schema

import (
	"strings"

	"github.com/goliatone/go-sdui/pkg/condition"
)

// FieldType tags the kind of value a field holds. Two dialects share the
// enum: the canonical strategy dialect and the UI dialect. Kind lowers UI
// dialect tags onto the canonical ones.
type FieldType string

const (
	TypeInteger        FieldType = "integer"
	TypeNumber         FieldType = "number"
	TypeBoolean        FieldType = "boolean"
	TypeString         FieldType = "string"
	TypeSelect         FieldType = "select"
	TypeMultiSelect    FieldType = "multi_select"
	TypeSymbol         FieldType = "symbol"
	TypeSymbols        FieldType = "symbols"
	TypeMultiTimeframe FieldType = "multi_timeframe"

	TypeText                FieldType = "text"
	TypeRange               FieldType = "range"
	TypeSymbolPicker        FieldType = "symbol_picker"
	TypeSymbolCategoryGroup FieldType = "symbol_category_group"
)

var dialectKinds = map[FieldType]FieldType{
	TypeText:                TypeString,
	TypeRange:               TypeNumber,
	TypeSymbolPicker:        TypeSymbol,
	TypeSymbolCategoryGroup: TypeSymbols,
}

var canonicalKinds = map[FieldType]struct{}{
	TypeInteger:        {},
	TypeNumber:         {},
	TypeBoolean:        {},
	TypeString:         {},
	TypeSelect:         {},
	TypeMultiSelect:    {},
	TypeSymbol:         {},
	TypeSymbols:        {},
	TypeMultiTimeframe: {},
}

// Normalize lower-cases the tag and maps common spellings ("multi-select",
// "multiSelect") onto the underscore form.
func (t FieldType) Normalize() FieldType {
	s := strings.ToLower(strings.TrimSpace(string(t)))
	s = strings.ReplaceAll(s, "-", "_")
	switch s {
	case "multiselect":
		s = string(TypeMultiSelect)
	case "bool":
		s = string(TypeBoolean)
	case "int":
		s = string(TypeInteger)
	case "float", "decimal":
		s = string(TypeNumber)
	}
	return FieldType(s)
}

// Known reports whether the tag belongs to either dialect.
func (t FieldType) Known() bool {
	n := t.Normalize()
	if _, ok := canonicalKinds[n]; ok {
		return true
	}
	_, ok := dialectKinds[n]
	return ok
}

// Kind returns the canonical kind that governs validation. Unknown tags are
// treated as strings.
func (t FieldType) Kind() FieldType {
	n := t.Normalize()
	if _, ok := canonicalKinds[n]; ok {
		return n
	}
	if kind, ok := dialectKinds[n]; ok {
		return kind
	}
	return TypeString
}

// IsNumeric reports integer/number/range kinds.
func (t FieldType) IsNumeric() bool {
	kind := t.Kind()
	return kind == TypeInteger || kind == TypeNumber
}

// IsMulti reports kinds whose value is a list.
func (t FieldType) IsMulti() bool {
	switch t.Kind() {
	case TypeMultiSelect, TypeSymbols, TypeMultiTimeframe:
		return true
	}
	return false
}

// HasOptions reports kinds that pick from an option list.
func (t FieldType) HasOptions() bool {
	switch t.Kind() {
	case TypeSelect, TypeMultiSelect, TypeMultiTimeframe:
		return true
	}
	return false
}

// Option is one selectable entry. Value may be any JSON value.
type Option struct {
	Value       any    `json:"value"`
	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
}

// NumericConstraints apply to integer, number and range fields.
type NumericConstraints struct {
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
	Step *float64 `json:"step,omitempty"`
}

// TextConstraints apply to string and text fields.
type TextConstraints struct {
	MinLength *int   `json:"min_length,omitempty"`
	MaxLength *int   `json:"max_length,omitempty"`
	Pattern   string `json:"pattern,omitempty"`
}

// ChoiceConstraints carry the enumerated options of select-like fields.
type ChoiceConstraints struct {
	Options []Option `json:"options,omitempty"`
}

// CollectionConstraints bound the cardinality of list-valued fields.
type CollectionConstraints struct {
	MinItems *int `json:"min_items,omitempty"`
	MaxItems *int `json:"max_items,omitempty"`
}

// Field describes one configurable value. Only the constraint block matching
// the field kind is populated by the loader.
type Field struct {
	Name        string
	Type        FieldType
	Label       string
	Description string
	Placeholder string
	Default     any
	Required    bool
	Group       string
	Order       int
	Widget      string
	Condition   *condition.Condition
	Metadata    map[string]string

	Numeric    *NumericConstraints
	Text       *TextConstraints
	Choice     *ChoiceConstraints
	Collection *CollectionConstraints
}

// Kind is shorthand for f.Type.Kind().
func (f Field) Kind() FieldType {
	return f.Type.Kind()
}

// DisplayLabel falls back to the field name when no label is set.
func (f Field) DisplayLabel() string {
	if strings.TrimSpace(f.Label) != "" {
		return f.Label
	}
	return f.Name
}

// Options returns the declared options, if any.
func (f Field) Options() []Option {
	if f.Choice == nil {
		return nil
	}
	return f.Choice.Options
}

// Section groups fields for display and independent collapse state.
type Section struct {
	ID          string  `json:"id"`
	Label       string  `json:"label,omitempty"`
	Description string  `json:"description,omitempty"`
	Order       int     `json:"order,omitempty"`
	Collapsed   bool    `json:"collapsed,omitempty"`
	Fields      []Field `json:"fields"`
}

// Form is a complete, normalised schema: ordered sections plus the fields
// that belong to no section.
type Form struct {
	ID          string            `json:"id"`
	Name        string            `json:"name,omitempty"`
	Description string            `json:"description,omitempty"`
	Version     string            `json:"version,omitempty"`
	Sections    []Section         `json:"sections,omitempty"`
	Fields      []Field           `json:"fields,omitempty"`
	Fragments   []string          `json:"fragments,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// AllFields returns section fields in section order followed by ungrouped
// fields.
func (f Form) AllFields() []Field {
	var out []Field
	for _, section := range f.Sections {
		out = append(out, section.Fields...)
	}
	return append(out, f.Fields...)
}

// Field looks up a field by name.
func (f Form) Field(name string) (Field, bool) {
	for _, field := range f.AllFields() {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Section looks up a section by id.
func (f Form) Section(id string) (Section, bool) {
	for _, section := range f.Sections {
		if section.ID == id {
			return section, true
		}
	}
	return Section{}, false
}
