package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-sdui/pkg/schema"
)

// ExtensionKey is the vendor extension read from component and property
// schemas.
const ExtensionKey = "x-sdui"

var (
	// ErrEmptyDocument is returned when no payload is supplied.
	ErrEmptyDocument = errors.New("openapi: document payload is empty")
	// ErrComponentNotFound is returned when components.schemas lacks the
	// requested name.
	ErrComponentNotFound = errors.New("openapi: component schema not found")
	// ErrNotObject is returned when the component has no properties.
	ErrNotObject = errors.New("openapi: component schema has no properties")
)

// Options configures an Importer.
type Options struct {
	// ResolveReferences allows external $ref targets and validates the
	// document after loading.
	ResolveReferences bool
	Logger            logrus.FieldLogger
}

// Option mutates Options during construction.
type Option func(*Options)

// WithReferenceResolution toggles external reference loading and document
// validation.
func WithReferenceResolution(enabled bool) Option {
	return func(opts *Options) {
		opts.ResolveReferences = enabled
	}
}

// WithLogger overrides the logger used for skipped properties.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(opts *Options) {
		if logger != nil {
			opts.Logger = logger
		}
	}
}

// Importer converts OpenAPI component schemas into forms.
type Importer struct {
	options Options
}

// NewImporter constructs an Importer.
func NewImporter(options ...Option) *Importer {
	cfg := Options{Logger: logrus.StandardLogger()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Importer{options: cfg}
}

// ImportComponent converts components.schemas[name] of the given document
// using default options.
func ImportComponent(ctx context.Context, raw []byte, name string) (schema.Form, error) {
	return NewImporter().ImportComponent(ctx, raw, name)
}

// ImportFile reads an OpenAPI document from disk and imports one component.
func ImportFile(ctx context.Context, path, name string) (schema.Form, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return schema.Form{}, fmt.Errorf("openapi: read %s: %w", path, err)
	}
	return ImportComponent(ctx, raw, name)
}

// ImportComponent loads the document with kin-openapi and lowers the named
// component schema through the regular schema parser, so sanitising,
// section grouping and duplicate checks behave exactly like native schemas.
func (i *Importer) ImportComponent(ctx context.Context, raw []byte, name string) (schema.Form, error) {
	if err := ctx.Err(); err != nil {
		return schema.Form{}, err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return schema.Form{}, ErrEmptyDocument
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: i.options.ResolveReferences,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return schema.Form{}, fmt.Errorf("openapi: load document: %w", err)
	}
	if i.options.ResolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return schema.Form{}, fmt.Errorf("openapi: validate: %w", err)
		}
	}

	if spec.Components == nil {
		return schema.Form{}, fmt.Errorf("%w: %q", ErrComponentNotFound, name)
	}
	ref, ok := spec.Components.Schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return schema.Form{}, fmt.Errorf("%w: %q", ErrComponentNotFound, name)
	}

	doc, err := i.document(name, ref.Value)
	if err != nil {
		return schema.Form{}, err
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return schema.Form{}, fmt.Errorf("openapi: encode %q: %w", name, err)
	}
	form, err := schema.ParseBytes(payload)
	if err != nil {
		return schema.Form{}, fmt.Errorf("openapi: component %q: %w", name, err)
	}
	return form, nil
}

func (i *Importer) document(name string, component *openapi3.Schema) (map[string]any, error) {
	properties := collectProperties(component)
	if len(properties) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotObject, name)
	}

	required := make(map[string]bool)
	for _, key := range collectRequired(component) {
		required[key] = true
	}

	names := make([]string, 0, len(properties))
	for key := range properties {
		names = append(names, key)
	}
	sort.Strings(names)

	fields := make([]map[string]any, 0, len(names))
	for _, key := range names {
		prop := properties[key]
		if prop == nil || prop.Value == nil {
			i.options.Logger.WithField("property", key).Warn("openapi: skipping unresolved property")
			continue
		}
		fields = append(fields, convertProperty(key, prop.Value, required[key]))
	}

	// Stable order: explicit x-sdui.order wins, otherwise alphabetical.
	for idx, field := range fields {
		if _, ok := field["order"]; !ok {
			field["order"] = idx + 1
		}
	}

	doc := map[string]any{
		"id":     name,
		"name":   firstNonEmpty(component.Title, name),
		"fields": fields,
	}
	if component.Description != "" {
		doc["description"] = component.Description
	}
	ext := extension(component.Extensions)
	if sections, ok := ext["sections"]; ok {
		doc["sections"] = sections
	}
	if fragments, ok := ext["fragments"]; ok {
		doc["fragments"] = fragments
	}
	if version, ok := ext["version"].(string); ok {
		doc["version"] = version
	}
	return doc, nil
}

func convertProperty(name string, src *openapi3.Schema, required bool) map[string]any {
	field := map[string]any{
		"name":     name,
		"label":    firstNonEmpty(src.Title, name),
		"required": required,
	}
	if src.Description != "" {
		field["description"] = src.Description
	}
	if src.Default != nil {
		field["default"] = src.Default
	}
	if src.Min != nil {
		field["min"] = *src.Min
	}
	if src.Max != nil {
		field["max"] = *src.Max
	}
	if src.MultipleOf != nil {
		field["step"] = *src.MultipleOf
	}
	if src.MinLength != 0 {
		field["min_length"] = src.MinLength
	}
	if src.MaxLength != nil {
		field["max_length"] = *src.MaxLength
	}
	if src.Pattern != "" {
		field["pattern"] = src.Pattern
	}
	if src.MinItems != 0 {
		field["min_items"] = src.MinItems
	}
	if src.MaxItems != nil {
		field["max_items"] = *src.MaxItems
	}

	field["field_type"] = string(fieldType(src))
	if options := enumOptions(src); len(options) > 0 {
		field["options"] = options
	}

	ext := extension(src.Extensions)
	for _, key := range []string{"field_type", "group", "order", "widget", "placeholder", "label", "show_when", "condition", "options", "metadata"} {
		if value, ok := ext[key]; ok && value != nil {
			field[key] = value
		}
	}
	return field
}

func fieldType(src *openapi3.Schema) schema.FieldType {
	switch firstSchemaType(src.Type) {
	case openapi3.TypeInteger:
		if len(src.Enum) > 0 {
			return schema.TypeSelect
		}
		return schema.TypeInteger
	case openapi3.TypeNumber:
		if len(src.Enum) > 0 {
			return schema.TypeSelect
		}
		return schema.TypeNumber
	case openapi3.TypeBoolean:
		return schema.TypeBoolean
	case openapi3.TypeArray:
		if src.Items != nil && src.Items.Value != nil && len(src.Items.Value.Enum) > 0 {
			return schema.TypeMultiSelect
		}
		return schema.TypeSymbols
	default:
		if len(src.Enum) > 0 {
			return schema.TypeSelect
		}
		if src.Format == "symbol" {
			return schema.TypeSymbol
		}
		return schema.TypeString
	}
}

func enumOptions(src *openapi3.Schema) []any {
	values := src.Enum
	if len(values) == 0 && src.Items != nil && src.Items.Value != nil {
		values = src.Items.Value.Enum
	}
	if len(values) == 0 {
		return nil
	}
	return append([]any(nil), values...)
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	for _, value := range types.Slice() {
		if value != openapi3.TypeNull {
			return value
		}
	}
	return ""
}

// collectProperties flattens allOf members so composed components keep every
// property. Later members override earlier ones.
func collectProperties(src *openapi3.Schema) openapi3.Schemas {
	out := make(openapi3.Schemas)
	for _, member := range src.AllOf {
		if member == nil || member.Value == nil {
			continue
		}
		for key, value := range collectProperties(member.Value) {
			out[key] = value
		}
	}
	for key, value := range src.Properties {
		out[key] = value
	}
	return out
}

func collectRequired(src *openapi3.Schema) []string {
	out := append([]string(nil), src.Required...)
	for _, member := range src.AllOf {
		if member == nil || member.Value == nil {
			continue
		}
		out = append(out, collectRequired(member.Value)...)
	}
	return out
}

func extension(raw map[string]any) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	value, ok := raw[ExtensionKey]
	if !ok {
		return nil
	}
	switch typed := value.(type) {
	case map[string]any:
		return typed
	case json.RawMessage:
		var decoded map[string]any
		if err := json.Unmarshal(typed, &decoded); err == nil {
			return decoded
		}
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
