package render

import (
	"strings"

	"github.com/goliatone/go-sdui/pkg/schema"
	"github.com/goliatone/go-sdui/pkg/validation"
)

// Field metadata keys naming translation keys for the field's text.
const (
	LabelKey       = "label_key"
	DescriptionKey = "description_key"
	PlaceholderKey = "placeholder_key"
)

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// Localize returns a copy of form with field labels, descriptions and
// placeholders translated through the keys in field metadata. Missing
// translations keep the original text.
func Localize(form schema.Form, locale string, t Translator) schema.Form {
	if t == nil {
		return form
	}
	out := form
	out.Sections = make([]schema.Section, len(form.Sections))
	for i, section := range form.Sections {
		section.Fields = localizeFields(section.Fields, locale, t)
		out.Sections[i] = section
	}
	out.Fields = localizeFields(form.Fields, locale, t)
	return out
}

func localizeFields(fields []schema.Field, locale string, t Translator) []schema.Field {
	if fields == nil {
		return nil
	}
	out := make([]schema.Field, len(fields))
	for i, field := range fields {
		if key := field.Metadata[LabelKey]; key != "" {
			field.Label = translate(t, locale, key, field.Label)
		}
		if key := field.Metadata[DescriptionKey]; key != "" {
			field.Description = translate(t, locale, key, field.Description)
		}
		if key := field.Metadata[PlaceholderKey]; key != "" {
			field.Placeholder = translate(t, locale, key, field.Placeholder)
		}
		out[i] = field
	}
	return out
}

// Messages adapts a Translator into validation messages. Keys are
// "validation.<kind>" with the label and params passed as arguments;
// missing keys fall back to the English defaults.
func Messages(t Translator, locale string) validation.MessageFunc {
	return func(kind validation.Kind, label string, params map[string]any) string {
		fallback := validation.DefaultMessage(kind, label, params)
		if t == nil {
			return fallback
		}
		msg, err := t.Translate(locale, "validation."+string(kind), label, params)
		if err != nil || strings.TrimSpace(msg) == "" {
			return fallback
		}
		return msg
	}
}

// Translate looks key up and falls back to fallback, then to the key itself.
func Translate(t Translator, locale, key, fallback string) string {
	return translate(t, locale, key, fallback)
}

func translate(t Translator, locale, key, fallback string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	if t != nil {
		if msg, err := t.Translate(locale, key); err == nil && strings.TrimSpace(msg) != "" {
			return msg
		}
	}
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}
