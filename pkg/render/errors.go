package render

import (
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-sdui/pkg/schema"
	"github.com/goliatone/go-sdui/pkg/validation"
)

// ErrorMapping splits a backend error payload into messages per field name
// and form-level messages.
type ErrorMapping struct {
	Fields map[string][]string `json:"fields,omitempty"`
	Form   []string            `json:"form,omitempty"`
}

// MapErrorPayload resolves the keys of a backend error payload to field
// names. Keys may be plain names, dotted paths or JSON pointers and may carry
// request wrappers ("body", "params", "config") or list indexes. Keys that
// match no field become form-level messages so nothing is dropped.
func MapErrorPayload(form schema.Form, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}

	names := make(map[string]struct{})
	for _, field := range form.AllFields() {
		names[field.Name] = struct{}{}
	}

	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		messages := normalizeMessages(payload[key])
		if len(messages) == 0 {
			continue
		}
		if name, ok := resolveErrorPath(key, names); ok {
			mapping.Fields[name] = normalizeMessages(append(mapping.Fields[name], messages...))
			continue
		}
		mapping.Form = append(mapping.Form, messages...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// ErrorsFromResult converts a validation pass into the per-field message map
// renderers accept.
func ErrorsFromResult(result validation.Result) map[string][]string {
	if len(result.Errors) == 0 {
		return nil
	}
	out := make(map[string][]string, len(result.Errors))
	for name, issue := range result.Errors {
		out[name] = []string{issue.Message}
	}
	return out
}

// MergeFormErrors concatenates form-level messages, trimming blanks and
// duplicates while keeping order.
func MergeFormErrors(existing []string, extras ...string) []string {
	return normalizeMessages(append(append([]string(nil), existing...), extras...))
}

func normalizeMessages(messages []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

var wrapperSegments = map[string]struct{}{
	"body":       {},
	"request":    {},
	"payload":    {},
	"data":       {},
	"params":     {},
	"parameters": {},
	"config":     {},
	"values":     {},
}

func resolveErrorPath(raw string, names map[string]struct{}) (string, bool) {
	if isFormLevelKey(raw) {
		return "", false
	}
	if _, ok := names[strings.TrimSpace(raw)]; ok {
		return strings.TrimSpace(raw), true
	}

	segments := pathSegments(raw)
	for len(segments) > 0 {
		if _, wrapper := wrapperSegments[strings.ToLower(segments[0])]; !wrapper {
			break
		}
		segments = segments[1:]
	}
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		if _, ok := names[segment]; ok {
			return segment, true
		}
		// only the first named segment can identify a top-level field
		break
	}
	return "", false
}

func pathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.TrimLeft(clean, "#$./")
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		out = append(out, part)
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
