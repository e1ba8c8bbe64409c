package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingFieldName is returned when a field declares no name/key.
	ErrMissingFieldName = errors.New("schema: field name is required")
	// ErrDuplicateField is returned when two fields share a name.
	ErrDuplicateField = errors.New("schema: duplicate field name")
	// ErrDuplicateSection is returned when two sections share an id.
	ErrDuplicateSection = errors.New("schema: duplicate section id")
	// ErrUnknownFragment is returned when a form references an unregistered
	// fragment.
	ErrUnknownFragment = errors.New("schema: unknown fragment")
)

type wireDocument struct {
	ID          string            `json:"id"`
	StrategyID  string            `json:"strategy_id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Version     string            `json:"version"`
	Sections    []Section         `json:"sections"`
	Groups      []Section         `json:"groups"`
	Fields      []Field           `json:"fields"`
	Fragments   []string          `json:"fragments"`
	Metadata    map[string]string `json:"metadata"`
}

// Parse decodes a JSON or YAML schema document into a normalised Form.
func Parse(doc Document) (Form, error) {
	raw := doc.Raw()
	if doc.Format() == FormatYAML {
		converted, err := yamlToJSON(raw)
		if err != nil {
			return Form{}, fmt.Errorf("schema: parse %s: %w", describe(doc.Source()), err)
		}
		raw = converted
	}

	var wire wireDocument
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Form{}, fmt.Errorf("schema: parse %s: %w", describe(doc.Source()), err)
	}

	form, err := wire.normalize()
	if err != nil {
		return Form{}, fmt.Errorf("schema: parse %s: %w", describe(doc.Source()), err)
	}
	return form, nil
}

// ParseBytes is a convenience wrapper for in-memory payloads.
func ParseBytes(raw []byte) (Form, error) {
	doc, err := NewDocument(Inline(""), raw)
	if err != nil {
		return Form{}, err
	}
	return Parse(doc)
}

// UnmarshalJSON runs the same normalisation as Parse so a Form embedded in a
// larger payload is usable directly.
func (f *Form) UnmarshalJSON(data []byte) error {
	var wire wireDocument
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("schema: decode form: %w", err)
	}
	form, err := wire.normalize()
	if err != nil {
		return err
	}
	*f = form
	return nil
}

func (w wireDocument) normalize() (Form, error) {
	form := Form{
		ID:          strings.TrimSpace(firstNonEmpty(w.ID, w.StrategyID)),
		Name:        sanitizeText(w.Name),
		Description: sanitizeRichText(w.Description),
		Version:     strings.TrimSpace(w.Version),
		Metadata:    w.Metadata,
	}

	index := make(map[string]int)
	addSection := func(section Section) error {
		id := section.ID
		if id == "" {
			id = slug(section.Label)
		}
		if id == "" {
			return fmt.Errorf("schema: section %d requires an id or label", len(form.Sections))
		}
		if _, exists := index[id]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicateSection, id)
		}
		section.ID = id
		section.Label = sanitizeText(section.Label)
		section.Description = sanitizeRichText(section.Description)
		for i := range section.Fields {
			if section.Fields[i].Group == "" {
				section.Fields[i].Group = id
			}
		}
		index[id] = len(form.Sections)
		form.Sections = append(form.Sections, section)
		return nil
	}

	for _, section := range append(append([]Section(nil), w.Sections...), w.Groups...) {
		if err := addSection(section); err != nil {
			return Form{}, err
		}
	}

	for _, name := range w.Fragments {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		section, ok := LookupFragment(name)
		if !ok {
			return Form{}, fmt.Errorf("%w: %q", ErrUnknownFragment, name)
		}
		// serialized forms carry the expanded section next to its name
		if _, declared := index[section.ID]; declared {
			form.Fragments = append(form.Fragments, name)
			continue
		}
		if err := addSection(section); err != nil {
			return Form{}, err
		}
		form.Fragments = append(form.Fragments, name)
	}

	for _, field := range w.Fields {
		group := strings.TrimSpace(field.Group)
		if group == "" {
			form.Fields = append(form.Fields, field)
			continue
		}
		pos, ok := index[group]
		if !ok {
			if err := addSection(Section{ID: group, Label: group}); err != nil {
				return Form{}, err
			}
			pos = index[group]
		}
		field.Group = group
		form.Sections[pos].Fields = append(form.Sections[pos].Fields, field)
	}

	seen := make(map[string]struct{})
	check := func(fields []Field) error {
		for i := range fields {
			field := &fields[i]
			if field.Name == "" {
				return fmt.Errorf("%w (label %q)", ErrMissingFieldName, field.Label)
			}
			if _, dup := seen[field.Name]; dup {
				return fmt.Errorf("%w: %q", ErrDuplicateField, field.Name)
			}
			seen[field.Name] = struct{}{}
			sanitizeField(field)
		}
		return nil
	}
	for i := range form.Sections {
		if err := check(form.Sections[i].Fields); err != nil {
			return Form{}, err
		}
	}
	if err := check(form.Fields); err != nil {
		return Form{}, err
	}

	return form, nil
}

func yamlToJSON(raw []byte) ([]byte, error) {
	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return json.Marshal(stringKeys(generic))
}

// stringKeys converts map[any]any nodes (YAML mappings with non-string keys)
// into JSON-compatible maps.
func stringKeys(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = stringKeys(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = stringKeys(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = stringKeys(item)
		}
		return out
	default:
		return v
	}
}

func slug(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return ""
	}
	var b strings.Builder
	lastUnderscore := false
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.Trim(b.String(), "_")
}
