package render

import (
	"strings"

	"github.com/goliatone/go-sdui/pkg/schema"
)

// FieldSubset narrows a form to some sections and/or fields. Tokens are
// matched case-insensitively.
type FieldSubset struct {
	Sections []string
	Fields   []string
}

// Empty reports whether the subset selects nothing, meaning "everything".
func (s FieldSubset) Empty() bool {
	return len(tokens(s.Sections)) == 0 && len(tokens(s.Fields)) == 0
}

// ParseSubset reads comma separated lists such as "indicator,exit_config".
func ParseSubset(sections, fields string) FieldSubset {
	return FieldSubset{Sections: splitList(sections), Fields: splitList(fields)}
}

// ApplySubset returns a copy of form keeping the selected sections (whole)
// and the selected fields wherever they live. Sections left without fields
// are dropped. An empty subset returns form unchanged.
func ApplySubset(form schema.Form, subset FieldSubset) schema.Form {
	sections := tokens(subset.Sections)
	fields := tokens(subset.Fields)
	if len(sections) == 0 && len(fields) == 0 {
		return form
	}

	keep := func(field schema.Field) bool {
		_, ok := fields[normaliseToken(field.Name)]
		return ok
	}

	out := form
	out.Sections = nil
	for _, section := range form.Sections {
		if _, whole := sections[normaliseToken(section.ID)]; whole {
			out.Sections = append(out.Sections, section)
			continue
		}
		var picked []schema.Field
		for _, field := range section.Fields {
			if keep(field) {
				picked = append(picked, field)
			}
		}
		if len(picked) == 0 {
			continue
		}
		section.Fields = picked
		out.Sections = append(out.Sections, section)
	}

	out.Fields = nil
	for _, field := range form.Fields {
		if keep(field) {
			out.Fields = append(out.Fields, field)
		}
	}

	kept := make(map[string]struct{}, len(out.Sections))
	for _, section := range out.Sections {
		kept[section.ID] = struct{}{}
	}
	out.Fragments = nil
	for _, name := range form.Fragments {
		section, ok := schema.LookupFragment(name)
		if !ok {
			continue
		}
		if _, ok := kept[section.ID]; ok {
			out.Fragments = append(out.Fragments, name)
		}
	}
	return out
}

func tokens(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, value := range values {
		if token := normaliseToken(value); token != "" {
			out[token] = struct{}{}
		}
	}
	return out
}

func normaliseToken(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
