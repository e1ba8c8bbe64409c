package tui

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/goliatone/go-sdui/pkg/validation"
)

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(encodeForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		out, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: encode submission: %w", err)
		}
		return out, nil
	}
}

// encodeForm writes list values as repeated `name[]` keys.
func encodeForm(values map[string]any) string {
	form := url.Values{}
	for key, value := range values {
		switch v := value.(type) {
		case []any:
			for _, item := range v {
				form.Add(key+"[]", validation.Stringify(item))
			}
		default:
			form.Set(key, validation.Stringify(v))
		}
	}
	return form.Encode()
}

// prettyPrint writes one `name = value` line per field, sorted by name.
func prettyPrint(values map[string]any) string {
	keys := make([]string, 0, len(values))
	width := 0
	for key := range values {
		keys = append(keys, key)
		if len(key) > width {
			width = len(key)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%-*s = %s\n", width, key, prettyValue(values[key]))
	}
	return b.String()
}

func prettyValue(value any) string {
	if list, ok := value.([]any); ok {
		parts := make([]string, len(list))
		for i, item := range list {
			parts[i] = validation.Stringify(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return validation.Stringify(value)
}
