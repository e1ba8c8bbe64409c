package render

import (
	"net/url"
	"strings"

	"github.com/goliatone/go-sdui/pkg/schema"
)

// FormValues turns a posted HTML form back into typed values. Keys that
// match no field are ignored and blank inputs are left out so defaults and
// required checks apply. List fields accept both the "name[]" checkbox
// spelling and a single comma separated input.
func FormValues(form schema.Form, posted url.Values) map[string]any {
	codec := OptionCodec{}
	values := make(map[string]any)
	for _, field := range form.AllFields() {
		raw, ok := posted[field.Name]
		list, listed := posted[field.Name+"[]"]
		if !ok && !listed {
			continue
		}
		last := ""
		if len(raw) > 0 {
			last = raw[len(raw)-1]
		}

		switch kind := field.Kind(); {
		case kind == schema.TypeBoolean:
			values[field.Name] = ParseBool(last)
		case field.Type.IsNumeric():
			if strings.TrimSpace(last) == "" {
				continue
			}
			values[field.Name] = ParseNumber(field, last)
		case field.Type.IsMulti():
			if !listed {
				list = splitFormList(last)
			}
			items := make([]any, 0, len(list))
			for _, item := range list {
				if item = strings.TrimSpace(item); item == "" {
					continue
				}
				if kind == schema.TypeSymbols && len(field.Options()) == 0 {
					items = append(items, item)
					continue
				}
				items = append(items, codec.DecodeFor(field, item))
			}
			values[field.Name] = items
		case kind == schema.TypeSelect:
			if last == "" {
				continue
			}
			values[field.Name] = codec.DecodeFor(field, last)
		case kind == schema.TypeSymbol:
			if last = strings.TrimSpace(last); last != "" {
				values[field.Name] = last
			}
		default:
			values[field.Name] = last
		}
	}
	return values
}

func splitFormList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return strings.Split(raw, ",")
}
