package validation

import (
	"fmt"
	"strings"
)

// Kind classifies a validation failure.
type Kind string

const (
	KindRequired      Kind = "required"
	KindMin           Kind = "min"
	KindMax           Kind = "max"
	KindInvalidType   Kind = "invalid_type"
	KindInvalidOption Kind = "invalid_option"
	KindInvalidSymbol Kind = "invalid_symbol"
	KindEmptyArray    Kind = "empty_array"
	KindMinLength     Kind = "min_length"
	KindMaxLength     Kind = "max_length"
	KindPattern       Kind = "pattern"
	KindMinItems      Kind = "min_items"
	KindMaxItems      Kind = "max_items"
)

// Issue is a single field failure. Params carry the values referenced by the
// message (bounds, expected type) so callers can render their own text.
type Issue struct {
	Field   string         `json:"field"`
	Kind    Kind           `json:"kind"`
	Message string         `json:"message"`
	Params  map[string]any `json:"params,omitempty"`
}

func (i Issue) Error() string {
	return fmt.Sprintf("validation: %s: %s", i.Field, i.Message)
}

// MessageFunc renders the human readable text for an issue. label is the
// field's display label.
type MessageFunc func(kind Kind, label string, params map[string]any) string

// DefaultMessage renders English messages.
func DefaultMessage(kind Kind, label string, params map[string]any) string {
	switch kind {
	case KindRequired:
		return fmt.Sprintf("%s is required", label)
	case KindEmptyArray:
		return fmt.Sprintf("Select at least one %s", strings.ToLower(label))
	case KindMin:
		return fmt.Sprintf("%s must be at least %v", label, params["min"])
	case KindMax:
		return fmt.Sprintf("%s must be at most %v", label, params["max"])
	case KindInvalidType:
		return fmt.Sprintf("%s must be a valid %v", label, params["expected"])
	case KindInvalidOption:
		return fmt.Sprintf("%s has an invalid option: %v", label, params["value"])
	case KindInvalidSymbol:
		return fmt.Sprintf("%s must be a valid symbol", label)
	case KindMinLength:
		return fmt.Sprintf("%s must be at least %v characters", label, params["min_length"])
	case KindMaxLength:
		return fmt.Sprintf("%s must be at most %v characters", label, params["max_length"])
	case KindPattern:
		return fmt.Sprintf("%s has an invalid format", label)
	case KindMinItems:
		return fmt.Sprintf("Select at least %v items for %s", params["min_items"], label)
	case KindMaxItems:
		return fmt.Sprintf("Select at most %v items for %s", params["max_items"], label)
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}
