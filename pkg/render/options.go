package render

import "github.com/goliatone/go-sdui/pkg/validation"

// RenderOptions carry per-request state into a Renderer.
type RenderOptions struct {
	// Values are the current form values. Fields without a value display
	// their default.
	Values map[string]any
	// Result, when set, attaches validation issues to the rendered items.
	Result *validation.Result
	// Errors carry server-side messages keyed by field name, typically from
	// MapErrorPayload. They are shown alongside Result issues.
	Errors map[string][]string
	// FormErrors are shown above the form.
	FormErrors []string
	// Collapse overrides the sections' collapsed flags.
	Collapse *CollapseState
	// Hidden inputs emitted with the form (CSRF tokens, versions).
	Hidden []HiddenField
	// Action and Method of the HTML form element.
	Action string
	Method string
	// Locale and Translator localise labels and messages.
	Locale     string
	Translator Translator
}

// LayoutOptions returns the layout options implied by o.
func (o RenderOptions) LayoutOptions() []LayoutOption {
	if o.Result == nil {
		return nil
	}
	return []LayoutOption{WithResult(*o.Result)}
}
