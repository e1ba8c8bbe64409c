package html

import (
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-sdui/pkg/condition"
	"github.com/goliatone/go-sdui/pkg/render"
	"github.com/goliatone/go-sdui/pkg/schema"
	"github.com/goliatone/go-sdui/pkg/validation"
	"github.com/goliatone/go-sdui/pkg/widgets"
)

// Control names select the markup branch in field.html.
const (
	controlInput      = "input"
	controlToggle     = "toggle"
	controlSelect     = "select"
	controlCheckboxes = "checkboxes"
	controlRange      = "range"
	controlTextarea   = "textarea"
)

type formView struct {
	ID          string
	Name        string
	Description string
	Action      string
	Method      string
	SearchPath  string
	Hidden      []render.HiddenField
	FormErrors  []string
	Groups      []groupView
	Ungrouped   []fieldView
}

type groupView struct {
	ID          string
	Label       string
	Description string
	Collapsed   bool
	Fields      []fieldView
}

type fieldView struct {
	Name        string
	ID          string
	Label       string
	Description string
	Placeholder string
	Widget      string
	Control     string
	InputType   string
	Value       string
	Required    bool
	Checked     bool
	Multiple    bool
	Search      string
	Min         string
	Max         string
	Step        string
	MinLength   string
	MaxLength   string
	Pattern     string
	Options     []optionView
	Errors      []string
}

type optionView struct {
	Value    string
	Label    string
	Selected bool
}

type viewBuilder struct {
	policy     *bluemonday.Policy
	searchPath string
	errors     map[string][]string
	codec      render.OptionCodec
}

func (b viewBuilder) form(layout render.FormLayout, opts render.RenderOptions) formView {
	view := formView{
		ID:          layout.FormID,
		Name:        layout.Name,
		Description: b.policy.Sanitize(layout.Description),
		Action:      opts.Action,
		Method:      strings.ToLower(firstNonEmpty(opts.Method, "post")),
		SearchPath:  b.searchPath,
		Hidden:      render.SortedHidden(opts.Hidden),
		FormErrors:  opts.FormErrors,
	}
	for _, group := range layout.Groups {
		gv := groupView{
			ID:          group.ID,
			Label:       group.Label,
			Description: b.policy.Sanitize(group.Description),
			Collapsed:   group.Collapsed,
		}
		for _, item := range group.Items {
			gv.Fields = append(gv.Fields, b.field(item))
		}
		view.Groups = append(view.Groups, gv)
	}
	for _, item := range layout.Ungrouped {
		view.Ungrouped = append(view.Ungrouped, b.field(item))
	}
	return view
}

func (b viewBuilder) field(item render.Item) fieldView {
	field := item.Field
	view := fieldView{
		Name:        field.Name,
		ID:          "sdui-" + field.Name,
		Label:       field.DisplayLabel(),
		Description: b.policy.Sanitize(field.Description),
		Placeholder: field.Placeholder,
		Widget:      item.Widget,
		Control:     controlInput,
		InputType:   "text",
		Required:    field.Required,
		Errors:      b.messages(item),
	}

	switch item.Widget {
	case widgets.WidgetToggle:
		view.Control = controlToggle
		view.Checked, _ = item.Value.(bool)
	case widgets.WidgetSelect:
		view.Control = controlSelect
		view.Options = b.options(field.Options(), item.Value)
	case widgets.WidgetMultiSelect, widgets.WidgetTimeframeMulti:
		view.Control = controlCheckboxes
		view.Options = b.options(field.Options(), item.Value)
	case widgets.WidgetCategoryGroup:
		if len(field.Options()) > 0 {
			view.Control = controlCheckboxes
			view.Options = b.options(field.Options(), item.Value)
			break
		}
		b.symbolInput(&view, item.Value, true)
	case widgets.WidgetSymbolPicker:
		b.symbolInput(&view, item.Value, false)
	case widgets.WidgetSymbolMulti:
		b.symbolInput(&view, item.Value, true)
	case widgets.WidgetRange, widgets.WidgetNumber, widgets.WidgetInteger:
		view.InputType = "number"
		if item.Widget == widgets.WidgetRange {
			view.Control = controlRange
			view.InputType = "range"
		}
		view.Value = scalar(item.Value)
		if field.Numeric != nil {
			view.Min = floatAttr(field.Numeric.Min)
			view.Max = floatAttr(field.Numeric.Max)
			view.Step = floatAttr(field.Numeric.Step)
		}
		if view.Step == "" {
			view.Step = "any"
			if field.Kind() == schema.TypeInteger {
				view.Step = "1"
			}
		}
	case "textarea":
		view.Control = controlTextarea
		view.Value = scalar(item.Value)
		b.textAttrs(&view, field)
	default:
		view.Value = scalar(item.Value)
		b.textAttrs(&view, field)
	}
	return view
}

func (b viewBuilder) symbolInput(view *fieldView, value any, multiple bool) {
	view.InputType = "search"
	view.Search = b.searchPath
	view.Multiple = multiple
	if multiple {
		view.Value = joined(value)
		return
	}
	view.Value = scalar(value)
}

func (b viewBuilder) textAttrs(view *fieldView, field schema.Field) {
	if field.Text == nil {
		return
	}
	view.MinLength = intAttr(field.Text.MinLength)
	view.MaxLength = intAttr(field.Text.MaxLength)
	view.Pattern = field.Text.Pattern
}

func (b viewBuilder) options(options []schema.Option, current any) []optionView {
	selected := make(map[string]bool)
	if list, ok := condition.List(current); ok {
		for _, value := range list {
			selected[validation.Stringify(value)] = true
		}
	} else if current != nil {
		selected[validation.Stringify(current)] = true
	}

	out := make([]optionView, 0, len(options))
	for _, option := range options {
		out = append(out, optionView{
			Value:    b.codec.Encode(option.Value),
			Label:    firstNonEmpty(option.Label, validation.Stringify(option.Value)),
			Selected: selected[validation.Stringify(option.Value)],
		})
	}
	return out
}

// messages merges the validation issue with server-side errors, dropping
// duplicates.
func (b viewBuilder) messages(item render.Item) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(message string) {
		message = strings.TrimSpace(message)
		if message == "" || seen[message] {
			return
		}
		seen[message] = true
		out = append(out, message)
	}
	if item.Issue != nil {
		add(item.Issue.Message)
	}
	for _, message := range b.errors[item.Field.Name] {
		add(message)
	}
	return out
}

func scalar(value any) string {
	if value == nil {
		return ""
	}
	return validation.Stringify(value)
}

func joined(value any) string {
	list, ok := condition.List(value)
	if !ok {
		return scalar(value)
	}
	parts := make([]string, 0, len(list))
	for _, item := range list {
		parts = append(parts, validation.Stringify(item))
	}
	return strings.Join(parts, ", ")
}

func floatAttr(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

func intAttr(value *int) string {
	if value == nil {
		return ""
	}
	return strconv.Itoa(*value)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
