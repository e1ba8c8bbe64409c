package render

import (
	"sort"

	"github.com/goliatone/go-sdui/pkg/condition"
	"github.com/goliatone/go-sdui/pkg/schema"
	"github.com/goliatone/go-sdui/pkg/validation"
	"github.com/goliatone/go-sdui/pkg/widgets"
)

// Item is one visible field ready for a widget.
type Item struct {
	Field  schema.Field      `json:"field"`
	Value  any               `json:"value"`
	Widget string            `json:"widget"`
	Issue  *validation.Issue `json:"issue,omitempty"`
}

// Group is a section with its visible items.
type Group struct {
	ID          string `json:"id"`
	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
	Collapsed   bool   `json:"collapsed"`
	Items       []Item `json:"items"`
}

// FormLayout is what a renderer draws: ordered groups followed by ungrouped
// items. Hidden fields never appear.
type FormLayout struct {
	FormID      string  `json:"form_id,omitempty"`
	Name        string  `json:"name,omitempty"`
	Description string  `json:"description,omitempty"`
	Groups      []Group `json:"groups"`
	Ungrouped   []Item  `json:"ungrouped"`
}

// Items returns every item in display order.
func (l FormLayout) Items() []Item {
	var out []Item
	for _, group := range l.Groups {
		out = append(out, group.Items...)
	}
	return append(out, l.Ungrouped...)
}

// LayoutOption customises Layout.
type LayoutOption func(*layoutConfig)

type layoutConfig struct {
	evaluator *condition.Evaluator
	widgets   *widgets.Registry
	result    *validation.Result
	keepEmpty bool
}

// WithEvaluator sets the condition evaluator used for visibility.
func WithEvaluator(evaluator *condition.Evaluator) LayoutOption {
	return func(cfg *layoutConfig) {
		if evaluator != nil {
			cfg.evaluator = evaluator
		}
	}
}

// WithWidgets sets the widget registry.
func WithWidgets(registry *widgets.Registry) LayoutOption {
	return func(cfg *layoutConfig) {
		if registry != nil {
			cfg.widgets = registry
		}
	}
}

// WithResult attaches the issues of a validation pass to the items.
func WithResult(result validation.Result) LayoutOption {
	return func(cfg *layoutConfig) {
		cfg.result = &result
	}
}

// WithEmptyGroups keeps groups whose fields are all hidden.
func WithEmptyGroups() LayoutOption {
	return func(cfg *layoutConfig) {
		cfg.keepEmpty = true
	}
}

// Layout partitions the active fields of form into groups and ungrouped
// items. Sections are ordered by Order then declaration; fields inside a
// group and ungrouped fields by Order then declaration. A nil collapse uses
// each section's collapsed flag.
func Layout(form schema.Form, values map[string]any, collapse *CollapseState, options ...LayoutOption) FormLayout {
	cfg := layoutConfig{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.evaluator == nil {
		cfg.evaluator = condition.New()
	}
	if cfg.widgets == nil {
		cfg.widgets = widgets.Default()
	}

	out := FormLayout{
		FormID:      form.ID,
		Name:        form.Name,
		Description: form.Description,
		Groups:      []Group{},
		Ungrouped:   []Item{},
	}

	sections := append([]schema.Section(nil), form.Sections...)
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Order < sections[j].Order
	})

	for _, section := range sections {
		items := cfg.items(section.Fields, values)
		if len(items) == 0 && !cfg.keepEmpty {
			continue
		}
		collapsed := section.Collapsed
		if collapse != nil {
			collapsed = collapse.Collapsed(section.ID)
		}
		out.Groups = append(out.Groups, Group{
			ID:          section.ID,
			Label:       firstLabel(section.Label, section.ID),
			Description: section.Description,
			Collapsed:   collapsed,
			Items:       items,
		})
	}
	out.Ungrouped = cfg.items(form.Fields, values)
	return out
}

func (cfg layoutConfig) items(fields []schema.Field, values map[string]any) []Item {
	ordered := append([]schema.Field(nil), fields...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Order < ordered[j].Order
	})

	items := make([]Item, 0, len(ordered))
	for _, field := range ordered {
		if !active(cfg.evaluator, field, values) {
			continue
		}
		item := Item{
			Field:  field,
			Value:  EffectiveValue(field, values),
			Widget: cfg.widgets.Resolve(field),
		}
		if cfg.result != nil {
			if issue, ok := cfg.result.Issue(field.Name); ok {
				item.Issue = &issue
			}
		}
		items = append(items, item)
	}
	return items
}

func firstLabel(label, id string) string {
	if label != "" {
		return label
	}
	return id
}
