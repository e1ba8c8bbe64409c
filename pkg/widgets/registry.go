package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-sdui/pkg/schema"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetNumber         = "number"
	WidgetInteger        = "integer"
	WidgetToggle         = "toggle"
	WidgetSelect         = "select"
	WidgetMultiSelect    = "multi-select"
	WidgetRange          = "range"
	WidgetSymbolPicker   = "symbol-picker"
	WidgetSymbolMulti    = "symbol-multi"
	WidgetCategoryGroup  = "category-group"
	WidgetTimeframeMulti = "timeframe-multi"
	WidgetText           = "text"
)

// Matcher decides whether a widget should render the supplied field.
type Matcher func(field schema.Field) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widgets for fields based on explicit hints or registered
// matchers. Higher priority wins; ties fall back to registration order.
// Fields no matcher claims render as WidgetText.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in widget matchers
// registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the shared registry holding the built-in matchers.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Register adds a widget matcher with the provided name and priority. Higher
// priority values take precedence.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget name for a field. An explicit widget on the
// field (or in its metadata) is honoured before matcher evaluation.
func (r *Registry) Resolve(field schema.Field) string {
	if explicit := explicitWidget(field); explicit != "" {
		return explicit
	}
	if r == nil {
		return WidgetText
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name
		}
	}
	return WidgetText
}

func explicitWidget(field schema.Field) string {
	if widget := strings.TrimSpace(field.Widget); widget != "" {
		return widget
	}
	if field.Metadata != nil {
		return strings.TrimSpace(field.Metadata["widget"])
	}
	return ""
}

func typeIs(types ...schema.FieldType) Matcher {
	return func(field schema.Field) bool {
		tag := field.Type.Normalize()
		for _, typ := range types {
			if tag == typ {
				return true
			}
		}
		return false
	}
}

// registerBuiltins maps dialect tags first so range and category groups keep
// their specific widgets over the canonical kind they lower to.
func (r *Registry) registerBuiltins() {
	r.Register(WidgetRange, 100, typeIs(schema.TypeRange))
	r.Register(WidgetCategoryGroup, 100, typeIs(schema.TypeSymbolCategoryGroup))
	r.Register(WidgetTimeframeMulti, 100, typeIs(schema.TypeMultiTimeframe))

	r.Register(WidgetToggle, 90, func(field schema.Field) bool {
		return field.Kind() == schema.TypeBoolean
	})
	r.Register(WidgetSymbolPicker, 80, func(field schema.Field) bool {
		return field.Kind() == schema.TypeSymbol
	})
	r.Register(WidgetSymbolMulti, 80, func(field schema.Field) bool {
		return field.Kind() == schema.TypeSymbols
	})
	r.Register(WidgetMultiSelect, 70, func(field schema.Field) bool {
		return field.Kind() == schema.TypeMultiSelect
	})
	r.Register(WidgetSelect, 70, func(field schema.Field) bool {
		return field.Kind() == schema.TypeSelect
	})
	r.Register(WidgetInteger, 60, func(field schema.Field) bool {
		return field.Kind() == schema.TypeInteger
	})
	r.Register(WidgetNumber, 60, func(field schema.Field) bool {
		return field.Kind() == schema.TypeNumber
	})
}
