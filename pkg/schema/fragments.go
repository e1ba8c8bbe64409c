package schema

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-sdui/pkg/condition"
)

// FragmentExitConfig is the shared stop-loss / take-profit / trailing-stop
// block every strategy form can include.
const FragmentExitConfig = "risk.exit_config"

// FragmentFunc builds a fresh section each time a form references it.
type FragmentFunc func() Section

var (
	fragmentsMu sync.RWMutex
	fragments   = map[string]FragmentFunc{
		FragmentExitConfig: exitConfigSection,
	}
)

// RegisterFragment makes a reusable section available to forms through the
// `fragments` list. Later registrations replace earlier ones.
func RegisterFragment(name string, fn FragmentFunc) {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return
	}
	fragmentsMu.Lock()
	defer fragmentsMu.Unlock()
	fragments[name] = fn
}

// LookupFragment builds the named fragment section.
func LookupFragment(name string) (Section, bool) {
	fragmentsMu.RLock()
	fn, ok := fragments[strings.TrimSpace(name)]
	fragmentsMu.RUnlock()
	if !ok {
		return Section{}, false
	}
	return fn(), true
}

// Fragments lists registered fragment names.
func Fragments() []string {
	fragmentsMu.RLock()
	defer fragmentsMu.RUnlock()
	names := make([]string, 0, len(fragments))
	for name := range fragments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func exitConfigSection() Section {
	when := func(field string) *condition.Condition {
		return condition.FromPredicate(condition.Predicate{Field: field, Operator: condition.OpEquals, Value: true})
	}
	return Section{
		ID:          "exit_config",
		Label:       "Exit settings",
		Description: "Stop loss, take profit and trailing stop applied to every position.",
		Order:       900,
		Collapsed:   true,
		Fields: []Field{
			{Name: "stop_loss_enabled", Type: TypeBoolean, Label: "Stop loss", Default: true, Order: 1},
			{
				Name: "stop_loss_pct", Type: TypeNumber, Label: "Stop loss (%)", Default: 2.0, Required: true, Order: 2,
				Numeric:   &NumericConstraints{Min: ptr(0.1), Max: ptr(50.0), Step: ptr(0.1)},
				Condition: when("stop_loss_enabled"),
			},
			{Name: "take_profit_enabled", Type: TypeBoolean, Label: "Take profit", Default: true, Order: 3},
			{
				Name: "take_profit_pct", Type: TypeNumber, Label: "Take profit (%)", Default: 4.0, Required: true, Order: 4,
				Numeric:   &NumericConstraints{Min: ptr(0.1), Max: ptr(100.0), Step: ptr(0.1)},
				Condition: when("take_profit_enabled"),
			},
			{Name: "trailing_stop_enabled", Type: TypeBoolean, Label: "Trailing stop", Default: false, Order: 5},
			{
				Name: "trailing_trigger_pct", Type: TypeNumber, Label: "Trailing trigger (%)", Default: 2.0, Required: true, Order: 6,
				Description: "Profit level that arms the trailing stop.",
				Numeric:     &NumericConstraints{Min: ptr(0.1), Max: ptr(50.0), Step: ptr(0.1)},
				Condition:   when("trailing_stop_enabled"),
			},
			{
				Name: "trailing_stop_pct", Type: TypeNumber, Label: "Trailing distance (%)", Default: 1.0, Required: true, Order: 7,
				Numeric:   &NumericConstraints{Min: ptr(0.1), Max: ptr(50.0), Step: ptr(0.1)},
				Condition: when("trailing_stop_enabled"),
			},
			{Name: "exit_on_opposite_signal", Type: TypeBoolean, Label: "Exit on opposite signal", Default: true, Order: 8},
		},
	}
}

func exitPreset(stopLoss bool, stopLossPct float64, takeProfit bool, takeProfitPct float64, trailing bool, trigger, distance float64, opposite bool) map[string]any {
	return map[string]any{
		"stop_loss_enabled":       stopLoss,
		"stop_loss_pct":           stopLossPct,
		"take_profit_enabled":     takeProfit,
		"take_profit_pct":         takeProfitPct,
		"trailing_stop_enabled":   trailing,
		"trailing_trigger_pct":    trigger,
		"trailing_stop_pct":       distance,
		"exit_on_opposite_signal": opposite,
	}
}

var exitPresets = map[string]map[string]any{
	"day_trading":    exitPreset(true, 2.0, true, 4.0, false, 2.0, 1.0, true),
	"mean_reversion": exitPreset(true, 3.0, true, 6.0, false, 3.0, 1.5, true),
	"grid_trading":   exitPreset(false, 10.0, true, 3.0, false, 2.0, 1.0, false),
	"rebalancing":    exitPreset(false, 15.0, false, 30.0, false, 5.0, 2.0, false),
	"leverage":       exitPreset(true, 5.0, true, 10.0, true, 5.0, 2.0, true),
	"momentum":       exitPreset(true, 5.0, true, 15.0, true, 8.0, 3.0, true),
}

// ExitPresets lists the preset names accepted by ExitPreset.
func ExitPresets() []string {
	names := make([]string, 0, len(exitPresets))
	for name := range exitPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExitPreset returns a copy of the named exit-config value preset.
func ExitPreset(name string) (map[string]any, bool) {
	preset, ok := exitPresets[strings.TrimSpace(name)]
	if !ok {
		return nil, false
	}
	out := make(map[string]any, len(preset))
	for key, value := range preset {
		out[key] = value
	}
	return out, true
}

func ptr[T any](v T) *T {
	return &v
}
