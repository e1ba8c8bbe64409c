package render

import "github.com/goliatone/go-sdui/pkg/schema"

// CollapseState tracks which groups are collapsed. It is local display state
// and never affects values or validation.
type CollapseState struct {
	collapsed map[string]bool
}

// NewCollapseState seeds the state from each section's collapsed flag.
func NewCollapseState(form schema.Form) *CollapseState {
	state := &CollapseState{collapsed: make(map[string]bool, len(form.Sections))}
	for _, section := range form.Sections {
		state.collapsed[section.ID] = section.Collapsed
	}
	return state
}

// Collapsed reports the state of group id. Unknown groups are expanded.
func (c *CollapseState) Collapsed(id string) bool {
	if c == nil {
		return false
	}
	return c.collapsed[id]
}

// Toggle flips group id and returns the new state.
func (c *CollapseState) Toggle(id string) bool {
	if c.collapsed == nil {
		c.collapsed = make(map[string]bool)
	}
	c.collapsed[id] = !c.collapsed[id]
	return c.collapsed[id]
}

// Set forces the state of group id.
func (c *CollapseState) Set(id string, collapsed bool) {
	if c.collapsed == nil {
		c.collapsed = make(map[string]bool)
	}
	c.collapsed[id] = collapsed
}
