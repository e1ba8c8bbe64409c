// Package render holds the renderer-agnostic half of form display: which
// fields are visible and in what order (Layout), what each widget shows
// (EffectiveValue), how raw widget input becomes typed values (ParseNumber,
// ParseBool, OptionCodec) and what is finally submitted (Submission).
//
// Concrete output formats implement Renderer in pkg/renderers.
package render
