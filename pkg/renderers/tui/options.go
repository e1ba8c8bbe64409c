package tui

import (
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-sdui/pkg/symbolsearch"
	"github.com/goliatone/go-sdui/pkg/validation"
)

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme holds message prefixes applied by the renderer.
type Theme struct {
	SectionPrefix string
	ErrorPrefix   string
}

// DefaultTheme is used unless WithTheme overrides it.
var DefaultTheme = Theme{SectionPrefix: "== ", ErrorPrefix: "! "}

// SubmitTransformer mutates collected values before serialization.
type SubmitTransformer func(map[string]any) (map[string]any, error)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithSearcher enables symbol lookups for symbol fields. Without one, the
// typed ticker is taken as is.
func WithSearcher(searcher symbolsearch.Searcher) Option {
	return func(r *Renderer) {
		r.searcher = searcher
	}
}

// WithSearchLimit caps the number of symbol matches offered.
func WithSearchLimit(limit int) Option {
	return func(r *Renderer) {
		if limit > 0 {
			r.searchLimit = limit
		}
	}
}

// WithValidator overrides the validator used for per-answer checks.
func WithValidator(validator *validation.Validator) Option {
	return func(r *Renderer) {
		if validator != nil {
			r.validator = validator
		}
	}
}

// WithLogger overrides the renderer logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithSubmitTransformer allows callers to mutate collected values prior to
// serialization.
func WithSubmitTransformer(fn SubmitTransformer) Option {
	return func(r *Renderer) {
		r.submitTransformer = fn
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
