package html

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-sdui/pkg/render"
	"github.com/goliatone/go-sdui/pkg/schema"
	"github.com/goliatone/go-sdui/pkg/widgets"
)

const formTemplate = "form.html"

// Option configures the HTML renderer.
type Option func(*config)

type config struct {
	templateFS fs.FS
	widgets    *widgets.Registry
	policy     *bluemonday.Policy
	searchPath string
}

// WithTemplatesFS supplies an alternate template bundle. It must contain
// form.html and field.html at its root.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithWidgets overrides the widget registry.
func WithWidgets(registry *widgets.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.widgets = registry
		}
	}
}

// WithPolicy overrides the sanitising policy applied to descriptions.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithSearchPath sets the symbol search endpoint advertised to symbol
// inputs through data-symbol-search.
func WithSearchPath(path string) Option {
	return func(cfg *config) {
		cfg.searchPath = path
	}
}

// Renderer draws forms as HTML fragments.
type Renderer struct {
	engine *engine
	cfg    config
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		widgets:    widgets.Default(),
		policy:     bluemonday.UGCPolicy(),
		searchPath: "/search",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	engine, err := newEngine(cfg.templateFS)
	if err != nil {
		return nil, err
	}
	return &Renderer{engine: engine, cfg: cfg}, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "html"
}

// ContentType reports the media type of Render output.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render lays the form out against opts.Values and executes form.html.
// Validation issues from opts.Result and messages in opts.Errors are shown
// inline; hidden fields are never emitted.
func (r *Renderer) Render(ctx context.Context, form schema.Form, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("html: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Translator != nil {
		form = render.Localize(form, opts.Locale, opts.Translator)
	}

	layoutOptions := append(opts.LayoutOptions(), render.WithWidgets(r.cfg.widgets))
	layout := render.Layout(form, opts.Values, opts.Collapse, layoutOptions...)

	builder := viewBuilder{
		policy:     r.cfg.policy,
		searchPath: r.cfg.searchPath,
		errors:     opts.Errors,
	}
	return r.engine.execute(formTemplate, pongo2.Context{
		"form": builder.form(layout, opts),
	})
}
