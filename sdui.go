// Package sdui is the top-level entry point for server-driven forms: load a
// schema, validate values against it and render it.
package sdui

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-sdui/pkg/render"
	"github.com/goliatone/go-sdui/pkg/renderers/html"
	"github.com/goliatone/go-sdui/pkg/schema"
	"github.com/goliatone/go-sdui/pkg/server"
	"github.com/goliatone/go-sdui/pkg/validation"
)

// Form aliases schema.Form.
type Form = schema.Form

// RenderOptions aliases render.RenderOptions so callers configuring a render
// need not import pkg/render.
type RenderOptions = render.RenderOptions

// FieldSubset aliases render.FieldSubset for partial rendering by section or
// field.
type FieldSubset = render.FieldSubset

// Result aliases validation.Result.
type Result = validation.Result

// LoadSchema parses a JSON or YAML schema file.
func LoadSchema(path string) (Form, error) {
	return schema.LoadFile(path)
}

// ParseSchema parses an in-memory JSON or YAML schema document.
func ParseSchema(raw []byte) (Form, error) {
	return schema.ParseBytes(raw)
}

// LoadStore parses every schema file under fsys.
func LoadStore(fsys fs.FS) (*schema.Store, error) {
	return schema.LoadFS(fsys)
}

// Validate checks values against every active field of form.
func Validate(form Form, values map[string]any) Result {
	return validation.ValidateForm(form, values)
}

// Submission returns the values of the fields that are currently active.
func Submission(form Form, values map[string]any) map[string]any {
	return render.Submission(form, values)
}

// RenderHTML lays the form out and renders it with the built-in HTML
// templates.
func RenderHTML(ctx context.Context, form Form, opts RenderOptions, options ...html.Option) ([]byte, error) {
	renderer, err := html.New(options...)
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, form, opts)
}

// EmbeddedTemplates exposes the built-in HTML templates so callers can copy
// or extend them.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}

// NewServer builds the HTTP surface over store.
func NewServer(store *schema.Store, options ...server.Option) (*server.Server, error) {
	return server.New(store, options...)
}
