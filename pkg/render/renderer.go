package render

import (
	"context"

	"github.com/goliatone/go-sdui/pkg/schema"
)

// Renderer draws a form for one output medium (HTML, terminal text).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form schema.Form, options RenderOptions) ([]byte, error)
}
