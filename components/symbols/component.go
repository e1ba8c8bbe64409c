package symbols

import (
	"context"
	"net/http"

	"github.com/goliatone/go-sdui/pkg/symbolsearch"
)

// Component bundles the catalog, its options and routing helpers. It also
// satisfies symbolsearch.Searcher so in-process callers can skip HTTP.
type Component struct {
	opts Options
}

var _ symbolsearch.Searcher = (*Component)(nil)

// New constructs a component with default options plus any overrides.
func New(fns ...OptionFn) *Component {
	return &Component{opts: NewOptions(fns...)}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Handler returns the GET /search handler.
func (c *Component) Handler() http.Handler {
	return HandlerWithOptions(c.Options())
}

// RegisterRoutes registers the handler under basePath on mux.
func (c *Component) RegisterRoutes(mux Mux, basePath string) (string, error) {
	return RegisterRoutesWithOptions(mux, basePath, c.Options())
}

// Search queries the catalog directly. Catalog load failures are logged and
// yield an empty slice.
func (c *Component) Search(_ context.Context, query string, limit int) []symbolsearch.Symbol {
	opts := c.Options()
	catalog, err := catalogFor(opts)
	if err != nil {
		opts.Logger.WithError(err).Warn("symbols: catalog unavailable")
		return []symbolsearch.Symbol{}
	}
	results, _ := Search(catalog, query, limit, opts)
	if results == nil {
		return []symbolsearch.Symbol{}
	}
	return results
}
