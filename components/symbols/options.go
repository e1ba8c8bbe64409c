package symbols

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-sdui/pkg/symbolsearch"
)

// GuardFunc may reject a request before it is served.
type GuardFunc func(r *http.Request) error

// Options configure the search handler.
type Options struct {
	RoutePath    string
	SearchParam  string
	LimitParam   string
	DefaultLimit int
	MaxLimit     int
	Guard        GuardFunc
	Logger       logrus.FieldLogger

	// Markets restricts results to the listed markets when non-empty.
	Markets []string
	// Catalog replaces the embedded catalog.
	Catalog []symbolsearch.Symbol
}

// OptionFn mutates Options.
type OptionFn func(*Options)

// DefaultOptions returns the defaults used by NewOptions.
func DefaultOptions() Options {
	return Options{
		RoutePath:    "/search",
		SearchParam:  "q",
		LimitParam:   "limit",
		DefaultLimit: 20,
		MaxLimit:     100,
	}
}

// NewOptions applies fns over the defaults and fills anything left empty.
func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn != nil {
			fn(&opts)
		}
	}
	defaults := DefaultOptions()
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = defaults.DefaultLimit
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = defaults.MaxLimit
	}
	if opts.RoutePath == "" {
		opts.RoutePath = defaults.RoutePath
	}
	if opts.SearchParam == "" {
		opts.SearchParam = defaults.SearchParam
	}
	if opts.LimitParam == "" {
		opts.LimitParam = defaults.LimitParam
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Catalog != nil {
		opts.Catalog = append([]symbolsearch.Symbol{}, opts.Catalog...)
	}
	if opts.Markets != nil {
		opts.Markets = append([]string{}, opts.Markets...)
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) { o.RoutePath = path }
}

func WithSearchParam(name string) OptionFn {
	return func(o *Options) { o.SearchParam = name }
}

func WithLimitParam(name string) OptionFn {
	return func(o *Options) { o.LimitParam = name }
}

func WithDefaultLimit(limit int) OptionFn {
	return func(o *Options) { o.DefaultLimit = limit }
}

func WithMaxLimit(limit int) OptionFn {
	return func(o *Options) { o.MaxLimit = limit }
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) { o.Guard = guard }
}

func WithLogger(logger logrus.FieldLogger) OptionFn {
	return func(o *Options) { o.Logger = logger }
}

func WithMarkets(markets ...string) OptionFn {
	return func(o *Options) { o.Markets = markets }
}

func WithCatalog(catalog []symbolsearch.Symbol) OptionFn {
	return func(o *Options) { o.Catalog = catalog }
}

// clampLimit maps 0 to the default, negatives to 0 and caps at MaxLimit.
func clampLimit(limit int, opts Options) int {
	if limit < 0 {
		return 0
	}
	if limit == 0 {
		limit = opts.DefaultLimit
	}
	if opts.MaxLimit > 0 && limit > opts.MaxLimit {
		return opts.MaxLimit
	}
	return limit
}
