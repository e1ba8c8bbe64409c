package symbolsearch

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Symbol is one search hit.
type Symbol struct {
	Ticker      string `json:"ticker"`
	Name        string `json:"name"`
	Market      string `json:"market"`
	YahooSymbol string `json:"yahoo_symbol,omitempty"`
}

// Response is the body of GET /search.
type Response struct {
	Results []Symbol `json:"results"`
	Total   int      `json:"total"`
}

// Searcher looks symbols up. Implementations never fail; problems yield an
// empty slice.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) []Symbol
}

const (
	defaultPath    = "/search"
	defaultLimit   = 20
	defaultTimeout = 10 * time.Second
)

// Client queries a symbol search endpoint over HTTP.
type Client struct {
	http   *resty.Client
	path   string
	limit  int
	logger logrus.FieldLogger
}

// Option customises a Client.
type Option func(*Client)

// WithPath overrides the search path (default "/search").
func WithPath(path string) Option {
	return func(c *Client) {
		if path = strings.TrimSpace(path); path != "" {
			c.path = path
		}
	}
}

// WithDefaultLimit sets the limit used when Search is called with limit <= 0.
func WithDefaultLimit(limit int) Option {
	return func(c *Client) {
		if limit > 0 {
			c.limit = limit
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.SetTimeout(timeout)
		}
	}
}

// WithHTTPClient swaps the underlying transport client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			base := c.http.BaseURL
			c.http = resty.NewWithClient(client).
				SetBaseURL(base).
				SetTimeout(defaultTimeout).
				SetHeader("Accept", "application/json")
		}
	}
}

// WithLogger sets the logger for failed lookups.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient builds a client for the API rooted at baseURL.
func NewClient(baseURL string, options ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	c := &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(defaultTimeout).
			SetHeader("Accept", "application/json"),
		path:   defaultPath,
		limit:  defaultLimit,
		logger: logrus.StandardLogger(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Search returns symbols matching query. A blank query returns nil without a
// request. Transport errors, non-2xx answers and undecodable bodies are
// logged and yield an empty slice.
func (c *Client) Search(ctx context.Context, query string, limit int) []Symbol {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if limit <= 0 {
		limit = c.limit
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var body Response
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetResult(&body).
		Get(c.path)

	entry := c.logger.WithField("query", query)
	switch {
	case err != nil:
		if ctx.Err() == nil {
			entry.WithError(err).Warn("symbolsearch: request failed")
		}
		return []Symbol{}
	case !resp.IsSuccess():
		entry.WithField("status", resp.StatusCode()).Warn("symbolsearch: unexpected status")
		return []Symbol{}
	case body.Results == nil:
		return []Symbol{}
	}
	return body.Results
}
