package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-sdui/components/symbols"
	"github.com/goliatone/go-sdui/pkg/renderers/html"
	"github.com/goliatone/go-sdui/pkg/schema"
	"github.com/goliatone/go-sdui/pkg/validation"
)

const shutdownTimeout = 10 * time.Second

// Server routes form requests to the store.
type Server struct {
	store      *schema.Store
	router     chi.Router
	logger     logrus.FieldLogger
	validator  *validation.Validator
	html       *html.Renderer
	symbols    *symbols.Component
	searchBase string
	readOnly   bool
	csrfField  string
	csrfToken  func(*http.Request) string
}

// Option customises a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithValidator overrides the validator used by the validate and layout
// endpoints.
func WithValidator(validator *validation.Validator) Option {
	return func(s *Server) {
		if validator != nil {
			s.validator = validator
		}
	}
}

// WithHTMLRenderer overrides the renderer behind the html endpoint.
func WithHTMLRenderer(renderer *html.Renderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.html = renderer
		}
	}
}

// WithSymbols mounts the given symbol search component instead of the
// default embedded catalog.
func WithSymbols(component *symbols.Component) Option {
	return func(s *Server) {
		if component != nil {
			s.symbols = component
		}
	}
}

// WithSearchBase mounts the symbol search route under base.
func WithSearchBase(base string) Option {
	return func(s *Server) {
		s.searchBase = base
	}
}

// WithReadOnly disables PUT /forms/{id}.
func WithReadOnly() Option {
	return func(s *Server) {
		s.readOnly = true
	}
}

// WithCSRF embeds token(r) as a hidden field named field in every form
// served by the html endpoint. Checking the token on submit is left to the
// caller's middleware.
func WithCSRF(field string, token func(*http.Request) string) Option {
	return func(s *Server) {
		if field != "" && token != nil {
			s.csrfField = field
			s.csrfToken = token
		}
	}
}

// New builds a Server over store and wires its routes.
func New(store *schema.Store, options ...Option) (*Server, error) {
	if store == nil {
		return nil, errors.New("server: store is required")
	}
	s := &Server{
		store:  store,
		logger: logrus.StandardLogger(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.validator == nil {
		s.validator = validation.New(validation.WithLogger(s.logger))
	}
	if s.symbols == nil {
		s.symbols = symbols.New(symbols.WithLogger(s.logger))
	}
	if s.html == nil {
		searchPath := symbols.MountPath(s.searchBase, func(o *symbols.Options) { *o = s.symbols.Options() })
		renderer, err := html.New(html.WithSearchPath(searchPath))
		if err != nil {
			return nil, fmt.Errorf("server: html renderer: %w", err)
		}
		s.html = renderer
	}
	if err := s.routes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) routes() error {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/forms", func(r chi.Router) {
		r.Get("/", s.handleListForms)
		r.Route("/{formID}", func(r chi.Router) {
			r.Get("/", s.handleGetForm)
			r.Put("/", s.handlePutForm)
			r.Get("/lint", s.handleLintForm)
			r.Post("/validate", s.handleValidate)
			r.Post("/layout", s.handleLayout)
			r.Post("/html", s.handleHTML)
		})
	})

	pattern, err := s.symbols.RegisterRoutes(r, s.searchBase)
	if err != nil {
		return fmt.Errorf("server: mount symbol search: %w", err)
	}
	s.logger.WithField("pattern", pattern).Debug("server: symbol search mounted")

	s.router = r
	return nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ServeHTTP lets a Server be used directly as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("server: listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: listen: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("server: shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		fields := requestFields(r)
		fields["status"] = ww.Status()
		fields["bytes"] = ww.BytesWritten()
		fields["duration"] = time.Since(start)
		fields["request_id"] = middleware.GetReqID(r.Context())
		s.logger.WithFields(fields).Debug("server: request")
	})
}
