package render

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-sdui/pkg/condition"
	"github.com/goliatone/go-sdui/pkg/schema"
	"github.com/goliatone/go-sdui/pkg/validation"
)

// OnChange is the only channel through which widgets report edits.
type OnChange func(name string, value any)

// Session owns the values of one form while it is being edited. It applies
// OnChange calls, tracks collapse state and validates on demand.
type Session struct {
	mu        sync.RWMutex
	form      schema.Form
	values    map[string]any
	collapse  *CollapseState
	validator *validation.Validator
	evaluator *condition.Evaluator
	logger    logrus.FieldLogger
	result    *validation.Result
	live      bool
	listeners []OnChange
}

// SessionOption customises a Session.
type SessionOption func(*Session)

// WithValues starts the session from existing values.
func WithValues(values map[string]any) SessionOption {
	return func(s *Session) {
		s.values = copyValues(values)
	}
}

// WithSeededDefaults merges field defaults into the starting values so they
// are submitted, not just displayed.
func WithSeededDefaults() SessionOption {
	return func(s *Session) {
		s.values = SeedDefaults(s.form, s.values)
	}
}

// WithLiveValidation re-validates after every change.
func WithLiveValidation() SessionOption {
	return func(s *Session) {
		s.live = true
	}
}

// WithValidator sets the validator used by Validate and Submit.
func WithValidator(validator *validation.Validator) SessionOption {
	return func(s *Session) {
		if validator != nil {
			s.validator = validator
		}
	}
}

// WithSessionLogger sets the logger used for change tracing.
func WithSessionLogger(logger logrus.FieldLogger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithListener registers a callback invoked after each applied change.
func WithListener(fn OnChange) SessionOption {
	return func(s *Session) {
		if fn != nil {
			s.listeners = append(s.listeners, fn)
		}
	}
}

// NewSession opens an editing session over form. Options apply in order, so
// WithSeededDefaults should follow WithValues.
func NewSession(form schema.Form, options ...SessionOption) *Session {
	s := &Session{
		form:     form,
		values:   make(map[string]any),
		collapse: NewCollapseState(form),
		logger:   logrus.StandardLogger(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.validator == nil {
		s.validator = validation.New(validation.WithLogger(s.logger))
	}
	s.evaluator = condition.New(condition.WithLogger(s.logger))
	return s
}

// OnChange records value for name. Names that match no field are ignored.
func (s *Session) OnChange(name string, value any) {
	if _, ok := s.form.Field(name); !ok {
		s.logger.WithField("field", name).Debug("render: change for unknown field ignored")
		return
	}

	s.mu.Lock()
	s.values[name] = value
	if s.live {
		result := s.validator.ValidateForm(s.form, s.values)
		s.result = &result
	} else {
		s.result = nil
	}
	listeners := append([]OnChange(nil), s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(name, value)
	}
}

// Handler exposes OnChange as a callback for widgets.
func (s *Session) Handler() OnChange {
	return s.OnChange
}

// Values returns a copy of the current values.
func (s *Session) Values() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyValues(s.values)
}

// Validate runs a fresh validation pass and remembers its result for Layout.
func (s *Session) Validate() validation.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := s.validator.ValidateForm(s.form, s.values)
	s.result = &result
	return result
}

// Toggle flips the collapse state of a group.
func (s *Session) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collapse.Toggle(id)
}

// Layout computes the current layout, including issues from the latest
// validation pass when one is still current.
func (s *Session) Layout(options ...LayoutOption) FormLayout {
	s.mu.RLock()
	defer s.mu.RUnlock()
	opts := []LayoutOption{WithEvaluator(s.evaluator)}
	if s.result != nil {
		opts = append(opts, WithResult(*s.result))
	}
	return Layout(s.form, s.values, s.collapse, append(opts, options...)...)
}

// Submit validates and, when valid, returns the values of the active fields.
// Both steps see the same values.
func (s *Session) Submit() (map[string]any, validation.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := s.validator.ValidateForm(s.form, s.values)
	s.result = &result
	if !result.Valid {
		return nil, result
	}
	return submission(s.evaluator, s.form, s.values), result
}
