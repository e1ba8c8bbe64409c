package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-sdui/pkg/render"
	"github.com/goliatone/go-sdui/pkg/schema"
	"github.com/goliatone/go-sdui/pkg/validation"
)

// FormSummary is one entry of GET /forms.
type FormSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
}

// ValuesRequest is the body accepted by the validate, layout and html
// endpoints.
type ValuesRequest struct {
	Values map[string]any `json:"values"`
	// Collapsed overrides section collapse state by section id.
	Collapsed map[string]bool `json:"collapsed,omitempty"`
	// Errors is a backend error payload mapped onto fields before rendering.
	Errors map[string][]string `json:"errors,omitempty"`
	// Validate attaches validation issues to the layout.
	Validate bool `json:"validate,omitempty"`
}

// ValidateResponse is the body of POST /forms/{id}/validate.
type ValidateResponse struct {
	Valid      bool                        `json:"valid"`
	Errors     map[string]validation.Issue `json:"errors"`
	Submission map[string]any              `json:"submission,omitempty"`
}

// PutResponse is the body of a successful PUT /forms/{id}.
type PutResponse struct {
	ID     string             `json:"id"`
	Issues []schema.LintIssue `json:"issues"`
}

func (s *Server) form(w http.ResponseWriter, r *http.Request) (schema.Form, bool) {
	id := chi.URLParam(r, "formID")
	form, ok := s.store.Form(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "FORM_NOT_FOUND", "form not found: "+id)
		return schema.Form{}, false
	}
	return form, true
}

func (s *Server) handleListForms(w http.ResponseWriter, _ *http.Request) {
	ids := s.store.IDs()
	forms := make([]FormSummary, 0, len(ids))
	for _, id := range ids {
		form, ok := s.store.Form(id)
		if !ok {
			continue
		}
		forms = append(forms, FormSummary{ID: form.ID, Name: form.Name, Version: form.Version})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"forms": forms})
}

// handleGetForm serves the schema, optionally narrowed with ?sections= and
// ?fields= (comma separated).
func (s *Server) handleGetForm(w http.ResponseWriter, r *http.Request) {
	form, ok := s.form(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	subset := render.ParseSubset(query.Get("sections"), query.Get("fields"))
	s.writeJSON(w, http.StatusOK, render.ApplySubset(form, subset))
}

// handlePutForm registers a schema document under the path id. Documents
// with lint errors are rejected with the findings.
func (s *Server) handlePutForm(w http.ResponseWriter, r *http.Request) {
	if s.readOnly {
		s.writeError(w, http.StatusMethodNotAllowed, "READ_ONLY", "form registration is disabled")
		return
	}
	id := chi.URLParam(r, "formID")
	defer r.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	src := schema.Inline(id)
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		src = schema.Inline(id + ".yaml")
	}
	doc, err := schema.NewDocument(src, raw)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_SCHEMA", err.Error())
		return
	}
	form, err := schema.Parse(doc)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_SCHEMA", err.Error())
		return
	}
	form.ID = id

	issues := schema.Lint(form)
	if schema.HasErrors(issues) {
		s.writeJSON(w, http.StatusBadRequest, PutResponse{ID: id, Issues: issues})
		return
	}
	if err := s.store.Put(form); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_SCHEMA", err.Error())
		return
	}
	s.logger.WithFields(requestFields(r)).WithField("form", id).Info("server: form registered")
	if issues == nil {
		issues = []schema.LintIssue{}
	}
	s.writeJSON(w, http.StatusOK, PutResponse{ID: id, Issues: issues})
}

func (s *Server) handleLintForm(w http.ResponseWriter, r *http.Request) {
	form, ok := s.form(w, r)
	if !ok {
		return
	}
	issues := schema.Lint(form)
	if issues == nil {
		issues = []schema.LintIssue{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"issues": issues})
}

// handleValidate answers 200 with the filtered submission when the values
// are valid and 422 with the issues otherwise.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	form, ok := s.form(w, r)
	if !ok {
		return
	}
	req, ok := s.decodeValues(w, r, form)
	if !ok {
		return
	}
	result := s.validator.ValidateForm(form, req.Values)
	if !result.Valid {
		s.writeJSON(w, http.StatusUnprocessableEntity, ValidateResponse{Errors: result.Errors})
		return
	}
	s.writeJSON(w, http.StatusOK, ValidateResponse{
		Valid:      true,
		Errors:     result.Errors,
		Submission: render.Submission(form, req.Values),
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	form, ok := s.form(w, r)
	if !ok {
		return
	}
	req, ok := s.decodeValues(w, r, form)
	if !ok {
		return
	}
	opts := s.renderOptions(form, req)
	layout := render.Layout(form, req.Values, opts.Collapse, opts.LayoutOptions()...)
	s.writeJSON(w, http.StatusOK, layout)
}

func (s *Server) handleHTML(w http.ResponseWriter, r *http.Request) {
	form, ok := s.form(w, r)
	if !ok {
		return
	}
	req, ok := s.decodeValues(w, r, form)
	if !ok {
		return
	}
	opts := s.renderOptions(form, req)
	opts.Action = strings.TrimSuffix(r.URL.Path, "/html") + "/validate"
	opts.Hidden = append(opts.Hidden, render.Hidden("form_version", form.Version))
	if s.csrfToken != nil {
		opts.Hidden = append(opts.Hidden, render.CSRFToken(s.csrfField, s.csrfToken(r)))
	}

	out, err := s.html.Render(r.Context(), form, opts)
	if err != nil {
		s.logger.WithFields(requestFields(r)).WithError(err).Error("server: render html")
		s.writeError(w, http.StatusInternalServerError, "RENDER_FAILED", "could not render form")
		return
	}
	w.Header().Set("Content-Type", s.html.ContentType())
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out); err != nil {
		s.logger.WithError(err).Warn("server: write html")
	}
}

// decodeValues reads a JSON ValuesRequest or, for posted HTML forms, the
// urlencoded inputs typed against form.
func (s *Server) decodeValues(w http.ResponseWriter, r *http.Request, form schema.Form) (ValuesRequest, bool) {
	var req ValuesRequest
	if isFormPost(r) {
		posted, err := decodeForm(w, r)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "INVALID_FORM", err.Error())
			return ValuesRequest{}, false
		}
		req.Values = render.FormValues(form, posted)
		return req, true
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return ValuesRequest{}, false
	}
	if req.Values == nil {
		req.Values = map[string]any{}
	}
	return req, true
}

// renderOptions turns a request body into render options: collapse
// overrides, an optional validation pass and mapped backend errors.
func (s *Server) renderOptions(form schema.Form, req ValuesRequest) render.RenderOptions {
	opts := render.RenderOptions{Values: req.Values}
	if len(req.Collapsed) > 0 {
		collapse := render.NewCollapseState(form)
		for id, collapsed := range req.Collapsed {
			collapse.Set(id, collapsed)
		}
		opts.Collapse = collapse
	}
	if req.Validate {
		result := s.validator.ValidateForm(form, req.Values)
		opts.Result = &result
	}
	if len(req.Errors) > 0 {
		mapped := render.MapErrorPayload(form, req.Errors)
		opts.Errors = mapped.Fields
		opts.FormErrors = mapped.Form
	}
	return opts
}
