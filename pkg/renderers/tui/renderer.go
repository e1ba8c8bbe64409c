package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-sdui/pkg/render"
	"github.com/goliatone/go-sdui/pkg/schema"
	"github.com/goliatone/go-sdui/pkg/symbolsearch"
	"github.com/goliatone/go-sdui/pkg/validation"
	"github.com/goliatone/go-sdui/pkg/widgets"
)

const defaultSearchLimit = 10

// Renderer implements render.Renderer for terminal sessions. It prompts each
// active field in layout order and re-evaluates visibility after every
// answer, so fields unlocked by an answer are asked next.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	searcher          symbolsearch.Searcher
	searchLimit       int
	validator         *validation.Validator
	logger            logrus.FieldLogger
	submitTransformer SubmitTransformer
	theme             Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		searchLimit:  defaultSearchLimit,
		logger:       logrus.StandardLogger(),
		theme:        DefaultTheme,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver()
	}
	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatPrettyText, OutputFormatFormURLEncoded:
	default:
		return nil, fmt.Errorf("tui: unknown output format %q", r.outputFormat)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render prompts for the form's values and returns the serialized
// submission. opts.Values seed the answers; defaults fill the rest.
func (r *Renderer) Render(ctx context.Context, form schema.Form, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if opts.Translator != nil {
		form = render.Localize(form, opts.Locale, opts.Translator)
	}
	validator := r.validatorFor(opts)
	session := render.NewSession(form,
		render.WithValues(opts.Values),
		render.WithSeededDefaults(),
		render.WithValidator(validator),
		render.WithSessionLogger(r.logger),
	)

	prompted := make(map[string]bool)
	currentGroup := ""
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item, group, ok := nextItem(session.Layout(), prompted)
		if !ok {
			break
		}
		if group.ID != currentGroup {
			currentGroup = group.ID
			if group.ID != "" {
				_ = r.driver.Info(ctx, r.theme.SectionPrefix+firstNonEmpty(group.Label, group.ID))
			}
		}

		value, err := r.promptItem(ctx, validator, item)
		if err != nil {
			return nil, err
		}
		prompted[item.Field.Name] = true
		session.OnChange(item.Field.Name, value)
	}

	values, result := session.Submit()
	if !result.Valid {
		fields := make([]string, 0, len(result.Errors))
		for name, issue := range result.Errors {
			fields = append(fields, name)
			_ = r.driver.Info(ctx, r.theme.ErrorPrefix+issue.Message)
		}
		sort.Strings(fields)
		return nil, fmt.Errorf("%w: %s", ErrInvalidSubmission, strings.Join(fields, ", "))
	}

	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return r.serialize(values)
}

func (r *Renderer) validatorFor(opts render.RenderOptions) *validation.Validator {
	if r.validator != nil {
		return r.validator
	}
	options := []validation.Option{validation.WithLogger(r.logger)}
	if opts.Translator != nil {
		options = append(options, validation.WithMessages(render.Messages(opts.Translator, opts.Locale)))
	}
	return validation.New(options...)
}

// nextItem returns the first visible item not yet answered, with its group.
// Ungrouped items report a zero Group.
func nextItem(layout render.FormLayout, prompted map[string]bool) (render.Item, render.Group, bool) {
	for _, group := range layout.Groups {
		for _, item := range group.Items {
			if !prompted[item.Field.Name] {
				return item, group, true
			}
		}
	}
	for _, item := range layout.Ungrouped {
		if !prompted[item.Field.Name] {
			return item, render.Group{}, true
		}
	}
	return render.Item{}, render.Group{}, false
}

// promptItem asks for one field until the answer validates.
func (r *Renderer) promptItem(ctx context.Context, validator *validation.Validator, item render.Item) (any, error) {
	field := item.Field
	for {
		value, err := r.ask(ctx, item)
		if err != nil {
			return nil, err
		}
		if issue := validator.ValidateField(field, value); issue != nil {
			r.logger.WithFields(logrus.Fields{"field": field.Name, "kind": issue.Kind}).Debug("tui: answer rejected")
			_ = r.driver.Info(ctx, r.theme.ErrorPrefix+issue.Message)
			continue
		}
		return value, nil
	}
}

func (r *Renderer) ask(ctx context.Context, item render.Item) (any, error) {
	field := item.Field
	switch field.Kind() {
	case schema.TypeBoolean:
		return r.askBoolean(ctx, field, item.Value)
	case schema.TypeInteger, schema.TypeNumber:
		return r.askNumber(ctx, field, item.Value)
	case schema.TypeSelect:
		return r.askSelect(ctx, field, item.Value)
	case schema.TypeMultiSelect, schema.TypeMultiTimeframe:
		return r.askMultiSelect(ctx, field, item.Value)
	case schema.TypeSymbol:
		return r.askSymbol(ctx, field, item.Value)
	case schema.TypeSymbols:
		return r.askSymbols(ctx, field, item.Value)
	default:
		return r.askText(ctx, field, item)
	}
}

func (r *Renderer) askBoolean(ctx context.Context, field schema.Field, current any) (any, error) {
	def, _ := current.(bool)
	return r.driver.Confirm(ctx, ConfirmConfig{
		Message: field.DisplayLabel(),
		Default: def,
		Help:    displayHelp(field),
	})
}

// askNumber returns nil for blank input and the raw text when it is not a
// number, so validation reports required or invalid_type respectively.
func (r *Renderer) askNumber(ctx context.Context, field schema.Field, current any) (any, error) {
	input, err := r.driver.Text(ctx, TextConfig{
		Message: field.DisplayLabel(),
		Default: defaultText(current),
		Help:    displayHelp(field),
	})
	if err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, nil
	}
	if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
		return trimmed, nil
	}
	return render.ParseNumber(field, trimmed), nil
}

func (r *Renderer) askSelect(ctx context.Context, field schema.Field, current any) (any, error) {
	if len(field.Options()) == 0 {
		return r.askText(ctx, field, render.Item{Field: field, Value: current})
	}
	option, err := r.driver.Choose(ctx, r.choice(field, current))
	if err != nil {
		return nil, err
	}
	return option.Value, nil
}

func (r *Renderer) askMultiSelect(ctx context.Context, field schema.Field, current any) (any, error) {
	options, err := r.driver.ChooseMany(ctx, r.choice(field, current))
	if err != nil {
		return nil, err
	}
	selected := make([]any, 0, len(options))
	for _, option := range options {
		selected = append(selected, option.Value)
	}
	return selected, nil
}

func (r *Renderer) choice(field schema.Field, current any) ChoiceConfig {
	return ChoiceConfig{
		Message: field.DisplayLabel(),
		Help:    displayHelp(field),
		Options: field.Options(),
		Current: current,
	}
}

// askSymbol searches the typed query when a searcher is configured and lets
// the user pick one of the matches. Without matches the prompt repeats.
func (r *Renderer) askSymbol(ctx context.Context, field schema.Field, current any) (any, error) {
	for {
		query, err := r.driver.Text(ctx, TextConfig{
			Message: field.DisplayLabel(),
			Default: defaultText(current),
			Help:    displayHelp(field),
		})
		if err != nil {
			return nil, err
		}
		query = strings.TrimSpace(query)
		if query == "" || r.searcher == nil {
			return query, nil
		}

		matches := r.searcher.Search(ctx, query, r.searchLimit)
		if len(matches) == 0 {
			_ = r.driver.Info(ctx, fmt.Sprintf("%sno symbols match %q", r.theme.ErrorPrefix, query))
			continue
		}
		symbol, err := r.driver.PickSymbol(ctx, SymbolConfig{
			Message: field.DisplayLabel(),
			Query:   query,
			Matches: matches,
		})
		if err != nil {
			return nil, err
		}
		if symbol.Ticker == "" {
			continue
		}
		return symbol.Ticker, nil
	}
}

func (r *Renderer) askSymbols(ctx context.Context, field schema.Field, current any) (any, error) {
	input, err := r.driver.Text(ctx, TextConfig{
		Message: field.DisplayLabel(),
		Default: joinList(current),
		Help:    firstNonEmpty(displayHelp(field), "Comma separated tickers"),
	})
	if err != nil {
		return nil, err
	}
	tickers := make([]any, 0)
	for _, part := range strings.Split(input, ",") {
		if ticker := strings.TrimSpace(part); ticker != "" {
			tickers = append(tickers, ticker)
		}
	}
	return tickers, nil
}

func (r *Renderer) askText(ctx context.Context, field schema.Field, item render.Item) (any, error) {
	if item.Widget != "" && item.Widget != widgets.WidgetText && item.Widget != "textarea" {
		r.logger.WithFields(logrus.Fields{"field": field.Name, "widget": item.Widget}).Debug("tui: widget prompted as text")
	}
	return r.driver.Text(ctx, TextConfig{
		Message:     field.DisplayLabel(),
		Default:     defaultText(item.Value),
		Help:        displayHelp(field),
		Placeholder: field.Placeholder,
		Secret:      strings.EqualFold(field.Metadata["secret"], "true"),
		Multiline:   item.Widget == "textarea" || field.Widget == "textarea",
	})
}

func displayHelp(field schema.Field) string {
	if h := field.Metadata["cli.help"]; h != "" {
		return h
	}
	return field.Description
}

func defaultText(value any) string {
	if value == nil {
		return ""
	}
	return validation.Stringify(value)
}

func joinList(value any) string {
	list, ok := value.([]any)
	if !ok {
		if strs, isStrings := value.([]string); isStrings {
			return strings.Join(strs, ", ")
		}
		return ""
	}
	parts := make([]string, 0, len(list))
	for _, item := range list {
		parts = append(parts, validation.Stringify(item))
	}
	return strings.Join(parts, ", ")
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
