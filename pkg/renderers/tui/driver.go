package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/goliatone/go-sdui/pkg/condition"
	"github.com/goliatone/go-sdui/pkg/schema"
	"github.com/goliatone/go-sdui/pkg/symbolsearch"
	"github.com/goliatone/go-sdui/pkg/validation"
)

// TextConfig configures a free text prompt. Secret masks the answer and
// Multiline opens an editor-style prompt.
type TextConfig struct {
	Message     string
	Default     string
	Help        string
	Placeholder string
	Secret      bool
	Multiline   bool
}

// ConfirmConfig configures a yes/no prompt.
type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// ChoiceConfig asks for one or more of a field's options. Options whose
// value matches Current (a list for multi choices) are preselected.
type ChoiceConfig struct {
	Message  string
	Help     string
	Options  []schema.Option
	Current  any
	PageSize int
}

// SymbolConfig offers the matches of a symbol search.
type SymbolConfig struct {
	Message string
	Query   string
	Matches []symbolsearch.Symbol
}

// PromptDriver is the terminal seam. The survey-backed driver is the default;
// tests script answers through a stub.
type PromptDriver interface {
	Text(ctx context.Context, cfg TextConfig) (string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
	// Choose returns the picked option.
	Choose(ctx context.Context, cfg ChoiceConfig) (schema.Option, error)
	ChooseMany(ctx context.Context, cfg ChoiceConfig) ([]schema.Option, error)
	// PickSymbol returns the chosen match. A zero Symbol means none.
	PickSymbol(ctx context.Context, cfg SymbolConfig) (symbolsearch.Symbol, error)
	Info(ctx context.Context, msg string) error
}

type surveyDriver struct {
	out   io.Writer
	stdio survey.AskOpt
}

// NewSurveyDriver returns a PromptDriver that talks to the process terminal.
func NewSurveyDriver() PromptDriver {
	return &surveyDriver{
		out:   os.Stdout,
		stdio: survey.WithStdio(os.Stdin, os.Stdout, os.Stderr),
	}
}

func (d *surveyDriver) ask(ctx context.Context, prompt survey.Prompt, response any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := survey.AskOne(prompt, response, d.stdio); err != nil {
		return translateSurveyErr(err)
	}
	return nil
}

func (d *surveyDriver) Text(ctx context.Context, cfg TextConfig) (string, error) {
	help := firstNonEmpty(cfg.Help, cfg.Placeholder)
	var prompt survey.Prompt
	switch {
	case cfg.Secret:
		prompt = &survey.Password{Message: cfg.Message, Help: help}
	case cfg.Multiline:
		prompt = &survey.Multiline{Message: cfg.Message, Help: help, Default: cfg.Default}
	default:
		prompt = &survey.Input{Message: cfg.Message, Help: help, Default: cfg.Default}
	}
	var out string
	if err := d.ask(ctx, prompt, &out); err != nil {
		return "", err
	}
	return out, nil
}

func (d *surveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	var out bool
	prompt := &survey.Confirm{Message: cfg.Message, Help: cfg.Help, Default: cfg.Default}
	if err := d.ask(ctx, prompt, &out); err != nil {
		return false, err
	}
	return out, nil
}

func (d *surveyDriver) Choose(ctx context.Context, cfg ChoiceConfig) (schema.Option, error) {
	if len(cfg.Options) == 0 {
		return schema.Option{}, fmt.Errorf("tui: %s has no options", cfg.Message)
	}
	labels := optionLabels(cfg.Options)
	prompt := &survey.Select{Message: cfg.Message, Options: labels, Help: cfg.Help, PageSize: cfg.PageSize}
	if selected := selectedIndices(cfg.Options, cfg.Current); len(selected) > 0 {
		prompt.Default = labels[selected[0]]
	}
	var out string
	if err := d.ask(ctx, prompt, &out); err != nil {
		return schema.Option{}, err
	}
	for i, label := range labels {
		if label == out {
			return cfg.Options[i], nil
		}
	}
	return schema.Option{}, fmt.Errorf("tui: unknown choice %q", out)
}

func (d *surveyDriver) ChooseMany(ctx context.Context, cfg ChoiceConfig) ([]schema.Option, error) {
	labels := optionLabels(cfg.Options)
	prompt := &survey.MultiSelect{Message: cfg.Message, Options: labels, Help: cfg.Help, PageSize: cfg.PageSize}
	var defaults []string
	for _, idx := range selectedIndices(cfg.Options, cfg.Current) {
		defaults = append(defaults, labels[idx])
	}
	if len(defaults) > 0 {
		prompt.Default = defaults
	}
	var out []string
	if err := d.ask(ctx, prompt, &out); err != nil {
		return nil, err
	}
	picked := make(map[string]bool, len(out))
	for _, label := range out {
		picked[label] = true
	}
	chosen := make([]schema.Option, 0, len(out))
	for i, label := range labels {
		if picked[label] {
			chosen = append(chosen, cfg.Options[i])
		}
	}
	return chosen, nil
}

func (d *surveyDriver) PickSymbol(ctx context.Context, cfg SymbolConfig) (symbolsearch.Symbol, error) {
	if len(cfg.Matches) == 0 {
		return symbolsearch.Symbol{}, nil
	}
	labels := symbolLabels(cfg.Matches)
	prompt := &survey.Select{Message: cfg.Message, Options: labels, Default: labels[0]}
	var out string
	if err := d.ask(ctx, prompt, &out); err != nil {
		return symbolsearch.Symbol{}, err
	}
	for i, label := range labels {
		if label == out {
			return cfg.Matches[i], nil
		}
	}
	return symbolsearch.Symbol{}, nil
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

// optionLabels names each option for display. Labels are unique so an answer
// maps back to exactly one option.
func optionLabels(options []schema.Option) []string {
	out := make([]string, len(options))
	seen := make(map[string]bool, len(options))
	for i, option := range options {
		label := firstNonEmpty(option.Label, validation.Stringify(option.Value))
		if seen[label] {
			label = fmt.Sprintf("%s (%s)", label, validation.Stringify(option.Value))
		}
		seen[label] = true
		out[i] = label
	}
	return out
}

// selectedIndices returns the positions of the options matching current,
// which is a single value or a list.
func selectedIndices(options []schema.Option, current any) []int {
	if current == nil {
		return nil
	}
	values, ok := condition.List(current)
	if !ok {
		values = []any{current}
	}
	want := make(map[string]bool, len(values))
	for _, value := range values {
		want[validation.Stringify(value)] = true
	}
	var out []int
	for i, option := range options {
		if want[validation.Stringify(option.Value)] {
			out = append(out, i)
		}
	}
	return out
}

func symbolLabels(symbols []symbolsearch.Symbol) []string {
	out := make([]string, len(symbols))
	for i, symbol := range symbols {
		out[i] = fmt.Sprintf("%s  %s (%s)", symbol.Ticker, symbol.Name, symbol.Market)
	}
	return out
}
