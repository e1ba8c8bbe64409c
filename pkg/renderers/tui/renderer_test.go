package tui

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-sdui/pkg/render"
	"github.com/goliatone/go-sdui/pkg/schema"
	"github.com/goliatone/go-sdui/pkg/symbolsearch"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	infoMessages []string
	prompts      []string
	choices      []ChoiceConfig
	inputPos     int
	selectPos    int
	multiPos     int
	confirmPos   int
}

func (s *stubDriver) Text(_ context.Context, cfg TextConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) nextSelect(message string) (int, error) {
	s.prompts = append(s.prompts, message)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Choose(_ context.Context, cfg ChoiceConfig) (schema.Option, error) {
	s.choices = append(s.choices, cfg)
	idx, err := s.nextSelect(cfg.Message)
	if err != nil {
		return schema.Option{}, err
	}
	return cfg.Options[idx], nil
}

func (s *stubDriver) ChooseMany(_ context.Context, cfg ChoiceConfig) ([]schema.Option, error) {
	s.choices = append(s.choices, cfg)
	s.prompts = append(s.prompts, cfg.Message)
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	var out []schema.Option
	for _, idx := range s.multiIdx[s.multiPos] {
		out = append(out, cfg.Options[idx])
	}
	s.multiPos++
	return out, nil
}

func (s *stubDriver) PickSymbol(_ context.Context, cfg SymbolConfig) (symbolsearch.Symbol, error) {
	idx, err := s.nextSelect(cfg.Message)
	if err != nil {
		return symbolsearch.Symbol{}, err
	}
	if idx < 0 || idx >= len(cfg.Matches) {
		return symbolsearch.Symbol{}, nil
	}
	return cfg.Matches[idx], nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func (s *stubDriver) errorMessages() []string {
	var out []string
	for _, msg := range s.infoMessages {
		if strings.HasPrefix(msg, DefaultTheme.ErrorPrefix) {
			out = append(out, msg)
		}
	}
	return out
}

type fakeSearcher struct {
	queries []string
	results map[string][]symbolsearch.Symbol
}

func (f *fakeSearcher) Search(_ context.Context, query string, _ int) []symbolsearch.Symbol {
	f.queries = append(f.queries, query)
	return f.results[query]
}

const demoSchema = `{
  "id": "demo",
  "sections": [
    {"id": "main", "label": "Main", "fields": [
      {"name": "mode", "field_type": "select", "options": ["basic", "advanced"], "default": "basic", "required": true, "order": 1},
      {"name": "threshold", "field_type": "number", "min": 0, "max": 100, "required": true, "order": 2, "condition": "mode == 'advanced'"},
      {"name": "enabled", "field_type": "boolean", "default": true, "order": 3}
    ]}
  ],
  "fields": [
    {"name": "symbol", "field_type": "symbol", "required": true, "order": 1},
    {"name": "timeframes", "field_type": "multi_select", "options": ["1h", "4h", "1d"], "order": 2}
  ]
}`

func demoForm(t *testing.T) schema.Form {
	t.Helper()
	form, err := schema.ParseBytes([]byte(demoSchema))
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	return form
}

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestRenderPromptsUnlockedFieldsAndRepromptsInvalidAnswers(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{1, 0},
		inputs:    []string{"abc", "150", "70", "sam"},
		confirm:   []bool{false},
		multiIdx:  [][]int{{0, 2}},
	}
	searcher := &fakeSearcher{results: map[string][]symbolsearch.Symbol{
		"sam": {{Ticker: "005930", Name: "Samsung Electronics", Market: "KR"}},
	}}
	r, err := New(WithPromptDriver(driver), WithSearcher(searcher), WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := r.Render(context.Background(), demoForm(t), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	want := map[string]any{
		"mode":       "advanced",
		"threshold":  float64(70),
		"enabled":    false,
		"symbol":     "005930",
		"timeframes": []any{"1h", "1d"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("submission mismatch (-want +got):\n%s", diff)
	}

	if errs := driver.errorMessages(); len(errs) != 2 {
		t.Fatalf("expected two rejected answers, got %v", errs)
	}
	if driver.infoMessages[0] != DefaultTheme.SectionPrefix+"Main" {
		t.Fatalf("expected section header first, got %q", driver.infoMessages[0])
	}
	if len(driver.choices) != 2 || driver.choices[0].Current != "basic" {
		t.Fatalf("expected mode choice seeded with its default, got %+v", driver.choices)
	}
	wantPrompts := []string{"mode", "threshold", "threshold", "threshold", "enabled", "symbol", "symbol", "timeframes"}
	if diff := cmp.Diff(wantPrompts, driver.prompts); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"sam"}, searcher.queries); diff != "" {
		t.Fatalf("search queries mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderSkipsHiddenFields(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{0},
		confirm:   []bool{true},
		inputs:    []string{"AAPL"},
		multiIdx:  [][]int{{}},
	}
	r, err := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText), WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := r.Render(context.Background(), demoForm(t), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	text := string(out)
	if strings.Contains(text, "threshold") {
		t.Fatalf("hidden field leaked into output:\n%s", text)
	}
	for _, line := range []string{"mode       = basic", "symbol     = AAPL", "timeframes = []"} {
		if !strings.Contains(text, line) {
			t.Fatalf("expected %q in output:\n%s", line, text)
		}
	}
	if r.ContentType() != "text/plain; charset=utf-8" {
		t.Fatalf("unexpected content type %q", r.ContentType())
	}
}

func TestRenderRetriesSymbolSearchWithoutMatches(t *testing.T) {
	form, err := schema.ParseBytes([]byte(`{"id": "pick", "fields": [{"name": "symbol", "field_type": "symbol", "required": true}]}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	driver := &stubDriver{inputs: []string{"zzz", "btc"}, selectIdx: []int{0}}
	searcher := &fakeSearcher{results: map[string][]symbolsearch.Symbol{
		"btc": {{Ticker: "BTC", Name: "Bitcoin", Market: "CRYPTO"}},
	}}
	r, err := New(WithPromptDriver(driver), WithSearcher(searcher), WithOutputFormat(OutputFormatFormURLEncoded), WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := r.Render(context.Background(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "symbol=BTC" {
		t.Fatalf("unexpected output %q", out)
	}
	if len(driver.errorMessages()) != 1 {
		t.Fatalf("expected one no-match message, got %v", driver.infoMessages)
	}
}

func TestRenderUsesSeedValues(t *testing.T) {
	form, err := schema.ParseBytes([]byte(`{"id": "seed", "fields": [{"name": "period", "field_type": "integer", "min": 2}]}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	driver := &stubDriver{inputs: []string{"14.9"}}
	r, err := New(WithPromptDriver(driver), WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := r.Render(context.Background(), form, render.RenderOptions{Values: map[string]any{"period": 10}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["period"] != float64(14) {
		t.Fatalf("expected truncated integer 14, got %v", got["period"])
	}
}

func TestRenderPropagatesAbort(t *testing.T) {
	r, err := New(WithPromptDriver(&abortDriver{}), WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	_, err = r.Render(context.Background(), demoForm(t), render.RenderOptions{})
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(WithPromptDriver(&stubDriver{}), WithOutputFormat("xml")); err == nil {
		t.Fatal("expected error for unknown output format")
	}
}

type abortDriver struct{ stubDriver }

func (abortDriver) Choose(context.Context, ChoiceConfig) (schema.Option, error) {
	return schema.Option{}, ErrAborted
}

func (abortDriver) Info(context.Context, string) error { return nil }
