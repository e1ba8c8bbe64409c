package tui

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-sdui/pkg/schema"
	"github.com/goliatone/go-sdui/pkg/symbolsearch"
)

func TestOptionLabelsAreUnique(t *testing.T) {
	options := []schema.Option{
		{Value: "close", Label: "Close"},
		{Value: float64(1), Label: "Close"},
		{Value: "hl2"},
	}
	want := []string{"Close", "Close (1)", "hl2"}
	if diff := cmp.Diff(want, optionLabels(options)); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectedIndices(t *testing.T) {
	options := []schema.Option{{Value: "1h"}, {Value: float64(4)}, {Value: "1d"}}

	cases := []struct {
		name    string
		current any
		want    []int
	}{
		{name: "nil", current: nil, want: nil},
		{name: "scalar", current: "1d", want: []int{2}},
		{name: "numeric across types", current: 4, want: []int{1}},
		{name: "list", current: []any{"1d", "1h", "1m"}, want: []int{0, 2}},
		{name: "string list", current: []string{"1h"}, want: []int{0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, selectedIndices(options, tc.current)); diff != "" {
				t.Fatalf("indices mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSymbolLabels(t *testing.T) {
	got := symbolLabels([]symbolsearch.Symbol{{Ticker: "BTC", Name: "Bitcoin", Market: "CRYPTO"}})
	if diff := cmp.Diff([]string{"BTC  Bitcoin (CRYPTO)"}, got); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
}
