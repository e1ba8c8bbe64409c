package render_test

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-sdui/pkg/render"
	"github.com/goliatone/go-sdui/pkg/schema"
)

func TestFormValues(t *testing.T) {
	form, err := schema.ParseBytes([]byte(`{
	  "id": "posted",
	  "fields": [
	    {"name": "enabled", "field_type": "boolean"},
	    {"name": "period", "field_type": "integer"},
	    {"name": "pct", "field_type": "range"},
	    {"name": "lookback", "field_type": "select", "options": [10, "hl2"]},
	    {"name": "frames", "field_type": "multi_timeframe", "options": ["1h", "4h"]},
	    {"name": "watch", "field_type": "symbols"},
	    {"name": "symbol", "field_type": "symbol_picker"},
	    {"name": "note", "field_type": "text"}
	  ]
	}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	field, ok := form.Field("lookback")
	if !ok {
		t.Fatal("lookback field missing")
	}
	lookback := field.Options()[0].Value

	cases := []struct {
		name   string
		posted url.Values
		want   map[string]any
	}{
		{
			name: "typed inputs",
			posted: url.Values{
				"enabled":  {"false", "true"},
				"period":   {"14"},
				"pct":      {"2.5"},
				"lookback": {"10"},
				"frames[]": {`"4h"`},
				"watch":    {" AAPL,, MSFT "},
				"symbol":   {" BTC "},
				"note":     {""},
				"csrf":     {"token"},
			},
			want: map[string]any{
				"enabled":  true,
				"period":   int64(14),
				"pct":      2.5,
				"lookback": lookback,
				"frames":   []any{"4h"},
				"watch":    []any{"AAPL", "MSFT"},
				"symbol":   "BTC",
				"note":     "",
			},
		},
		{
			name: "blanks are left out",
			posted: url.Values{
				"enabled":  {"false"},
				"period":   {" "},
				"lookback": {""},
				"watch":    {""},
				"symbol":   {""},
			},
			want: map[string]any{
				"enabled": false,
				"watch":   []any{},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := render.FormValues(form, tc.posted)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("values mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
