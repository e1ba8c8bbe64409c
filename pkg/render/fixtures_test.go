package render_test

import (
	"testing"

	"github.com/goliatone/go-sdui/pkg/schema"
)

const strategySchema = `{
	"id": "rsi",
	"name": "RSI",
	"sections": [
		{"id": "risk", "label": "Risk", "order": 2, "collapsed": true, "fields": [
			{"name": "max_loss", "type": "number", "order": 1, "default": 5}
		]},
		{"id": "indicator", "label": "Indicator", "order": 1, "fields": [
			{"name": "threshold", "type": "number", "order": 2, "condition": "period > 50"},
			{"name": "period", "type": "integer", "order": 1, "required": true, "min": 2, "max": 200, "default": 14},
			{"name": "source", "type": "select", "order": 3, "options": [{"value": 1, "label": "Close"}, {"value": "hl2"}]}
		]},
		{"id": "advanced", "label": "Advanced", "order": 3, "fields": [
			{"name": "aggressive", "type": "number", "condition": "mode == 'expert'"}
		]}
	],
	"fields": [
		{"name": "mode", "type": "select", "order": 2, "options": ["basic", "expert"], "default": "basic"},
		{"name": "enabled", "type": "boolean", "order": 1, "default": true}
	]
}`

func loadForm(t *testing.T) schema.Form {
	t.Helper()
	form, err := schema.ParseBytes([]byte(strategySchema))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return form
}
