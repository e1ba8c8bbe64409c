package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-sdui/pkg/render"
	"github.com/goliatone/go-sdui/pkg/validation"
)

func TestMapErrorPayload(t *testing.T) {
	form := loadForm(t)

	payload := map[string][]string{
		"/body/period":       {"Period is too large"},
		"params.threshold":   {"Threshold invalid", " Threshold invalid "},
		"$.config.source[0]": {"Unknown source"},
		"config/mode":        {"Mode locked"},
		"non_field_errors":   {"Strategy is running"},
		"request/body/ghost": {"Unknown parameter"},
		"":                   {"Unscoped"},
		"enabled":            {"  "},
	}

	mapped := render.MapErrorPayload(form, payload)

	wantFields := map[string][]string{
		"period":    {"Period is too large"},
		"threshold": {"Threshold invalid"},
		"source":    {"Unknown source"},
		"mode":      {"Mode locked"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	wantForm := []string{"Unscoped", "Strategy is running", "Unknown parameter"}
	if diff := cmp.Diff(wantForm, mapped.Form); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	if diff := cmp.Diff([]string{"First", "Second", "third"}, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorsFromResult(t *testing.T) {
	result := validation.Result{Errors: map[string]validation.Issue{
		"period": {Field: "period", Kind: validation.KindMax, Message: "Period must be at most 200"},
	}}
	want := map[string][]string{"period": {"Period must be at most 200"}}
	if diff := cmp.Diff(want, render.ErrorsFromResult(result)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if render.ErrorsFromResult(validation.Result{Valid: true}) != nil {
		t.Fatalf("expected nil for a valid result")
	}
}
