package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-sdui/pkg/render"
)

func TestApplySubset(t *testing.T) {
	form := loadForm(t)

	subset := render.ParseSubset("Risk", "period, mode")
	narrowed := render.ApplySubset(form, subset)

	var names []string
	for _, field := range narrowed.AllFields() {
		names = append(names, field.Name)
	}
	if diff := cmp.Diff([]string{"max_loss", "period", "mode"}, names); diff != "" {
		t.Fatalf("subset mismatch (-want +got):\n%s", diff)
	}
	if len(form.AllFields()) != 7 {
		t.Fatalf("ApplySubset mutated its input")
	}

	if got := render.ApplySubset(form, render.FieldSubset{}); len(got.AllFields()) != 7 {
		t.Fatalf("empty subset should keep everything")
	}
	if !render.ParseSubset(" , ", "").Empty() {
		t.Fatalf("expected blank lists to be empty")
	}
}
