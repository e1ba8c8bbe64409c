package render_test

import (
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-sdui/pkg/render"
	"github.com/goliatone/go-sdui/pkg/schema"
	"github.com/goliatone/go-sdui/pkg/validation"
)

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestSessionSubmitAndChanges(t *testing.T) {
	form := loadForm(t)

	var changes []string
	session := render.NewSession(form,
		render.WithSeededDefaults(),
		render.WithSessionLogger(quietLogger()),
		render.WithLiveValidation(),
		render.WithListener(func(name string, _ any) { changes = append(changes, name) }),
	)

	session.OnChange("period", int64(500))
	session.OnChange("ghost", 1)
	if len(changes) != 1 || changes[0] != "period" {
		t.Fatalf("unexpected change notifications %v", changes)
	}

	layout := session.Layout()
	if issue := layout.Groups[0].Items[0].Issue; issue == nil || issue.Kind != validation.KindMax {
		t.Fatalf("expected live validation issue, got %+v", issue)
	}

	if values, result := session.Submit(); values != nil || result.Valid {
		t.Fatalf("expected invalid submit, got %v %+v", values, result)
	}

	handler := session.Handler()
	handler("period", int64(20))
	values, result := session.Submit()
	if !result.Valid {
		t.Fatalf("expected valid submit, got %+v", result.Errors)
	}
	if values["period"] != int64(20) || values["mode"] != "basic" {
		t.Fatalf("unexpected submission %v", values)
	}

	if session.Toggle("risk") {
		t.Fatalf("expected risk to expand")
	}
	if session.Layout().Groups[1].Collapsed {
		t.Fatalf("expected toggle to reach the layout")
	}
}

func TestSessionSubmitReturnsValidatedValues(t *testing.T) {
	limit := 10.0
	form := schema.Form{
		ID: "bounded",
		Fields: []schema.Field{
			{Name: "n", Type: schema.TypeInteger, Required: true, Numeric: &schema.NumericConstraints{Max: &limit}},
		},
	}
	session := render.NewSession(form,
		render.WithValues(map[string]any{"n": int64(5)}),
		render.WithSessionLogger(quietLogger()),
	)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}
			if i%2 == 0 {
				session.OnChange("n", int64(500))
			} else {
				session.OnChange("n", int64(5))
			}
		}
	}()

	for i := 0; i < 2000; i++ {
		submitted, result := session.Submit()
		if result.Valid && submitted["n"] != int64(5) {
			close(done)
			wg.Wait()
			t.Fatalf("submitted unvalidated value %v", submitted["n"])
		}
	}
	close(done)
	wg.Wait()
}
