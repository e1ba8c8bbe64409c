package schema

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce   sync.Once
	strictPolicy *bluemonday.Policy
	richPolicy   *bluemonday.Policy
)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	policyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()

		rich := bluemonday.NewPolicy()
		rich.AllowElements("b", "strong", "i", "em", "code", "br", "ul", "ol", "li", "p")
		rich.AllowAttrs("href").OnElements("a")
		rich.AllowStandardURLs()
		rich.RequireNoFollowOnLinks(true)
		richPolicy = rich
	})
	return strictPolicy, richPolicy
}

// sanitizeText strips all markup from labels and placeholders. The strict
// policy escapes entities, so they are unescaped back to plain text.
func sanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	strict, _ := policies()
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(trimmed)))
}

// sanitizeRichText keeps a small set of inline formatting tags in
// descriptions and help text.
func sanitizeRichText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	_, rich := policies()
	return strings.TrimSpace(rich.Sanitize(trimmed))
}

func sanitizeField(field *Field) {
	field.Label = sanitizeText(field.Label)
	field.Placeholder = sanitizeText(field.Placeholder)
	field.Description = sanitizeRichText(field.Description)
	if field.Choice == nil {
		return
	}
	for i := range field.Choice.Options {
		field.Choice.Options[i].Label = sanitizeText(field.Choice.Options[i].Label)
		field.Choice.Options[i].Description = sanitizeText(field.Choice.Options[i].Description)
	}
}
