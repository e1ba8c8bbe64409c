// Package schema defines the server-driven form model: field types, the
// per-kind constraint blocks, options, sections and forms. Documents in
// either schema dialect (the strategy dialect with name/default/condition and
// the UI dialect with key/default_value/show_when/groups) decode into the same
// Form, so the validator and renderers only ever see one shape.
//
// Forms can splice in registered fragments (see FragmentExitConfig) and are
// checked for authoring mistakes by Lint.
package schema
