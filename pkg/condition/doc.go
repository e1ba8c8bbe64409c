// Package condition evaluates the visibility predicates attached to schema
// fields. Predicates come in two shapes: a structured `{field, operator,
// value}` object and a compact string grammar (`period > 50`,
// `mode != 'kelly'`). The string grammar is lowered into the structured form
// by Parse so both share one evaluator.
//
// Evaluation yields an Outcome rather than a bare bool. Malformed expressions
// and unknown operators produce Indeterminate, which callers treat as
// visible: a broken condition never hides input the user may need to supply.
package condition
