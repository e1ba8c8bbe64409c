// Package validation checks form values against a schema.Form.
//
// ValidateField validates a single value; ValidateAll and ValidateForm walk
// every active field (fields whose condition is false are skipped, and
// conditions that cannot be evaluated keep the field active) and return a
// fresh Result keyed by field name.
package validation
