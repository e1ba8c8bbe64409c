// Package openapi imports form schemas from OpenAPI 3 component schemas.
//
// Each property of the named component becomes a field. JSON Schema keywords
// map onto field constraints and an `x-sdui` extension object refines the
// result:
//
//	x-sdui:
//	  field_type: symbol_picker
//	  group: risk
//	  order: 3
//	  show_when: "mode == 'advanced'"
//
// The component itself may carry `x-sdui.sections` to declare section labels
// and order.
package openapi
