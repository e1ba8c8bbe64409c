// Package server exposes stored form schemas over HTTP: listing, schema
// retrieval with field subsets, validation, layout, HTML rendering and the
// symbol search component.
package server
