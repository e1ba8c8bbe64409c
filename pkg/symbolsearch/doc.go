// Package symbolsearch is the consumer side of GET /search: an HTTP client
// that degrades to empty results and a debouncer that only reports the
// answer to the most recent query.
package symbolsearch
