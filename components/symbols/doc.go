// Package symbols serves the symbol search contract used by symbol picker
// widgets: GET /search?q=&limit= answering {results, total}.
//
// The default catalog is embedded from data/symbols.csv
// (ticker,name,market,yahoo_symbol). Matches rank exact ticker first, then
// ticker prefix, then name substring.
package symbols
