package symbols

import (
	"sort"
	"strings"

	"github.com/goliatone/go-sdui/pkg/symbolsearch"
)

type rank int

const (
	rankNone rank = iota
	rankNameContains
	rankTickerPrefix
	rankExactTicker
)

type matchedSymbol struct {
	symbol symbolsearch.Symbol
	rank   rank
}

// Search ranks catalog entries against query: exact ticker first, then
// ticker prefix, then name substring, all case-insensitive, ties by ticker.
// It returns the page allowed by limit and the total number of matches.
func Search(catalog []symbolsearch.Symbol, query string, limit int, opts Options) ([]symbolsearch.Symbol, int) {
	limit = clampLimit(limit, opts)
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || limit == 0 {
		return nil, 0
	}

	matches := make([]matchedSymbol, 0, 16)
	for _, symbol := range catalog {
		if len(opts.Markets) > 0 && !containsFold(opts.Markets, symbol.Market) {
			continue
		}
		if r := rankOf(symbol, query); r != rankNone {
			matches = append(matches, matchedSymbol{symbol: symbol, rank: r})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].rank != matches[j].rank {
			return matches[i].rank > matches[j].rank
		}
		return matches[i].symbol.Ticker < matches[j].symbol.Ticker
	})

	total := len(matches)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]symbolsearch.Symbol, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.symbol)
	}
	return out, total
}

func rankOf(symbol symbolsearch.Symbol, query string) rank {
	ticker := strings.ToLower(symbol.Ticker)
	switch {
	case ticker == query:
		return rankExactTicker
	case strings.HasPrefix(ticker, query):
		return rankTickerPrefix
	case strings.Contains(strings.ToLower(symbol.Name), query):
		return rankNameContains
	default:
		return rankNone
	}
}

func containsFold(values []string, want string) bool {
	for _, value := range values {
		if strings.EqualFold(strings.TrimSpace(value), want) {
			return true
		}
	}
	return false
}
