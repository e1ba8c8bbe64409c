package symbols

import (
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/goliatone/go-sdui/pkg/symbolsearch"
)

//go:embed data/symbols.csv
var dataFS embed.FS

const defaultCatalogPath = "data/symbols.csv"

var (
	defaultOnce    sync.Once
	defaultCatalog []symbolsearch.Symbol
	defaultErr     error
)

// DefaultCatalog returns the embedded symbol catalog. The slice is shared and
// must not be modified.
func DefaultCatalog() ([]symbolsearch.Symbol, error) {
	defaultOnce.Do(func() {
		f, err := dataFS.Open(defaultCatalogPath)
		if err != nil {
			defaultErr = err
			return
		}
		defer f.Close()
		defaultCatalog, defaultErr = ParseCatalog(f)
	})
	return defaultCatalog, defaultErr
}

// ParseCatalog reads a CSV catalog with a ticker,name,market,yahoo_symbol
// header. Column order follows the header; yahoo_symbol is optional.
func ParseCatalog(r io.Reader) ([]symbolsearch.Symbol, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("symbols: read header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"ticker", "name", "market"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("symbols: catalog is missing the %q column", required)
		}
	}

	column := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var out []symbolsearch.Symbol
	seen := make(map[string]struct{})
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("symbols: line %d: %w", line, err)
		}
		symbol := symbolsearch.Symbol{
			Ticker:      column(record, "ticker"),
			Name:        column(record, "name"),
			Market:      column(record, "market"),
			YahooSymbol: column(record, "yahoo_symbol"),
		}
		if symbol.Ticker == "" {
			continue
		}
		key := symbol.Market + ":" + symbol.Ticker
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, symbol)
	}
	return out, nil
}
