// Package tabular turns raw fetch results into uniform text grids.
//
// Three source shapes are handled: row tables are copied, flat key/value maps
// become a two column Name/Value grid, and time-keyed statements are pivoted
// so every reporting date becomes a column.
package tabular

import (
	"fmt"

	"stockcli/internal/fetcher"
)

// DefaultPivotLimit is the number of period columns kept when pivoting
const DefaultPivotLimit = 4

// Grid is a rectangular table of display strings. Every row has exactly
// len(Headers) cells and headers are unique.
type Grid struct {
	Headers []string
	Rows    [][]string
}

// Limit returns a grid holding only the first n columns. A non-positive n
// or one at least as wide as the grid returns g unchanged.
func (g Grid) Limit(n int) Grid {
	if n <= 0 || n >= len(g.Headers) {
		return g
	}

	out := Grid{
		Headers: append([]string(nil), g.Headers[:n]...),
		Rows:    make([][]string, len(g.Rows)),
	}
	for i, row := range g.Rows {
		out.Rows[i] = append([]string(nil), row[:n]...)
	}
	return out
}

// Check verifies the grid invariants.
func (g Grid) Check() error {
	seen := make(map[string]struct{}, len(g.Headers))
	for _, h := range g.Headers {
		if _, dup := seen[h]; dup {
			return fmt.Errorf("duplicate header %q", h)
		}
		seen[h] = struct{}{}
	}
	for i, row := range g.Rows {
		if len(row) != len(g.Headers) {
			return fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(g.Headers))
		}
	}
	return nil
}

// Column returns the index of the named header or -1.
func (g Grid) Column(name string) int {
	for i, h := range g.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

type options struct {
	pivotLimit int
}

// Option configures Normalize.
type Option func(*options)

// WithPivotLimit caps the number of period columns of a pivoted statement.
// Values below one fall back to DefaultPivotLimit.
func WithPivotLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pivotLimit = n
		}
	}
}

// Normalize converts raw into a grid. ok is false when raw carries no data;
// no placeholder rows are ever invented for an empty result.
func Normalize(raw fetcher.Result, opts ...Option) (grid Grid, ok bool) {
	o := options{pivotLimit: DefaultPivotLimit}
	for _, opt := range opts {
		opt(&o)
	}

	if fetcher.IsEmpty(raw) {
		return Grid{}, false
	}

	switch v := raw.(type) {
	case *fetcher.RowTable:
		return fromRows(v), true
	case *fetcher.KeyValueMap:
		return fromEntries(v), true
	case *fetcher.TimeKeyedMap:
		g := pivot(v, o.pivotLimit)
		if len(g.Headers) == 1 {
			// no usable reporting period
			return Grid{}, false
		}
		return g, true
	}
	return Grid{}, false
}

// fromRows copies a row table, fixing duplicate headers and ragged rows
func fromRows(t *fetcher.RowTable) Grid {
	g := Grid{
		Headers: uniqueHeaders(t.Columns),
		Rows:    make([][]string, 0, len(t.Rows)),
	}
	for _, src := range t.Rows {
		row := make([]string, len(g.Headers))
		for i := range row {
			if i < len(src) {
				row[i] = Stringify(src[i])
			}
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}

func fromEntries(kv *fetcher.KeyValueMap) Grid {
	g := Grid{
		Headers: []string{"Name", "Value"},
		Rows:    make([][]string, 0, len(kv.Entries)),
	}
	for _, e := range kv.Entries {
		g.Rows = append(g.Rows, []string{e.Key, Stringify(e.Value)})
	}
	return g
}

// uniqueHeaders suffixes repeated names with " (2)", " (3)" and so on
func uniqueHeaders(columns []string) []string {
	out := make([]string, len(columns))
	seen := make(map[string]int, len(columns))
	taken := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		taken[c] = struct{}{}
	}

	for i, c := range columns {
		seen[c]++
		if seen[c] == 1 {
			out[i] = c
			continue
		}
		n := seen[c]
		name := fmt.Sprintf("%s (%d)", c, n)
		for {
			if _, clash := taken[name]; !clash {
				break
			}
			n++
			name = fmt.Sprintf("%s (%d)", c, n)
		}
		taken[name] = struct{}{}
		out[i] = name
	}
	return out
}
