package tabular

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"stockcli/internal/fetcher"
)

// AttributeHeader labels the line item column of a pivoted statement
const AttributeHeader = "Attribute"

// pivot turns line item -> (timestamp -> value) into one row per line item
// and one column per reporting date, most recent first.
func pivot(m *fetcher.TimeKeyedMap, limit int) Grid {
	values := make([]map[string]any, len(m.Fields))
	dates := make(map[string]struct{})

	for i, series := range m.Fields {
		values[i] = make(map[string]any, len(series.Points))
		for _, p := range series.Points {
			date, ok := periodDate(p.Key)
			if !ok {
				continue
			}
			values[i][date] = p.Value
			dates[date] = struct{}{}
		}
	}

	columns := make([]string, 0, len(dates))
	for d := range dates {
		columns = append(columns, d)
	}
	// YYYY-MM-DD sorts chronologically as text
	sort.Sort(sort.Reverse(sort.StringSlice(columns)))
	if len(columns) > limit {
		columns = columns[:limit]
	}

	g := Grid{
		Headers: append([]string{AttributeHeader}, columns...),
		Rows:    make([][]string, 0, len(m.Fields)),
	}
	for i, series := range m.Fields {
		row := make([]string, len(g.Headers))
		row[0] = series.Name
		for j, date := range columns {
			if v, ok := values[i][date]; ok {
				row[j+1] = Stringify(v)
			}
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}

// periodDate formats an epoch-millisecond key as a UTC date. Keys that are
// not whole-second epoch milliseconds are rejected.
func periodDate(key string) (string, bool) {
	if len(key) < 4 || !strings.HasSuffix(key, "000") {
		return "", false
	}
	ms, err := strconv.ParseInt(key, 10, 64)
	if err != nil || ms < 0 {
		return "", false
	}
	return time.Unix(ms/1000, 0).UTC().Format(time.DateOnly), true
}
