package yahoo

import (
	"context"
	"sort"
	"time"

	"github.com/tidwall/gjson"

	"stockcli/internal/fetcher"
)

// History columns, in the order the candlestick renderer expects them
var historyColumns = []string{"Date", "Open", "High", "Low", "Close", "Volume"}

// chart fetches the chart endpoint and returns the first result
func (c *Client) chart(ctx context.Context, symbol string, query map[string]string) (gjson.Result, bool, error) {
	doc, found, err := c.get(ctx, symbolPath("/v8/finance/chart/", symbol), query)
	if err != nil || !found {
		return gjson.Result{}, false, err
	}

	res := doc.Get("chart.result.0")
	return res, res.Exists(), nil
}

// fetchHistory retrieves OHLCV bars. Dividend and split columns are never
// part of the result.
func (c *Client) fetchHistory(ctx context.Context, req fetcher.Request) (fetcher.Result, error) {
	res, found, err := c.chart(ctx, req.Symbol, map[string]string{
		"interval": string(req.Interval),
		"range":    c.historyRange,
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return fetcher.Empty{}, nil
	}

	timestamps := res.Get("timestamp").Array()
	quote := res.Get("indicators.quote.0")
	opens := quote.Get("open").Array()
	highs := quote.Get("high").Array()
	lows := quote.Get("low").Array()
	closes := quote.Get("close").Array()
	volumes := quote.Get("volume").Array()

	table := &fetcher.RowTable{Columns: historyColumns}
	for i, ts := range timestamps {
		open, high, low, closing := at(opens, i), at(highs, i), at(lows, i), at(closes, i)
		if !numbers(open, high, low, closing) {
			// the provider pads in-progress and halted bars with nulls
			continue
		}
		table.Rows = append(table.Rows, []any{
			time.Unix(ts.Int(), 0).UTC(),
			open.Float(),
			high.Float(),
			low.Float(),
			closing.Float(),
			at(volumes, i).Int(),
		})
	}

	if len(table.Rows) == 0 {
		return fetcher.Empty{}, nil
	}
	return table, nil
}

// numbers reports whether every value is a JSON number
func numbers(values ...gjson.Result) bool {
	for _, v := range values {
		if v.Type != gjson.Number {
			return false
		}
	}
	return true
}

// at returns the i-th element or a null result
func at(values []gjson.Result, i int) gjson.Result {
	if i < len(values) {
		return values[i]
	}
	return gjson.Result{}
}

// action is one date of corporate actions
type action struct {
	date     time.Time
	dividend float64
	split    float64
}

// fetchActions retrieves dividends and splits over the full history
func (c *Client) fetchActions(ctx context.Context, req fetcher.Request) (fetcher.Result, error) {
	events := "div,split"
	if req.Kind == fetcher.KindSplits {
		events = "split"
	}

	res, found, err := c.chart(ctx, req.Symbol, map[string]string{
		"interval": string(fetcher.Interval1d),
		"range":    "max",
		"events":   events,
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return fetcher.Empty{}, nil
	}

	byDate := make(map[int64]*action)
	get := func(ts int64) *action {
		a, ok := byDate[ts]
		if !ok {
			a = &action{date: time.Unix(ts, 0).UTC()}
			byDate[ts] = a
		}
		return a
	}

	if req.Kind == fetcher.KindActions {
		res.Get("events.dividends").ForEach(func(_, ev gjson.Result) bool {
			get(ev.Get("date").Int()).dividend = ev.Get("amount").Float()
			return true
		})
	}
	res.Get("events.splits").ForEach(func(_, ev gjson.Result) bool {
		denominator := ev.Get("denominator").Float()
		if denominator == 0 {
			return true
		}
		get(ev.Get("date").Int()).split = ev.Get("numerator").Float() / denominator
		return true
	})

	if len(byDate) == 0 {
		return fetcher.Empty{}, nil
	}

	actions := make([]*action, 0, len(byDate))
	for _, a := range byDate {
		actions = append(actions, a)
	}
	sort.Slice(actions, func(i, j int) bool {
		return actions[i].date.Before(actions[j].date)
	})

	table := &fetcher.RowTable{Columns: []string{"Date", "Dividends", "Stock Splits"}}
	if req.Kind == fetcher.KindSplits {
		table.Columns = []string{"Date", "Stock Splits"}
	}
	for _, a := range actions {
		if req.Kind == fetcher.KindSplits {
			table.Rows = append(table.Rows, []any{a.date, a.split})
			continue
		}
		table.Rows = append(table.Rows, []any{a.date, a.dividend, a.split})
	}

	return table, nil
}
