// Package screener serves market-wide lists (trending tickers, most active,
// gainers, losers) from the provider's aggregation endpoints.
package screener

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
	"resty.dev/v3"

	"stockcli/internal/fetcher"
)

const defaultCount = 25

// preferredFields are shown for every record, in this order, when present
var preferredFields = []string{
	"symbol",
	"shortName",
	"regularMarketPrice",
	"regularMarketChange",
	"regularMarketChangePercent",
	"regularMarketVolume",
	"marketCap",
}

// screenerIDs maps the predefined views onto saved screener ids
var screenerIDs = map[fetcher.View]string{
	fetcher.ViewMostActive: "most_actives",
	fetcher.ViewGainers:    "day_gainers",
	fetcher.ViewLosers:     "day_losers",
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	RetryCount int
	// Count caps the number of records per view.
	Count int
}

// Client fetches market views
type Client struct {
	client *resty.Client
	count  int
}

// NewClient creates a new market view source
func NewClient(opts Options) *Client {
	count := opts.Count
	if count <= 0 {
		count = defaultCount
	}

	return &Client{
		client: fetcher.NewHTTPClient(fetcher.ClientOptions{
			BaseURL:    opts.BaseURL,
			UserAgent:  opts.UserAgent,
			Timeout:    opts.Timeout,
			RetryCount: opts.RetryCount,
		}),
		count: count,
	}
}

// Name implements fetcher.Fetcher
func (c *Client) Name() string {
	return "screener"
}

// Fetch retrieves the records of req.View
func (c *Client) Fetch(ctx context.Context, req fetcher.Request) (fetcher.Result, error) {
	if req.Kind != fetcher.KindMarketView {
		return nil, fetcher.NewInvalidArgumentError(fmt.Sprintf("dataset %q is not served by %s", req.Kind, c.Name()))
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	path := "/v1/finance/trending/US"
	query := map[string]string{"count": strconv.Itoa(c.count)}
	if id, ok := screenerIDs[req.View]; ok {
		path = "/v1/finance/screener/predefined/saved"
		query["scrIds"] = id
	}

	doc, found, err := fetcher.GetJSON(ctx, c.client, path, query)
	if err != nil {
		return nil, fmt.Errorf("market view %s: %w", req.View, err)
	}
	if !found {
		return fetcher.Empty{}, nil
	}

	quotes := doc.Get("finance.result.0.quotes").Array()
	if len(quotes) > c.count {
		quotes = quotes[:c.count]
	}
	return records(quotes), nil
}

// records projects the quotes onto the preferred fields any of them carry.
// Records missing a field get a nil cell.
func records(quotes []gjson.Result) fetcher.Result {
	if len(quotes) == 0 {
		return fetcher.Empty{}
	}

	var columns []string
	for _, field := range preferredFields {
		for _, q := range quotes {
			if q.Get(field).Exists() {
				columns = append(columns, field)
				break
			}
		}
	}
	if len(columns) == 0 {
		return fetcher.Empty{}
	}

	table := &fetcher.RowTable{Columns: columns}
	for _, q := range quotes {
		row := make([]any, len(columns))
		for i, field := range columns {
			row[i] = cell(q.Get(field))
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// cell converts a quote field, which is either a scalar or a {raw, fmt} pair
func cell(r gjson.Result) any {
	switch {
	case !r.Exists(), r.Type == gjson.Null:
		return nil
	case r.IsObject():
		return r.Get("fmt").String()
	case r.Type == gjson.Number:
		return r.Float()
	case r.Type == gjson.True, r.Type == gjson.False:
		return r.Bool()
	}
	return r.String()
}
