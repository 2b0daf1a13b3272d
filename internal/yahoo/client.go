package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
	"resty.dev/v3"

	"stockcli/internal/fetcher"
)

const (
	defaultHistoryRange = "1mo"
	defaultNewsCount    = 10
)

// Options configures a Client.
type Options struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	RetryCount int

	// HistoryRange is the lookback passed to the chart endpoint for history requests.
	HistoryRange string
	// NewsCount caps the number of news records requested.
	NewsCount int

	// Now is the clock used for statement period bounds. Defaults to time.Now.
	Now func() time.Time
}

// Client fetches per-symbol datasets from Yahoo Finance's public query API
type Client struct {
	client       *resty.Client
	historyRange string
	newsCount    int
	now          func() time.Time
}

// NewClient creates a new Yahoo Finance data source
func NewClient(opts Options) *Client {
	c := &Client{
		client: fetcher.NewHTTPClient(fetcher.ClientOptions{
			BaseURL:    opts.BaseURL,
			UserAgent:  opts.UserAgent,
			Timeout:    opts.Timeout,
			RetryCount: opts.RetryCount,
		}),
		historyRange: opts.HistoryRange,
		newsCount:    opts.NewsCount,
		now:          opts.Now,
	}
	if c.historyRange == "" {
		c.historyRange = defaultHistoryRange
	}
	if c.newsCount <= 0 {
		c.newsCount = defaultNewsCount
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Name implements fetcher.Fetcher
func (c *Client) Name() string {
	return "yahoo"
}

// Fetch retrieves the dataset named by req.Kind
func (c *Client) Fetch(ctx context.Context, req fetcher.Request) (fetcher.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	switch req.Kind {
	case fetcher.KindQuote:
		return c.fetchQuote(ctx, req)
	case fetcher.KindHistory:
		return c.fetchHistory(ctx, req)
	case fetcher.KindActions, fetcher.KindSplits:
		return c.fetchActions(ctx, req)
	case fetcher.KindFinancials, fetcher.KindBalanceSheet, fetcher.KindCashflow, fetcher.KindEarnings:
		return c.fetchStatement(ctx, req)
	case fetcher.KindHolders:
		return c.fetchHolders(ctx, req)
	case fetcher.KindInstitutionalHolders:
		return c.fetchInstitutionalHolders(ctx, req)
	case fetcher.KindSustainability:
		return c.fetchSustainability(ctx, req)
	case fetcher.KindRecommendations:
		return c.fetchRecommendations(ctx, req)
	case fetcher.KindCalendar:
		return c.fetchCalendar(ctx, req)
	case fetcher.KindNews:
		return c.fetchNews(ctx, req)
	}

	return nil, fetcher.NewInvalidArgumentError(fmt.Sprintf("dataset %q is not served by %s", req.Kind, c.Name()))
}

// get fetches path from the provider. found is false for an unknown symbol.
func (c *Client) get(ctx context.Context, path string, query map[string]string) (gjson.Result, bool, error) {
	return fetcher.GetJSON(ctx, c.client, path, query)
}

// symbolPath joins a path prefix and an escaped symbol
func symbolPath(prefix, symbol string) string {
	return prefix + url.PathEscape(symbol)
}

// value converts a JSON scalar into the cell types the normalizer understands.
// Numbers keep their exact textual form.
func value(r gjson.Result) any {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.True, gjson.False:
		return r.Bool()
	case gjson.Number:
		return json.Number(r.Raw)
	case gjson.String:
		return r.String()
	case gjson.JSON:
		return r.Raw
	}
	return nil
}

// formatted prefers the provider's display string of a {raw, fmt} pair
func formatted(r gjson.Result) any {
	if r.IsObject() {
		if f := r.Get("fmt"); f.Exists() && f.Type != gjson.Null {
			return f.String()
		}
		if raw := r.Get("raw"); raw.Exists() {
			return value(raw)
		}
		if len(r.Map()) == 0 {
			return nil
		}
	}
	return value(r)
}

// epoch converts a unix-seconds JSON value into a UTC time
func epoch(r gjson.Result) any {
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	return time.Unix(r.Int(), 0).UTC()
}
