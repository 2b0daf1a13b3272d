package yahoo

import (
	"context"
	"strconv"

	"github.com/tidwall/gjson"

	"stockcli/internal/fetcher"
)

// NewsColumns are the fields of every news record, in panel order
var NewsColumns = []string{"publisher", "type", "title", "link", "publishTime"}

func (c *Client) fetchNews(ctx context.Context, req fetcher.Request) (fetcher.Result, error) {
	doc, found, err := c.get(ctx, "/v1/finance/search", map[string]string{
		"q":           req.Symbol,
		"quotesCount": "0",
		"newsCount":   strconv.Itoa(c.newsCount),
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return fetcher.Empty{}, nil
	}

	table := &fetcher.RowTable{Columns: NewsColumns}
	doc.Get("news").ForEach(func(_, n gjson.Result) bool {
		table.Rows = append(table.Rows, []any{
			value(n.Get("publisher")),
			value(n.Get("type")),
			value(n.Get("title")),
			value(n.Get("link")),
			epoch(n.Get("providerPublishTime")),
		})
		return true
	})

	return rowsOrEmpty(table), nil
}
