package yahoo

import (
	"context"
	"log/slog"

	"github.com/tidwall/gjson"

	"stockcli/internal/fetcher"
)

// primaryPriceField is unset for symbols the provider does not recognize
const primaryPriceField = "regularMarketPrice"

// fetchQuote retrieves every snapshot field of the symbol in provider order
func (c *Client) fetchQuote(ctx context.Context, req fetcher.Request) (fetcher.Result, error) {
	doc, found, err := c.get(ctx, "/v7/finance/quote", map[string]string{
		"symbols": req.Symbol,
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return fetcher.Empty{}, nil
	}

	quote := doc.Get("quoteResponse.result.0")
	price := quote.Get(primaryPriceField)
	if !quote.Exists() || !price.Exists() || price.Type == gjson.Null {
		slog.Debug("quote has no price", "symbol", req.Symbol)
		return fetcher.Empty{}, nil
	}

	kv := &fetcher.KeyValueMap{}
	quote.ForEach(func(key, val gjson.Result) bool {
		kv.Entries = append(kv.Entries, fetcher.Entry{Key: key.String(), Value: value(val)})
		return true
	})

	return kv, nil
}
