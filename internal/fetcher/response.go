package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/tidwall/gjson"
	"resty.dev/v3"
)

// GetJSON issues a GET on client and parses the body. found is false when
// the provider answered 404, which is how it reports an unknown symbol or
// an empty list. Any other failure is returned as a *FetchError.
func GetJSON(ctx context.Context, client *resty.Client, path string, query map[string]string) (doc gjson.Result, found bool, err error) {
	resp, err := client.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(path)

	if err != nil {
		return gjson.Result{}, false, fmt.Errorf("failed to fetch %s: %w", path, ClassifyTransportError(err))
	}

	if resp.StatusCode() == http.StatusNotFound {
		slog.Debug("provider has no data", "path", path)
		return gjson.Result{}, false, nil
	}

	if !resp.IsSuccess() {
		return gjson.Result{}, false, ClassifyHTTPError(resp.StatusCode())
	}

	body := resp.Bytes()
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, false, NewValidationError(fmt.Sprintf("malformed JSON from %s", path))
	}

	return gjson.ParseBytes(body), true, nil
}
