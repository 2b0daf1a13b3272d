package fetcher

import (
	"log/slog"
	"net/http"
	"time"

	"resty.dev/v3"
)

const (
	// Default retry configuration, used only when retries are enabled
	defaultRetryWaitTime    = 1 * time.Second
	defaultRetryMaxWaitTime = 10 * time.Second

	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) stockcli/1.0"
)

// ClientOptions configures NewHTTPClient.
type ClientOptions struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	// RetryCount is the number of extra attempts after a failure. Zero
	// disables retries.
	RetryCount int
}

// NewHTTPClient creates a new HTTP client for a data provider. Requests are
// logged at debug level; retries with exponential backoff are only enabled
// when opts.RetryCount is positive.
func NewHTTPClient(opts ClientOptions) *resty.Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", opts.UserAgent).
		AddResponseMiddleware(logResponse)

	if opts.RetryCount > 0 {
		client.
			SetRetryCount(opts.RetryCount).
			SetRetryWaitTime(defaultRetryWaitTime).
			SetRetryMaxWaitTime(defaultRetryMaxWaitTime).
			AddRetryConditions(retryCondition).
			AddRetryHooks(retryHook)
	}

	return client
}

// logResponse records every completed request for --verbose runs
func logResponse(_ *resty.Client, r *resty.Response) error {
	slog.Debug("provider response",
		"method", r.Request.Method,
		"url", r.Request.URL,
		"status_code", r.StatusCode(),
		"duration", r.Duration())
	return nil
}

// retryCondition determines whether a request should be retried based on the response and error
func retryCondition(r *resty.Response, err error) bool {
	// Retry on network errors
	if err != nil {
		return true
	}

	switch {
	case r.StatusCode() >= http.StatusInternalServerError:
		return true
	case r.StatusCode() == http.StatusTooManyRequests:
		return true
	case r.StatusCode() == http.StatusRequestTimeout:
		return true
	}

	// A 404 is the provider's way of saying the symbol is unknown
	return false
}

// retryHook logs retry attempts for observability
func retryHook(r *resty.Response, err error) {
	if err != nil {
		slog.Debug("retrying request due to error",
			"url", r.Request.URL,
			"attempt", r.Request.Attempt,
			"error", err.Error())
		return
	}

	slog.Debug("retrying request due to status code",
		"url", r.Request.URL,
		"attempt", r.Request.Attempt,
		"status_code", r.StatusCode())
}
