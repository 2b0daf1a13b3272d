package fetcher

import "context"

//go:generate mockgen -package=coordinator_test -destination=../coordinator/mock_fetcher_test.go -source=fetcher.go Fetcher

// Fetcher is the core interface that every data source adapter implements.
// An adapter knows how to turn a Request into one of the Result shapes and
// nothing about how that result is displayed.
type Fetcher interface {
	// Fetch retrieves the dataset named by req.Kind for req.Symbol.
	// A symbol the provider does not know is reported as Empty, not as an
	// error. Transport and HTTP failures are returned as *FetchError.
	Fetch(ctx context.Context, req Request) (Result, error)

	// Name identifies the adapter in logs.
	// Examples:
	//   - yahoo
	//   - screener
	Name() string
}
