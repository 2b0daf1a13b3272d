package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"stockcli/internal/fetcher"
)

// MockFetcher is a hand-written implementation of the Fetcher interface for
// tests that need to control timing rather than assert on calls.
type MockFetcher struct {
	FetchFunc func(ctx context.Context, req fetcher.Request) (fetcher.Result, error)
	NameFunc  func() string
}

// Fetch implements the Fetcher interface
func (m *MockFetcher) Fetch(ctx context.Context, req fetcher.Request) (fetcher.Result, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, req)
	}
	return fetcher.Empty{}, nil
}

// Name implements the Fetcher interface
func (m *MockFetcher) Name() string {
	if m.NameFunc != nil {
		return m.NameFunc()
	}
	return "mock"
}

// NewMockFetcher creates a simple mock fetcher with a predefined result
func NewMockFetcher(name string, result fetcher.Result, err error) *MockFetcher {
	return &MockFetcher{
		FetchFunc: func(context.Context, fetcher.Request) (fetcher.Result, error) {
			return result, err
		},
		NameFunc: func() string {
			return name
		},
	}
}

// Route is a canned response for one request path
type Route struct {
	Status int
	Body   string
}

// Server serves canned JSON by path and records the requests it receives.
// Unknown paths answer 404 the way the provider does for unknown symbols.
type Server struct {
	*httptest.Server

	mu   sync.Mutex
	urls []*url.URL
}

// Hits reports how many requests reached the server
func (s *Server) Hits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.urls)
}

// URLs returns the request URLs in arrival order
func (s *Server) URLs() []*url.URL {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*url.URL(nil), s.urls...)
}

// NewServer starts a fixture server that is closed when the test ends
func NewServer(t *testing.T, routes map[string]Route) *Server {
	t.Helper()

	s := &Server{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.urls = append(s.urls, r.URL)
		s.mu.Unlock()

		route, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if route.Status == 0 {
			route.Status = http.StatusOK
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(route.Status)
		w.Write([]byte(route.Body))
	}))
	t.Cleanup(s.Close)
	return s
}
