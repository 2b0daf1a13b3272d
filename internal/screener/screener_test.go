package screener

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"stockcli/internal/fetcher"
)

func marketView(v fetcher.View) fetcher.Request {
	return fetcher.Request{Kind: fetcher.KindMarketView}.WithView(v)
}

func TestClient_Fetch_PredefinedViews(t *testing.T) {
	tests := []struct {
		view   fetcher.View
		scrIDs string
	}{
		{fetcher.ViewMostActive, "most_actives"},
		{fetcher.ViewGainers, "day_gainers"},
		{fetcher.ViewLosers, "day_losers"},
	}

	for _, tt := range tests {
		t.Run(string(tt.view), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/finance/screener/predefined/saved" {
					t.Errorf("path = %q", r.URL.Path)
				}
				if got := r.URL.Query().Get("scrIds"); got != tt.scrIDs {
					t.Errorf("scrIds = %q, want %q", got, tt.scrIDs)
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"finance": {"result": [{"quotes": [
					{"symbol": "NVDA", "shortName": "NVIDIA Corporation", "regularMarketPrice": 547.1, "regularMarketVolume": 52000000, "exchange": "NMS"},
					{"symbol": "TSLA", "regularMarketPrice": 219.91, "marketCap": {"raw": 700000000000, "fmt": "700B"}}
				]}]}}`))
			}))
			defer server.Close()

			client := NewClient(Options{BaseURL: server.URL})
			result, err := client.Fetch(context.Background(), marketView(tt.view))
			if err != nil {
				t.Fatalf("Fetch() returned unexpected error: %v", err)
			}

			table, ok := result.(*fetcher.RowTable)
			if !ok {
				t.Fatalf("Fetch() returned %T, want *fetcher.RowTable", result)
			}

			wantColumns := "symbol,shortName,regularMarketPrice,regularMarketVolume,marketCap"
			if got := strings.Join(table.Columns, ","); got != wantColumns {
				t.Errorf("Columns = %q, want %q", got, wantColumns)
			}
			if len(table.Rows) != 2 {
				t.Fatalf("got %d rows, want 2", len(table.Rows))
			}
			if table.Rows[1][1] != nil {
				t.Errorf("missing shortName = %v, want nil", table.Rows[1][1])
			}
			if table.Rows[1][4] != "700B" {
				t.Errorf("marketCap = %v, want 700B", table.Rows[1][4])
			}
		})
	}
}

func TestClient_Fetch_Trending(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/finance/trending/US" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"finance": {"result": [{"count": 3, "quotes": [
			{"symbol": "AAPL"}, {"symbol": "AMD"}, {"symbol": "PLTR"}
		]}]}}`))
	}))
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL, Count: 2})
	result, err := client.Fetch(context.Background(), marketView(fetcher.ViewTrendingTickers))
	if err != nil {
		t.Fatalf("Fetch() returned unexpected error: %v", err)
	}

	table := result.(*fetcher.RowTable)
	if len(table.Columns) != 1 || table.Columns[0] != "symbol" {
		t.Errorf("Columns = %v, want [symbol]", table.Columns)
	}
	if len(table.Rows) != 2 {
		t.Errorf("got %d rows, want 2 (count cap)", len(table.Rows))
	}
}

func TestClient_Fetch_EmptyView(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"finance": {"result": [{"quotes": []}]}}`))
	}))
	defer server.Close()

	result, err := NewClient(Options{BaseURL: server.URL}).Fetch(context.Background(), marketView(fetcher.ViewLosers))
	if err != nil {
		t.Fatalf("Fetch() returned unexpected error: %v", err)
	}
	if !fetcher.IsEmpty(result) {
		t.Errorf("Fetch() = %#v, want Empty", result)
	}
}

func TestClient_Fetch_UnknownViewSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	_, err := NewClient(Options{BaseURL: server.URL}).Fetch(context.Background(), marketView("winners"))
	if !fetcher.IsUserError(err) {
		t.Fatalf("Fetch() error = %v, want invalid argument", err)
	}
	if !strings.Contains(err.Error(), "'winners'") {
		t.Errorf("error %q does not name the view", err)
	}
	if calls.Load() != 0 {
		t.Errorf("server received %d requests, want 0", calls.Load())
	}
}

func TestClient_Fetch_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewClient(Options{BaseURL: server.URL}).Fetch(context.Background(), marketView(fetcher.ViewGainers))
	if err == nil {
		t.Fatal("Fetch() expected error, got nil")
	}
	if fetcher.IsUserError(err) {
		t.Errorf("server failure reported as a user error: %v", err)
	}
}

func TestClient_Fetch_ResponseClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantEmpty bool
		wantType  fetcher.ErrorType
	}{
		{"not found", http.StatusNotFound, ``, true, ""},
		{"malformed", http.StatusOK, `{"finance": [`, false, fetcher.ErrorTypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			result, err := NewClient(Options{BaseURL: server.URL}).Fetch(context.Background(), marketView(fetcher.ViewLosers))

			if tt.wantEmpty {
				if err != nil {
					t.Fatalf("Fetch() returned unexpected error: %v", err)
				}
				if !fetcher.IsEmpty(result) {
					t.Errorf("Fetch() = %T, want Empty", result)
				}
				return
			}

			var fe *fetcher.FetchError
			if !errors.As(err, &fe) || fe.Type != tt.wantType {
				t.Fatalf("Fetch() error = %v, want %s", err, tt.wantType)
			}
		})
	}
}
