package coordinator_test

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"stockcli/internal/coordinator"
	"stockcli/internal/fetcher"
	"stockcli/internal/render"
	"stockcli/internal/testutil"
)

func newMock(ctrl *gomock.Controller, name string) *MockFetcher {
	m := NewMockFetcher(ctrl)
	m.EXPECT().Name().Return(name).AnyTimes()
	return m
}

func fiscalYearEnd(year int) string {
	return strconv.FormatInt(time.Date(year, 9, 30, 0, 0, 0, 0, time.UTC).UnixMilli(), 10)
}

func statement() *fetcher.TimeKeyedMap {
	revenue := fetcher.Series{Name: "TotalRevenue"}
	for year := 2019; year <= 2024; year++ {
		revenue.Points = append(revenue.Points, fetcher.Point{Key: fiscalYearEnd(year), Value: float64(year * 1000)})
	}
	return &fetcher.TimeKeyedMap{Fields: []fetcher.Series{revenue}}
}

func TestRun_Quote(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	yahoo := newMock(ctrl, "yahoo")

	req := fetcher.NewRequest(fetcher.KindQuote, "aapl")
	yahoo.EXPECT().
		Fetch(gomock.Any(), req).
		Return(&fetcher.KeyValueMap{Entries: []fetcher.Entry{
			{Key: "symbol", Value: "AAPL"},
			{Key: "regularMarketPrice", Value: 178.23},
			{Key: "dividendDate", Value: nil},
		}}, nil).
		Times(1)

	var out bytes.Buffer
	err := coordinator.New(yahoo, coordinator.WithOutput(&out)).Run(t.Context(), req)
	require.NoError(t, err)

	require.Equal(t, "AAPL Quote\nsymbol      AAPL\nregularMarketPrice 178.23\ndividendDate N/A\n", out.String())
}

func TestRun_InvalidIntervalNeverFetches(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	yahoo := newMock(ctrl, "yahoo")
	yahoo.EXPECT().Fetch(gomock.Any(), gomock.Any()).Times(0)

	var out bytes.Buffer
	req := fetcher.NewRequest(fetcher.KindHistory, "AAPL").WithInterval("2d")
	err := coordinator.New(yahoo, coordinator.WithOutput(&out)).Run(t.Context(), req)

	require.Error(t, err)
	require.True(t, fetcher.IsUserError(err))
	require.Contains(t, err.Error(), "unrecognized interval: '2d'")
	require.Empty(t, out.String())
}

func TestRun_MissingSymbolNeverFetches(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	yahoo := newMock(ctrl, "yahoo")
	yahoo.EXPECT().Fetch(gomock.Any(), gomock.Any()).Times(0)

	err := coordinator.New(yahoo, coordinator.WithOutput(&bytes.Buffer{})).
		Run(t.Context(), fetcher.NewRequest(fetcher.KindNews, "  "))
	require.True(t, fetcher.IsUserError(err))
}

func TestRun_EmptyIsNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result fetcher.Result
	}{
		{"empty", fetcher.Empty{}},
		{"nil", nil},
		{"no rows", &fetcher.RowTable{Columns: []string{"Date"}}},
		{"only malformed periods", &fetcher.TimeKeyedMap{Fields: []fetcher.Series{
			{Name: "TotalRevenue", Points: []fetcher.Point{{Key: "2023-09-30", Value: 1.0}}},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			yahoo := newMock(ctrl, "yahoo")
			yahoo.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(tt.result, nil)

			var out bytes.Buffer
			err := coordinator.New(yahoo, coordinator.WithOutput(&out)).
				Run(t.Context(), fetcher.NewRequest(fetcher.KindFinancials, "zzzz"))

			var fe *fetcher.FetchError
			require.ErrorAs(t, err, &fe)
			require.Equal(t, fetcher.ErrorTypeNotFound, fe.Type)
			require.Equal(t, "unrecognized market: 'ZZZZ'", fe.Message)
			require.Empty(t, out.String())
		})
	}
}

func TestRun_FetchErrorPassesThrough(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	yahoo := newMock(ctrl, "yahoo")
	yahoo.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(nil, fetcher.NewServerError(503))

	err := coordinator.New(yahoo, coordinator.WithOutput(&bytes.Buffer{})).
		Run(t.Context(), fetcher.NewRequest(fetcher.KindHolders, "AAPL"))

	var fe *fetcher.FetchError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, fetcher.ErrorTypeServer, fe.Type)
	require.False(t, fetcher.IsUserError(err))
}

func TestRun_FinancePivotCapsPeriods(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	yahoo := newMock(ctrl, "yahoo")
	yahoo.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(statement(), nil)

	var out bytes.Buffer
	req := fetcher.NewRequest(fetcher.KindFinancials, "AAPL")
	require.NoError(t, coordinator.New(yahoo, coordinator.WithOutput(&out)).Run(t.Context(), req))

	got := out.String()
	require.True(t, strings.HasPrefix(got, "AAPL Income Statement (annual)\n"))
	for _, want := range []string{"Attribute", "TotalRevenue", "2024-09-30", "2023-09-30", "2022-09-30", "2021-09-30", "2024000"} {
		require.Contains(t, got, want)
	}
	require.NotContains(t, got, "2020-09-30")
	require.NotContains(t, got, "2019-09-30")

	// most recent period comes first
	require.Less(t, strings.Index(got, "2024-09-30"), strings.Index(got, "2021-09-30"))
}

func TestRun_StatementPivotLimit(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	yahoo := newMock(ctrl, "yahoo")
	yahoo.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(statement(), nil)

	var out bytes.Buffer
	req := fetcher.NewRequest(fetcher.KindBalanceSheet, "AAPL").WithQuarterly(true)
	c := coordinator.New(yahoo, coordinator.WithOutput(&out), coordinator.WithPivotLimit(6), coordinator.WithWidth(200))
	require.NoError(t, c.Run(t.Context(), req))

	require.Contains(t, out.String(), "AAPL Balance Sheet (quarterly)")
	require.Contains(t, out.String(), "2019-09-30")
}

func TestRun_ColumnCap(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	yahoo := newMock(ctrl, "yahoo")
	yahoo.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(&fetcher.RowTable{
		Columns: []string{"Value", "Breakdown", "Extra"},
		Rows:    [][]any{{"0.07%", "% of Shares Held by All Insider", "dropped"}},
	}, nil)

	var out bytes.Buffer
	require.NoError(t, coordinator.New(yahoo, coordinator.WithOutput(&out)).
		Run(t.Context(), fetcher.NewRequest(fetcher.KindHolders, "AAPL")))

	require.Contains(t, out.String(), "Breakdown")
	require.NotContains(t, out.String(), "Extra")
	require.NotContains(t, out.String(), "dropped")
}

func TestRun_MarketViewRoutesToScreener(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	yahoo := newMock(ctrl, "yahoo")
	yahoo.EXPECT().Fetch(gomock.Any(), gomock.Any()).Times(0)

	screener := newMock(ctrl, "screener")
	req := fetcher.NewRequest(fetcher.KindMarketView, "").WithView(fetcher.ViewGainers)
	screener.EXPECT().Fetch(gomock.Any(), req).Return(&fetcher.RowTable{
		Columns: []string{"symbol", "regularMarketChangePercent"},
		Rows:    [][]any{{"NVDA", 4.5}, {"AMD", nil}},
	}, nil)

	var out bytes.Buffer
	c := coordinator.New(yahoo,
		coordinator.WithFetcher(fetcher.KindMarketView, screener),
		coordinator.WithOutput(&out))
	require.NoError(t, c.Run(t.Context(), req))

	require.Equal(t, "gainers\n"+
		"symbol      NVDA\nregularMarketChangePercent 4.5\n\n"+
		"symbol      AMD\nregularMarketChangePercent N/A\n", out.String())
}

func TestRun_History(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	yahoo := newMock(ctrl, "yahoo")

	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	yahoo.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(&fetcher.RowTable{
		Columns: []string{"Date", "Open", "High", "Low", "Close", "Volume"},
		Rows: [][]any{
			{day, 10.0, 12.0, 9.0, 11.0, int64(100)},
			{day.AddDate(0, 0, 1), 11.0, 11.5, 8.0, 9.0, int64(300)},
		},
	}, nil)

	var out bytes.Buffer
	req := fetcher.NewRequest(fetcher.KindHistory, "aapl").WithInterval(fetcher.Interval1h)
	require.NoError(t, coordinator.New(yahoo, coordinator.WithOutput(&out)).Run(t.Context(), req))

	require.True(t, strings.HasPrefix(out.String(), "AAPL@1h\n"))
	require.Contains(t, out.String(), "2024-01-03")
}

func TestRun_HistoryRejectsNonTable(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	yahoo := newMock(ctrl, "yahoo")
	yahoo.EXPECT().Fetch(gomock.Any(), gomock.Any()).
		Return(&fetcher.KeyValueMap{Entries: []fetcher.Entry{{Key: "a", Value: 1}}}, nil)

	req := fetcher.NewRequest(fetcher.KindHistory, "AAPL").WithInterval(fetcher.Interval1d)
	err := coordinator.New(yahoo, coordinator.WithOutput(&bytes.Buffer{})).Run(t.Context(), req)
	require.Error(t, err)
	require.False(t, fetcher.IsUserError(err))
}

func TestRun_SpinnerStopsWithFetch(t *testing.T) {
	t.Parallel()

	slow := &testutil.MockFetcher{
		FetchFunc: func(ctx context.Context, req fetcher.Request) (fetcher.Result, error) {
			select {
			case <-time.After(300 * time.Millisecond):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			return &fetcher.KeyValueMap{Entries: []fetcher.Entry{{Key: "symbol", Value: req.Symbol}}}, nil
		},
	}

	var out, spin bytes.Buffer
	c := coordinator.New(slow, coordinator.WithOutput(&out), coordinator.WithSpinner(&spin))
	require.NoError(t, c.Run(t.Context(), fetcher.NewRequest(fetcher.KindQuote, "msft")))

	require.Contains(t, spin.String(), "Loading MSFT")
	require.True(t, strings.HasSuffix(spin.String(), "\r"), "spinner line should be erased")
	require.Contains(t, out.String(), "symbol      MSFT")
}

func TestRun_SpinnerFetchError(t *testing.T) {
	t.Parallel()

	boom := fetcher.NewNetworkError(errors.New("connection refused"))
	f := testutil.NewMockFetcher("yahoo", nil, boom)

	var spin bytes.Buffer
	err := coordinator.New(f, coordinator.WithOutput(&bytes.Buffer{}), coordinator.WithSpinner(&spin)).
		Run(t.Context(), fetcher.NewRequest(fetcher.KindNews, "AAPL"))
	require.ErrorIs(t, err, boom)
}

type closedWriter struct{}

func (closedWriter) Write([]byte) (int, error) { return 0, errors.New("stderr closed") }

func TestRun_SpinnerWriteErrorDoesNotFailFetch(t *testing.T) {
	t.Parallel()

	var fetched bool
	f := &testutil.MockFetcher{
		FetchFunc: func(ctx context.Context, req fetcher.Request) (fetcher.Result, error) {
			select {
			case <-time.After(150 * time.Millisecond):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			fetched = true
			return &fetcher.KeyValueMap{Entries: []fetcher.Entry{{Key: "symbol", Value: req.Symbol}}}, nil
		},
	}

	var out bytes.Buffer
	c := coordinator.New(f, coordinator.WithOutput(&out), coordinator.WithSpinner(closedWriter{}))
	require.NoError(t, c.Run(t.Context(), fetcher.NewRequest(fetcher.KindQuote, "aapl")))

	require.True(t, fetched)
	require.Contains(t, out.String(), "symbol      AAPL")
}

func TestRun_Cancelled(t *testing.T) {
	t.Parallel()

	f := &testutil.MockFetcher{
		FetchFunc: func(ctx context.Context, _ fetcher.Request) (fetcher.Result, error) {
			<-ctx.Done()
			return nil, fetcher.ClassifyTransportError(ctx.Err())
		},
	}

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	err := coordinator.New(f, coordinator.WithOutput(&bytes.Buffer{}), coordinator.WithSpinner(&bytes.Buffer{})).
		Run(ctx, fetcher.NewRequest(fetcher.KindQuote, "AAPL"))

	var fe *fetcher.FetchError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, fetcher.ErrorTypeTimeout, fe.Type)
}

func TestProfiles(t *testing.T) {
	t.Parallel()

	kinds := []fetcher.Kind{
		fetcher.KindQuote, fetcher.KindHistory, fetcher.KindActions, fetcher.KindSplits,
		fetcher.KindFinancials, fetcher.KindBalanceSheet, fetcher.KindCashflow, fetcher.KindEarnings,
		fetcher.KindHolders, fetcher.KindInstitutionalHolders, fetcher.KindSustainability,
		fetcher.KindRecommendations, fetcher.KindCalendar, fetcher.KindNews, fetcher.KindMarketView,
	}
	for _, k := range kinds {
		_, ok := coordinator.ProfileFor(k)
		require.Truef(t, ok, "no profile for %s", k)
	}

	tests := []struct {
		kind    fetcher.Kind
		mode    render.Mode
		columns int
	}{
		{fetcher.KindFinancials, render.BoxedTable, 5},
		{fetcher.KindHolders, render.BoxedTable, 2},
		{fetcher.KindInstitutionalHolders, render.BoxedTable, 5},
		{fetcher.KindRecommendations, render.BoxedTable, 5},
		{fetcher.KindCalendar, render.BoxedTable, 3},
		{fetcher.KindQuote, render.KeyValueList, 0},
		{fetcher.KindNews, render.PanelGrid, 0},
		{fetcher.KindHistory, render.CandleChart, 0},
	}
	for _, tt := range tests {
		p, _ := coordinator.ProfileFor(tt.kind)
		require.Equal(t, tt.mode, p.Mode, tt.kind)
		require.Equal(t, tt.columns, p.Columns, tt.kind)
	}
}
