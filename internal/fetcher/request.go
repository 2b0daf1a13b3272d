package fetcher

import (
	"fmt"
	"strings"
)

// Kind names one dataset a command can request.
type Kind string

const (
	KindQuote                Kind = "quote"
	KindHistory              Kind = "history"
	KindActions              Kind = "actions"
	KindSplits               Kind = "splits"
	KindFinancials           Kind = "financials"
	KindBalanceSheet         Kind = "balance-sheet"
	KindCashflow             Kind = "cashflow"
	KindEarnings             Kind = "earnings"
	KindHolders              Kind = "holders"
	KindInstitutionalHolders Kind = "institutional-holders"
	KindSustainability       Kind = "sustainability"
	KindRecommendations      Kind = "recommendations"
	KindCalendar             Kind = "calendar"
	KindNews                 Kind = "news"
	KindMarketView           Kind = "market-view"
)

// IsStatement reports whether the kind is served as a time-keyed financial statement.
func (k Kind) IsStatement() bool {
	switch k {
	case KindFinancials, KindBalanceSheet, KindCashflow, KindEarnings:
		return true
	}
	return false
}

// Interval is the bar size of a history request.
type Interval string

const (
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval1h  Interval = "1h"
	Interval1d  Interval = "1d"
)

// Intervals lists every accepted interval in display order.
var Intervals = []Interval{Interval5m, Interval15m, Interval30m, Interval1h, Interval1d}

// ParseInterval returns the interval named by s or an invalid argument error
// that lists the accepted values.
func ParseInterval(s string) (Interval, error) {
	for _, iv := range Intervals {
		if string(iv) == s {
			return iv, nil
		}
	}
	names := make([]string, len(Intervals))
	for i, iv := range Intervals {
		names[i] = string(iv)
	}
	return "", NewInvalidArgumentError(fmt.Sprintf(
		"unrecognized interval: '%s'. The interval should be one of %s", s, strings.Join(names, ", ")))
}

// View is a market-wide list served by the screener.
type View string

const (
	ViewTrendingTickers View = "trending-tickers"
	ViewMostActive      View = "most-active"
	ViewGainers         View = "gainers"
	ViewLosers          View = "losers"
)

// Views lists every accepted market view in display order.
var Views = []View{ViewTrendingTickers, ViewMostActive, ViewGainers, ViewLosers}

// ParseView returns the view named by s or an invalid argument error.
func ParseView(s string) (View, error) {
	for _, v := range Views {
		if string(v) == s {
			return v, nil
		}
	}
	names := make([]string, len(Views))
	for i, v := range Views {
		names[i] = "'" + string(v) + "'"
	}
	return "", NewInvalidArgumentError(fmt.Sprintf(
		"unrecognized arguments '%s'. The view should be %s", s, strings.Join(names, ", ")))
}

// Request describes a single dataset fetch. It is a value type: build it with
// NewRequest and pass it around by copy.
type Request struct {
	Symbol    string
	Kind      Kind
	Interval  Interval
	Quarterly bool
	View      View
}

// NewRequest builds a request for kind with the symbol canonicalized to upper case.
func NewRequest(kind Kind, symbol string) Request {
	return Request{
		Symbol: strings.ToUpper(strings.TrimSpace(symbol)),
		Kind:   kind,
	}
}

// WithInterval returns a copy of r using the given interval.
func (r Request) WithInterval(iv Interval) Request {
	r.Interval = iv
	return r
}

// WithQuarterly returns a copy of r selecting quarterly statements when q is true.
func (r Request) WithQuarterly(q bool) Request {
	r.Quarterly = q
	return r
}

// WithView returns a copy of r for the given market view.
func (r Request) WithView(v View) Request {
	r.View = v
	return r
}

// Validate checks everything that can be checked without a network round trip.
func (r Request) Validate() error {
	switch r.Kind {
	case KindMarketView:
		_, err := ParseView(string(r.View))
		return err
	case KindHistory:
		if _, err := ParseInterval(string(r.Interval)); err != nil {
			return err
		}
	case "":
		return NewInvalidArgumentError("dataset kind is required")
	}
	if r.Symbol == "" {
		return NewInvalidArgumentError("market symbol is required")
	}
	return nil
}

// Label is the subject of the request as shown to the user.
func (r Request) Label() string {
	if r.Kind == KindMarketView {
		return string(r.View)
	}
	return r.Symbol
}
