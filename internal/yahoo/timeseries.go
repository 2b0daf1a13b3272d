package yahoo

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"stockcli/internal/fetcher"
)

// statementItems lists the line items requested for each statement, in
// display order.
var statementItems = map[fetcher.Kind][]string{
	fetcher.KindFinancials: {
		"TotalRevenue", "CostOfRevenue", "GrossProfit", "OperatingExpense",
		"OperatingIncome", "PretaxIncome", "TaxProvision", "NetIncome",
		"EBITDA", "BasicEPS", "DilutedEPS",
	},
	fetcher.KindBalanceSheet: {
		"TotalAssets", "CurrentAssets", "CashAndCashEquivalents", "Receivables",
		"Inventory", "TotalLiabilitiesNetMinorityInterest", "CurrentLiabilities",
		"LongTermDebt", "StockholdersEquity", "RetainedEarnings", "WorkingCapital",
	},
	fetcher.KindCashflow: {
		"OperatingCashFlow", "InvestingCashFlow", "FinancingCashFlow",
		"CapitalExpenditure", "FreeCashFlow", "RepurchaseOfCapitalStock",
		"CashDividendsPaid", "EndCashPosition",
	},
	fetcher.KindEarnings: {
		"TotalRevenue", "NetIncome", "BasicEPS", "DilutedEPS",
	},
}

// statementStart is the earliest period the timeseries endpoint is asked for
const statementStart = 493590046

// statementPrefix maps the quarterly flag onto the provider's type prefix.
// true always means quarterly.
func statementPrefix(quarterly bool) string {
	if quarterly {
		return "quarterly"
	}
	return "annual"
}

// fetchStatement retrieves a financial statement as a time-keyed map whose
// point keys are epoch milliseconds of each reporting date
func (c *Client) fetchStatement(ctx context.Context, req fetcher.Request) (fetcher.Result, error) {
	items, ok := statementItems[req.Kind]
	if !ok {
		return nil, fetcher.NewInvalidArgumentError(fmt.Sprintf("%q is not a statement", req.Kind))
	}

	prefix := statementPrefix(req.Quarterly)
	types := make([]string, len(items))
	for i, item := range items {
		types[i] = prefix + item
	}

	doc, found, err := c.get(ctx, symbolPath("/ws/fundamentals-timeseries/v1/finance/timeseries/", req.Symbol), map[string]string{
		"symbol":  req.Symbol,
		"type":    strings.Join(types, ","),
		"period1": strconv.Itoa(statementStart),
		"period2": strconv.FormatInt(c.now().Unix(), 10),
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return fetcher.Empty{}, nil
	}

	byType := make(map[string]gjson.Result)
	doc.Get("timeseries.result").ForEach(func(_, item gjson.Result) bool {
		typ := item.Get("meta.type.0").String()
		if typ != "" {
			byType[typ] = item.Get(typ)
		}
		return true
	})

	statement := &fetcher.TimeKeyedMap{}
	for i, item := range items {
		points := byType[types[i]]
		if !points.IsArray() {
			continue
		}

		series := fetcher.Series{Name: item}
		points.ForEach(func(_, p gjson.Result) bool {
			asOf, err := time.Parse(time.DateOnly, p.Get("asOfDate").String())
			if err != nil {
				return true
			}
			series.Points = append(series.Points, fetcher.Point{
				Key:   strconv.FormatInt(asOf.UnixMilli(), 10),
				Value: value(p.Get("reportedValue.raw")),
			})
			return true
		})

		if len(series.Points) > 0 {
			statement.Fields = append(statement.Fields, series)
		}
	}

	if len(statement.Fields) == 0 {
		return fetcher.Empty{}, nil
	}
	return statement, nil
}
