package yahoo

import (
	"context"
	"strings"

	"github.com/tidwall/gjson"

	"stockcli/internal/fetcher"
)

// summaryModule fetches one quoteSummary module for the symbol
func (c *Client) summaryModule(ctx context.Context, symbol, module string) (gjson.Result, bool, error) {
	doc, found, err := c.get(ctx, symbolPath("/v10/finance/quoteSummary/", symbol), map[string]string{
		"modules": module,
	})
	if err != nil || !found {
		return gjson.Result{}, false, err
	}

	m := doc.Get("quoteSummary.result.0." + module)
	return m, m.Exists() && m.IsObject(), nil
}

// rowsOrEmpty returns Empty for a table without rows
func rowsOrEmpty(t *fetcher.RowTable) fetcher.Result {
	if len(t.Rows) == 0 {
		return fetcher.Empty{}
	}
	return t
}

// majorHolders labels each breakdown field the way holders are reported
var majorHolders = []struct {
	field string
	label string
}{
	{"insidersPercentHeld", "% of Shares Held by All Insider"},
	{"institutionsPercentHeld", "% of Shares Held by Institutions"},
	{"institutionsFloatPercentHeld", "% of Float Held by Institutions"},
	{"institutionsCount", "Number of Institutions Holding Shares"},
}

func (c *Client) fetchHolders(ctx context.Context, req fetcher.Request) (fetcher.Result, error) {
	m, found, err := c.summaryModule(ctx, req.Symbol, "majorHoldersBreakdown")
	if err != nil {
		return nil, err
	}
	if !found {
		return fetcher.Empty{}, nil
	}

	table := &fetcher.RowTable{Columns: []string{"Value", "Breakdown"}}
	for _, h := range majorHolders {
		v := m.Get(h.field)
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}
		table.Rows = append(table.Rows, []any{formatted(v), h.label})
	}

	return rowsOrEmpty(table), nil
}

func (c *Client) fetchInstitutionalHolders(ctx context.Context, req fetcher.Request) (fetcher.Result, error) {
	m, found, err := c.summaryModule(ctx, req.Symbol, "institutionOwnership")
	if err != nil {
		return nil, err
	}
	if !found {
		return fetcher.Empty{}, nil
	}

	table := &fetcher.RowTable{Columns: []string{"Holder", "Shares", "Date Reported", "% Out", "Value"}}
	m.Get("ownershipList").ForEach(func(_, o gjson.Result) bool {
		table.Rows = append(table.Rows, []any{
			value(o.Get("organization")),
			value(o.Get("position.raw")),
			epoch(o.Get("reportDate.raw")),
			formatted(o.Get("pctHeld")),
			value(o.Get("value.raw")),
		})
		return true
	})

	return rowsOrEmpty(table), nil
}

func (c *Client) fetchSustainability(ctx context.Context, req fetcher.Request) (fetcher.Result, error) {
	m, found, err := c.summaryModule(ctx, req.Symbol, "esgScores")
	if err != nil {
		return nil, err
	}
	if !found {
		return fetcher.Empty{}, nil
	}

	table := &fetcher.RowTable{Columns: []string{"Attribute", "Value"}}
	m.ForEach(func(key, v gjson.Result) bool {
		if key.String() == "maxAge" {
			return true
		}
		table.Rows = append(table.Rows, []any{key.String(), formatted(v)})
		return true
	})

	return rowsOrEmpty(table), nil
}

func (c *Client) fetchRecommendations(ctx context.Context, req fetcher.Request) (fetcher.Result, error) {
	m, found, err := c.summaryModule(ctx, req.Symbol, "upgradeDowngradeHistory")
	if err != nil {
		return nil, err
	}
	if !found {
		return fetcher.Empty{}, nil
	}

	table := &fetcher.RowTable{Columns: []string{"Date", "Firm", "To Grade", "From Grade", "Action"}}
	m.Get("history").ForEach(func(_, h gjson.Result) bool {
		table.Rows = append(table.Rows, []any{
			epoch(h.Get("epochGradeDate")),
			value(h.Get("firm")),
			value(h.Get("toGrade")),
			value(h.Get("fromGrade")),
			value(h.Get("action")),
		})
		return true
	})

	return rowsOrEmpty(table), nil
}

func (c *Client) fetchCalendar(ctx context.Context, req fetcher.Request) (fetcher.Result, error) {
	m, found, err := c.summaryModule(ctx, req.Symbol, "calendarEvents")
	if err != nil {
		return nil, err
	}
	if !found {
		return fetcher.Empty{}, nil
	}

	table := &fetcher.RowTable{Columns: []string{"Event", "Value", "Range"}}

	if dates := m.Get("earnings.earningsDate").Array(); len(dates) > 0 {
		var last any = ""
		if len(dates) > 1 {
			last = formatted(dates[len(dates)-1])
		}
		table.Rows = append(table.Rows, []any{"Earnings Date", formatted(dates[0]), last})
	}

	estimates := []struct {
		label, prefix string
	}{
		{"Earnings Average", "earnings"},
		{"Revenue Average", "revenue"},
	}
	for _, e := range estimates {
		avg := m.Get("earnings." + e.prefix + "Average")
		if !avg.Exists() || avg.Type == gjson.Null {
			continue
		}
		table.Rows = append(table.Rows, []any{e.label, formatted(avg), estimateRange(m, e.prefix)})
	}

	for _, d := range []struct{ label, field string }{
		{"Ex-Dividend Date", "exDividendDate"},
		{"Dividend Date", "dividendDate"},
	} {
		v := m.Get(d.field)
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}
		table.Rows = append(table.Rows, []any{d.label, formatted(v), ""})
	}

	return rowsOrEmpty(table), nil
}

// estimateRange renders the low/high estimate pair as "low - high"
func estimateRange(m gjson.Result, prefix string) string {
	var parts []string
	for _, bound := range []string{"Low", "High"} {
		if v := m.Get("earnings." + prefix + bound + ".fmt"); v.Exists() {
			parts = append(parts, v.String())
		}
	}
	return strings.Join(parts, " - ")
}
