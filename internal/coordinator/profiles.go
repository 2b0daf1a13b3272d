package coordinator

import (
	"fmt"

	"stockcli/internal/fetcher"
	"stockcli/internal/render"
)

// Profile is how one dataset is presented.
type Profile struct {
	Mode  render.Mode
	Title string
	// Columns caps the displayed columns; 0 keeps the native width.
	Columns int
}

// profiles is the single dispatch table from dataset to presentation
var profiles = map[fetcher.Kind]Profile{
	fetcher.KindQuote:                {Mode: render.KeyValueList, Title: "Quote"},
	fetcher.KindHistory:              {Mode: render.CandleChart},
	fetcher.KindActions:              {Mode: render.BoxedTable, Title: "Actions"},
	fetcher.KindSplits:               {Mode: render.BoxedTable, Title: "Splits"},
	fetcher.KindFinancials:           {Mode: render.BoxedTable, Title: "Income Statement", Columns: 5},
	fetcher.KindBalanceSheet:         {Mode: render.BoxedTable, Title: "Balance Sheet"},
	fetcher.KindCashflow:             {Mode: render.BoxedTable, Title: "Cash Flow"},
	fetcher.KindEarnings:             {Mode: render.BoxedTable, Title: "Earnings"},
	fetcher.KindHolders:              {Mode: render.BoxedTable, Title: "Major Holders", Columns: 2},
	fetcher.KindInstitutionalHolders: {Mode: render.BoxedTable, Title: "Institutional Holders", Columns: 5},
	fetcher.KindSustainability:       {Mode: render.BoxedTable, Title: "Sustainability"},
	fetcher.KindRecommendations:      {Mode: render.BoxedTable, Title: "Recommendations", Columns: 5},
	fetcher.KindCalendar:             {Mode: render.BoxedTable, Title: "Calendar", Columns: 3},
	fetcher.KindNews:                 {Mode: render.PanelGrid, Title: "News"},
	fetcher.KindMarketView:           {Mode: render.KeyValueList},
}

// ProfileFor returns the presentation of kind
func ProfileFor(kind fetcher.Kind) (Profile, bool) {
	p, ok := profiles[kind]
	return p, ok
}

func (p Profile) title(req fetcher.Request) string {
	switch {
	case p.Mode == render.CandleChart:
		return fmt.Sprintf("%s@%s", req.Symbol, req.Interval)
	case req.Kind.IsStatement():
		period := "annual"
		if req.Quarterly {
			period = "quarterly"
		}
		return fmt.Sprintf("%s %s (%s)", req.Label(), p.Title, period)
	case p.Title == "":
		return req.Label()
	}
	return req.Label() + " " + p.Title
}
