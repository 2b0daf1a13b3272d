package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"stockcli/internal/fetcher"
)

// datasetCommand describes one per-symbol subcommand
type datasetCommand struct {
	name  string
	short string
	kind  fetcher.Kind
	// interval adds --interval for bar data
	interval bool
	// quarterly adds --quater and its hidden --quarter alias
	quarterly bool
}

var datasetCommands = []datasetCommand{
	{name: "info", short: "Show the latest quote of a market", kind: fetcher.KindQuote},
	{name: "chart", short: "Plot price history as candlesticks", kind: fetcher.KindHistory, interval: true},
	{name: "actions", short: "List dividends and stock splits", kind: fetcher.KindActions},
	{name: "splits", short: "List stock splits", kind: fetcher.KindSplits},
	{name: "finance", short: "Show the income statement", kind: fetcher.KindFinancials, quarterly: true},
	{name: "holders", short: "Show the major holders breakdown", kind: fetcher.KindHolders},
	{name: "institutional-holders", short: "List the largest institutional holders", kind: fetcher.KindInstitutionalHolders},
	{name: "balance-sheet", short: "Show the balance sheet", kind: fetcher.KindBalanceSheet, quarterly: true},
	{name: "cashflow", short: "Show the cash flow statement", kind: fetcher.KindCashflow, quarterly: true},
	{name: "earning", short: "Show revenue and earnings", kind: fetcher.KindEarnings, quarterly: true},
	{name: "sustainability", short: "Show ESG scores", kind: fetcher.KindSustainability},
	{name: "recommendations", short: "List analyst upgrades and downgrades", kind: fetcher.KindRecommendations},
	{name: "calendar", short: "Show upcoming earnings and dividend dates", kind: fetcher.KindCalendar},
	{name: "news", short: "Show recent news", kind: fetcher.KindNews},
}

func (d datasetCommand) build(a *app) *cobra.Command {
	var (
		interval  string
		quarterly bool
	)

	cmd := &cobra.Command{
		Use:   d.name + " <symbol>",
		Short: d.short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := fetcher.NewRequest(d.kind, args[0])
			if d.interval {
				req = req.WithInterval(fetcher.Interval(interval))
			}
			if d.quarterly {
				req = req.WithQuarterly(quarterly)
			}
			return a.run(cmd, req)
		},
	}

	if d.interval {
		cmd.Flags().StringVarP(&interval, "interval", "i", string(fetcher.Interval1d),
			fmt.Sprintf("bar size, one of %s", joinIntervals()))
	}
	if d.quarterly {
		cmd.Flags().BoolVar(&quarterly, "quater", false, "show quarterly instead of annual figures")
		cmd.Flags().BoolVar(&quarterly, "quarter", false, "show quarterly instead of annual figures")
		_ = cmd.Flags().MarkHidden("quarter")
	}
	return cmd
}

func newMarketsCmd(a *app) *cobra.Command {
	views := make([]string, len(fetcher.Views))
	for i, v := range fetcher.Views {
		views[i] = string(v)
	}

	return &cobra.Command{
		Use:       "markets <view>",
		Short:     "Show a market-wide view",
		Long:      "Show a market-wide view: " + strings.Join(views, ", ") + ".",
		Example:   "  stockcli markets trending-tickers\n  stockcli markets gainers",
		Args:      cobra.ExactArgs(1),
		ValidArgs: views,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := fetcher.NewRequest(fetcher.KindMarketView, "").WithView(fetcher.View(args[0]))
			return a.run(cmd, req)
		},
	}
}

func joinIntervals() string {
	parts := make([]string, len(fetcher.Intervals))
	for i, iv := range fetcher.Intervals {
		parts[i] = string(iv)
	}
	return strings.Join(parts, ", ")
}
