// Package cli wires configuration, adapters and the coordinator behind the
// stockcli command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"stockcli/internal/config"
	"stockcli/internal/coordinator"
	"stockcli/internal/fetcher"
	"stockcli/internal/screener"
	"stockcli/internal/yahoo"
)

// app carries what every subcommand shares
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	verbose    bool
	noSpinner  bool
	// spinner is only shown on an interactive stderr
	interactive bool

	cfg *config.Config
}

// Execute runs the command line in args and returns the process exit code.
// Problems with the user's input are reported on stdout and exit 0; failures
// of the network or the provider are reported on stderr and exit 1.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{
		stdout:      stdout,
		stderr:      stderr,
		interactive: isTerminal(stderr),
	}

	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	return a.report(err)
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "stockcli",
		Short:         "Market data from Yahoo Finance in your terminal",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg

			level := cfg.Level()
			if a.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level})))
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default is ./config.yaml or $HOME/.stockcli/config.yaml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log requests to stderr")
	flags.BoolVar(&a.noSpinner, "no-spinner", false, "do not show a spinner while fetching")

	root.AddCommand(newMarketsCmd(a))
	for _, d := range datasetCommands {
		root.AddCommand(d.build(a))
	}
	return root
}

// run sends req through the pipeline configured from a.cfg
func (a *app) run(cmd *cobra.Command, req fetcher.Request) error {
	cfg := a.cfg

	yc := yahoo.NewClient(yahoo.Options{
		BaseURL:      cfg.YahooBaseURL,
		UserAgent:    cfg.UserAgent,
		Timeout:      cfg.RequestTimeout,
		RetryCount:   cfg.RetryCount,
		HistoryRange: cfg.HistoryRange,
		NewsCount:    cfg.NewsCount,
	})
	sc := screener.NewClient(screener.Options{
		BaseURL:    cfg.MarketsBaseURL,
		UserAgent:  cfg.UserAgent,
		Timeout:    cfg.RequestTimeout,
		RetryCount: cfg.RetryCount,
		Count:      cfg.MarketsCount,
	})

	opts := []coordinator.Option{
		coordinator.WithFetcher(fetcher.KindMarketView, sc),
		coordinator.WithOutput(a.stdout),
		coordinator.WithWidth(cfg.Width),
		coordinator.WithPivotLimit(cfg.PivotColumns),
	}
	if cfg.Spinner && !a.noSpinner && a.interactive {
		opts = append(opts, coordinator.WithSpinner(a.stderr))
	}

	return coordinator.New(yc, opts...).Run(cmd.Context(), req)
}

// report prints err as a single line and picks the exit code
func (a *app) report(err error) int {
	var fe *fetcher.FetchError
	if fetcher.IsUserError(err) && errors.As(err, &fe) {
		warn := lipgloss.NewRenderer(a.stdout).NewStyle().Foreground(lipgloss.Color("11"))
		fmt.Fprintln(a.stdout, warn.Render("Sorry, "+fe.Message))
		return 0
	}

	slog.Debug("command failed", "error", err)

	msg := err.Error()
	if errors.As(err, &fe) && fe.Cause != nil {
		msg = fmt.Sprintf("%s (%v)", msg, fe.Cause)
	}
	fail := lipgloss.NewRenderer(a.stderr).NewStyle().Foreground(lipgloss.Color("9"))
	fmt.Fprintln(a.stderr, fail.Render("Error: "+msg))
	return 1
}

// isTerminal reports whether w is an interactive terminal. Redirections to
// files, pipes or /dev/null are not.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}
