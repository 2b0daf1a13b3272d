// Package coordinator runs one request through the fetch, normalize and
// render pipeline.
package coordinator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"stockcli/internal/fetcher"
	"stockcli/internal/render"
	"stockcli/internal/spinner"
	"stockcli/internal/tabular"
)

// Coordinator routes requests to fetchers and renders what they return
type Coordinator struct {
	primary    fetcher.Fetcher
	routes     map[fetcher.Kind]fetcher.Fetcher
	out        io.Writer
	spinner    io.Writer
	width      int
	pivotLimit int
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithFetcher serves kind from f instead of the primary fetcher
func WithFetcher(kind fetcher.Kind, f fetcher.Fetcher) Option {
	return func(c *Coordinator) {
		c.routes[kind] = f
	}
}

// WithOutput sets where rendered output goes. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(c *Coordinator) {
		c.out = w
	}
}

// WithSpinner shows a spinner on w while fetching. Nil disables it.
func WithSpinner(w io.Writer) Option {
	return func(c *Coordinator) {
		c.spinner = w
	}
}

// WithWidth sets the terminal width used for layout
func WithWidth(n int) Option {
	return func(c *Coordinator) {
		c.width = n
	}
}

// WithPivotLimit caps the periods shown for financial statements
func WithPivotLimit(n int) Option {
	return func(c *Coordinator) {
		c.pivotLimit = n
	}
}

// New creates a new Coordinator that serves every kind from primary unless
// routed elsewhere with WithFetcher.
func New(primary fetcher.Fetcher, opts ...Option) *Coordinator {
	c := &Coordinator{
		primary:    primary,
		routes:     make(map[fetcher.Kind]fetcher.Fetcher),
		out:        os.Stdout,
		pivotLimit: tabular.DefaultPivotLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run validates req, fetches it and renders the result. Invalid requests
// fail before any network call; a fetch that yields nothing becomes a
// not_found error naming the requested subject.
func (c *Coordinator) Run(ctx context.Context, req fetcher.Request) error {
	if err := req.Validate(); err != nil {
		return err
	}

	profile, ok := ProfileFor(req.Kind)
	if !ok {
		return fetcher.NewInvalidArgumentError(fmt.Sprintf("unsupported dataset %q", req.Kind))
	}

	raw, err := c.fetch(ctx, req)
	if err != nil {
		return err
	}
	if fetcher.IsEmpty(raw) {
		return fetcher.NewNotFoundError(req.Label())
	}

	spec := render.Spec{Mode: profile.Mode, Title: profile.title(req)}
	if profile.Mode == render.CandleChart {
		bars, ok := raw.(*fetcher.RowTable)
		if !ok {
			return fmt.Errorf("%s: expected bar table, got %T", req.Kind, raw)
		}
		spec.Bars = bars
	} else {
		grid, ok := tabular.Normalize(raw, tabular.WithPivotLimit(c.pivotLimit))
		if !ok {
			return fetcher.NewNotFoundError(req.Label())
		}
		if profile.Columns > 0 {
			grid = grid.Limit(profile.Columns)
		}
		spec.Grid = grid
	}

	return render.New(c.out, c.width).Render(spec)
}

// fetch runs the fetcher for req, alongside the spinner when one is set.
// The fetch closing done is what stops the spinner.
func (c *Coordinator) fetch(ctx context.Context, req fetcher.Request) (fetcher.Result, error) {
	f := c.route(req.Kind)
	if f == nil {
		return nil, fmt.Errorf("no fetcher configured for %s", req.Kind)
	}

	slog.Debug("fetching", "fetcher", f.Name(), "kind", req.Kind, "subject", req.Label())

	if c.spinner == nil {
		return f.Fetch(ctx, req)
	}

	g, gctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	var raw fetcher.Result
	g.Go(func() error {
		defer close(done)
		var err error
		raw, err = f.Fetch(gctx, req)
		return err
	})
	g.Go(func() error {
		// the spinner is cosmetic: its failures never abort the fetch
		if err := spinner.New(c.spinner, "Loading "+req.Label()).Run(gctx, done); err != nil {
			slog.Debug("spinner stopped", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Coordinator) route(kind fetcher.Kind) fetcher.Fetcher {
	if f, ok := c.routes[kind]; ok {
		return f
	}
	return c.primary
}
