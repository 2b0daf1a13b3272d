// Package render writes normalized grids and price bars to a terminal.
package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"stockcli/internal/fetcher"
	"stockcli/internal/tabular"
)

// Mode selects how a Spec is drawn.
type Mode int

const (
	// KeyValueList prints aligned label/value lines.
	KeyValueList Mode = iota
	// BoxedTable prints a bordered table with a rule between rows.
	BoxedTable
	// PanelGrid prints one card per news record.
	PanelGrid
	// CandleChart plots OHLC bars with volume. It reads Spec.Bars, not Spec.Grid.
	CandleChart
)

func (m Mode) String() string {
	switch m {
	case KeyValueList:
		return "key-value-list"
	case BoxedTable:
		return "boxed-table"
	case PanelGrid:
		return "panel-grid"
	case CandleChart:
		return "candle-chart"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// DefaultWidth is used when the terminal width is unknown
const DefaultWidth = 100

// Spec is one unit of output.
type Spec struct {
	Mode  Mode
	Title string
	Grid  tabular.Grid
	// Bars is the raw OHLCV table, numeric cells intact, for CandleChart.
	Bars *fetcher.RowTable
}

// Renderer draws specs to an output stream
type Renderer struct {
	out    io.Writer
	width  int
	styles styles
}

// New creates a renderer for out. Color support is detected on out itself.
// A non-positive width falls back to DefaultWidth.
func New(out io.Writer, width int) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Renderer{
		out:    out,
		width:  width,
		styles: newStyles(lipgloss.NewRenderer(out)),
	}
}

// Render draws spec. An error means the Spec itself is malformed, which is a
// bug in the caller rather than a user-facing condition.
func (r *Renderer) Render(spec Spec) error {
	if spec.Mode != CandleChart {
		if err := spec.Grid.Check(); err != nil {
			return fmt.Errorf("render %s: %w", spec.Mode, err)
		}
	}

	switch spec.Mode {
	case KeyValueList:
		return r.keyValueList(spec)
	case BoxedTable:
		return r.boxedTable(spec)
	case PanelGrid:
		return r.panelGrid(spec)
	case CandleChart:
		return r.candleChart(spec)
	}
	return fmt.Errorf("render: unknown mode %s", spec.Mode)
}

func (r *Renderer) title(title string) error {
	if title == "" {
		return nil
	}
	_, err := fmt.Fprintln(r.out, r.styles.title.Render(title))
	return err
}
