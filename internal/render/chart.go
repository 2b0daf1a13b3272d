package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"stockcli/internal/fetcher"
)

const (
	priceRows  = 16
	volumeRows = 4
	axisWidth  = 12
)

// bar is one OHLCV candle
type bar struct {
	date                   time.Time
	open, high, low, close float64
	volume                 float64
}

// candleChart plots one column per bar. Bars that do not fit the width are
// dropped from the oldest end.
func (r *Renderer) candleChart(spec Spec) error {
	bars, err := readBars(spec.Bars)
	if err != nil {
		return fmt.Errorf("render %s: %w", CandleChart, err)
	}

	if plot := r.width - axisWidth; plot > 0 && len(bars) > plot {
		bars = bars[len(bars)-plot:]
	}

	hi, lo := bars[0].high, bars[0].low
	maxVolume := 0.0
	for _, b := range bars {
		hi = math.Max(hi, b.high)
		lo = math.Min(lo, b.low)
		maxVolume = math.Max(maxVolume, b.volume)
	}

	row := func(price float64) int {
		if hi == lo {
			return priceRows / 2
		}
		return int(math.Round((hi - price) / (hi - lo) * float64(priceRows-1)))
	}

	var out strings.Builder
	out.WriteString(r.styles.title.Render(spec.Title) + "\n")

	for y := 0; y < priceRows; y++ {
		out.WriteString(r.styles.axis.Render(r.priceLabel(y, hi, lo)))
		for _, b := range bars {
			top, bottom := row(math.Max(b.open, b.close)), row(math.Min(b.open, b.close))
			wickTop, wickBottom := row(b.high), row(b.low)

			style := r.styles.up
			if b.close < b.open {
				style = r.styles.down
			}

			switch {
			case y >= top && y <= bottom:
				out.WriteString(style.Render("┃"))
			case y >= wickTop && y <= wickBottom:
				out.WriteString(style.Render("│"))
			default:
				out.WriteByte(' ')
			}
		}
		out.WriteByte('\n')
	}

	out.WriteString(r.styles.axis.Render(strings.Repeat(" ", axisWidth-1) + "└" + strings.Repeat("─", len(bars))))
	out.WriteByte('\n')

	for y := 0; y < volumeRows; y++ {
		label := strings.Repeat(" ", axisWidth)
		if y == 0 {
			label = fmt.Sprintf("%*s ", axisWidth-1, "Volume")
		}
		out.WriteString(r.styles.axis.Render(label))
		for _, b := range bars {
			height := 0
			if maxVolume > 0 {
				height = int(math.Ceil(b.volume / maxVolume * volumeRows))
			}
			if volumeRows-y <= height {
				out.WriteString(r.styles.volume.Render("▮"))
				continue
			}
			out.WriteByte(' ')
		}
		out.WriteByte('\n')
	}

	first, last := bars[0].date.UTC().Format(time.DateOnly), bars[len(bars)-1].date.UTC().Format(time.DateOnly)
	gap := max(len(bars)-lipgloss.Width(first)-lipgloss.Width(last), 1)
	out.WriteString(strings.Repeat(" ", axisWidth) + first + strings.Repeat(" ", gap) + last + "\n")

	_, err = fmt.Fprint(r.out, out.String())
	return err
}

// priceLabel marks the top, middle and bottom rows of the price axis
func (r *Renderer) priceLabel(y int, hi, lo float64) string {
	var price float64
	switch y {
	case 0:
		price = hi
	case priceRows / 2:
		price = (hi + lo) / 2
	case priceRows - 1:
		price = lo
	default:
		return strings.Repeat(" ", axisWidth-1) + "│"
	}
	return fmt.Sprintf("%*.2f ┤", axisWidth-2, price)
}

// readBars extracts numeric candles from the history table by column name
func readBars(t *fetcher.RowTable) ([]bar, error) {
	if t == nil || len(t.Rows) == 0 {
		return nil, errors.New("no bars to plot")
	}

	idx := make(map[string]int)
	for _, name := range []string{"Date", "Open", "High", "Low", "Close", "Volume"} {
		i := t.Column(name)
		if i < 0 {
			return nil, fmt.Errorf("missing %s column", name)
		}
		idx[name] = i
	}

	bars := make([]bar, 0, len(t.Rows))
	for n, row := range t.Rows {
		var b bar
		var ok bool
		if len(row) < len(t.Columns) {
			return nil, fmt.Errorf("row %d has %d cells, want %d", n, len(row), len(t.Columns))
		}
		if b.date, ok = row[idx["Date"]].(time.Time); !ok {
			return nil, fmt.Errorf("row %d: Date is %T", n, row[idx["Date"]])
		}
		for name, dst := range map[string]*float64{
			"Open": &b.open, "High": &b.high, "Low": &b.low, "Close": &b.close, "Volume": &b.volume,
		} {
			if *dst, ok = number(row[idx[name]]); !ok {
				return nil, fmt.Errorf("row %d: %s is %T", n, name, row[idx[name]])
			}
		}
		bars = append(bars, b)
	}
	return bars, nil
}

// number reads the numeric cell types adapters produce
func number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}
	return 0, false
}
