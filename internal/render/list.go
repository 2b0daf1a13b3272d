package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// minLabelWidth is the column at which values start
const minLabelWidth = 12

// keyValueList prints a Name/Value grid one entry per line. Any other grid is
// printed as one block of header/cell lines per row.
func (r *Renderer) keyValueList(spec Spec) error {
	if err := r.title(spec.Title); err != nil {
		return err
	}

	g := spec.Grid
	if len(g.Headers) == 2 && g.Headers[0] == "Name" && g.Headers[1] == "Value" {
		for _, row := range g.Rows {
			if err := r.pair(row[0], row[1]); err != nil {
				return err
			}
		}
		return nil
	}

	for i, row := range g.Rows {
		if i > 0 {
			if _, err := fmt.Fprintln(r.out); err != nil {
				return err
			}
		}
		for j, h := range g.Headers {
			if err := r.pair(h, row[j]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) pair(label, value string) error {
	pad := max(minLabelWidth-lipgloss.Width(label), 1)
	_, err := fmt.Fprintf(r.out, "%s%s%s\n",
		r.styles.label.Render(label),
		strings.Repeat(" ", pad),
		r.styles.value.Render(value))
	return err
}
