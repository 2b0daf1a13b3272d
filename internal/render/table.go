package render

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// boxedTable prints the grid with a border and a rule under every row
func (r *Renderer) boxedTable(spec Spec) error {
	if err := r.title(spec.Title); err != nil {
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.styles.border).
		BorderRow(true).
		Headers(spec.Grid.Headers...).
		Rows(spec.Grid.Rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.styles.header
			}
			return r.styles.cell
		})

	_, err := fmt.Fprintln(r.out, t.Render())
	return err
}
