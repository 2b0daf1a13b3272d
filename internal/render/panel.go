package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// cardWidth is the content width of a news card, padding included
const cardWidth = 40

// panelGrid prints one card per record, as many per line as fit the width
func (r *Renderer) panelGrid(spec Spec) error {
	if err := r.title(spec.Title); err != nil {
		return err
	}

	g := spec.Grid
	field := func(row []string, name string) string {
		if i := g.Column(name); i >= 0 {
			return row[i]
		}
		return ""
	}

	cards := make([]string, 0, len(g.Rows))
	for _, row := range g.Rows {
		var b strings.Builder
		b.WriteString(r.styles.publisher.Render(field(row, "publisher")))
		b.WriteString(" " + field(row, "type") + "\n")
		b.WriteString(r.styles.headline.Render(strings.TrimSuffix(field(row, "title"), ".")+".") + "\n")
		b.WriteString(r.styles.muted.Render("Visit for more details") + " " + r.styles.link.Render(field(row, "link")) + "\n")
		b.WriteString(r.styles.date.Render(field(row, "publishTime")))
		cards = append(cards, r.styles.panel.Width(cardWidth).Render(b.String()))
	}

	// border and margin take three more cells per card
	perLine := max(r.width/(cardWidth+3), 1)
	for start := 0; start < len(cards); start += perLine {
		end := min(start+perLine, len(cards))
		if _, err := fmt.Fprintln(r.out, lipgloss.JoinHorizontal(lipgloss.Top, cards[start:end]...)); err != nil {
			return err
		}
	}
	return nil
}
