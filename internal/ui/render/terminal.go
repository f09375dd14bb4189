package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"

	"InsideX/internal/ui/pagination"
	"InsideX/internal/ui/table"
)

var (
	headerStyle      = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle        = lipgloss.NewStyle().Padding(0, 1)
	placeholderStyle = lipgloss.NewStyle().Padding(0, 1).Faint(true)
	borderStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

const skeletonCell = "░░░░░░"

// Terminal writes a table to w as a bordered text grid.
func Terminal(w io.Writer, t *table.Table) error {
	v := t.View()

	headers := make([]string, len(v.Headers))
	for i, h := range v.Headers {
		headers[i] = h.Label
		if h.Active {
			headers[i] += arrow(h.Direction)
		}
	}

	var rows [][]string
	switch {
	case v.Skeleton > 0:
		for range v.Skeleton {
			row := make([]string, len(headers))
			for i := range row {
				row[i] = skeletonCell
			}
			rows = append(rows, row)
		}
	case v.Empty():
		// A text grid has no colspan; the message sits in the first cell.
		row := make([]string, max(len(headers), 1))
		row[0] = v.Placeholder
		rows = append(rows, row)
	default:
		rows = v.Rows
	}

	empty := v.Empty()
	out := lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == lgtable.HeaderRow:
				return headerStyle
			case empty:
				return placeholderStyle
			}
			return cellStyle
		})

	_, err := fmt.Fprintln(w, out.Render())
	return err
}

// PagerLine is the one-line pager summary printed below terminal tables.
func PagerLine(p pagination.Pagination) string {
	var b strings.Builder
	if p.ShowRange() {
		fmt.Fprintf(&b, "Showing %d to %d of %d results", p.StartItem(), p.EndItem(), p.TotalItems)
	} else {
		b.WriteString("No results")
	}
	if p.TotalPages > 1 {
		fmt.Fprintf(&b, " | page %d of %d | pages %v", p.CurrentPage, p.TotalPages, p.Pages())
	}
	return b.String()
}

func arrow(d table.Direction) string {
	if d == table.Desc {
		return " ▼"
	}
	return " ▲"
}
