package render

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"InsideX/internal/controller"
	"InsideX/internal/domain/models"
	"InsideX/internal/ui/pagination"
	"InsideX/internal/ui/table"
	"InsideX/pkg/format"
)

func signalColumns() []table.Column {
	return []table.Column{
		{Key: "ticker", Label: "Ticker", Sortable: true},
		{Key: "score", Label: "Score", Sortable: true, Format: format.Score},
		{Key: "confidence", Label: "Confidence"},
	}
}

func sortHref(s table.SortState) string {
	return fmt.Sprintf("/signals?sort=%s&dir=%s", s.Key, s.Direction)
}

func TestHTMLEmptyTableSinglePlaceholderRow(t *testing.T) {
	h, err := NewHTML()
	require.NoError(t, err)

	tbl := &table.Table{Columns: signalColumns(), Sortable: true}
	view := Page{Title: "Dashboard", Nav: "dashboard", Data: DashboardView{
		State:   controller.DashboardState{Status: controller.StatusReady},
		Signals: NewTableData(tbl, sortHref),
		Trades:  NewTableData(&table.Table{Columns: signalColumns()}, nil),
	}}

	var buf bytes.Buffer
	require.NoError(t, h.Execute(&buf, "dashboard", view))
	out := buf.String()

	assert.Equal(t, 2, strings.Count(out, `class="placeholder"`))
	assert.Contains(t, out, `<td class="placeholder" colspan="3">No data available</td>`)
	assert.Contains(t, out, `href="/signals?sort=ticker&amp;dir=asc"`)
	assert.NotContains(t, out, "<td>NVDA</td>")
}

func TestHTMLRowsAndSkeleton(t *testing.T) {
	h, err := NewHTML()
	require.NoError(t, err)

	sigs := []models.Signal{{Ticker: "NVDA", Score: 0.82, Confidence: models.ConfidenceHigh}}
	ready := &table.Table{
		Columns:  signalColumns(),
		Data:     table.Rows(sigs),
		Sortable: true,
		Sort:     table.SortState{Key: "score", Direction: table.Desc},
	}
	loading := &table.Table{Columns: signalColumns(), Loading: true, Data: table.Rows(sigs)}

	var buf bytes.Buffer
	require.NoError(t, h.Execute(&buf, "dashboard", Page{Data: DashboardView{
		State:   controller.DashboardState{Status: controller.StatusReady},
		Signals: NewTableData(ready, sortHref),
		Trades:  NewTableData(loading, nil),
	}}))
	out := buf.String()

	assert.Contains(t, out, "<td>NVDA</td><td>82.0%</td><td>high</td>")
	assert.Contains(t, out, "Score ▼")
	assert.Equal(t, table.SkeletonRows, strings.Count(out, `class="skeleton"`))
}

func TestHTMLErrorState(t *testing.T) {
	h, err := NewHTML()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, h.Execute(&buf, "dashboard", Page{Data: DashboardView{
		State: controller.DashboardState{Status: controller.StatusError, Error: "Request timed out"},
	}}))

	assert.Contains(t, buf.String(), "Request timed out")
	assert.NotContains(t, buf.String(), "Top signals")

	assert.Error(t, h.Execute(&buf, "missing", nil))
}

func TestPagerData(t *testing.T) {
	href := func(n int) string { return fmt.Sprintf("?page=%d", n) }

	d := NewPagerData(pagination.New(1, 200, 20, nil), href)
	assert.Empty(t, d.PrevHref)
	assert.Equal(t, "?page=2", d.NextHref)
	require.Len(t, d.Pages, 5)
	assert.True(t, d.Pages[0].Current)

	empty := NewPagerData(pagination.New(1, 0, 20, nil), href)
	assert.False(t, empty.ShowRange)
	assert.Empty(t, empty.Pages)
	assert.Empty(t, empty.NextHref)
}

func TestTerminal(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Terminal(&buf, &table.Table{Columns: signalColumns()}))
	assert.Contains(t, buf.String(), table.EmptyMessage)

	buf.Reset()
	sigs := []models.Signal{{Ticker: "NVDA", Score: 0.82, Confidence: models.ConfidenceHigh}}
	require.NoError(t, Terminal(&buf, &table.Table{
		Columns:  signalColumns(),
		Data:     table.Rows(sigs),
		Sortable: true,
		Sort:     table.SortState{Key: "ticker", Direction: table.Asc},
	}))
	assert.Contains(t, buf.String(), "NVDA")
	assert.Contains(t, buf.String(), "82.0%")
	assert.Contains(t, buf.String(), "Ticker ▲")

	assert.Equal(t, "No results", PagerLine(pagination.New(1, 0, 20, nil)))
	assert.Equal(t, "Showing 21 to 40 of 45 results | page 2 of 3 | pages [1 2 3]", PagerLine(pagination.New(2, 45, 20, nil)))
}
