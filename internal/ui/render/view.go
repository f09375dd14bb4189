package render

import (
	"InsideX/internal/ui/pagination"
	"InsideX/internal/ui/table"
)

// HeaderLink is a table header with the URL a click navigates to.
type HeaderLink struct {
	table.HeaderCell
	Href string
}

// TableData is the template input of the "table" partial.
type TableData struct {
	Headers     []HeaderLink
	Rows        [][]string
	Skeleton    []int
	Placeholder string
	Colspan     int
}

// NewTableData projects a table view for templates. href builds the link of
// a sortable header from the sort state the click would produce.
func NewTableData(t *table.Table, href func(table.SortState) string) TableData {
	v := t.View()
	d := TableData{
		Headers:     make([]HeaderLink, len(v.Headers)),
		Rows:        v.Rows,
		Skeleton:    make([]int, v.Skeleton),
		Placeholder: v.Placeholder,
		Colspan:     v.Colspan,
	}
	for i, h := range v.Headers {
		d.Headers[i] = HeaderLink{HeaderCell: h}
		if h.Sortable && href != nil {
			d.Headers[i].Href = href(h.Next)
		}
	}
	return d
}

type PageLink struct {
	Number  int
	Href    string
	Current bool
}

// PagerData is the template input of the "pager" partial.
type PagerData struct {
	ShowRange bool
	Start     int
	End       int
	Total     int
	Pages     []PageLink
	// Empty hrefs mark disabled boundary buttons.
	PrevHref string
	NextHref string
}

func NewPagerData(p pagination.Pagination, href func(page int) string) PagerData {
	d := PagerData{
		ShowRange: p.ShowRange(),
		Start:     p.StartItem(),
		End:       p.EndItem(),
		Total:     p.TotalItems,
	}
	for _, n := range p.Pages() {
		d.Pages = append(d.Pages, PageLink{Number: n, Href: href(n), Current: n == p.CurrentPage})
	}
	if !p.PrevDisabled() {
		d.PrevHref = href(p.CurrentPage - 1)
	}
	if !p.NextDisabled() {
		d.NextHref = href(p.CurrentPage + 1)
	}
	return d
}

// Page wraps page data with the layout fields.
type Page struct {
	Title string
	Nav   string
	Data  any
}
