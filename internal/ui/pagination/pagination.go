// Package pagination derives the page-number window and boundary buttons of
// a pager from counts alone. It holds no state of its own.
package pagination

// WindowSize is the maximum number of numbered page buttons.
const WindowSize = 5

// Pagination is the caller-owned pager state. TotalPages is trusted as
// given and never recomputed.
type Pagination struct {
	CurrentPage  int
	TotalPages   int
	TotalItems   int
	ItemsPerPage int
	OnPageChange func(page int)
}

// TotalPagesFor is ceil(items / perPage), zero when either is non-positive.
func TotalPagesFor(items, perPage int) int {
	if items <= 0 || perPage <= 0 {
		return 0
	}
	return (items + perPage - 1) / perPage
}

// New builds a Pagination with TotalPages derived from the item count.
func New(current, totalItems, perPage int, onChange func(int)) Pagination {
	return Pagination{
		CurrentPage:  current,
		TotalPages:   TotalPagesFor(totalItems, perPage),
		TotalItems:   totalItems,
		ItemsPerPage: perPage,
		OnPageChange: onChange,
	}
}

// StartItem is the 1-based index of the first item on the current page.
// It is 1 even when there are no items; see ShowRange.
func (p Pagination) StartItem() int {
	return (p.CurrentPage-1)*p.ItemsPerPage + 1
}

// EndItem is the 1-based index of the last item on the current page.
func (p Pagination) EndItem() int {
	return min(p.CurrentPage*p.ItemsPerPage, p.TotalItems)
}

// ShowRange reports whether the "Showing X to Y of Z" text should render.
func (p Pagination) ShowRange() bool {
	return p.TotalItems > 0
}

// Pages returns the numbered buttons to show, at most WindowSize of them.
func (p Pagination) Pages() []int {
	if p.TotalPages <= 0 {
		return nil
	}

	var first int
	switch {
	case p.TotalPages <= WindowSize:
		first = 1
	case p.CurrentPage <= 3:
		first = 1
	case p.CurrentPage >= p.TotalPages-2:
		first = p.TotalPages - WindowSize + 1
	default:
		first = p.CurrentPage - 2
	}

	n := min(p.TotalPages, WindowSize)
	pages := make([]int, n)
	for i := range pages {
		pages[i] = first + i
	}
	return pages
}

func (p Pagination) PrevDisabled() bool { return p.CurrentPage <= 1 }

func (p Pagination) NextDisabled() bool { return p.CurrentPage >= p.TotalPages }

// Prev emits CurrentPage-1 unless the button is disabled.
func (p Pagination) Prev() bool {
	if p.PrevDisabled() {
		return false
	}
	p.emit(p.CurrentPage - 1)
	return true
}

// Next emits CurrentPage+1 unless the button is disabled.
func (p Pagination) Next() bool {
	if p.NextDisabled() {
		return false
	}
	p.emit(p.CurrentPage + 1)
	return true
}

// Select emits page unconditionally, including the current page.
func (p Pagination) Select(page int) {
	p.emit(page)
}

func (p Pagination) emit(page int) {
	if p.OnPageChange != nil {
		p.OnPageChange(page)
	}
}

// Clamp returns page limited to [1, totalPages], or 1 when there are no pages.
func Clamp(page, totalPages int) int {
	if totalPages <= 0 || page < 1 {
		return 1
	}
	return min(page, totalPages)
}

// Offset is the zero-based offset of the first item on page.
func Offset(page, perPage int) int {
	if page < 1 || perPage <= 0 {
		return 0
	}
	return (page - 1) * perPage
}
