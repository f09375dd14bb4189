package table

// HeaderCell is one rendered header.
type HeaderCell struct {
	Key      string
	Label    string
	Sortable bool
	// Active is set on the currently sorted column.
	Active    bool
	Direction Direction
	// Next is the sort a click on this header would produce.
	Next SortState
}

// View is a render-ready projection of a Table. Exactly one of Skeleton,
// Placeholder and Rows describes the body.
type View struct {
	Headers     []HeaderCell
	Rows        [][]string
	Skeleton    int
	Placeholder string
	Colspan     int
}

// Empty reports whether the body is the placeholder row.
func (v View) Empty() bool { return v.Placeholder != "" }

// View builds the render model for the current state.
func (t *Table) View() View {
	v := View{Colspan: len(t.Columns)}
	v.Headers = make([]HeaderCell, len(t.Columns))
	for i, c := range t.Columns {
		h := HeaderCell{Key: c.Key, Label: c.Label, Sortable: t.CanSort(c.Key)}
		if h.Sortable {
			h.Next = NextSort(t.Sort, c.Key)
			if t.Sort.Key == c.Key {
				h.Active = true
				h.Direction = t.Sort.Direction
			}
		}
		v.Headers[i] = h
	}

	switch {
	case t.Loading:
		v.Skeleton = SkeletonRows
	case len(t.Data) == 0:
		v.Placeholder = EmptyMessage
	default:
		v.Rows = make([][]string, len(t.Data))
		for i, row := range t.Data {
			cells := make([]string, len(t.Columns))
			for j, c := range t.Columns {
				cells[j] = Cell(row, c)
			}
			v.Rows[i] = cells
		}
	}
	return v
}
