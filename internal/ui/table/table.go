// Package table is a controlled data table. It never reorders rows: header
// clicks emit a SortEvent and the owner supplies sorted data on the next
// render.
package table

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Direction of a sort.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Toggle returns the opposite direction.
func (d Direction) Toggle() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

// ParseDirection maps "desc" to Desc and anything else to Asc.
func ParseDirection(s string) Direction {
	if strings.EqualFold(s, string(Desc)) {
		return Desc
	}
	return Asc
}

// SortState is the active single-column sort. A zero Key means unsorted.
type SortState struct {
	Key       string
	Direction Direction
}

// Active reports whether a column is sorted.
func (s SortState) Active() bool { return s.Key != "" }

// SortEvent is emitted when a sortable header is clicked.
type SortEvent struct {
	Key       string
	Direction Direction
}

// Column describes one display column.
type Column struct {
	Key      string
	Label    string
	Sortable bool
	// Format renders the raw cell value. Nil uses the default stringification.
	Format func(v any) string
}

// Valuer lets a row type supply cell values without reflection.
type Valuer interface {
	Value(key string) (any, bool)
}

// SkeletonRows is the number of placeholder rows shown while loading.
const SkeletonRows = 5

// EmptyMessage is shown in the placeholder row of an empty table.
const EmptyMessage = "No data available"

// Table is the table state for one render.
type Table struct {
	Columns  []Column
	Data     []any
	Loading  bool
	Sortable bool
	Sort     SortState
	OnSort   func(SortEvent)
}

// Rows converts a typed slice into table rows.
func Rows[T any](items []T) []any {
	rows := make([]any, len(items))
	for i := range items {
		rows[i] = items[i]
	}
	return rows
}

// NextSort is the header click transition: first click on a column sorts
// ascending, clicking the sorted column toggles, clicking another column
// restarts ascending there.
func NextSort(cur SortState, key string) SortState {
	if cur.Key == key {
		return SortState{Key: key, Direction: cur.Direction.Toggle()}
	}
	return SortState{Key: key, Direction: Asc}
}

func (t *Table) column(key string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// CanSort reports whether clicking key's header does anything.
func (t *Table) CanSort(key string) bool {
	if !t.Sortable {
		return false
	}
	c, ok := t.column(key)
	return ok && c.Sortable
}

// ClickHeader applies a header click. It is a no-op unless both the table
// and the column are sortable. It reports whether an event was emitted.
func (t *Table) ClickHeader(key string) bool {
	if !t.CanSort(key) {
		return false
	}
	t.Sort = NextSort(t.Sort, key)
	if t.OnSort != nil {
		t.OnSort(SortEvent{Key: t.Sort.Key, Direction: t.Sort.Direction})
	}
	return true
}

// Cell renders the value of column c for row.
func Cell(row any, c Column) string {
	v, ok := Lookup(row, c.Key)
	if c.Format != nil {
		if !ok {
			return c.Format(nil)
		}
		return c.Format(v)
	}
	if !ok {
		return ""
	}
	return Stringify(v)
}

// Stringify is the default textual form of a raw value. Nil and nil
// pointers render empty.
func Stringify(v any) string {
	if v == nil {
		return ""
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
	}
	if s, ok := rv.Interface().(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(rv.Interface())
}

// Lookup finds key on row: via Valuer, on a string-keyed map, or on a
// struct field by JSON tag name or field name.
func Lookup(row any, key string) (any, bool) {
	if row == nil {
		return nil, false
	}
	if v, ok := row.(Valuer); ok {
		return v.Value(key)
	}
	if m, ok := row.(map[string]any); ok {
		v, ok := m[key]
		return v, ok
	}

	rv := reflect.ValueOf(row)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		mv := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !mv.IsValid() {
			return nil, false
		}
		return mv.Interface(), true
	case reflect.Struct:
		idx, ok := fieldIndex(rv.Type())[key]
		if !ok {
			return nil, false
		}
		return rv.FieldByIndex(idx).Interface(), true
	}
	return nil, false
}

var fieldCache sync.Map // reflect.Type -> map[string][]int

func fieldIndex(t reflect.Type) map[string][]int {
	if m, ok := fieldCache.Load(t); ok {
		return m.(map[string][]int)
	}
	m := make(map[string][]int)
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		if _, taken := m[f.Name]; !taken {
			m[f.Name] = f.Index
		}
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name != "" && name != "-" {
			m[name] = f.Index
		}
	}
	fieldCache.Store(t, m)
	return m
}
