package table

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Table is a set of columns over rows of type T.
type Table[T any] struct {
	Columns []Column[T]
	ID      func(T) string
}

// Header describes a column to the dashboard.
type Header struct {
	Key      string     `json:"key"`
	Header   string     `json:"header"`
	Type     ColumnType `json:"type"`
	Editable bool       `json:"editable"`
	Sortable bool       `json:"sortable"`
	Options  []Option   `json:"options,omitempty"`
}

// Row is one rendered row. Cells hold display strings, Values the raw values
// inline editors start from.
type Row struct {
	ID     string            `json:"id"`
	Cells  map[string]string `json:"cells"`
	Values map[string]any    `json:"values"`
}

// Page is one page of filtered, sorted rows.
type Page struct {
	Columns   []Header `json:"columns"`
	Rows      []Row    `json:"rows"`
	Page      int      `json:"page"`
	PageSize  int      `json:"page_size"`
	PageCount int      `json:"page_count"`
	Total     int      `json:"total"`
	HasPrev   bool     `json:"has_prev"`
	HasNext   bool     `json:"has_next"`
	PageSizes []int    `json:"page_sizes"`
}

// Column returns the column with key.
func (t *Table[T]) Column(key string) (Column[T], error) {
	for _, c := range t.Columns {
		if c.Key == key {
			return c, nil
		}
	}
	return Column[T]{}, fmt.Errorf("%w: %q", ErrUnknownColumn, key)
}

// Headers describes every column.
func (t *Table[T]) Headers() []Header {
	out := make([]Header, 0, len(t.Columns))
	for _, c := range t.Columns {
		typ := c.Type
		if typ == "" {
			typ = TypeText
		}
		out = append(out, Header{
			Key:      c.Key,
			Header:   c.Header,
			Type:     typ,
			Editable: c.Editable,
			Sortable: !c.DisableSort,
			Options:  c.Options,
		})
	}
	return out
}

// Filter applies the global search, the column filters and the sort of q,
// without paginating. Input rows are not modified.
func (t *Table[T]) Filter(rows []T, q Query) ([]T, error) {
	filterCols := make(map[string]Column[T], len(q.Filters))
	for key := range q.Filters {
		c, err := t.Column(key)
		if err != nil {
			return nil, err
		}
		filterCols[key] = c
	}

	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if q.Search != "" && !t.matchesAny(row, q.Search) {
			continue
		}
		keep := true
		for key, needle := range q.Filters {
			if !startsWith(filterCols[key].Get(row), needle) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, row)
		}
	}

	if q.Sort == "" {
		return out, nil
	}
	col, err := t.Column(q.Sort)
	if err != nil {
		return nil, err
	}
	if col.DisableSort {
		return nil, fmt.Errorf("%w: %q", ErrNotSortable, q.Sort)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := col.Get(out[i]), col.Get(out[j])
		an, bn := isNil(a), isNil(b)
		switch {
		case an || bn:
			return !an && bn
		case q.Desc:
			return compare(a, b) > 0
		default:
			return compare(a, b) < 0
		}
	})
	return out, nil
}

// Apply filters, sorts and paginates rows. The page number is clamped to
// the available range.
func (t *Table[T]) Apply(rows []T, q Query) (Page, error) {
	filtered, err := t.Filter(rows, q)
	if err != nil {
		return Page{}, err
	}

	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(filtered)
	pageCount := int(math.Ceil(float64(total) / float64(size)))
	page := min(max(q.Page, 1), max(pageCount, 1))

	start := min((page-1)*size, total)
	end := min(start+size, total)

	rendered := make([]Row, 0, end-start)
	for _, row := range filtered[start:end] {
		rendered = append(rendered, t.render(row))
	}

	return Page{
		Columns:   t.Headers(),
		Rows:      rendered,
		Page:      page,
		PageSize:  size,
		PageCount: pageCount,
		Total:     total,
		HasPrev:   page > 1,
		HasNext:   page < pageCount,
		PageSizes: PageSizes,
	}, nil
}

// IDs returns the ids of every row matching q, across all pages. Dashboards
// use it for "select all".
func (t *Table[T]) IDs(rows []T, q Query) ([]string, error) {
	filtered, err := t.Filter(rows, q)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(filtered))
	for _, row := range filtered {
		ids = append(ids, t.ID(row))
	}
	return ids, nil
}

func (t *Table[T]) render(row T) Row {
	r := Row{
		ID:     t.ID(row),
		Cells:  make(map[string]string, len(t.Columns)),
		Values: make(map[string]any, len(t.Columns)),
	}
	for _, c := range t.Columns {
		r.Cells[c.Key] = c.display(row)
		r.Values[c.Key] = c.Get(row)
	}
	return r
}

func (t *Table[T]) matchesAny(row T, needle string) bool {
	for _, c := range t.Columns {
		if startsWith(c.Get(row), needle) {
			return true
		}
	}
	return false
}

// startsWith is the case-insensitive prefix match used by every filter.
func startsWith(v any, needle string) bool {
	s, ok := stringOf(v)
	if !ok {
		return false
	}
	return strings.HasPrefix(strings.ToLower(s), strings.ToLower(needle))
}

func isNil(v any) bool {
	_, ok := stringOf(v)
	return !ok
}

// compare orders numbers numerically, bools false first, times
// chronologically and everything else as case-insensitive text.
func compare(a, b any) int {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	if ab, ok := toBool(a); ok {
		if bb, ok := toBool(b); ok {
			switch {
			case ab == bb:
				return 0
			case !ab:
				return -1
			}
			return 1
		}
	}
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Compare(bt)
		}
	}

	as, _ := stringOf(a)
	bs, _ := stringOf(b)
	if c := strings.Compare(strings.ToLower(as), strings.ToLower(bs)); c != 0 {
		return c
	}
	return strings.Compare(as, bs)
}
