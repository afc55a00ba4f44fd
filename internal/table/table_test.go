package table

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/hackpsu/admin-console/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type room struct {
	ID       int
	Name     string
	Capacity int
	Building *string
	Open     bool
	Kind     string
}

func strp(s string) *string { return &s }

func roomTable() *Table[room] {
	return &Table[room]{
		ID: func(r room) string { return fmt.Sprint(r.ID) },
		Columns: []Column[room]{
			{
				Key: "name", Header: "Name", Type: TypeText, Editable: true,
				Get: func(r room) any { return r.Name },
				Set: func(r *room, v any) error { r.Name = v.(string); return nil },
			},
			{
				Key: "capacity", Header: "Capacity", Type: TypeNumber, Editable: true,
				Get: func(r room) any { return r.Capacity },
				Set: func(r *room, v any) error {
					f := v.(float64)
					if f < 0 {
						return errors.New("negative")
					}
					r.Capacity = int(f)
					return nil
				},
			},
			{
				Key: "building", Header: "Building",
				Get: func(r room) any {
					if r.Building == nil {
						return nil
					}
					return *r.Building
				},
			},
			{
				Key: "open", Header: "Open", Type: TypeBool, Editable: true,
				Get: func(r room) any { return r.Open },
				Set: func(r *room, v any) error { r.Open = v.(bool); return nil },
			},
			{
				Key: "kind", Header: "Kind", Type: TypeSelect, Editable: true, DisableSort: true,
				Options: []Option{{Label: "Lecture Hall", Value: "lecture"}, {Label: "Lab", Value: "lab"}},
				Get:     func(r room) any { return r.Kind },
				Set:     func(r *room, v any) error { r.Kind = v.(string); return nil },
			},
		},
	}
}

func rooms() []room {
	return []room{
		{ID: 1, Name: "Business 100", Capacity: 300, Building: strp("Business"), Kind: "lecture"},
		{ID: 2, Name: "ECORE 101", Capacity: 40, Building: strp("ECORE"), Open: true, Kind: "lab"},
		{ID: 3, Name: "business annex", Capacity: 120, Kind: "lecture"},
		{ID: 4, Name: "Westgate E201", Capacity: 40, Building: strp("Westgate"), Open: true, Kind: "lab"},
	}
}

func ids(p Page) []string {
	out := make([]string, 0, len(p.Rows))
	for _, r := range p.Rows {
		out = append(out, r.ID)
	}
	return out
}

func TestParseQuery(t *testing.T) {
	q := ParseQuery(url.Values{
		"q": {"bus"}, "f.building": {"E"}, "f.kind": {""},
		"sort": {"capacity"}, "dir": {"DESC"}, "page": {"2"}, "per_page": {"25"},
	})
	assert.Equal(t, "bus", q.Search)
	assert.Equal(t, map[string]string{"building": "E"}, q.Filters)
	assert.Equal(t, "capacity", q.Sort)
	assert.True(t, q.Desc)
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, 25, q.PageSize)

	q = ParseQuery(url.Values{"page": {"-3"}, "per_page": {"30"}})
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultPageSize, q.PageSize)
}

func TestApply_GlobalSearchIsStartsWithCaseInsensitive(t *testing.T) {
	p, err := roomTable().Apply(rooms(), Query{Search: "BUS", PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, ids(p))

	// "100" is inside "Business 100" but only a prefix match counts.
	p, err = roomTable().Apply(rooms(), Query{Search: "100", PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, p.Rows)

	// Numbers match on their text form.
	p, err = roomTable().Apply(rooms(), Query{Search: "4", PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "4"}, ids(p))
}

func TestApply_ColumnFilterSkipsNil(t *testing.T) {
	p, err := roomTable().Apply(rooms(), Query{Filters: map[string]string{"building": "b"}, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids(p))

	_, err = roomTable().Apply(rooms(), Query{Filters: map[string]string{"floor": "1"}})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestApply_Sort(t *testing.T) {
	tbl := roomTable()

	p, err := tbl.Apply(rooms(), Query{Sort: "capacity", PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "4", "3", "1"}, ids(p), "stable for equal capacities")

	p, err = tbl.Apply(rooms(), Query{Sort: "name", Desc: true, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "2", "3", "1"}, ids(p))

	p, err = tbl.Apply(rooms(), Query{Sort: "building", Desc: true, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, "3", p.Rows[3].ID, "nil sorts last in either direction")

	p, err = tbl.Apply(rooms(), Query{Sort: "open", PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3", "2", "4"}, ids(p))

	_, err = tbl.Apply(rooms(), Query{Sort: "kind"})
	assert.ErrorIs(t, err, ErrNotSortable)
}

func TestApply_Pagination(t *testing.T) {
	var many []room
	for i := 1; i <= 23; i++ {
		many = append(many, room{ID: i, Name: fmt.Sprintf("Room %02d", i)})
	}
	tbl := roomTable()

	p, err := tbl.Apply(many, Query{Page: 3, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, p.PageCount)
	assert.Equal(t, 23, p.Total)
	assert.Len(t, p.Rows, 3)
	assert.True(t, p.HasPrev)
	assert.False(t, p.HasNext)

	p, err = tbl.Apply(many, Query{Page: 99, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, p.Page)

	p, err = tbl.Apply(nil, Query{Page: 4, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 0, p.PageCount)
	assert.Equal(t, 1, p.Page)
	assert.False(t, p.HasNext)
	assert.Empty(t, p.Rows)
}

func TestApply_RendersCells(t *testing.T) {
	p, err := roomTable().Apply(rooms()[:1], Query{PageSize: 10})
	require.NoError(t, err)
	require.Len(t, p.Rows, 1)
	row := p.Rows[0]
	assert.Equal(t, "Lecture Hall", row.Cells["kind"])
	assert.Equal(t, "300", row.Cells["capacity"])
	assert.Equal(t, 300, row.Values["capacity"])
	assert.Equal(t, "false", row.Cells["open"])
	assert.Len(t, p.Columns, 5)
	assert.False(t, p.Columns[4].Sortable)
}

func rawEdits(t *testing.T, in ...model.CellEdit) []Edit {
	t.Helper()
	edits, err := EditsFromRequest(in)
	require.NoError(t, err)
	return edits
}

func TestApplyEdits_Coercion(t *testing.T) {
	tbl := roomTable()
	orig := rooms()

	edited, err := tbl.ApplyEdits(orig, rawEdits(t,
		model.CellEdit{ID: "2", Column: "capacity", Value: json.RawMessage(`"45"`)},
		model.CellEdit{ID: "2", Column: "open", Value: json.RawMessage(`"false"`)},
		model.CellEdit{ID: "3", Column: "kind", Value: json.RawMessage(`"lab"`)},
		model.CellEdit{ID: "4", Column: "capacity", Value: json.RawMessage(`40`)},
	))
	require.NoError(t, err)

	assert.Equal(t, 45, edited[1].Capacity)
	assert.False(t, edited[1].Open)
	assert.Equal(t, "lab", edited[2].Kind)
	assert.Equal(t, 40, orig[1].Capacity, "input rows untouched")

	changed := tbl.Changed(orig, edited)
	require.Len(t, changed, 2)
	assert.Equal(t, 2, changed[0].ID)
	assert.Equal(t, 3, changed[1].ID)
}

func TestApplyEdits_Errors(t *testing.T) {
	tbl := roomTable()
	cases := []struct {
		edit model.CellEdit
		want error
	}{
		{model.CellEdit{ID: "1", Column: "floor", Value: json.RawMessage(`1`)}, ErrUnknownColumn},
		{model.CellEdit{ID: "1", Column: "building", Value: json.RawMessage(`"X"`)}, ErrNotEditable},
		{model.CellEdit{ID: "9", Column: "name", Value: json.RawMessage(`"X"`)}, ErrRowNotFound},
		{model.CellEdit{ID: "1", Column: "capacity", Value: json.RawMessage(`"lots"`)}, ErrInvalidValue},
		{model.CellEdit{ID: "1", Column: "capacity", Value: json.RawMessage(`-1`)}, ErrInvalidValue},
		{model.CellEdit{ID: "1", Column: "kind", Value: json.RawMessage(`"gym"`)}, ErrInvalidValue},
		{model.CellEdit{ID: "1", Column: "open", Value: json.RawMessage(`"yes"`)}, ErrInvalidValue},
	}
	for _, tc := range cases {
		t.Run(tc.edit.Column+"/"+tc.edit.ID, func(t *testing.T) {
			_, err := tbl.ApplyEdits(rooms(), rawEdits(t, tc.edit))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestSelection(t *testing.T) {
	s := NewSelection("b", "a", "a")
	assert.Equal(t, 2, s.Len())

	assert.False(t, s.Toggle("a"))
	assert.True(t, s.Toggle("c"))
	assert.Equal(t, []string{"b", "c"}, s.IDs())

	visible := []string{"b", "c", "d"}
	s.ToggleAll(visible)
	assert.True(t, s.AllSelected(visible))
	s.ToggleAll(visible)
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.AllSelected(nil))
}

func TestIDs_AcrossPages(t *testing.T) {
	got, err := roomTable().IDs(rooms(), Query{Filters: map[string]string{"kind": "la"}, Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "4"}, got)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, roomTable().WriteCSV(&buf, rooms()[:2]))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Capacity", "Building", "Open", "Kind"}, records[0])
	assert.Equal(t, []string{"ECORE 101", "40", "ECORE", "true", "Lab"}, records[2])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, roomTable().Export(&buf, FormatXLSX, "Locations", rooms()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Locations")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "Name", rows[0][0])
	assert.Equal(t, "Westgate E201", rows[4][0])
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, "members.xlsx", f.Filename("members"))

	_, err = ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
