package table

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/hackpsu/admin-console/internal/model"
)

// Edit changes one cell.
type Edit struct {
	ID     string
	Column string
	Value  any
}

// EditsFromRequest decodes the raw JSON cell values of a save request.
// Numbers are kept as json.Number so large ids survive.
func EditsFromRequest(in []model.CellEdit) ([]Edit, error) {
	out := make([]Edit, 0, len(in))
	for _, e := range in {
		var v any
		if len(bytes.TrimSpace(e.Value)) > 0 {
			dec := json.NewDecoder(bytes.NewReader(e.Value))
			dec.UseNumber()
			if err := dec.Decode(&v); err != nil {
				return nil, fmt.Errorf("%w: %q: %v", ErrInvalidValue, e.Column, err)
			}
		}
		out = append(out, Edit{ID: e.ID, Column: e.Column, Value: v})
	}
	return out, nil
}

// ApplyEdits returns a copy of rows with every edit applied. rows is not
// modified. The first invalid edit aborts the whole batch.
func (t *Table[T]) ApplyEdits(rows []T, edits []Edit) ([]T, error) {
	out := make([]T, len(rows))
	copy(out, rows)

	index := make(map[string]int, len(out))
	for i, row := range out {
		index[t.ID(row)] = i
	}

	for _, e := range edits {
		col, err := t.Column(e.Column)
		if err != nil {
			return nil, err
		}
		if !col.Editable || col.Set == nil {
			return nil, fmt.Errorf("%w: %q", ErrNotEditable, e.Column)
		}
		i, ok := index[e.ID]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrRowNotFound, e.ID)
		}
		v, err := col.coerce(e.Value)
		if err != nil {
			return nil, err
		}
		if err := col.Set(&out[i], v); err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidValue, e.Column, err)
		}
	}
	return out, nil
}

// Changed returns the rows of edited whose editable values differ from the
// row with the same id in original. Rows missing from original are skipped.
func (t *Table[T]) Changed(original, edited []T) []T {
	byID := make(map[string]T, len(original))
	for _, row := range original {
		byID[t.ID(row)] = row
	}

	var out []T
	for _, row := range edited {
		orig, ok := byID[t.ID(row)]
		if !ok {
			continue
		}
		for _, c := range t.Columns {
			if c.Editable && !reflect.DeepEqual(c.Get(orig), c.Get(row)) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}
