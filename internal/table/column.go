// Package table is the server-side data table behind every list screen:
// starts-with filtering, sorting, pagination, inline edits, row selection
// and export.
package table

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/hackpsu/admin-console/internal/model"
)

var (
	ErrUnknownColumn = errors.New("unknown column")
	ErrNotSortable   = errors.New("column is not sortable")
	ErrNotEditable   = errors.New("column is not editable")
	ErrInvalidValue  = errors.New("invalid cell value")
	ErrRowNotFound   = errors.New("row not found")
)

// ColumnType drives edit coercion and the input a dashboard renders.
type ColumnType string

const (
	TypeText   ColumnType = "text"
	TypeNumber ColumnType = "number"
	TypeSelect ColumnType = "select"
	TypeBool   ColumnType = "bool"
	TypeTime   ColumnType = "time"
)

// Option is one choice of a select column.
type Option struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}

// Column describes one column of a Table over rows of type T.
type Column[T any] struct {
	Key         string
	Header      string
	Type        ColumnType
	Editable    bool
	DisableSort bool
	Options     []Option

	// Get returns the raw value used for filtering and sorting. Return nil
	// for missing values; they never match a filter and sort last.
	Get func(T) any
	// Display renders the cell. Defaults to a plain rendering of Get.
	Display func(T) string
	// Set stores an already coerced value. Required when Editable.
	Set func(*T, any) error
}

func (c Column[T]) display(row T) string {
	if c.Display != nil {
		return c.Display(row)
	}
	if c.Type == TypeSelect {
		return c.optionLabel(c.Get(row))
	}
	s, _ := stringOf(c.Get(row))
	return s
}

func (c Column[T]) optionLabel(v any) string {
	s, _ := stringOf(v)
	for _, o := range c.Options {
		if os, _ := stringOf(o.Value); os == s {
			return o.Label
		}
	}
	return s
}

// coerce converts an incoming edit value to the column's type.
func (c Column[T]) coerce(v any) (any, error) {
	invalid := func() error {
		return fmt.Errorf("%w: %q does not accept %v", ErrInvalidValue, c.Key, v)
	}

	switch c.Type {
	case TypeNumber:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case interface{ Float64() (float64, error) }:
			f, err := n.Float64()
			if err != nil {
				return nil, invalid()
			}
			return f, nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
			if err != nil {
				return nil, invalid()
			}
			return f, nil
		}
		return nil, invalid()

	case TypeBool:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			switch strings.ToLower(strings.TrimSpace(b)) {
			case "true":
				return true, nil
			case "false":
				return false, nil
			}
		}
		return nil, invalid()

	case TypeSelect:
		s, ok := stringOf(v)
		if !ok {
			return nil, invalid()
		}
		for _, o := range c.Options {
			if os, _ := stringOf(o.Value); os == s {
				return o.Value, nil
			}
		}
		return nil, invalid()

	case TypeTime:
		ms, ok := model.NormalizeTimestamp(v)
		if !ok {
			return nil, invalid()
		}
		return model.Millis(ms), nil

	default:
		if v == nil {
			return "", nil
		}
		s, ok := stringOf(v)
		if !ok {
			return nil, invalid()
		}
		return s, nil
	}
}

// stringOf renders a raw cell value. ok is false for nil and nil pointers.
func stringOf(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case model.Millis:
		if x.IsZero() {
			return "", false
		}
		return strconv.FormatInt(int64(x), 10), true
	case time.Time:
		if x.IsZero() {
			return "", false
		}
		return x.Format(time.RFC3339), true
	case fmt.Stringer:
		return x.String(), true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		return stringOf(rv.Elem().Interface())
	}
	return fmt.Sprint(v), true
}
