package table

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Page sizes offered by every table.
var PageSizes = []int{10, 25, 50, 100}

// DefaultPageSize is used when per_page is missing or not one of PageSizes.
const DefaultPageSize = 10

const filterParamPrefix = "f."

// Query is the table state a dashboard sends as URL parameters:
//
//	q=<global search>  f.<column>=<filter>  sort=<column>  dir=asc|desc
//	page=<1-based>     per_page=10|25|50|100
type Query struct {
	Search   string
	Filters  map[string]string
	Sort     string
	Desc     bool
	Page     int
	PageSize int
}

// ParseQuery reads a Query from URL values, falling back to defaults for
// anything missing or malformed.
func ParseQuery(v url.Values) Query {
	q := Query{
		Search:   v.Get("q"),
		Sort:     v.Get("sort"),
		Desc:     strings.EqualFold(v.Get("dir"), "desc"),
		Page:     1,
		PageSize: DefaultPageSize,
	}

	if p, err := strconv.Atoi(v.Get("page")); err == nil && p > 0 {
		q.Page = p
	}
	if n, err := strconv.Atoi(v.Get("per_page")); err == nil && slices.Contains(PageSizes, n) {
		q.PageSize = n
	}

	for key, vals := range v {
		col, ok := strings.CutPrefix(key, filterParamPrefix)
		if !ok || col == "" || len(vals) == 0 || vals[0] == "" {
			continue
		}
		if q.Filters == nil {
			q.Filters = make(map[string]string)
		}
		q.Filters[col] = vals[0]
	}
	return q
}
