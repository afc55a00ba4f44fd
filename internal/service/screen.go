package service

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/hackpsu/admin-console/internal/model"
	"github.com/hackpsu/admin-console/internal/querycache"
	"github.com/hackpsu/admin-console/internal/table"
	"golang.org/x/sync/errgroup"
)

// bulkConcurrency bounds upstream calls in flight for one bulk action.
const bulkConcurrency = 4

// Screen is a cached list screen: one query key, the loader behind it and
// the table that renders it.
type Screen[T any] struct {
	name  string
	key   querycache.Key
	table *table.Table[T]
	cache *querycache.Cache
	load  func(context.Context) ([]T, error)
}

func newScreen[T any](name string, key querycache.Key, tbl *table.Table[T], cache *querycache.Cache, load func(context.Context) ([]T, error)) *Screen[T] {
	return &Screen[T]{name: name, key: key, table: tbl, cache: cache, load: load}
}

// Rows returns every row, from cache when fresh.
func (s *Screen[T]) Rows(ctx context.Context) ([]T, querycache.Status, error) {
	rows, st, err := querycache.Fetch(ctx, s.cache, s.key, s.load)
	if err != nil {
		return nil, st, fmt.Errorf("load %s: %w", s.name, err)
	}
	return rows, st, nil
}

// Page returns one filtered, sorted page.
func (s *Screen[T]) Page(ctx context.Context, q table.Query) (table.Page, querycache.Status, error) {
	rows, st, err := s.Rows(ctx)
	if err != nil {
		return table.Page{}, st, err
	}
	page, err := s.table.Apply(rows, q)
	return page, st, err
}

// SelectAll returns the ids of every row matching q across pages.
func (s *Screen[T]) SelectAll(ctx context.Context, q table.Query) ([]string, error) {
	rows, _, err := s.Rows(ctx)
	if err != nil {
		return nil, err
	}
	return s.table.IDs(rows, q)
}

// Export writes every row matching q, in display form.
func (s *Screen[T]) Export(ctx context.Context, q table.Query, f table.Format, w io.Writer) error {
	rows, _, err := s.Rows(ctx)
	if err != nil {
		return err
	}
	filtered, err := s.table.Filter(rows, q)
	if err != nil {
		return err
	}
	return s.table.Export(w, f, s.name, filtered)
}

// ExportName is the base file name of exports.
func (s *Screen[T]) ExportName() string {
	return s.name
}

// Columns describes the table.
func (s *Screen[T]) Columns() []table.Header {
	return s.table.Headers()
}

// Refresh drops the cached rows so the next read goes upstream.
func (s *Screen[T]) Refresh(ctx context.Context) error {
	return s.cache.Invalidate(ctx, s.key)
}

// forEach calls fn for every id with bounded concurrency. Every id is
// attempted; the result counts successes and carries the first failure.
func forEach(ctx context.Context, ids []string, fn func(context.Context, string) error) (int, error) {
	var done atomic.Int64
	var g errgroup.Group
	g.SetLimit(bulkConcurrency)
	for _, id := range ids {
		g.Go(func() error {
			if err := fn(ctx, id); err != nil {
				return fmt.Errorf("%s: %w", id, err)
			}
			done.Add(1)
			return nil
		})
	}
	err := g.Wait()
	return int(done.Load()), err
}

// bulkDelete deletes every id, records one audit entry per deleted row and
// invalidates prefixes once if anything was deleted.
func bulkDelete(ctx context.Context, cache *querycache.Cache, audit AuditRecorder, resource string, ids []string, del func(context.Context, string) error, invalidate ...querycache.Key) (int, error) {
	n, err := forEach(ctx, ids, func(ctx context.Context, id string) error {
		if err := del(ctx, id); err != nil {
			return err
		}
		audit.Record(ctx, model.AuditActionDelete, resource, id)
		return nil
	})
	if n > 0 {
		_ = cache.Invalidate(ctx, invalidate...)
	}
	if err != nil {
		return n, fmt.Errorf("delete %s: %w", resource, err)
	}
	return n, nil
}
