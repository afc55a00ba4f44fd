package querycache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/hackpsu/admin-console/internal/metrics"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Status describes how a Fetch was served. Handlers expose it so dashboards
// can show "last updated" and decide whether to refetch.
type Status struct {
	Key       string
	Hit       bool
	Shared    bool
	FetchedAt time.Time
}

// Invalidation is the notice published after keys are invalidated.
type Invalidation struct {
	Keys []Key     `json:"keys"`
	At   time.Time `json:"at"`
}

type entry struct {
	FetchedAt time.Time       `json:"fetched_at"`
	Data      json.RawMessage `json:"data"`
}

// Cache is a read-through cache keyed by query key.
//
// Every namespace carries a generation that Invalidate bumps. A fetch that
// started under an older generation still answers its callers but never
// writes its result back, and callers arriving after the bump start a new
// upstream call instead of joining the old one.
type Cache struct {
	store Store
	ttl   time.Duration
	group singleflight.Group
	log   zerolog.Logger
	now   func() time.Time
	scope func(context.Context) string

	genMu sync.RWMutex
	gens  map[string]uint64
}

// New creates a cache. ttl is the staleness window of every entry.
func New(store Store, ttl time.Duration, log zerolog.Logger) *Cache {
	return &Cache{
		store: store,
		ttl:   ttl,
		log:   log.With().Str("component", "querycache").Logger(),
		now:   time.Now,
		gens:  make(map[string]uint64),
	}
}

// ScopeBy partitions entries by the value fn derives from the request
// context. Callers with different scopes never see each other's entries
// or join each other's upstream calls. An empty scope is the shared one.
// It must be called before the cache is used.
func (c *Cache) ScopeBy(fn func(context.Context) string) *Cache {
	c.scope = fn
	return c
}

// scoped appends the caller's scope as a trailing segment so prefix
// invalidation still reaches it.
func (c *Cache) scoped(ctx context.Context, key Key) Key {
	if c.scope == nil {
		return key
	}
	s := c.scope(ctx)
	if s == "" {
		return key
	}
	out := make(Key, 0, len(key)+1)
	return append(append(out, key...), scopeSegment+s)
}

// generation is the sum of the namespace's counter and the global one;
// both only grow, so any bump changes it.
func (c *Cache) generation(ns string) uint64 {
	c.genMu.RLock()
	defer c.genMu.RUnlock()
	return c.gens[ns] + c.gens[""]
}

func (c *Cache) bump(keys ...Key) {
	c.genMu.Lock()
	defer c.genMu.Unlock()
	for _, k := range keys {
		c.gens[k.Namespace()]++
	}
}

// storeIfCurrent writes raw unless the namespace was invalidated after gen
// was read. The read lock spans the write so a concurrent bump either
// happens first and is seen here, or waits and is followed by its delete.
func (c *Cache) storeIfCurrent(ctx context.Context, ns string, gen uint64, rendered string, raw []byte) bool {
	c.genMu.RLock()
	defer c.genMu.RUnlock()
	if c.gens[ns]+c.gens[""] != gen {
		return false
	}
	if err := c.store.Set(ctx, rendered, raw, c.ttl); err != nil {
		c.log.Warn().Err(err).Str("key", rendered).Msg("Cache write failed")
	}
	return true
}

// TTL returns the staleness window.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Fetch returns the cached value for key, or calls fn, caches its result and
// returns it. Concurrent misses on the same key share one call to fn. Store
// failures degrade to calling fn; only fn's error is returned.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn func(context.Context) (T, error)) (T, Status, error) {
	var out T
	key = c.scoped(ctx, key)
	rendered := key.String()
	ns := key.Namespace()
	gen := c.generation(ns)

	if raw, ok, err := c.store.Get(ctx, rendered); err != nil {
		c.log.Warn().Err(err).Str("key", rendered).Msg("Cache read failed, fetching upstream")
	} else if ok {
		var e entry
		if err := json.Unmarshal(raw, &e); err == nil {
			if err := json.Unmarshal(e.Data, &out); err == nil {
				metrics.CacheLookups.WithLabelValues(ns, "hit").Inc()
				return out, Status{Key: rendered, Hit: true, FetchedAt: e.FetchedAt}, nil
			}
		}
		c.log.Warn().Str("key", rendered).Msg("Discarding undecodable cache entry")
	}

	// The shared call outlives any single caller's cancellation but keeps
	// request values such as the bearer token.
	detached := context.WithoutCancel(ctx)
	v, err, shared := c.group.Do(rendered+"@"+strconv.FormatUint(gen, 10), func() (interface{}, error) {
		val, err := fn(detached)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", rendered, err)
		}
		e := entry{FetchedAt: c.now().UTC(), Data: data}
		if raw, err := json.Marshal(e); err == nil {
			if !c.storeIfCurrent(detached, ns, gen, rendered, raw) {
				c.log.Debug().Str("key", rendered).Msg("Invalidated during fetch, result not cached")
			}
		}
		return e, nil
	})
	if err != nil {
		return out, Status{Key: rendered}, err
	}

	e := v.(entry)
	if err := json.Unmarshal(e.Data, &out); err != nil {
		return out, Status{Key: rendered}, fmt.Errorf("decode %s: %w", rendered, err)
	}

	result := "miss"
	if shared {
		result = "shared"
	}
	metrics.CacheLookups.WithLabelValues(ns, result).Inc()
	return out, Status{Key: rendered, Shared: shared, FetchedAt: e.FetchedAt}, nil
}

// Invalidate drops every entry under the given prefixes and publishes one
// notice listing them.
func (c *Cache) Invalidate(ctx context.Context, prefixes ...Key) error {
	if len(prefixes) == 0 {
		return nil
	}

	c.bump(prefixes...)

	var firstErr error
	for _, p := range prefixes {
		n, err := c.store.DeletePrefix(ctx, p.String())
		if err != nil {
			c.log.Error().Err(err).Str("prefix", p.String()).Msg("Cache invalidation failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		metrics.CacheInvalidations.WithLabelValues(p.Namespace()).Inc()
		c.log.Debug().Str("prefix", p.String()).Int("deleted", n).Msg("Cache invalidated")
	}

	payload, err := json.Marshal(Invalidation{Keys: prefixes, At: c.now().UTC()})
	if err != nil {
		return fmt.Errorf("encode invalidation: %w", err)
	}
	if err := c.store.Publish(ctx, payload); err != nil {
		c.log.Warn().Err(err).Msg("Publishing invalidation failed")
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Mutate runs fn and, only when it succeeds, invalidates the given prefixes.
// An invalidation failure is logged; the mutation result still stands.
func Mutate[T any](ctx context.Context, c *Cache, fn func(context.Context) (T, error), invalidate ...Key) (T, error) {
	out, err := fn(ctx)
	if err != nil {
		return out, err
	}
	if err := c.Invalidate(ctx, invalidate...); err != nil {
		c.log.Warn().Err(err).Msg("Mutation succeeded but cache invalidation failed")
	}
	return out, nil
}

// Subscribe streams invalidation notices until ctx is cancelled. Notices
// from other replicas also retire this replica's in-flight fetches.
func (c *Cache) Subscribe(ctx context.Context) (<-chan Invalidation, error) {
	raw, err := c.store.Subscribe(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan Invalidation, 16)
	go func() {
		defer close(out)
		for payload := range raw {
			var inv Invalidation
			if err := json.Unmarshal(payload, &inv); err != nil {
				c.log.Warn().Err(err).Msg("Dropping malformed invalidation")
				continue
			}
			c.bump(inv.Keys...)
			select {
			case out <- inv:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
