package querycache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(ttl time.Duration) (*Cache, *MemoryStore) {
	store := NewMemoryStore()
	return New(store, ttl, zerolog.Nop()), store
}

func TestKey_RenderAndParse(t *testing.T) {
	k := NewKey("organizer-applications", "team", "Co:exec")

	assert.Equal(t, "q:organizer-applications:team:Co%3Aexec", k.String())
	parsed, ok := ParseKey(k.String())
	require.True(t, ok)
	assert.Equal(t, k, parsed)

	assert.True(t, k.HasPrefix(NewKey("organizer-applications")))
	assert.False(t, NewKey("users").HasPrefix(NewKey("users", "all")))

	_, ok = ParseKey("other:users")
	assert.False(t, ok)
}

func TestFetch_MissThenHit(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	ctx := context.Background()
	var calls int
	fn := func(context.Context) ([]string, error) {
		calls++
		return []string{"a", "b"}, nil
	}

	got, st, err := Fetch(ctx, c, NewKey("users", "all"), fn)
	require.NoError(t, err)
	assert.False(t, st.Hit)
	assert.Equal(t, []string{"a", "b"}, got)

	got, st2, err := Fetch(ctx, c, NewKey("users", "all"), fn)
	require.NoError(t, err)
	assert.True(t, st2.Hit)
	assert.Equal(t, st.FetchedAt, st2.FetchedAt)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, calls)
}

func TestFetch_ErrorIsNotCached(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	boom := errors.New("boom")
	calls := 0
	fn := func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, boom
		}
		return 42, nil
	}

	_, _, err := Fetch(context.Background(), c, NewKey("flags"), fn)
	assert.ErrorIs(t, err, boom)

	v, st, err := Fetch(context.Background(), c, NewKey("flags"), fn)
	require.NoError(t, err)
	assert.False(t, st.Hit)
	assert.Equal(t, 42, v)
}

func TestFetch_ConcurrentMissesShareOneCall(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	var calls atomic.Int32
	release := make(chan struct{})
	fn := func(context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "summary", nil
	}

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, _, err := Fetch(context.Background(), c, NewKey("analytics", "summary"), fn)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.Equal(t, "summary", r)
	}
}

func TestFetch_ExpiresAfterTTL(t *testing.T) {
	c, store := newTestCache(time.Minute)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	calls := 0
	fn := func(context.Context) (int, error) { calls++; return calls, nil }

	_, _, _ = Fetch(context.Background(), c, NewKey("hackathons"), fn)
	now = now.Add(2 * time.Minute)
	v, st, err := Fetch(context.Background(), c, NewKey("hackathons"), fn)

	require.NoError(t, err)
	assert.False(t, st.Hit)
	assert.Equal(t, 2, v)
}

func TestInvalidate_ByPrefix(t *testing.T) {
	c, store := newTestCache(time.Minute)
	ctx := context.Background()
	for _, k := range []Key{
		NewKey("users", "all"),
		NewKey("users", "active=true"),
		NewKey("users-archive"),
		NewKey("user", "u1"),
	} {
		_, _, err := Fetch(ctx, c, k, func(context.Context) (int, error) { return 1, nil })
		require.NoError(t, err)
	}

	require.NoError(t, c.Invalidate(ctx, NewKey("users")))

	for k, want := range map[string]bool{
		NewKey("users", "all").String():         false,
		NewKey("users", "active=true").String(): false,
		NewKey("users-archive").String():        true,
		NewKey("user", "u1").String():           true,
	} {
		_, ok, _ := store.Get(ctx, k)
		assert.Equal(t, want, ok, k)
	}
}

func TestMutate_InvalidatesOnlyOnSuccess(t *testing.T) {
	c, store := newTestCache(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notices, err := c.Subscribe(ctx)
	require.NoError(t, err)

	_, _, _ = Fetch(ctx, c, NewKey("locations"), func(context.Context) (int, error) { return 1, nil })

	_, err = Mutate(ctx, c, func(context.Context) (int, error) { return 0, errors.New("rejected") }, NewKey("locations"))
	require.Error(t, err)
	_, ok, _ := store.Get(ctx, NewKey("locations").String())
	assert.True(t, ok)

	v, err := Mutate(ctx, c, func(context.Context) (string, error) { return "saved", nil }, NewKey("locations"))
	require.NoError(t, err)
	assert.Equal(t, "saved", v)
	_, ok, _ = store.Get(ctx, NewKey("locations").String())
	assert.False(t, ok)

	select {
	case inv := <-notices:
		assert.Equal(t, []Key{NewKey("locations")}, inv.Keys)
	case <-time.After(time.Second):
		t.Fatal("no invalidation notice")
	}
}

func TestFetch_InvalidationDuringFetchIsNotCached(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	ctx := context.Background()
	key := NewKey("locations", "all")
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan []string, 1)

	go func() {
		rows, _, err := Fetch(ctx, c, key, func(context.Context) ([]string, error) {
			close(started)
			<-release
			return []string{"deleted-row"}, nil
		})
		assert.NoError(t, err)
		done <- rows
	}()
	<-started

	require.NoError(t, c.Invalidate(ctx, NewKey("locations")))

	// A reader arriving after the invalidation starts its own call.
	rows, st, err := Fetch(ctx, c, key, func(context.Context) ([]string, error) {
		return []string{"kept-row"}, nil
	})
	require.NoError(t, err)
	assert.False(t, st.Shared)
	assert.Equal(t, []string{"kept-row"}, rows)

	close(release)
	assert.Equal(t, []string{"deleted-row"}, <-done)

	rows, st, err = Fetch(ctx, c, key, func(context.Context) ([]string, error) {
		return nil, errors.New("unexpected upstream call")
	})
	require.NoError(t, err)
	assert.True(t, st.Hit)
	assert.Equal(t, []string{"kept-row"}, rows)
}

func TestFetch_RemoteInvalidationDuringFetchIsNotCached(t *testing.T) {
	c, store := newTestCache(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notices, err := c.Subscribe(ctx)
	require.NoError(t, err)

	key := NewKey("events", "all")
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _, err := Fetch(ctx, c, key, func(context.Context) (int, error) {
			close(started)
			<-release
			return 1, nil
		})
		assert.NoError(t, err)
	}()
	<-started

	// Another replica invalidated events; only its notice reaches us.
	require.NoError(t, store.Publish(ctx, []byte(`{"keys":[["events"]],"at":"2025-03-01T09:00:00Z"}`)))
	select {
	case <-notices:
	case <-time.After(time.Second):
		t.Fatal("no invalidation notice")
	}

	close(release)
	<-done

	_, ok, _ := store.Get(ctx, key.String())
	assert.False(t, ok)
}

type scopeCtxKey struct{}

func TestFetch_ScopedCallersDoNotShareEntries(t *testing.T) {
	c, store := newTestCache(time.Minute)
	c.ScopeBy(func(ctx context.Context) string {
		s, _ := ctx.Value(scopeCtxKey{}).(string)
		return s
	})
	alice := context.WithValue(context.Background(), scopeCtxKey{}, "alice")
	mallory := context.WithValue(context.Background(), scopeCtxKey{}, "mallory")
	key := NewKey("users", "all")

	var calls int
	fn := func(context.Context) (int, error) { calls++; return calls, nil }

	v, _, err := Fetch(alice, c, key, fn)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, st, err := Fetch(mallory, c, key, fn)
	require.NoError(t, err)
	assert.False(t, st.Hit)
	assert.Equal(t, 2, v)

	v, st, err = Fetch(alice, c, key, fn)
	require.NoError(t, err)
	assert.True(t, st.Hit)
	assert.Equal(t, 1, v)

	require.NoError(t, c.Invalidate(context.Background(), NewKey("users")))
	for _, scope := range []string{"alice", "mallory"} {
		_, ok, _ := store.Get(context.Background(), NewKey("users", "all", scopeSegment+scope).String())
		assert.False(t, ok, scope)
	}
}
