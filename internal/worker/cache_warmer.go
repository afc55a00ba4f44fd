package worker

import (
	"context"
	"time"

	"github.com/hackpsu/admin-console/internal/apiclient"
	"github.com/rs/zerolog"
)

// WarmTask loads one cached query.
type WarmTask struct {
	Name string
	Run  func(ctx context.Context) error
}

// CacheWarmer runs its tasks at startup and then every interval so the
// heaviest screens are served from cache.
type CacheWarmer struct {
	tasks    []WarmTask
	token    string
	interval time.Duration
	log      zerolog.Logger
}

// NewCacheWarmer creates a warmer that calls the backend with token. The
// interval is half the cache TTL, so an expired entry is reloaded within
// that window.
func NewCacheWarmer(token string, ttl time.Duration, log zerolog.Logger, tasks ...WarmTask) *CacheWarmer {
	interval := ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	return &CacheWarmer{
		tasks:    tasks,
		token:    token,
		interval: interval,
		log:      log.With().Str("component", "cache_warmer").Logger(),
	}
}

// Start warms immediately and then on every tick until ctx is cancelled.
// Call in a goroutine.
func (w *CacheWarmer) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Int("tasks", len(w.tasks)).Msg("Warmer started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.warm(ctx)
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Warmer stopped")
			return
		case <-ticker.C:
			w.warm(ctx)
		}
	}
}

// warm runs every task once. A failing task is logged and does not stop
// the others.
func (w *CacheWarmer) warm(ctx context.Context) int {
	ctx = apiclient.WithToken(ctx, w.token)
	ok := 0
	for _, t := range w.tasks {
		if ctx.Err() != nil {
			break
		}
		start := time.Now()
		if err := t.Run(ctx); err != nil {
			w.log.Warn().Err(err).Str("task", t.Name).Msg("Warm failed")
			continue
		}
		ok++
		w.log.Debug().Str("task", t.Name).Dur("took", time.Since(start)).Msg("Warmed")
	}
	return ok
}
