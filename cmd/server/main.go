package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hackpsu/admin-console/internal/apiclient"
	"github.com/hackpsu/admin-console/internal/config"
	"github.com/hackpsu/admin-console/internal/database"
	"github.com/hackpsu/admin-console/internal/handler"
	"github.com/hackpsu/admin-console/internal/logger"
	"github.com/hackpsu/admin-console/internal/querycache"
	"github.com/hackpsu/admin-console/internal/repository"
	"github.com/hackpsu/admin-console/internal/router"
	"github.com/hackpsu/admin-console/internal/service"
	"github.com/hackpsu/admin-console/internal/validator"
	"github.com/hackpsu/admin-console/internal/websocket"
	"github.com/hackpsu/admin-console/internal/worker"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("api", cfg.APIBaseURL).
		Str("cache", cfg.CacheBackend).
		Bool("verify_tokens", cfg.JWTSecret != "").
		Msg("Starting HackPSU admin console")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to Redis ──────────────────────────────────────────────
	// Redis backs the shared cache and the audit queue. With the memory
	// cache backend the console runs without it and audit is log-only.
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		if cfg.CacheBackend == config.CacheBackendRedis {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		log.Warn().Err(err).Msg("Redis unavailable, continuing with in-memory cache")
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// ─── Connect to PostgreSQL (audit log) ─────────────────────────────
	var pool *pgxpool.Pool
	if cfg.AuditEnabled {
		pool, err = database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Warn().Err(err).Msg("PostgreSQL unavailable, audit entries will only be logged")
			pool = nil
		}
	}
	if pool != nil {
		defer pool.Close()
	}

	// ─── Query Cache ───────────────────────────────────────────────────
	var store querycache.Store
	if cfg.CacheBackend == config.CacheBackendRedis {
		store = querycache.NewRedisStore(rdb)
	} else {
		store = querycache.NewMemoryStore()
	}
	cache := querycache.New(store, cfg.CacheTTL, log)

	// Without a signing secret the console cannot tell a forged token from a
	// real one, so a shared entry would be served to callers the backend
	// never saw. Entries are then kept per token.
	authService := service.NewAuthService(cfg.JWTSecret)
	if !authService.Verifies() {
		cache.ScopeBy(apiclient.TokenScope)
		log.Warn().Msg("JWT_SECRET not set, query cache is scoped per token")
	}

	// ─── Audit ─────────────────────────────────────────────────────────
	// Interfaces stay untyped nil when a backend is missing so the service
	// falls back instead of calling through a nil pointer.
	var (
		auditQueue service.AuditQueue
		auditStore service.AuditStore
		auditRepo  *repository.AuditRepository
	)
	if pool != nil {
		auditRepo = repository.NewAuditRepository(pool)
		auditStore = auditRepo
		if rdb != nil {
			auditQueue = service.NewRedisAuditQueue(rdb)
		}
	}
	auditService := service.NewAuditService(auditQueue, auditStore, log)

	// ─── Initialize Services ──────────────────────────────────────────
	api := apiclient.New(cfg, log)
	hackerService := service.NewHackerService(api, cache, auditService, log)
	eventService := service.NewEventService(api, cache, auditService, log)
	locationService := service.NewLocationService(api, cache, auditService, log)
	sponsorService := service.NewSponsorService(api, cache, auditService, log)
	memberService := service.NewMemberService(api, cache, auditService, log)
	applicationService := service.NewOrganizerApplicationService(api, cache, auditService, log)
	participantService := service.NewParticipantService(api, cache, auditService, log)
	extraCreditService := service.NewExtraCreditService(api, cache, auditService, log)
	flagService := service.NewFlagService(api, cache, auditService, log)
	hackathonService := service.NewHackathonService(api, cache, auditService, log)
	analyticsService := service.NewAnalyticsService(api, cache, hackathonService, log)

	// ─── Invalidation Hub ─────────────────────────────────────────────
	hub := websocket.NewHub(log)
	invalidations, err := cache.Subscribe(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to subscribe to cache invalidations")
	}

	// ─── Health & System Stats ────────────────────────────────────────
	var checks []handler.HealthCheck
	if rdb != nil {
		checks = append(checks, handler.HealthCheck{
			Name:     "redis",
			Optional: cfg.CacheBackend != config.CacheBackendRedis,
			Run:      func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}
	if pool != nil {
		checks = append(checks, handler.HealthCheck{Name: "postgres", Optional: true, Run: pool.Ping})
	}
	stats := handler.SystemStats{WSClients: hub.Clients}
	if auditQueue != nil {
		stats.AuditQueueLength = queueLength(rdb)
	}

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Admin:                handler.NewAdminHandler(auditService),
		Hacker:               handler.NewHackerHandler(hackerService, log),
		Event:                handler.NewEventHandler(eventService),
		Location:             handler.NewLocationHandler(locationService),
		Sponsor:              handler.NewSponsorHandler(sponsorService),
		Member:               handler.NewMemberHandler(memberService),
		OrganizerApplication: handler.NewOrganizerApplicationHandler(applicationService),
		Participant:          handler.NewParticipantHandler(participantService),
		ExtraCredit:          handler.NewExtraCreditHandler(extraCreditService),
		Setting:              handler.NewSettingHandler(flagService, hackathonService),
		Analytics:            handler.NewAnalyticsHandler(analyticsService),
		WS:                   handler.NewWSHandler(hub, log, cfg.AllowedOrigins),
		System:               handler.NewSystemHandler(checks, stats, log),
		Screens: []*handler.ScreenHandler{
			handler.NewScreenHandler("/hackers", hackerService),
			handler.NewScreenHandler("/events", eventService),
			handler.NewScreenHandler("/locations", locationService),
			handler.NewScreenHandler("/sponsors", sponsorService),
			handler.NewScreenHandler("/organizer-applications", applicationService),
			handler.NewScreenHandler("/extra-credit/classes", extraCreditService.Classes),
			handler.NewScreenHandler("/extra-credit/assignments", extraCreditService.Assignments),
			handler.NewScreenHandler("/analytics/events", analyticsService.Events),
			handler.NewScreenHandler("/analytics/organizers", analyticsService.Organizers),
			handler.NewScreenHandler("/settings/members", memberService),
			handler.NewScreenHandler("/settings/hackathons", hackathonService),
			handler.NewScreenHandler("/settings/flags", flagService),
		},
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	workers.Go(func() { hub.Run(workerCtx, invalidations) })

	if auditQueue != nil {
		auditWorker := worker.NewAuditWorker(auditRepo, rdb, log)
		workers.Go(func() { auditWorker.Start(workerCtx) })
	}

	// ─── Keep Hot Screens Warm ────────────────────────────────────────
	// A per-token cache would only be warmed for the warm token itself.
	switch {
	case cfg.WarmToken == "":
	case !authService.Verifies():
		log.Warn().Msg("CACHE_WARM_TOKEN ignored without JWT_SECRET")
	default:
		warmer := worker.NewCacheWarmer(cfg.WarmToken, cfg.CacheTTL, log,
			worker.WarmTask{Name: "analytics", Run: func(ctx context.Context) error {
				_, _, err := analyticsService.Summary(ctx, "")
				return err
			}},
			warmRows("hackathons", hackathonService.Rows),
			warmRows("hackers", hackerService.Rows),
			warmRows("events", eventService.Rows),
		)
		workers.Go(func() { warmer.Start(workerCtx) })
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, authService, handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout). Hijacked websocket
	// connections are closed by the hub in step 2.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for the audit queue to drain.
	workerCancel()
	workers.Wait()
	cancel()

	log.Info().Msg("Shutdown complete")
}

// warmRows adapts a screen's Rows loader to a warm task.
func warmRows[T any](name string, rows func(context.Context) ([]T, querycache.Status, error)) worker.WarmTask {
	return worker.WarmTask{Name: name, Run: func(ctx context.Context) error {
		_, _, err := rows(ctx)
		return err
	}}
}

func queueLength(rdb *redis.Client) func(context.Context) (int64, error) {
	return func(ctx context.Context) (int64, error) {
		return rdb.LLen(ctx, config.WorkerKey.PersistAuditQueue).Result()
	}
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
