package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hackpsu/admin-console/internal/apiclient"
	"github.com/hackpsu/admin-console/internal/config"
	"github.com/hackpsu/admin-console/internal/metrics"
	"github.com/hackpsu/admin-console/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	DefaultAuditLimit = 50
	MaxAuditLimit     = 200
)

// AuditRecorder records successful mutations.
type AuditRecorder interface {
	Record(ctx context.Context, action, resource, resourceID string)
}

// AuditQueue hands entries to the persistence worker.
type AuditQueue interface {
	Enqueue(ctx context.Context, entry model.AuditEntry) error
}

// AuditStore reads persisted entries.
type AuditStore interface {
	ListRecent(ctx context.Context, limit int) ([]model.AuditEntry, error)
}

// RedisAuditQueue pushes entries onto the persist_audit_queue list.
type RedisAuditQueue struct {
	rdb *redis.Client
}

func NewRedisAuditQueue(rdb *redis.Client) *RedisAuditQueue {
	return &RedisAuditQueue{rdb: rdb}
}

func (q *RedisAuditQueue) Enqueue(ctx context.Context, entry model.AuditEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode audit entry: %w", err)
	}
	return q.rdb.RPush(ctx, config.WorkerKey.PersistAuditQueue, payload).Err()
}

// AuditService attributes mutations to the acting staff member. Without a
// queue entries are only logged; without a store Recent returns nothing.
type AuditService struct {
	queue AuditQueue
	store AuditStore
	log   zerolog.Logger
	now   func() time.Time
}

func NewAuditService(queue AuditQueue, store AuditStore, log zerolog.Logger) *AuditService {
	return &AuditService{
		queue: queue,
		store: store,
		log:   log.With().Str("component", "audit_service").Logger(),
		now:   time.Now,
	}
}

// Record logs the entry and queues it for persistence. Failures never fail
// the mutation that triggered them.
func (s *AuditService) Record(ctx context.Context, action, resource, resourceID string) {
	entry := model.AuditEntry{
		ID:         uuid.NewString(),
		Actor:      ActorFrom(ctx),
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		RequestID:  apiclient.RequestIDFrom(ctx),
		At:         s.now().UTC(),
	}

	s.log.Info().
		Str("actor", entry.Actor).
		Str("action", action).
		Str("resource", resource).
		Str("resource_id", resourceID).
		Str("request_id", entry.RequestID).
		Msg("Audit")

	if s.queue == nil {
		metrics.AuditEntries.WithLabelValues("logged").Inc()
		return
	}
	if err := s.queue.Enqueue(context.WithoutCancel(ctx), entry); err != nil {
		metrics.AuditEntries.WithLabelValues("dropped").Inc()
		s.log.Error().Err(err).Str("audit_id", entry.ID).Msg("Failed to queue audit entry")
		return
	}
	metrics.AuditEntries.WithLabelValues("queued").Inc()
}

// Recent returns the newest persisted entries, newest first.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	if limit <= 0 {
		limit = DefaultAuditLimit
	}
	limit = min(limit, MaxAuditLimit)

	if s.store == nil {
		return []model.AuditEntry{}, nil
	}
	entries, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}
