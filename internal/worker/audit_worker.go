package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hackpsu/admin-console/internal/config"
	"github.com/hackpsu/admin-console/internal/metrics"
	"github.com/hackpsu/admin-console/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	AuditBatchSize    = 50
	AuditBatchTimeout = 2 * time.Second
	PollTimeout       = time.Second
)

// AuditSink stores audit entries. Implemented by repository.AuditRepository.
type AuditSink interface {
	InsertBatch(ctx context.Context, entries []model.AuditEntry) error
}

// AuditWorker consumes persist_audit_queue and writes the entries to PostgreSQL
// in batches.
type AuditWorker struct {
	sink AuditSink
	rdb  *redis.Client
	log  zerolog.Logger
}

func NewAuditWorker(sink AuditSink, rdb *redis.Client, log zerolog.Logger) *AuditWorker {
	return &AuditWorker{
		sink: sink,
		rdb:  rdb,
		log:  log.With().Str("component", "audit_worker").Logger(),
	}
}

// Start runs the worker loop until ctx is cancelled. Call in a goroutine.
func (w *AuditWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	buffer := make([]model.AuditEntry, 0, AuditBatchSize)
	lastFlush := time.Now()

	for {
		if len(buffer) > 0 && (len(buffer) >= AuditBatchSize || time.Since(lastFlush) >= AuditBatchTimeout) {
			w.flush(ctx, buffer)
			buffer = buffer[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.shutdown(buffer)
			return
		default:
		}

		result, err := w.rdb.BLPop(ctx, PollTimeout, config.WorkerKey.PersistAuditQueue).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				continue
			}
			w.log.Error().Err(err).Msg("Redis connection error, sleeping 3s")
			time.Sleep(3 * time.Second)
			continue
		}
		if len(result) < 2 {
			continue
		}

		entry, ok := w.decode(result[1])
		if !ok {
			continue
		}
		buffer = append(buffer, entry)
	}
}

// decode parses one queued entry. Malformed payloads cannot be retried and
// are dropped.
func (w *AuditWorker) decode(raw string) (model.AuditEntry, bool) {
	var entry model.AuditEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil || entry.ID == "" {
		w.log.Error().Err(err).Str("data", raw).Msg("Discarding malformed audit entry")
		metrics.AuditEntries.WithLabelValues("dropped").Inc()
		return model.AuditEntry{}, false
	}
	return entry, true
}

// flush writes the batch, pushing it back onto the queue when the insert fails.
func (w *AuditWorker) flush(ctx context.Context, batch []model.AuditEntry) bool {
	if err := w.sink.InsertBatch(ctx, batch); err != nil {
		w.log.Warn().Err(err).Int("count", len(batch)).Msg("Audit insert failed, requeueing")
		w.requeue(ctx, batch)
		return false
	}
	metrics.AuditEntries.WithLabelValues("persisted").Add(float64(len(batch)))
	w.log.Debug().Int("count", len(batch)).Msg("Audit batch persisted")
	return true
}

func (w *AuditWorker) requeue(ctx context.Context, batch []model.AuditEntry) {
	pipe := w.rdb.Pipeline()
	for _, e := range batch {
		data, _ := json.Marshal(e)
		pipe.RPush(ctx, config.WorkerKey.PersistAuditQueue, data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		w.log.Error().Err(err).Int("count", len(batch)).Msg("Failed to requeue audit entries")
		metrics.AuditEntries.WithLabelValues("dropped").Add(float64(len(batch)))
		return
	}
	time.Sleep(2 * time.Second)
}

// shutdown flushes the buffer and whatever is still queued in Redis.
func (w *AuditWorker) shutdown(buffer []model.AuditEntry) {
	w.log.Info().Msg("Worker stopping, flushing remaining entries...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	drained := len(buffer)
	for ctx.Err() == nil {
		raws, err := w.rdb.LPopCount(ctx, config.WorkerKey.PersistAuditQueue, AuditBatchSize).Result()
		if err != nil || len(raws) == 0 {
			break
		}
		for _, raw := range raws {
			if entry, ok := w.decode(raw); ok {
				buffer = append(buffer, entry)
			}
		}
		drained += len(raws)
		if len(buffer) >= AuditBatchSize {
			ok := w.flush(ctx, buffer)
			buffer = buffer[:0]
			if !ok {
				break
			}
		}
	}
	if len(buffer) > 0 {
		w.flush(ctx, buffer)
	}

	w.log.Info().Int("count", drained).Msg("Worker stopped")
}
