package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sakec/hms-backend/internal/config"
	"github.com/sakec/hms-backend/internal/model"
	"github.com/sakec/hms-backend/internal/service"
)

// PaymentWorker consumes payment_events_queue and marks hostel fees as paid.
type PaymentWorker struct {
	students   *service.StudentService
	rdb        *redis.Client
	log        zerolog.Logger
	queue      string
	retryDelay time.Duration
}

// NewPaymentWorker creates a new PaymentWorker.
func NewPaymentWorker(students *service.StudentService, rdb *redis.Client, log zerolog.Logger) *PaymentWorker {
	return &PaymentWorker{
		students:   students,
		rdb:        rdb,
		log:        log.With().Str("component", "payment_worker").Logger(),
		queue:      config.WorkerKey.PaymentEventsQueue,
		retryDelay: 5 * time.Second,
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *PaymentWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining items before exit.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *PaymentWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, w.queue).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}

	if len(result) < 2 {
		return
	}

	if err := w.handle(ctx, result[1]); err != nil {
		w.log.Error().Err(err).Msg("Fee update failed, retrying")
		// Push back to queue for retry.
		w.rdb.RPush(context.Background(), w.queue, result[1])
		select {
		case <-ctx.Done():
		case <-time.After(w.retryDelay):
		}
	}
}

// handle applies one event. Only store failures are returned; events that
// can never succeed are logged and dropped.
func (w *PaymentWorker) handle(ctx context.Context, raw string) error {
	var event model.PaymentEvent
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error, dropping event")
		return nil
	}

	err := w.students.MarkFeePaid(ctx, event.StudentID)
	switch {
	case errors.Is(err, service.ErrNotFound):
		w.log.Warn().Str("student_id", event.StudentID.String()).Msg("Paid student no longer exists, dropping event")
		return nil
	case err != nil:
		return err
	}

	if err := w.rdb.Del(ctx, config.CacheKey.PaymentIntentKey(event.IntentID)).Err(); err != nil {
		w.log.Warn().Err(err).Str("intent_id", event.IntentID).Msg("Intent cleanup failed")
	}

	w.log.Info().
		Str("student_id", event.StudentID.String()).
		Str("intent_id", event.IntentID).
		Int64("amount", event.AmountInPaise).
		Msg("Hostel fee marked paid")
	return nil
}

// drain processes all remaining items in the queue before shutdown.
func (w *PaymentWorker) drain(ctx context.Context) {
	drained := 0
	for {
		result, err := w.rdb.LPop(ctx, w.queue).Result()
		if err != nil {
			break
		}

		if err := w.handle(ctx, result); err != nil {
			w.log.Error().Err(err).Msg("Drain error")
			w.rdb.RPush(ctx, w.queue, result)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}
