package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/course-registration/internal/config"
	"github.com/stemsi/course-registration/internal/model"
)

// EventSink persists one audit event. Inserts must be idempotent on event ID
// since a retried event may already have been written.
type EventSink interface {
	Insert(ctx context.Context, e *model.EnrollmentEvent) error
}

// errPoison marks a payload that can never be stored and must not be retried.
var errPoison = errors.New("malformed enrollment event")

// EnrollmentEventWorker consumes enrollment_events_queue and writes the
// audit trail to PostgreSQL.
type EnrollmentEventWorker struct {
	sink       EventSink
	rdb        *redis.Client
	queue      string
	retryDelay time.Duration
	log        zerolog.Logger
}

// NewEnrollmentEventWorker creates a new EnrollmentEventWorker.
func NewEnrollmentEventWorker(sink EventSink, rdb *redis.Client, log zerolog.Logger) *EnrollmentEventWorker {
	return &EnrollmentEventWorker{
		sink:       sink,
		rdb:        rdb,
		queue:      config.WorkerKey.EnrollmentEventsQueue,
		retryDelay: 5 * time.Second,
		log:        log.With().Str("component", "enrollment_event_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *EnrollmentEventWorker) Start(ctx context.Context) {
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

func (w *EnrollmentEventWorker) processNext(ctx context.Context) {
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
		if errors.Is(err, errPoison) {
			w.log.Error().Err(err).Str("payload", result[1]).Msg("Dropping event")
			return
		}
		w.log.Error().Err(err).Msgf("Persist error, retrying in %s", w.retryDelay)
		// Push back to queue for retry.
		w.rdb.RPush(context.Background(), w.queue, result[1])
		select {
		case <-ctx.Done():
		case <-time.After(w.retryDelay):
		}
	}
}

// handle decodes and stores one queued payload.
func (w *EnrollmentEventWorker) handle(ctx context.Context, raw string) error {
	var e model.EnrollmentEvent
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return fmt.Errorf("%w: %v", errPoison, err)
	}
	if e.ID == "" || e.Matric == "" || e.CourseCode == "" ||
		(e.Action != model.EnrollmentActionAdd && e.Action != model.EnrollmentActionDrop) {
		return errPoison
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	return w.sink.Insert(ctx, &e)
}

// drain processes all remaining items in the queue before shutdown.
func (w *EnrollmentEventWorker) drain(ctx context.Context) {
	drained := 0
	for {
		result, err := w.rdb.LPop(ctx, w.queue).Result()
		if err != nil {
			break
		}

		if err := w.handle(ctx, result); err != nil {
			if errors.Is(err, errPoison) {
				w.log.Error().Err(err).Msg("Drain dropped malformed event")
				continue
			}
			w.log.Error().Err(err).Msg("Drain persist error")
			w.rdb.RPush(ctx, w.queue, result)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}
