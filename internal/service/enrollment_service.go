package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/course-registration/internal/config"
	"github.com/stemsi/course-registration/internal/enrollment"
	"github.com/stemsi/course-registration/internal/model"
)

// SnapshotStore reads a student's enrollment by matric number and applies
// changes to it atomically. UpdateSnapshot must hold the student's record
// exclusively from the read in front of fn to the write after it.
type SnapshotStore interface {
	LoadSnapshot(ctx context.Context, matric string) (enrollment.StudentSnapshot, error)
	UpdateSnapshot(ctx context.Context, matric string, fn func(enrollment.StudentSnapshot) (enrollment.StudentSnapshot, bool, error)) error
}

// StudentLocker serializes changes to one student's record.
type StudentLocker interface {
	Lock(ctx context.Context, matric string) (func(), error)
}

// EnrollmentPublisher fans out an applied change to the audit queue and
// to live timetable subscribers.
type EnrollmentPublisher interface {
	Publish(ctx context.Context, event *model.EnrollmentEvent) error
}

// EnrollmentService applies add and drop requests to persisted student records.
type EnrollmentService struct {
	catalog   *CatalogService
	store     SnapshotStore
	locker    StudentLocker
	publisher EnrollmentPublisher
	log       zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentService.
func NewEnrollmentService(
	catalog *CatalogService,
	store SnapshotStore,
	locker StudentLocker,
	publisher EnrollmentPublisher,
	log zerolog.Logger,
) *EnrollmentService {
	return &EnrollmentService{
		catalog:   catalog,
		store:     store,
		locker:    locker,
		publisher: publisher,
		log:       log.With().Str("component", "enrollment_service").Logger(),
	}
}

// Record loads the student's record and re-validates it against the catalog.
func (s *EnrollmentService) Record(ctx context.Context, matric string) (*enrollment.StudentRecord, error) {
	snap, err := s.store.LoadSnapshot(ctx, matric)
	if err != nil {
		return nil, err
	}
	return s.catalog.Engine().Restore(snap)
}

// Summary returns the student's enrolled courses and credit totals.
func (s *EnrollmentService) Summary(ctx context.Context, matric string) (enrollment.Summary, error) {
	rec, err := s.Record(ctx, matric)
	if err != nil {
		return enrollment.Summary{}, err
	}
	return s.catalog.Engine().Summary(rec), nil
}

// Timetable returns the student's summary and the weekly grid projected from it.
func (s *EnrollmentService) Timetable(ctx context.Context, matric string) (enrollment.Summary, *enrollment.Grid, error) {
	rec, err := s.Record(ctx, matric)
	if err != nil {
		return enrollment.Summary{}, nil, err
	}
	return s.catalog.Engine().Summary(rec), enrollment.Project(rec), nil
}

// Add enrolls the student in code. A rule rejection is reported through
// the Result with a nil error; the error is reserved for storage failures.
func (s *EnrollmentService) Add(ctx context.Context, matric, code string) (enrollment.Result, enrollment.Summary, error) {
	return s.apply(ctx, matric, NormalizeCode(code), model.EnrollmentActionAdd)
}

// Drop removes code from the student's enrollment. Same contract as Add.
func (s *EnrollmentService) Drop(ctx context.Context, matric, code string) (enrollment.Result, enrollment.Summary, error) {
	return s.apply(ctx, matric, NormalizeCode(code), model.EnrollmentActionDrop)
}

func (s *EnrollmentService) apply(ctx context.Context, matric, code string, action model.EnrollmentAction) (enrollment.Result, enrollment.Summary, error) {
	release, err := s.locker.Lock(ctx, matric)
	if err != nil {
		return enrollment.Result{}, enrollment.Summary{}, err
	}
	defer release()

	engine := s.catalog.Engine()
	var (
		result enrollment.Result
		sum    enrollment.Summary
	)
	err = s.store.UpdateSnapshot(ctx, matric, func(snap enrollment.StudentSnapshot) (enrollment.StudentSnapshot, bool, error) {
		rec, err := engine.Restore(snap)
		if err != nil {
			return snap, false, err
		}
		if action == model.EnrollmentActionAdd {
			result = engine.AddCode(rec, code)
		} else {
			result = engine.DropCode(rec, code)
		}
		sum = engine.Summary(rec)
		return rec.Snapshot(), result.OK(), nil
	})
	if err != nil {
		return enrollment.Result{}, enrollment.Summary{}, fmt.Errorf("update enrollment: %w", err)
	}
	if !result.OK() {
		s.log.Debug().
			Str("matric", matric).
			Str("code", code).
			Str("reason", string(result.Reason)).
			Msg("Enrollment change rejected")
		return result, sum, nil
	}

	event := &model.EnrollmentEvent{
		ID:          uuid.NewString(),
		Matric:      matric,
		Action:      action,
		CourseCode:  code,
		TotalCredit: sum.TotalCredit,
		CreatedAt:   time.Now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		// The change is already committed; only the audit trail and live view lag.
		s.log.Warn().Err(err).Str("matric", matric).Msg("Failed to publish enrollment event")
	}

	s.log.Info().
		Str("matric", matric).
		Str("code", code).
		Str("action", string(action)).
		Int("total_credit", sum.TotalCredit).
		Msg("Enrollment changed")

	return result, sum, nil
}

// RedisEnrollmentPublisher queues events for the audit worker and notifies
// timetable subscribers on the student's channel.
type RedisEnrollmentPublisher struct {
	rdb *redis.Client
}

// NewRedisEnrollmentPublisher creates a new RedisEnrollmentPublisher.
func NewRedisEnrollmentPublisher(rdb *redis.Client) *RedisEnrollmentPublisher {
	return &RedisEnrollmentPublisher{rdb: rdb}
}

// Publish pushes the event to the queue and the pubsub channel in one pipeline.
func (p *RedisEnrollmentPublisher) Publish(ctx context.Context, event *model.EnrollmentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	pipe := p.rdb.Pipeline()
	pipe.RPush(ctx, config.WorkerKey.EnrollmentEventsQueue, payload)
	pipe.Publish(ctx, config.CacheKey.TimetableChannel(event.Matric), payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}
