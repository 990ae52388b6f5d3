package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/course-registration/internal/model"
)

// EnrollmentEventRepository stores the add/drop audit trail.
type EnrollmentEventRepository struct {
	pool *pgxpool.Pool
}

// NewEnrollmentEventRepository creates a new EnrollmentEventRepository.
func NewEnrollmentEventRepository(pool *pgxpool.Pool) *EnrollmentEventRepository {
	return &EnrollmentEventRepository{pool: pool}
}

// Insert records an event. Re-inserting the same event ID is a no-op so a
// retried queue item is stored once.
func (r *EnrollmentEventRepository) Insert(ctx context.Context, e *model.EnrollmentEvent) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO enrollment_events (id, matric, action, course_code, total_credit, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO NOTHING`,
		e.ID, e.Matric, e.Action, e.CourseCode, e.TotalCredit, e.CreatedAt,
	)
	return err
}

// ListByMatric returns a student's events, newest first.
func (r *EnrollmentEventRepository) ListByMatric(ctx context.Context, matric string, limit int) ([]model.EnrollmentEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id::text, matric, action, course_code, total_credit, created_at
		 FROM enrollment_events WHERE matric = $1
		 ORDER BY created_at DESC LIMIT $2`, matric, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.EnrollmentEvent, error) {
		var e model.EnrollmentEvent
		err := row.Scan(&e.ID, &e.Matric, &e.Action, &e.CourseCode, &e.TotalCredit, &e.CreatedAt)
		return e, err
	})
}
