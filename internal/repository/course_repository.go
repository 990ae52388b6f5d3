package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/course-registration/internal/enrollment"
)

// CourseRepository handles course catalog data access.
type CourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

// ListAll returns every course with its slots, in catalog order.
func (r *CourseRepository) ListAll(ctx context.Context) ([]*enrollment.Course, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.code, c.name, c.credit, c.location, s.day, s.start_hour, s.end_hour
		 FROM courses c
		 JOIN course_slots s ON s.course_code = c.code
		 ORDER BY c.position, c.code, s.position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*enrollment.Course
	var current *enrollment.Course
	for rows.Next() {
		var (
			code, name, location string
			credit               int
			day, start, end      int
		)
		if err := rows.Scan(&code, &name, &credit, &location, &day, &start, &end); err != nil {
			return nil, err
		}
		if current == nil || current.Code != code {
			current = &enrollment.Course{Code: code, Name: name, Credit: credit, Location: location}
			courses = append(courses, current)
		}
		current.Intervals = append(current.Intervals, enrollment.TimeInterval{
			Day:       enrollment.Day(day),
			StartHour: start,
			EndHour:   end,
		})
	}
	return courses, rows.Err()
}

// Count returns the number of courses in the catalog.
func (r *CourseRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&n)
	return n, err
}

// Upsert writes courses and their slots in one transaction, keeping the
// given order. Courses not in the list are left untouched because enrolled
// students may still reference them.
func (r *CourseRepository) Upsert(ctx context.Context, courses []*enrollment.Course) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for pos, c := range courses {
			if _, err := tx.Exec(ctx,
				`INSERT INTO courses (code, name, credit, location, position)
				 VALUES ($1, $2, $3, $4, $5)
				 ON CONFLICT (code) DO UPDATE
				 SET name = EXCLUDED.name, credit = EXCLUDED.credit, location = EXCLUDED.location,
				     position = EXCLUDED.position, updated_at = NOW()`,
				c.Code, c.Name, c.Credit, c.Location, pos,
			); err != nil {
				return fmt.Errorf("upsert course %s: %w", c.Code, err)
			}
			if _, err := tx.Exec(ctx, `DELETE FROM course_slots WHERE course_code = $1`, c.Code); err != nil {
				return err
			}
			batch := &pgx.Batch{}
			for i, iv := range c.Intervals {
				batch.Queue(
					`INSERT INTO course_slots (course_code, position, day, start_hour, end_hour)
					 VALUES ($1, $2, $3, $4, $5)`,
					c.Code, i, int(iv.Day), iv.StartHour, iv.EndHour,
				)
			}
			if err := tx.SendBatch(ctx, batch).Close(); err != nil {
				return fmt.Errorf("insert slots for %s: %w", c.Code, err)
			}
		}
		return nil
	})
}
