package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/course-registration/internal/enrollment"
	"github.com/stemsi/course-registration/internal/model"
)

var (
	ErrDuplicateMatric = errors.New("student with this matric already exists")
	ErrStudentNotFound = errors.New("student not found")
)

// StudentRepository handles student and enrolled-course data access.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

const studentColumns = `id, matric, name, password_hash, total_credit, minimum_reached, created_at, updated_at`

func scanStudent(row pgx.Row) (*model.Student, error) {
	s := &model.Student{}
	err := row.Scan(&s.ID, &s.Matric, &s.Name, &s.PasswordHash, &s.TotalCredit, &s.MinimumReached, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByID retrieves a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id int) (*model.Student, error) {
	return scanStudent(r.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = $1`, id))
}

// GetByMatric retrieves a student by their unique matric number.
func (r *StudentRepository) GetByMatric(ctx context.Context, matric string) (*model.Student, error) {
	return scanStudent(r.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE matric = $1`, matric))
}

// Create inserts a new student with no courses.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO students (matric, name, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		s.Matric, s.Name, s.PasswordHash,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateMatric
		}
		return err
	}
	return nil
}

// LoadSnapshot reads a student's enrollment in enrollment order.
func (r *StudentRepository) LoadSnapshot(ctx context.Context, matric string) (enrollment.StudentSnapshot, error) {
	s, err := r.GetByMatric(ctx, matric)
	if err != nil {
		return enrollment.StudentSnapshot{}, err
	}
	codes, err := listCodes(ctx, r.pool, s.ID)
	if err != nil {
		return enrollment.StudentSnapshot{}, err
	}
	return enrollment.StudentSnapshot{
		Name:           s.Name,
		ID:             s.Matric,
		Courses:        codes,
		TotalCredit:    s.TotalCredit,
		MinimumReached: s.MinimumReached,
	}, nil
}

// UpdateSnapshot runs a read-modify-write of a student's enrollment in one
// transaction. The student row is locked with FOR UPDATE before the courses
// are read, so concurrent updates for the same student run one after the
// other. fn returns the new snapshot and whether to write it; returning
// write=false or an error leaves the stored enrollment unchanged.
func (r *StudentRepository) UpdateSnapshot(
	ctx context.Context,
	matric string,
	fn func(enrollment.StudentSnapshot) (enrollment.StudentSnapshot, bool, error),
) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		s, err := scanStudent(tx.QueryRow(ctx,
			`SELECT `+studentColumns+` FROM students WHERE matric = $1 FOR UPDATE`, matric))
		if err != nil {
			return err
		}
		codes, err := listCodes(ctx, tx, s.ID)
		if err != nil {
			return err
		}

		next, write, err := fn(enrollment.StudentSnapshot{
			Name:           s.Name,
			ID:             s.Matric,
			Courses:        codes,
			TotalCredit:    s.TotalCredit,
			MinimumReached: s.MinimumReached,
		})
		if err != nil || !write {
			return err
		}
		return writeSnapshot(ctx, tx, s.ID, next)
	})
}

func writeSnapshot(ctx context.Context, tx pgx.Tx, studentID int, snap enrollment.StudentSnapshot) error {
	if _, err := tx.Exec(ctx, `DELETE FROM student_courses WHERE student_id = $1`, studentID); err != nil {
		return err
	}
	if len(snap.Courses) > 0 {
		rows := make([][]any, len(snap.Courses))
		for i, code := range snap.Courses {
			rows[i] = []any{studentID, code, i}
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"student_courses"},
			[]string{"student_id", "course_code", "position"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return fmt.Errorf("write courses: %w", err)
		}
	}

	_, err := tx.Exec(ctx,
		`UPDATE students SET total_credit = $1, minimum_reached = $2, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $3`,
		snap.TotalCredit, snap.MinimumReached, studentID,
	)
	return err
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func listCodes(ctx context.Context, q querier, studentID int) ([]string, error) {
	rows, err := q.Query(ctx,
		`SELECT course_code FROM student_courses WHERE student_id = $1 ORDER BY position`, studentID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
