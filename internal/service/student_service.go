package service

import (
	"context"
	"errors"
	"strings"

	"github.com/stemsi/course-registration/internal/model"
	"github.com/stemsi/course-registration/internal/repository"
	"github.com/stemsi/course-registration/internal/validator"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Registration errors.
var (
	ErrNameTooShort  = errors.New("name must be at least 3 characters")
	ErrInvalidMatric = errors.New("invalid matric number")
)

// MinNameLength is the shortest accepted display name.
const MinNameLength = 3

// StudentService handles student registration and lookup.
type StudentService struct {
	studentRepo  *repository.StudentRepository
	authService  *AuthService
	matricPrefix string
}

// NewStudentService creates a new StudentService.
func NewStudentService(studentRepo *repository.StudentRepository, authService *AuthService, matricPrefix string) *StudentService {
	return &StudentService{studentRepo: studentRepo, authService: authService, matricPrefix: matricPrefix}
}

// NormalizeName trims, collapses inner whitespace and title-cases a name.
func NormalizeName(raw string) string {
	return cases.Title(language.Und).String(strings.Join(strings.Fields(raw), " "))
}

// CheckRegistration normalizes and validates a (name, matric) pair the way
// the registration desk does before a record is created.
func CheckRegistration(name, matric, prefix string) (string, string, error) {
	name = NormalizeName(name)
	if len([]rune(name)) < MinNameLength {
		return "", "", ErrNameTooShort
	}
	if !validator.ValidMatric(matric, prefix) {
		return "", "", ErrInvalidMatric
	}
	return name, validator.NormalizeMatric(matric), nil
}

// Register creates a student account with a hashed password.
func (s *StudentService) Register(ctx context.Context, req *model.RegisterStudentRequest) (*model.Student, error) {
	name, matric, err := CheckRegistration(req.Name, req.Matric, s.matricPrefix)
	if err != nil {
		return nil, err
	}
	hash, err := s.authService.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	student := &model.Student{Matric: matric, Name: name, PasswordHash: hash}
	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// GetByMatric retrieves a student by matric number, normalizing it first.
func (s *StudentService) GetByMatric(ctx context.Context, matric string) (*model.Student, error) {
	return s.studentRepo.GetByMatric(ctx, validator.NormalizeMatric(matric))
}

// GetByID retrieves a student by ID.
func (s *StudentService) GetByID(ctx context.Context, id int) (*model.Student, error) {
	return s.studentRepo.GetByID(ctx, id)
}
