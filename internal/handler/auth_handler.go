package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/course-registration/internal/middleware"
	"github.com/stemsi/course-registration/internal/model"
	"github.com/stemsi/course-registration/internal/repository"
	"github.com/stemsi/course-registration/internal/response"
	"github.com/stemsi/course-registration/internal/service"
	"github.com/stemsi/course-registration/internal/validator"
)

// AuthHandler handles registration and authentication endpoints.
type AuthHandler struct {
	authService    *service.AuthService
	studentService *service.StudentService
	log            zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, studentService *service.StudentService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		studentService: studentService,
		log:            log.With().Str("component", "auth_handler").Logger(),
	}
}

// Register godoc
// POST /api/v1/auth/register
// Creates a student account. The name is title-cased and the matric upper-cased.
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.studentService.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNameTooShort):
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{"name": err.Error()})
		case errors.Is(err, service.ErrInvalidMatric):
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{"matric": err.Error()})
		case errors.Is(err, repository.ErrDuplicateMatric):
			response.FailWithFields(c, http.StatusConflict, response.ErrConflict, map[string]string{"matric": err.Error()})
		default:
			h.log.Error().Err(err).Msg("Failed to register student")
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	h.log.Info().Str("matric", student.Matric).Msg("Student registered")
	response.Success(c, http.StatusCreated, gin.H{"student": student})
}

// Login godoc
// POST /api/v1/auth/login
// Validates matric + password and returns a JWT. Any earlier session is
// replaced, so its token stops working.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.StudentLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.studentService.GetByMatric(c.Request.Context(), req.Matric)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	if err := h.authService.CheckPassword(student.PasswordHash, req.Password); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	token, err := h.authService.GenerateStudentToken(c.Request.Context(), student.ID, student.Matric)
	if err != nil {
		h.log.Error().Err(err).Str("matric", student.Matric).Msg("Failed to issue token")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, model.StudentLoginResponse{Token: token, Student: *student})
}

// Logout godoc
// POST /api/v1/auth/logout
// Ends the current session so the student can log in again elsewhere.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.EndStudentSession(c.Request.Context(), claims.UserID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the profile of the currently authenticated student.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	student, err := h.studentService.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student": student})
}
