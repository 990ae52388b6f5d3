package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/course-registration/internal/enrollment"
	"github.com/stemsi/course-registration/internal/middleware"
	"github.com/stemsi/course-registration/internal/model"
	"github.com/stemsi/course-registration/internal/repository"
	"github.com/stemsi/course-registration/internal/response"
	"github.com/stemsi/course-registration/internal/service"
	"github.com/stemsi/course-registration/internal/validator"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// EventLister reads a student's enrollment audit trail.
type EventLister interface {
	ListByMatric(ctx context.Context, matric string, limit int) ([]model.EnrollmentEvent, error)
}

// EnrollmentHandler handles the authenticated student's enrollment and timetable.
type EnrollmentHandler struct {
	enrollmentService *service.EnrollmentService
	exportService     *service.ExportService
	events            EventLister
	log               zerolog.Logger
}

// NewEnrollmentHandler creates a new EnrollmentHandler.
func NewEnrollmentHandler(
	enrollmentService *service.EnrollmentService,
	exportService *service.ExportService,
	events EventLister,
	log zerolog.Logger,
) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollmentService: enrollmentService,
		exportService:     exportService,
		events:            events,
		log:               log.With().Str("component", "enrollment_handler").Logger(),
	}
}

// GetEnrollment godoc
// GET /api/v1/student/enrollment
// Returns enrolled courses and the credit total.
func (h *EnrollmentHandler) GetEnrollment(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sum, err := h.enrollmentService.Summary(c.Request.Context(), claims.Matric)
	if err != nil {
		h.fail(c, claims.Matric, err)
		return
	}

	response.Success(c, http.StatusOK, model.NewEnrollmentSummary(sum))
}

// AddCourse godoc
// POST /api/v1/student/enrollment
// Enrolls in a course. Rejections carry the rule that failed.
func (h *EnrollmentHandler) AddCourse(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.AddCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, sum, err := h.enrollmentService.Add(c.Request.Context(), claims.Matric, req.Code)
	h.respond(c, claims.Matric, http.StatusCreated, result, sum, err)
}

// DropCourse godoc
// DELETE /api/v1/student/enrollment/:code
func (h *EnrollmentHandler) DropCourse(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	result, sum, err := h.enrollmentService.Drop(c.Request.Context(), claims.Matric, c.Param("code"))
	h.respond(c, claims.Matric, http.StatusOK, result, sum, err)
}

// GetTimetable godoc
// GET /api/v1/student/timetable
// Returns the Monday-Friday by hour grid.
func (h *EnrollmentHandler) GetTimetable(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	_, grid, err := h.enrollmentService.Timetable(c.Request.Context(), claims.Matric)
	if err != nil {
		h.fail(c, claims.Matric, err)
		return
	}

	response.Success(c, http.StatusOK, model.NewTimetableResponse(grid))
}

// ExportTimetableXLSX godoc
// GET /api/v1/student/timetable/export.xlsx
func (h *EnrollmentHandler) ExportTimetableXLSX(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sum, grid, ok := h.loadTimetable(c, claims.Matric)
	if !ok {
		return
	}

	buf, filename, err := h.exportService.TimetableXLSX(sum, grid)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Attachment(c, filename, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ExportTimetableICS godoc
// GET /api/v1/student/timetable/export.ics
func (h *EnrollmentHandler) ExportTimetableICS(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sum, grid, ok := h.loadTimetable(c, claims.Matric)
	if !ok {
		return
	}

	body, filename := h.exportService.TimetableICS(sum, grid)
	response.Attachment(c, filename, "text/calendar; charset=utf-8", []byte(body))
}

// GetHistory godoc
// GET /api/v1/student/enrollment/history?limit=
// Lists the most recent applied adds and drops.
func (h *EnrollmentHandler) GetHistory(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistoryLimit {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
				map[string]string{"limit": "limit must be between 1 and " + strconv.Itoa(maxHistoryLimit)})
			return
		}
		limit = n
	}

	events, err := h.events.ListByMatric(c.Request.Context(), claims.Matric, limit)
	if err != nil {
		h.fail(c, claims.Matric, err)
		return
	}
	if events == nil {
		events = []model.EnrollmentEvent{}
	}

	response.Success(c, http.StatusOK, gin.H{"events": events})
}

func (h *EnrollmentHandler) loadTimetable(c *gin.Context, matric string) (enrollment.Summary, *enrollment.Grid, bool) {
	sum, grid, err := h.enrollmentService.Timetable(c.Request.Context(), matric)
	if err != nil {
		h.fail(c, matric, err)
		return enrollment.Summary{}, nil, false
	}
	return sum, grid, true
}

// respond writes the outcome of an add or drop.
func (h *EnrollmentHandler) respond(c *gin.Context, matric string, okStatus int, result enrollment.Result, sum enrollment.Summary, err error) {
	if err != nil {
		h.fail(c, matric, err)
		return
	}
	if !result.OK() {
		response.FailRejection(c, result)
		return
	}
	response.Success(c, okStatus, gin.H{
		"status":     result.Status,
		"code":       result.Code,
		"enrollment": model.NewEnrollmentSummary(sum),
	})
}

// fail maps infrastructure errors; rule rejections never reach here.
func (h *EnrollmentHandler) fail(c *gin.Context, matric string, err error) {
	switch {
	case errors.Is(err, repository.ErrStudentNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrStudentBusy):
		response.Fail(c, http.StatusConflict, response.ErrEnrollmentBusy)
	default:
		h.log.Error().Err(err).Str("matric", matric).Msg("Enrollment request failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
