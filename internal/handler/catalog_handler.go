package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/course-registration/internal/model"
	"github.com/stemsi/course-registration/internal/response"
	"github.com/stemsi/course-registration/internal/service"
)

// CatalogHandler serves the read-only course catalog.
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListCourses godoc
// GET /api/v1/courses?q=
// Lists the catalog, optionally filtered by code or name.
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	courses := h.catalogService.List(c.Query("q"))
	response.Success(c, http.StatusOK, gin.H{"courses": model.NewCourseList(courses)})
}

// GetCourse godoc
// GET /api/v1/courses/:code
func (h *CatalogHandler) GetCourse(c *gin.Context) {
	course, err := h.catalogService.Get(c.Param("code"))
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrCourseNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"course": model.NewCourseResponse(course)})
}
