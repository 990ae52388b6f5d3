package router

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/course-registration/internal/config"
	"github.com/stemsi/course-registration/internal/handler"
	"github.com/stemsi/course-registration/internal/middleware"
	"github.com/stemsi/course-registration/internal/response"
	"github.com/stemsi/course-registration/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Catalog    *handler.CatalogHandler
	Enrollment *handler.EnrollmentHandler
	WS         *handler.WSHandler
	Health     *handler.HealthHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// authLimiter guards the public auth routes.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	authLimiter *middleware.RateLimiter,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition", "Retry-After"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request ID first so the request logger can see it.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))

	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		Quality:   middleware.DefaultBrotliConfig.Quality,
		MinLength: middleware.DefaultBrotliConfig.MinLength,
		Skipper: func(c *gin.Context) bool {
			return strings.HasSuffix(c.Request.URL.Path, ".xlsx")
		},
	}))

	router.GET("/health", handlers.Health.Health)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
	}

	// Authenticated profile routes skip the limiter.
	session := router.Group("/api/v1/auth")
	session.Use(
		middleware.RequireStudentJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		session.POST("/logout", handlers.Auth.Logout)
		session.GET("/me", handlers.Auth.Me)
	}

	// ─── 2. Catalog Group (Public, Cacheable) ──────────────────────────
	catalog := router.Group("/api/v1/courses")
	catalog.Use(middleware.CacheControl(5*time.Minute, false))
	{
		catalog.GET("", handlers.Catalog.ListCourses)
		catalog.GET("/:code", handlers.Catalog.GetCourse)
	}

	// ─── 3. Student Group (JWT + Single Device) ────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(
		middleware.RequireStudentJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
		middleware.NoStore(),
	)
	{
		studentAPI.GET("/enrollment", handlers.Enrollment.GetEnrollment)
		studentAPI.POST("/enrollment", handlers.Enrollment.AddCourse)
		studentAPI.DELETE("/enrollment/:code", handlers.Enrollment.DropCourse)
		studentAPI.GET("/enrollment/history", handlers.Enrollment.GetHistory)

		studentAPI.GET("/timetable", handlers.Enrollment.GetTimetable)
		studentAPI.GET("/timetable/export.xlsx", handlers.Enrollment.ExportTimetableXLSX)
		studentAPI.GET("/timetable/export.ics", handlers.Enrollment.ExportTimetableICS)
	}

	// ─── 4. WebSocket Group (token via ?token=) ────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(
		middleware.RequireStudentJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		ws.GET("/student/timetable", handlers.WS.TimetableStream)
	}

	return router
}
