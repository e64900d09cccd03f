package main

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lg/calorie-tracker-go/internal/apperror"
	"lg/calorie-tracker-go/internal/models"
	"lg/calorie-tracker-go/internal/service"
)

// Handler holds shared dependencies (services, logger) for all route handlers.
type Handler struct {
	profiles *service.ProfileService
	intake   *service.IntakeService
	logger   *slog.Logger
}

/* ─── Error helpers ───────────────────────────────────────────────────── */

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// apiErrorFrom maps a service error to its status code. Anything that is not
// an apperror is logged and reported as a 500 without its details.
func (h *Handler) apiErrorFrom(c *gin.Context, err error) {
	var appErr *apperror.AppError
	switch {
	case errors.Is(err, apperror.ErrValidation):
		apiError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperror.ErrUnauthorized):
		apiError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, apperror.ErrNotFound):
		apiError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, apperror.ErrConflict):
		apiError(c, http.StatusConflict, err.Error())
	case errors.As(err, &appErr):
		apiError(c, http.StatusBadRequest, appErr.Message)
	default:
		h.logger.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "err", err)
		apiError(c, http.StatusInternalServerError, "internal server error")
	}
}

// dateQuery reads an optional YYYY-MM-DD query param. A missing param yields
// the zero date, which the services treat as "today" or "this week".
func dateQuery(c *gin.Context, name string) (models.DateOnly, bool) {
	raw := c.Query(name)
	if raw == "" {
		return models.DateOnly{}, true
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid "+name+", expected YYYY-MM-DD")
		return models.DateOnly{}, false
	}
	return d, true
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// requestLogger writes one slog line per request.
func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

// newRouter builds the gin engine with every API route registered.
func (h *Handler) newRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger())
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)
	return router
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.POST("/api/register", h.register)
	router.POST("/api/login", h.login)

	// Authenticated routes
	api := router.Group("/api", h.sessionMiddleware())
	api.POST("/logout", h.logout)
	api.GET("/profile", h.getProfile)
	api.GET("/foods", h.searchFoods)
	api.GET("/foods/:id", h.getFood)
	api.POST("/intake", h.logIntake)
	api.GET("/report/daily", h.getDailyReport)
	api.GET("/report/week", h.getWeekSummary)
	api.GET("/weight-log", h.getWeightLog)
	api.POST("/weight-log", h.recordWeight)
}
