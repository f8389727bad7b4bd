// Package api implements the v2 HTTP API: image resolution, admin image
// management and the dev diagnostics feed.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/conf"
	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/datastore"
	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/imageresolver"
	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/logging"
	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/observability"
	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/storage"
)

// Controller manages the API routes and handlers.
type Controller struct {
	Echo        *echo.Echo
	Group       *echo.Group
	DS          datastore.Interface
	Settings    *conf.Settings
	Resolver    *imageresolver.Resolver
	Diagnostics *imageresolver.DiagnosticLog
	Storage     *storage.Client
	Metrics     *observability.Metrics

	apiLogger *slog.Logger
	startTime time.Time
}

// New creates a Controller and registers all v2 routes on e.
func New(e *echo.Echo, ds datastore.Interface, settings *conf.Settings,
	resolver *imageresolver.Resolver, diagnostics *imageresolver.DiagnosticLog,
	storageClient *storage.Client, metrics *observability.Metrics) *Controller {

	c := &Controller{
		Echo:        e,
		Group:       e.Group("/api/v2"),
		DS:          ds,
		Settings:    settings,
		Resolver:    resolver,
		Diagnostics: diagnostics,
		Storage:     storageClient,
		Metrics:     metrics,
		apiLogger:   logging.ForService("api"),
		startTime:   time.Now(),
	}

	c.initRoutes()
	return c
}

// initRoutes registers all API endpoints.
func (c *Controller) initRoutes() {
	c.Echo.GET("/healthz", c.HealthCheck)
	if c.Metrics != nil {
		c.Echo.GET("/metrics", echo.WrapHandler(c.Metrics.Handler()))
	}

	c.initImageRoutes()
	c.initDiagnosticsRoutes()
}

// HealthCheck reports service liveness and database connectivity.
func (c *Controller) HealthCheck(ctx echo.Context) error {
	response := map[string]any{
		"status":    "healthy",
		"version":   c.Settings.Version,
		"uptime_s":  int(time.Since(c.startTime).Seconds()),
		"timestamp": time.Now().Format(time.RFC3339),
	}

	dbStatus := "connected"
	if _, err := c.DS.GetAllImages(ctx.Request().Context()); err != nil {
		dbStatus = "disconnected"
		response["status"] = "degraded"
	}
	response["database_status"] = dbStatus

	return ctx.JSON(http.StatusOK, response)
}

// ErrorResponse is the JSON shape of every API error.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Code          int    `json:"code"`
	CorrelationID string `json:"correlation_id"`
}

// NewErrorResponse creates a new API error response with a correlation id.
func NewErrorResponse(err error, message string, code int) *ErrorResponse {
	resp := &ErrorResponse{
		Message:       message,
		Code:          code,
		CorrelationID: uuid.New().String()[:8],
	}
	if err != nil {
		resp.Error = err.Error()
	} else {
		resp.Error = message
	}
	return resp
}

// HandleError logs an error with request context and writes the JSON error
// response.
func (c *Controller) HandleError(ctx echo.Context, err error, message string, code int) error {
	resp := NewErrorResponse(err, message, code)

	c.apiLogger.Error("API error",
		"correlation_id", resp.CorrelationID,
		"message", message,
		"error", resp.Error,
		"code", code,
		"path", ctx.Request().URL.Path,
		"method", ctx.Request().Method,
		"ip", ctx.RealIP())

	return ctx.JSON(code, resp)
}
