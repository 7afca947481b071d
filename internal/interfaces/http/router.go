// Package http wires the gin route tree and the HTTP server for the
// LexMeta API.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/jurimetric/lexmeta/internal/infrastructure/monitoring/logging"
	"github.com/jurimetric/lexmeta/internal/infrastructure/monitoring/prometheus"
	"github.com/jurimetric/lexmeta/internal/interfaces/http/handlers"
	"github.com/jurimetric/lexmeta/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and middleware dependencies needed to
// build the complete route tree.
type RouterConfig struct {
	// Handlers
	CaseHandler   *handlers.CaseHandler
	HealthHandler *handlers.HealthHandler

	// Middleware
	CORS    *middleware.CORSConfig
	Logging *middleware.LoggingConfig

	// Infrastructure
	Logger           logging.Logger
	Metrics          *prometheus.AppMetrics
	MetricsCollector prometheus.MetricsCollector
	MetricsPath      string

	// Mode selects the gin mode ("debug", "release", "test").
	Mode string
}

// NewRouter constructs the gin engine: global middleware, public probe and
// metrics endpoints, and the /api/v1 resource groups.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())

	logCfg := middleware.DefaultLoggingConfig()
	if cfg.Logging != nil {
		logCfg = *cfg.Logging
	}
	r.Use(middleware.RequestLogging(logger, logCfg))

	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// Probes stay unauthenticated for orchestrator access.
	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}

	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(cfg.MetricsCollector.Handler()))
	}

	api := r.Group("/api/v1")
	registerCaseRoutes(api, cfg.CaseHandler)

	return r
}

// registerCaseRoutes mounts the extraction and case endpoints.
func registerCaseRoutes(r *gin.RouterGroup, h *handlers.CaseHandler) {
	if h == nil {
		return
	}

	r.POST("/extract", h.Extract)
	r.POST("/documents", h.ProcessDocuments)

	cases := r.Group("/cases")
	{
		cases.POST("", h.Create)
		cases.GET("", h.List)
		cases.GET("/search", h.Search)
		cases.GET("/:id", h.Get)
	}
}
