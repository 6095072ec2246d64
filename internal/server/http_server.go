// Package server exposes the idstore operations HTTP surface.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.pilab.hu/idstore/cleanup"
	"go.pilab.hu/idstore/domain"
	"go.pilab.hu/idstore/log"
)

// Pinger checks that the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the handlers' collaborators. Sweeper is optional; without it
// POST /cleanup is not registered.
type Deps struct {
	Store    Pinger
	Cors     domain.CorsPolicyService
	Sweeper  cleanup.Sweeper
	Gatherer prometheus.Gatherer
	Logger   log.Logger

	ServiceName string
}

// NewRouter builds the gin engine with logging, recovery and tracing.
func NewRouter(deps Deps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = log.NewNop()
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(deps.ServiceName))
	router.Use(requestLogger(deps.Logger))

	h := &handlers{deps: deps}

	router.GET("/healthz", h.health)
	router.GET("/cors/allowed", h.corsAllowed)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	if deps.Sweeper != nil {
		router.POST("/cleanup", h.runCleanup)
	}

	return router
}

// NewHTTPServer wraps the router in an http.Server listening on addr.
func NewHTTPServer(addr string, deps Deps) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

func requestLogger(logger log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			logger.Error(c.Request.Context(), c.Errors.String(), c.Errors.Last().Err, fields)
			return
		}
		logger.Debug(c.Request.Context(), "HTTP Request", fields)
	}
}

type handlers struct {
	deps Deps
}

func (h *handlers) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.deps.Store.Ping(ctx); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handlers) corsAllowed(c *gin.Context) {
	origin := c.Query("origin")
	if origin == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "origin query parameter is required"})
		return
	}

	allowed, err := h.deps.Cors.IsOriginAllowed(c.Request.Context(), origin)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cors lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"origin": origin, "allowed": allowed})
}

func (h *handlers) runCleanup(c *gin.Context) {
	r := h.deps.Sweeper.RemoveExpiredGrants(c.Request.Context())
	if r.Skipped {
		c.JSON(http.StatusConflict, gin.H{"error": "cleanup already running"})
		return
	}

	body := gin.H{
		"grants_removed":       r.GrantsRemoved,
		"device_codes_removed": r.DeviceCodesRemoved,
	}
	status := http.StatusOK
	if r.GrantsErr != nil {
		body["grants_error"] = r.GrantsErr.Error()
		status = http.StatusInternalServerError
	}
	if r.DeviceCodesErr != nil {
		body["device_codes_error"] = r.DeviceCodesErr.Error()
		status = http.StatusInternalServerError
	}
	c.JSON(status, body)
}
