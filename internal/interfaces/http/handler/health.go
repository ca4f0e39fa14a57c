package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shiptrack/backend/internal/infrastructure/logger"
	"github.com/shiptrack/backend/internal/infrastructure/persistence"
	"github.com/shiptrack/backend/internal/interfaces/http/dto"
	"github.com/shiptrack/backend/internal/interfaces/http/router"
)

const (
	defaultPingTimeout = 2 * time.Second

	codeStoreUnavailable = "STORE_UNAVAILABLE"
)

// DatabaseChecker is the part of the database the readiness probe needs
type DatabaseChecker interface {
	Ping(ctx context.Context) error
	Stats() (persistence.ConnectionStats, error)
}

// HealthHandler serves the liveness and readiness probes
type HealthHandler struct {
	db          DatabaseChecker
	name        string
	version     string
	startTime   time.Time
	pingTimeout time.Duration
	logger      *zap.Logger
}

// HealthOption configures a HealthHandler
type HealthOption func(*HealthHandler)

// WithPingTimeout bounds the readiness database ping
func WithPingTimeout(d time.Duration) HealthOption {
	return func(h *HealthHandler) {
		if d > 0 {
			h.pingTimeout = d
		}
	}
}

// WithVersion sets the version reported by the liveness probe
func WithVersion(version string) HealthOption {
	return func(h *HealthHandler) { h.version = version }
}

// NewHealthHandler creates a HealthHandler
func NewHealthHandler(db DatabaseChecker, name string, zapLogger *zap.Logger, opts ...HealthOption) *HealthHandler {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	h := &HealthHandler{
		db:          db,
		name:        name,
		version:     "dev",
		startTime:   time.Now(),
		pingTimeout: defaultPingTimeout,
		logger:      zapLogger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// LivenessResponse is returned by GET /health
type LivenessResponse struct {
	Status    string `json:"status"`
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
	Time      string `json:"time"`
}

// ReadinessResponse is returned by GET /health/ready
type ReadinessResponse struct {
	Status   string                       `json:"status"`
	Database string                       `json:"database"`
	Pool     *persistence.ConnectionStats `json:"pool,omitempty"`
}

// Live reports that the process is serving requests
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(LivenessResponse{
		Status:    "ok",
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Time:      time.Now().UTC().Format(time.RFC3339),
	}))
}

// Ready pings the database and reports pool statistics. It answers 503 when
// the store cannot be reached.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.pingTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("Readiness check failed",
			zap.String("request_id", logger.GetRequestID(ctx)),
			zap.Error(err),
		)
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponseWithData(
			codeStoreUnavailable,
			"data store is unavailable",
			ReadinessResponse{Status: "unavailable", Database: "unreachable"},
		))
		return
	}

	resp := ReadinessResponse{Status: "ok", Database: "connected"}
	if stats, err := h.db.Stats(); err == nil {
		resp.Pool = &stats
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Routes returns the /health route group
func (h *HealthHandler) Routes() *router.DomainGroup {
	return router.NewDomainGroup("health", "/health").
		GET("", h.Live).
		GET("/ready", h.Ready)
}
