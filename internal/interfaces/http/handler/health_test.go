package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/shiptrack/backend/internal/infrastructure/config"
	"github.com/shiptrack/backend/internal/infrastructure/persistence"
	"github.com/shiptrack/backend/internal/interfaces/http/router"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubDatabase struct {
	pingErr  error
	stats    persistence.ConnectionStats
	statsErr error
	deadline bool
}

func (s *stubDatabase) Ping(ctx context.Context) error {
	_, s.deadline = ctx.Deadline()
	return s.pingErr
}

func (s *stubDatabase) Stats() (persistence.ConnectionStats, error) {
	return s.stats, s.statsErr
}

type healthBody struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func serveHealth(t *testing.T, h *HealthHandler, path string) (int, healthBody) {
	t.Helper()

	engine := gin.New()
	router.NewRouter(engine).Register(h.Routes()).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	var body healthBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return w.Code, body
}

func TestHealthHandler_Live(t *testing.T) {
	h := NewHealthHandler(&stubDatabase{pingErr: errors.New("down")}, "shiptrack", nil, WithVersion("1.2.3"))

	code, body := serveHealth(t, h, "/health")

	assert.Equal(t, http.StatusOK, code)
	assert.True(t, body.Success)

	var live LivenessResponse
	require.NoError(t, json.Unmarshal(body.Data, &live))
	assert.Equal(t, "ok", live.Status)
	assert.Equal(t, "shiptrack", live.Name)
	assert.Equal(t, "1.2.3", live.Version)
	assert.NotEmpty(t, live.GoVersion)
	assert.NotEmpty(t, live.Uptime)
	_, err := time.Parse(time.RFC3339, live.Time)
	assert.NoError(t, err)
}

func TestHealthHandler_Ready(t *testing.T) {
	t.Run("reports pool statistics", func(t *testing.T) {
		db := &stubDatabase{stats: persistence.ConnectionStats{MaxOpenConnections: 3, Idle: 1}}
		h := NewHealthHandler(db, "shiptrack", zap.NewNop())

		code, body := serveHealth(t, h, "/health/ready")

		assert.Equal(t, http.StatusOK, code)
		assert.True(t, body.Success)
		assert.True(t, db.deadline, "ping should carry a deadline")

		var ready ReadinessResponse
		require.NoError(t, json.Unmarshal(body.Data, &ready))
		assert.Equal(t, "connected", ready.Database)
		require.NotNil(t, ready.Pool)
		assert.Equal(t, 3, ready.Pool.MaxOpenConnections)
		assert.Equal(t, 1, ready.Pool.Idle)
	})

	t.Run("omits pool when stats fail", func(t *testing.T) {
		h := NewHealthHandler(&stubDatabase{statsErr: errors.New("no pool")}, "shiptrack", zap.NewNop())

		code, body := serveHealth(t, h, "/health/ready")

		assert.Equal(t, http.StatusOK, code)
		var ready ReadinessResponse
		require.NoError(t, json.Unmarshal(body.Data, &ready))
		assert.Nil(t, ready.Pool)
	})

	t.Run("unreachable database answers 503", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		h := NewHealthHandler(&stubDatabase{pingErr: errors.New("connection refused")}, "shiptrack", zap.New(core),
			WithPingTimeout(time.Second))

		code, body := serveHealth(t, h, "/health/ready")

		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.False(t, body.Success)
		require.NotNil(t, body.Error)
		assert.Equal(t, "STORE_UNAVAILABLE", body.Error.Code)
		assert.Equal(t, "data store is unavailable", body.Error.Message)
		assert.NotContains(t, string(body.Data), "connection refused")

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "Readiness check failed", logs.All()[0].Message)
	})
}

func TestHealthHandler_ReadyWithDatabase(t *testing.T) {
	db, err := persistence.NewDatabase(&config.DatabaseConfig{
		Dialect:      config.DialectSQLite,
		Path:         fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 3,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)

	h := NewHealthHandler(db, "shiptrack", zap.NewNop())

	code, _ := serveHealth(t, h, "/health/ready")
	assert.Equal(t, http.StatusOK, code)

	require.NoError(t, db.Close())
	code, body := serveHealth(t, h, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "STORE_UNAVAILABLE", body.Error.Code)
}
