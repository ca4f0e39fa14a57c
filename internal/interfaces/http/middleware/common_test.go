package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiptrack/backend/internal/infrastructure/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func corsRouter(cfg CORSConfig) *gin.Engine {
	router := gin.New()
	router.Use(CORSWithConfig(cfg))
	router.POST("/graphql", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestCORSWithConfig(t *testing.T) {
	tests := []struct {
		name            string
		cfg             CORSConfig
		method          string
		origin          string
		wantStatus      int
		wantAllowOrigin string
		wantCredentials string
	}{
		{
			name:       "empty whitelist sets no headers",
			cfg:        DefaultCORSConfig(),
			method:     http.MethodPost,
			origin:     "http://malicious.com",
			wantStatus: http.StatusOK,
		},
		{
			name:       "same-origin request passes",
			cfg:        DefaultCORSConfig(),
			method:     http.MethodPost,
			wantStatus: http.StatusOK,
		},
		{
			name:       "preflight with empty whitelist still answers",
			cfg:        DefaultCORSConfig(),
			method:     http.MethodOptions,
			origin:     "http://some-origin.com",
			wantStatus: http.StatusNoContent,
		},
		{
			name: "allowed origin",
			cfg: CORSConfig{
				AllowOrigins:     []string{"http://localhost:3000", "http://example.com"},
				AllowMethods:     []string{"GET", "POST"},
				AllowHeaders:     []string{"Content-Type"},
				AllowCredentials: true,
			},
			method:          http.MethodPost,
			origin:          "http://example.com",
			wantStatus:      http.StatusOK,
			wantAllowOrigin: "http://example.com",
			wantCredentials: "true",
		},
		{
			name:       "non-allowed origin",
			cfg:        CORSConfig{AllowOrigins: []string{"http://allowed.com"}},
			method:     http.MethodPost,
			origin:     "http://not-allowed.com",
			wantStatus: http.StatusOK,
		},
		{
			name: "wildcard drops credentials",
			cfg: CORSConfig{
				AllowOrigins:     []string{"*"},
				AllowCredentials: true,
			},
			method:          http.MethodPost,
			origin:          "http://anywhere.com",
			wantStatus:      http.StatusOK,
			wantAllowOrigin: "*",
		},
		{
			name: "preflight with allowed origin",
			cfg: CORSConfig{
				AllowOrigins:     []string{"http://localhost:3000"},
				AllowMethods:     []string{"POST", "OPTIONS"},
				AllowHeaders:     []string{"Content-Type"},
				AllowCredentials: true,
			},
			method:          http.MethodOptions,
			origin:          "http://localhost:3000",
			wantStatus:      http.StatusNoContent,
			wantAllowOrigin: "http://localhost:3000",
			wantCredentials: "true",
		},
		{
			name:       "preflight with disallowed origin",
			cfg:        CORSConfig{AllowOrigins: []string{"http://localhost:3000"}},
			method:     http.MethodOptions,
			origin:     "http://evil.com",
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/graphql", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			corsRouter(tt.cfg).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantAllowOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCredentials, w.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}

func TestCORSHeaders(t *testing.T) {
	cfg := CORSConfig{
		AllowOrigins:  []string{"http://localhost:3000"},
		AllowMethods:  []string{"GET", "POST"},
		AllowHeaders:  []string{"Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	corsRouter(cfg).ServeHTTP(w, req)

	assert.Equal(t, "GET, POST", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, X-Request-ID", w.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "X-Request-ID", w.Header().Get("Access-Control-Expose-Headers"))
	assert.Equal(t, "43200", w.Header().Get("Access-Control-Max-Age"))
}

func TestDefaultCORSConfig(t *testing.T) {
	cfg := DefaultCORSConfig()

	assert.Empty(t, cfg.AllowOrigins)
	assert.ElementsMatch(t, []string{"GET", "POST", "OPTIONS"}, cfg.AllowMethods)
	assert.Contains(t, cfg.AllowHeaders, "Content-Type")
	assert.Contains(t, cfg.AllowHeaders, RequestIDHeader)
	assert.True(t, cfg.AllowCredentials)
	assert.Equal(t, 12*time.Hour, cfg.MaxAge)
}

func TestCORSConfigFromHTTP(t *testing.T) {
	t.Run("overrides configured values", func(t *testing.T) {
		cfg := CORSConfigFromHTTP(config.HTTPConfig{
			CORSAllowOrigins: []string{"https://ops.example.com"},
			CORSAllowMethods: []string{"POST"},
			CORSAllowHeaders: []string{"Content-Type"},
		})

		assert.Equal(t, []string{"https://ops.example.com"}, cfg.AllowOrigins)
		assert.Equal(t, []string{"POST"}, cfg.AllowMethods)
		assert.Equal(t, []string{"Content-Type"}, cfg.AllowHeaders)
	})

	t.Run("keeps defaults for unset lists", func(t *testing.T) {
		cfg := CORSConfigFromHTTP(config.HTTPConfig{})

		assert.Empty(t, cfg.AllowOrigins)
		assert.Equal(t, DefaultCORSConfig().AllowMethods, cfg.AllowMethods)
		assert.Equal(t, DefaultCORSConfig().AllowHeaders, cfg.AllowHeaders)
	})
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	t.Run("generates request ID", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		id := w.Header().Get(RequestIDHeader)
		require.NotEmpty(t, id)
		assert.Equal(t, id, w.Body.String())
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
	})

	t.Run("uses provided request ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, "test-request-id")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "test-request-id", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "test-request-id", w.Body.String())
	})

	t.Run("replaces oversized request ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", MaxRequestIDLength+1))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		_, err := uuid.Parse(w.Body.String())
		assert.NoError(t, err)
	})

	t.Run("IDs are unique", func(t *testing.T) {
		w1 := httptest.NewRecorder()
		router.ServeHTTP(w1, httptest.NewRequest(http.MethodGet, "/test", nil))
		w2 := httptest.NewRecorder()
		router.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.NotEqual(t, w1.Body.String(), w2.Body.String())
	})
}

func TestSecure(t *testing.T) {
	router := gin.New()
	router.Use(Secure())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "1; mode=block", w.Header().Get("X-XSS-Protection"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'self'")
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
	assert.Contains(t, w.Header().Get("Permissions-Policy"), "camera=()")
}

func TestSecureWithConfig(t *testing.T) {
	tests := []struct {
		name     string
		cfg      SecurityConfig
		wantCSP  string
		wantHSTS string
		wantPP   string
	}{
		{
			name:    "custom CSP directive",
			cfg:     SecurityConfig{CSPEnabled: true, CSPDirective: "default-src 'none'"},
			wantCSP: "default-src 'none'",
		},
		{
			name: "HSTS with all options",
			cfg: SecurityConfig{
				HSTSEnabled:           true,
				HSTSMaxAge:            63072000,
				HSTSIncludeSubdomains: true,
				HSTSPreload:           true,
			},
			wantHSTS: "max-age=63072000; includeSubDomains; preload",
		},
		{
			name:     "HSTS without optional flags",
			cfg:      SecurityConfig{HSTSEnabled: true, HSTSMaxAge: 86400},
			wantHSTS: "max-age=86400",
		},
		{
			name:   "custom Permissions-Policy",
			cfg:    SecurityConfig{PermissionsPolicyEnabled: true, PermissionsPolicyDirective: "camera=()"},
			wantPP: "camera=()",
		},
		{
			name: "all optional headers disabled",
			cfg:  SecurityConfig{CSPDirective: "default-src 'self'", PermissionsPolicyDirective: "camera=()"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(SecureWithConfig(tt.cfg))
			router.GET("/test", func(c *gin.Context) {
				c.String(http.StatusOK, "ok")
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

			assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
			assert.Equal(t, tt.wantCSP, w.Header().Get("Content-Security-Policy"))
			assert.Equal(t, tt.wantHSTS, w.Header().Get("Strict-Transport-Security"))
			assert.Equal(t, tt.wantPP, w.Header().Get("Permissions-Policy"))
		})
	}
}

func TestPlaygroundSecurityConfig(t *testing.T) {
	cfg := PlaygroundSecurityConfig()

	assert.Contains(t, cfg.CSPDirective, "https://cdn.jsdelivr.net")
	assert.Contains(t, cfg.CSPDirective, "frame-ancestors 'none'")
	assert.Equal(t, DefaultSecurityConfig().PermissionsPolicyDirective, cfg.PermissionsPolicyDirective)
	assert.NotContains(t, DefaultSecurityConfig().CSPDirective, "cdn.jsdelivr.net")
}

func TestTimeout(t *testing.T) {
	t.Run("sets a deadline on the request context", func(t *testing.T) {
		router := gin.New()
		router.Use(Timeout(30 * time.Second))
		router.GET("/test", func(c *gin.Context) {
			deadline, ok := c.Request.Context().Deadline()
			if !ok {
				c.Status(http.StatusInternalServerError)
				return
			}
			c.String(http.StatusOK, time.Until(deadline).Round(time.Second).String())
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "30s", w.Body.String())
	})

	t.Run("zero disables the deadline", func(t *testing.T) {
		router := gin.New()
		router.Use(Timeout(0))
		router.GET("/test", func(c *gin.Context) {
			_, ok := c.Request.Context().Deadline()
			c.JSON(http.StatusOK, gin.H{"deadline": ok})
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.JSONEq(t, `{"deadline":false}`, w.Body.String())
	})

	t.Run("expired context is visible to handlers", func(t *testing.T) {
		router := gin.New()
		router.Use(Timeout(time.Nanosecond))
		router.GET("/test", func(c *gin.Context) {
			<-c.Request.Context().Done()
			c.String(http.StatusOK, c.Request.Context().Err().Error())
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, "context deadline exceeded", w.Body.String())
	})
}
