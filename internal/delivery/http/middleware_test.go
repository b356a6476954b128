package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantrytrack/backend/config"
)

// routerWithOrigins builds the full API router with no receipt service
func routerWithOrigins(origins ...string) *gin.Engine {
	cfg := testConfig()
	cfg.Server.AllowedOrigins = origins
	return SetupRouter(cfg, NewHandler(nil))
}

func preflight(router *gin.Engine, path, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, path, nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, X-Request-ID")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCORS_ScanPreflight(t *testing.T) {
	router := routerWithOrigins("http://localhost:*")

	w := preflight(router, "/api/v1/receipts/scan", "http://localhost:5173")

	// Answered by the middleware; the unconfigured handler would say 501
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	assert.Equal(t, "3600", w.Header().Get("Access-Control-Max-Age"))

	allowed := strings.Split(w.Header().Get("Access-Control-Allow-Headers"), ", ")
	assert.Contains(t, allowed, RequestIDHeader)
	assert.Contains(t, allowed, "Content-Type")

	assert.NotEmpty(t, w.Header().Get(RequestIDHeader), "preflight still carries a request ID")
}

func TestCORS_OriginPolicy(t *testing.T) {
	router := routerWithOrigins("http://localhost:*", "https://pantry.example.com")

	testCases := []struct {
		name    string
		origin  string
		allowed bool
	}{
		{"vite dev server", "http://localhost:5173", true},
		{"react dev server", "http://localhost:3000", true},
		{"deployed web app", "https://pantry.example.com", true},
		{"https localhost is not the wildcard", "https://localhost:5173", false},
		{"lookalike host", "https://pantry.example.com.evil.io", false},
		{"unrelated site", "http://evil.com", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := preflight(router, "/api/v1/receipts/match", tc.origin)

			assert.Equal(t, http.StatusNoContent, w.Code)
			if tc.allowed {
				assert.Equal(t, tc.origin, w.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
				assert.Empty(t, w.Header().Get("Access-Control-Allow-Headers"))
			}
		})
	}
}

func TestCORS_DisallowedOriginStillServed(t *testing.T) {
	router := routerWithOrigins("http://localhost:*")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/receipts/parse", strings.NewReader(`{"text":"3 Bananas"}`))
	req.Header.Set("Origin", "http://evil.com")
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// The browser enforces CORS; the server just omits the grant
	assert.Equal(t, http.StatusNotImplemented, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDMiddleware(t *testing.T) {
	router := routerWithOrigins("http://localhost:*")

	t.Run("assigns an ID when none is sent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	})

	t.Run("keeps the caller's ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/receipts/scan", strings.NewReader(`{}`))
		req.Header.Set(RequestIDHeader, "scan-abc-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "scan-abc-123", w.Header().Get(RequestIDHeader))
	})

	t.Run("exposes the ID to handlers", func(t *testing.T) {
		r := gin.New()
		r.Use(RequestIDMiddleware())
		r.GET("/id", func(c *gin.Context) {
			c.String(http.StatusOK, c.GetString(requestIDKey))
		})

		req := httptest.NewRequest(http.MethodGet, "/id", nil)
		req.Header.Set(RequestIDHeader, "  padded-id ")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "padded-id", w.Body.String())
	})
}

func TestSetupRouter_ProductionMode(t *testing.T) {
	cfg := &config.Config{Server: config.ServerConfig{Environment: "production"}}
	t.Cleanup(func() { gin.SetMode(gin.TestMode) })

	SetupRouter(cfg, NewHandler(nil))
	assert.Equal(t, gin.ReleaseMode, gin.Mode())
}
