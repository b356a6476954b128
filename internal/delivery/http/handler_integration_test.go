package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pantrytrack/backend/config"
	"github.com/pantrytrack/backend/internal/domain"
	"github.com/pantrytrack/backend/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	// Set Gin to test mode once for all tests
	gin.SetMode(gin.TestMode)

	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:*"},
		},
	}
}

// setupTestRouter creates a router without a receipt service
func setupTestRouter() *gin.Engine {
	return SetupRouter(testConfig(), NewHandler(nil))
}

// --- Mock implementations ---

// mockInventoryCache serves a fixed inventory and counts invalidations
type mockInventoryCache struct {
	inventory     domain.Inventory
	invalidations int
}

func (m *mockInventoryCache) GetOrRefresh(ctx context.Context) domain.Inventory {
	return m.inventory
}

func (m *mockInventoryCache) Invalidate() {
	m.invalidations++
}

func newMockInventoryCache() *mockInventoryCache {
	return &mockInventoryCache{
		inventory: domain.Inventory{
			Pantry: []domain.InventoryItem{
				{Name: "Peanut Butter", Category: usecase.CategoryPantry, Unit: "jar"},
				{Name: "Apples", Category: usecase.CategoryProduce, Unit: "lbs"},
			},
			ShoppingList: []domain.InventoryItem{
				{Name: "Milk", Category: usecase.CategoryDairy, Unit: "L"},
			},
		},
	}
}

// setupTestRouterWithService creates a router backed by a real ReceiptService over mocks
func setupTestRouterWithService(cache *mockInventoryCache) *gin.Engine {
	service := usecase.NewReceiptService(cache, nil, usecase.ReceiptServiceConfig{})
	return SetupRouter(testConfig(), NewHandler(service))
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestHealthCheckEndpoint tests the health check endpoint
func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status", func(t *testing.T) {
		router := setupTestRouter()

		req, _ := http.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}

		if response["status"] != "healthy" {
			t.Errorf("status = %v, want healthy", response["status"])
		}
		if response["service"] != "pantrytrack-backend" {
			t.Errorf("service = %v, want pantrytrack-backend", response["service"])
		}
		version, ok := response["version"].(string)
		if !ok || strings.TrimSpace(version) == "" {
			t.Errorf("version = %v, want non-empty string", response["version"])
		}
		if w.Header().Get(RequestIDHeader) == "" {
			t.Errorf("%s header not set", RequestIDHeader)
		}
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		router := setupTestRouter()

		for _, method := range []string{"POST", "PUT", "DELETE", "PATCH"} {
			req, _ := http.NewRequest(method, "/health", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != http.StatusNotFound {
				t.Errorf("Method %s: Status = %d, want %d", method, w.Code, http.StatusNotFound)
			}
		}
	})
}

// TestReceiptEndpointsWithoutService tests that unconfigured endpoints answer 501
func TestReceiptEndpointsWithoutService(t *testing.T) {
	router := setupTestRouter()

	paths := []string{
		"/api/v1/receipts/parse",
		"/api/v1/receipts/match",
		"/api/v1/receipts/scan",
		"/api/v1/inventory/cache/invalidate",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			w := doJSON(router, "POST", path, `{"text":"2 lbs apples $4.50"}`)

			if w.Code != http.StatusNotImplemented {
				t.Errorf("Status = %d, want %d", w.Code, http.StatusNotImplemented)
			}

			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			errorMsg, _ := response["error"].(string)
			assert.Contains(t, errorMsg, "not configured")
		})
	}
}

// TestParseReceiptEndpoint tests receipt segmentation over HTTP
func TestParseReceiptEndpoint(t *testing.T) {
	router := setupTestRouterWithService(newMockInventoryCache())

	t.Run("returns candidate line items", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/receipts/parse", `{"text":"2 lbs apples $4.50\nSUBTOTAL $45.32"}`)

		require.Equal(t, http.StatusOK, w.Code)

		var response ParseResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, domain.LayoutGeneric, response.Layout)
		require.Len(t, response.Items, 1)
		assert.Equal(t, "Apples", response.Items[0].Name)
		assert.Equal(t, 2.0, response.Items[0].Quantity)
		assert.Equal(t, "lbs", response.Items[0].Unit)
		assert.Equal(t, usecase.CategoryProduce, response.Items[0].Category)
	})

	t.Run("rejects missing text", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/receipts/parse", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/receipts/parse", `{"text":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// TestMatchReceiptEndpoint tests inventory matching over HTTP
func TestMatchReceiptEndpoint(t *testing.T) {
	router := setupTestRouterWithService(newMockInventoryCache())

	t.Run("matches OCR misreadings to pantry items", func(t *testing.T) {
		body := `{"items":[
			{"name":"aarut butler","quantity":1,"unit":"units","category":"Pantry Staples"},
			{"name":"Zzyzx Widget","quantity":3,"unit":"units","category":"Other"}
		]}`
		w := doJSON(router, "POST", "/api/v1/receipts/match", body)

		require.Equal(t, http.StatusOK, w.Code)

		var response MatchResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Results, 2)

		assert.Equal(t, "Peanut Butter", response.Results[0].Name)
		assert.Equal(t, domain.SourcePantry, response.Results[0].Source)
		assert.Equal(t, 100.0, response.Results[0].Confidence)
		assert.Equal(t, "aarut butler", response.Results[0].OriginalName)

		assert.Equal(t, domain.SourceOCROnly, response.Results[1].Source)
		assert.Equal(t, 3.0, response.Results[1].Quantity)
	})

	t.Run("defaults missing quantity and unit", func(t *testing.T) {
		body := `{"items":[
			{"name":"Zzyzx Widget","category":"Other"},
			{"name":"Zzyzx Gadget","quantity":-2,"unit":" ","category":"Other"},
			{"name":"Zzyzx Gizmo","quantity":0.5,"unit":"kg","category":"Other"}
		]}`
		w := doJSON(router, "POST", "/api/v1/receipts/match", body)

		require.Equal(t, http.StatusOK, w.Code)

		var response MatchResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Results, 3)

		for _, result := range response.Results[:2] {
			assert.Equal(t, 1.0, result.Quantity, result.Name)
			assert.Equal(t, domain.DefaultUnit, result.Unit, result.Name)
		}
		assert.Equal(t, 0.5, response.Results[2].Quantity)
		assert.Equal(t, "kg", response.Results[2].Unit)
	})

	t.Run("rejects items without a name", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/receipts/match", `{"items":[{"quantity":1}]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects missing items", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/receipts/match", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// TestScanReceiptEndpoint tests the combined segment and match call
func TestScanReceiptEndpoint(t *testing.T) {
	router := setupTestRouterWithService(newMockInventoryCache())

	t.Run("segments and matches", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/receipts/scan", `{"text":"2 lbs apples $4.50\nTOTAL $4.50\nVISA"}`)

		require.Equal(t, http.StatusOK, w.Code)

		var response domain.ScanResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, domain.LayoutGeneric, response.Layout)
		require.Len(t, response.Candidates, 1)
		require.Len(t, response.Results, 1)
		assert.Equal(t, "Apples", response.Results[0].Name)
		assert.Equal(t, domain.SourcePantry, response.Results[0].Source)
		assert.Equal(t, 2.0, response.Results[0].Quantity)
	})

	t.Run("returns 422 when nothing is recognized", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/receipts/scan", `{"text":"SUBTOTAL $45.32\nVISA\n123-456-7890"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, domain.ErrNothingRecognized.Error(), response["error"])
	})
}

// TestInvalidateInventoryCacheEndpoint tests manual cache invalidation
func TestInvalidateInventoryCacheEndpoint(t *testing.T) {
	cache := newMockInventoryCache()
	router := setupTestRouterWithService(cache)

	w := doJSON(router, "POST", "/api/v1/inventory/cache/invalidate", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1, cache.invalidations)
}

// TestRecoveryMiddleware tests panic recovery
func TestRecoveryMiddleware(t *testing.T) {
	t.Run("recovers from panic without crashing server", func(t *testing.T) {
		router := setupTestRouter()

		router.GET("/panic", func(c *gin.Context) {
			panic("test panic")
		})

		req, _ := http.NewRequest("GET", "/panic", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		// Gin's default recovery returns 500
		if w.Code != http.StatusInternalServerError {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
		}
	})
}

// TestAPIVersioning tests that API v1 routes are correctly versioned
func TestAPIVersioning(t *testing.T) {
	router := setupTestRouter()

	req, _ := http.NewRequest("POST", "/api/receipts/scan", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
