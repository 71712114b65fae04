package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unitprice/backend/config"
	"github.com/unitprice/backend/internal/infrastructure/limiter"
	"github.com/unitprice/backend/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"chrome-extension://*", "http://localhost:3000"},
		},
		RateLimit: config.RateLimitConfig{PerIP: 600, Burst: 100},
		Ranking:   config.RankingConfig{Concurrency: 4, MaxProducts: 3},
	}
}

// setupTestRouter creates a test router backed by a real ranking service
func setupTestRouter(limits *limiter.Store) *gin.Engine {
	cfg := testConfig()
	svc := usecase.NewRankingService(zerolog.Nop(), usecase.RankingServiceConfig{
		Concurrency: cfg.Ranking.Concurrency,
		MaxProducts: cfg.Ranking.MaxProducts,
	})
	return SetupRouter(cfg, NewHandler(svc), limits, zerolog.Nop())
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type evaluateBody struct {
	Result struct {
		PricingType         string  `json:"pricingType"`
		ProductVariation    string  `json:"productVariation"`
		UnitPricePerItem    *string `json:"unitPricePerItem"`
		SortableUnitPrice   string  `json:"sortableUnitPrice"`
		FriendlyPriceString string  `json:"friendlyPriceString"`
	} `json:"result"`
	Issues []string `json:"issues"`
}

func TestHealthCheckEndpoint(t *testing.T) {
	router := setupTestRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response["status"])
	assert.Equal(t, "unitprice-backend", response["service"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestEvaluateEndpoint(t *testing.T) {
	router := setupTestRouter(nil)

	t.Run("multipack priced per 100g", func(t *testing.T) {
		w := postJSON(t, router, "/api/v1/unitprice/evaluate", map[string]string{
			"size":    "4 x 220g",
			"dollars": "5",
			"cents":   "00",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var body evaluateBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "BY_WEIGHT", body.Result.PricingType)
		assert.Equal(t, "PRODUCT_1", body.Result.ProductVariation)
		assert.Equal(t, "0.57", body.Result.SortableUnitPrice)
		assert.Equal(t, "$0.57 per 100g", body.Result.FriendlyPriceString)
		assert.Empty(t, body.Issues)
	})

	t.Run("each item with non-breaking spaces", func(t *testing.T) {
		w := postJSON(t, router, "/api/v1/unitprice/evaluate", map[string]string{
			"title":   "Telegraph\u00a0Hill Avocado",
			"size":    "Each\u00a0",
			"dollars": "3",
			"cents":   "50",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var body evaluateBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "BY_EACH", body.Result.PricingType)
		assert.Equal(t, "$3.50 ea", body.Result.FriendlyPriceString)
	})

	t.Run("empty card reports conditions", func(t *testing.T) {
		w := postJSON(t, router, "/api/v1/unitprice/evaluate", map[string]string{})
		require.Equal(t, http.StatusOK, w.Code)

		var body evaluateBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "UNKNOWN", body.Result.PricingType)
		assert.Nil(t, body.Result.UnitPricePerItem)
		assert.Equal(t, "0.00", body.Result.SortableUnitPrice)
		assert.Len(t, body.Issues, 2)
	})

	t.Run("invalid JSON body", func(t *testing.T) {
		w := postJSON(t, router, "/api/v1/unitprice/evaluate", "{not json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRankEndpoint(t *testing.T) {
	router := setupTestRouter(nil)

	t.Run("orders by pricing type then unit price", func(t *testing.T) {
		w := postJSON(t, router, "/api/v1/unitprice/rank", map[string]any{
			"products": []map[string]string{
				{"title": "Avocado", "size": "Each", "dollars": "3", "cents": "50"},
				{"title": "Milk", "size": "Bottle 2L", "cupPrice": "$0.24 / 100mL", "dollars": "4", "cents": "79"},
				{"title": "Beans", "size": "4 x 220g", "dollars": "5", "cents": "00"},
			},
		})
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Products []struct {
				Index int `json:"index"`
			} `json:"products"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Products, 3)

		order := []int{body.Products[0].Index, body.Products[1].Index, body.Products[2].Index}
		assert.Equal(t, []int{2, 1, 0}, order)
	})

	t.Run("rejects empty batch", func(t *testing.T) {
		w := postJSON(t, router, "/api/v1/unitprice/rank", map[string]any{"products": []any{}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects missing products", func(t *testing.T) {
		w := postJSON(t, router, "/api/v1/unitprice/rank", map[string]any{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects oversized batch", func(t *testing.T) {
		products := make([]map[string]string, 4)
		for i := range products {
			products[i] = map[string]string{"size": "Each"}
		}
		w := postJSON(t, router, "/api/v1/unitprice/rank", map[string]any{"products": products})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "too many products")
	})
}

func TestRateLimitedRoutes(t *testing.T) {
	router := setupTestRouter(limiter.NewStore(60, 1, time.Minute))

	first := postJSON(t, router, "/api/v1/unitprice/evaluate", map[string]string{"size": "Each"})
	assert.Equal(t, http.StatusOK, first.Code)

	second := postJSON(t, router, "/api/v1/unitprice/evaluate", map[string]string{"size": "Each"})
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// health is not rate limited
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORSOnAPIRoutes(t *testing.T) {
	router := setupTestRouter(nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/unitprice/rank", nil)
	req.Header.Set("Origin", "chrome-extension://abcdefg12345")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "chrome-extension://abcdefg12345", w.Header().Get("Access-Control-Allow-Origin"))
}
