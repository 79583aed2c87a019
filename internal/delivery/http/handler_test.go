package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shelfsync/backend/internal/domain"
	"github.com/shelfsync/backend/internal/usecase"
)

// stubCatalog is a test double for the catalog repository
type stubCatalog struct {
	listings []domain.ListingSummary
	err      error
	calls    int
}

func (s *stubCatalog) ListActiveListings(ctx context.Context, sellerID int64) ([]domain.ListingSummary, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.listings, nil
}

// stubCache is a minimal in-memory cache double without expiration
type stubCache struct {
	data map[string]interface{}
}

func newStubCache() *stubCache {
	return &stubCache{data: make(map[string]interface{})}
}

func (s *stubCache) Get(ctx context.Context, key string) (interface{}, error) {
	v, ok := s.data[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return v, nil
}

func (s *stubCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	s.data[key] = value
	return nil
}

func (s *stubCache) Delete(ctx context.Context, key string) error {
	delete(s.data, key)
	return nil
}

func (s *stubCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := s.data[key]
	return ok, nil
}

func duplicateListings() []domain.ListingSummary {
	return []domain.ListingSummary{
		{NativeID: 1, VendorCode: "SKU100-RED", Title: "Wireless Mouse Black", Brand: "Acme", CategoryID: 10},
		{NativeID: 2, VendorCode: "SKU100-BLUE", Title: "Wireless Mouse White", Brand: "Acme", CategoryID: 10},
	}
}

func setupTestRouter(catalog domain.CatalogRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := usecase.NewRecommendationService(catalog, usecase.RecommendationServiceConfig{})
	handler := NewHandler(svc, newStubCache(), time.Minute)

	router := gin.New()
	router.GET("/health", handler.HealthCheck)
	router.GET("/api/v1/sellers/:sellerID/merge-candidates", handler.GetMergeCandidates)
	router.POST("/api/v1/merge-candidates/score-pair", handler.ScorePair)
	return router
}

func TestHealthCheck(t *testing.T) {
	router := setupTestRouter(&stubCatalog{})

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status = %s, want healthy", body["status"])
	}
}

func TestGetMergeCandidates(t *testing.T) {
	t.Run("returns groups for a seller", func(t *testing.T) {
		router := setupTestRouter(&stubCatalog{listings: duplicateListings()})

		req := httptest.NewRequest("GET", "/api/v1/sellers/42/merge-candidates", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var body struct {
			Groups []domain.CandidateGroup `json:"groups"`
			Source string                  `json:"source"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(body.Groups) != 1 {
			t.Fatalf("got %d groups, want 1", len(body.Groups))
		}
		if body.Groups[0].Strategy != domain.StrategyBaseVendorCode {
			t.Errorf("Strategy = %s, want %s", body.Groups[0].Strategy, domain.StrategyBaseVendorCode)
		}
		if body.Source != "catalog" {
			t.Errorf("source = %s, want catalog", body.Source)
		}
	})

	t.Run("serves repeat requests from cache", func(t *testing.T) {
		catalog := &stubCatalog{listings: duplicateListings()}
		router := setupTestRouter(catalog)

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest("GET", "/api/v1/sellers/42/merge-candidates", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != http.StatusOK {
				t.Fatalf("request %d status = %d, want %d", i, w.Code, http.StatusOK)
			}
			if i == 1 {
				var body map[string]interface{}
				if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if body["source"] != "cache" {
					t.Errorf("source = %v, want cache", body["source"])
				}
			}
		}

		if catalog.calls != 1 {
			t.Errorf("catalog called %d times, want 1", catalog.calls)
		}
	})

	t.Run("rejects malformed seller ids", func(t *testing.T) {
		router := setupTestRouter(&stubCatalog{})

		for _, id := range []string{"abc", "-1", "0"} {
			req := httptest.NewRequest("GET", "/api/v1/sellers/"+id+"/merge-candidates", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("seller %q status = %d, want %d", id, w.Code, http.StatusBadRequest)
			}
		}
	})

	t.Run("rejects malformed query params", func(t *testing.T) {
		router := setupTestRouter(&stubCatalog{})

		for _, query := range []string{"?minScore=abc", "?maxListings=abc"} {
			req := httptest.NewRequest("GET", "/api/v1/sellers/42/merge-candidates"+query, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("query %q status = %d, want %d", query, w.Code, http.StatusBadRequest)
			}
		}
	})

	t.Run("maps unknown seller to 404", func(t *testing.T) {
		router := setupTestRouter(&stubCatalog{err: domain.ErrSellerNotFound})

		req := httptest.NewRequest("GET", "/api/v1/sellers/42/merge-candidates", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})

	t.Run("maps catalog outage to 502", func(t *testing.T) {
		router := setupTestRouter(&stubCatalog{err: domain.ErrCatalogUnavailable})

		req := httptest.NewRequest("GET", "/api/v1/sellers/42/merge-candidates", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadGateway {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadGateway)
		}
	})
}

func TestScorePairEndpoint(t *testing.T) {
	t.Run("scores a pair of listings", func(t *testing.T) {
		router := setupTestRouter(&stubCatalog{})

		payload := map[string]domain.ListingSummary{
			"a": {NativeID: 1, VendorCode: "SKU100-RED", Title: "Wireless Mouse Black", Brand: "Acme", CategoryID: 10},
			"b": {NativeID: 2, VendorCode: "SKU100-BLUE", Title: "Wireless Mouse White", Brand: "Acme", CategoryID: 10},
		}
		raw, _ := json.Marshal(payload)

		req := httptest.NewRequest("POST", "/api/v1/merge-candidates/score-pair", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var result domain.PairScore
		if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if result.Score <= 0.0 || result.Score > 1.0 {
			t.Errorf("Score = %v, want in (0,1]", result.Score)
		}
		if result.Reason == "" {
			t.Error("Reason is empty")
		}
	})

	t.Run("rejects invalid body", func(t *testing.T) {
		router := setupTestRouter(&stubCatalog{})

		req := httptest.NewRequest("POST", "/api/v1/merge-candidates/score-pair", bytes.NewReader([]byte("{not-json")))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}
