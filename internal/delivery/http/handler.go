package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shelfsync/backend/internal/domain"
	"github.com/shelfsync/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	recommendations *usecase.RecommendationService
	cache           domain.CacheRepository
	cacheTTL        time.Duration
}

// NewHandler creates a new HTTP handler
func NewHandler(
	recommendations *usecase.RecommendationService,
	cache domain.CacheRepository,
	cacheTTL time.Duration,
) *Handler {
	return &Handler{
		recommendations: recommendations,
		cache:           cache,
		cacheTTL:        cacheTTL,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "shelfsync-backend",
		"version": "1.0.0",
	})
}

// GetMergeCandidates returns ranked duplicate-listing groups for a seller.
// Query params minScore and maxListings override the configured defaults.
func (h *Handler) GetMergeCandidates(c *gin.Context) {
	sellerID, err := strconv.ParseInt(c.Param("sellerID"), 10, 64)
	if err != nil || sellerID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid seller id"})
		return
	}

	minScore, err := parseFloatParam(c, "minScore", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid minScore"})
		return
	}
	maxListings, err := parseIntParam(c, "maxListings", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid maxListings"})
		return
	}

	cacheKey := fmt.Sprintf("mergecand:%d:%g:%d", sellerID, minScore, maxListings)
	if cached, err := h.cache.Get(c.Request.Context(), cacheKey); err == nil {
		if groups, ok := cached.([]domain.CandidateGroup); ok {
			c.JSON(http.StatusOK, gin.H{"groups": groups, "source": "cache"})
			return
		}
	}

	groups, err := h.recommendations.GetRecommendations(c.Request.Context(), sellerID, minScore, maxListings)
	if err != nil {
		h.writeError(c, err)
		return
	}

	// Best effort: a failed cache write never fails the request.
	_ = h.cache.Set(c.Request.Context(), cacheKey, groups, h.cacheTTL)

	c.JSON(http.StatusOK, gin.H{"groups": groups, "source": "catalog"})
}

// scorePairRequest carries the two listings to compare
type scorePairRequest struct {
	A domain.ListingSummary `json:"a" binding:"required"`
	B domain.ListingSummary `json:"b" binding:"required"`
}

// ScorePair explains how alike two specific listings are
func (h *Handler) ScorePair(c *gin.Context) {
	var req scorePairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result := h.recommendations.ScorePair(req.A, req.B)
	c.JSON(http.StatusOK, result)
}

// writeError maps domain errors to HTTP statuses
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrSellerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCatalogUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseFloatParam(c *gin.Context, name string, fallback float64) (float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func parseIntParam(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
