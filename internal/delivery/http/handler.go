package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anujkukreti29/mayabu/internal/domain"
)

// ComparisonUsecase is what the delivery layer needs from the pipeline.
type ComparisonUsecase interface {
	Compare(ctx context.Context, query string, validatePrices bool) *domain.CompareResponse
	SearchOne(ctx context.Context, query, sourceName string) *domain.SearchResponse
}

const (
	minQueryLength = 2
	maxQueryLength = 100

	defaultCompareLimit = 10
	maxCompareLimit     = 50
	defaultSearchLimit  = 20
	maxSearchLimit      = 100
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	comparisons ComparisonUsecase
	sourceNames []string
}

// NewHandler creates a new HTTP handler
func NewHandler(comparisons ComparisonUsecase, sourceNames []string) *Handler {
	return &Handler{
		comparisons: comparisons,
		sourceNames: sourceNames,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "mayabu-backend",
		"version":   "1.0.0",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// Status returns detailed API capabilities and state
func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"online":    true,
		"sources":   h.sourceNames,
		"features":  []string{"compare", "search"},
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// Compare handles cross-source price comparison requests.
// Pipeline outcomes (no data, no survivors) come back as 200 with
// success=false; only malformed parameters earn a 400.
func (h *Handler) Compare(c *gin.Context) {
	query, ok := h.requireQuery(c)
	if !ok {
		return
	}

	validatePrices, err := strconv.ParseBool(c.DefaultQuery("validate_prices", "true"))
	if err != nil {
		badRequest(c, "validate_prices must be a boolean")
		return
	}

	limit, ok := parseLimit(c, defaultCompareLimit, maxCompareLimit)
	if !ok {
		return
	}

	resp := h.comparisons.Compare(c.Request.Context(), query, validatePrices)

	// Copy before trimming; the response may be shared with the cache
	out := *resp
	if len(out.Results) > limit {
		out.Results = out.Results[:limit]
		out.Count = limit
	}
	c.JSON(http.StatusOK, out)
}

// Search handles single-source passthrough searches
func (h *Handler) Search(c *gin.Context) {
	query, ok := h.requireQuery(c)
	if !ok {
		return
	}

	source := c.DefaultQuery("source", "flipkart")

	limit, ok := parseLimit(c, defaultSearchLimit, maxSearchLimit)
	if !ok {
		return
	}

	resp := h.comparisons.SearchOne(c.Request.Context(), query, source)

	out := *resp
	if len(out.Results) > limit {
		out.Results = out.Results[:limit]
		out.Count = limit
	}
	c.JSON(http.StatusOK, out)
}

// requireQuery extracts and validates the query parameter, replying 400 on
// failure.
func (h *Handler) requireQuery(c *gin.Context) (string, bool) {
	query := strings.TrimSpace(c.Query("query"))
	if len(query) < minQueryLength || len(query) > maxQueryLength {
		badRequest(c, "query must be between 2 and 100 characters")
		return "", false
	}
	return query, true
}

// parseLimit extracts and clamps the limit parameter, replying 400 on garbage.
func parseLimit(c *gin.Context, def, max int) (int, bool) {
	raw := c.DefaultQuery("limit", strconv.Itoa(def))
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		badRequest(c, "limit must be a positive integer")
		return 0, false
	}
	if limit > max {
		limit = max
	}
	return limit, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   msg,
	})
}
