package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/unitprice/backend/internal/domain"
	"github.com/unitprice/backend/internal/infrastructure/retailer"
	"github.com/unitprice/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	ranker domain.PriceRanker
}

// NewHandler creates a new HTTP handler
func NewHandler(ranker domain.PriceRanker) *Handler {
	return &Handler{ranker: ranker}
}

// RankRequest is the body of a batch ranking request
type RankRequest struct {
	Products []retailer.ProductCard `json:"products" binding:"required"`
}

// EvaluateResponse is a single evaluated product
type EvaluateResponse struct {
	Result *domain.UnitPriceResult `json:"result"`
	Issues []string                `json:"issues,omitempty"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "unitprice-backend",
		"version": "1.0.0",
	})
}

// EvaluateProduct prices one product card
func (h *Handler) EvaluateProduct(c *gin.Context) {
	var card retailer.ProductCard
	if err := c.ShouldBindJSON(&card); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result, err := h.ranker.Evaluate(c.Request.Context(), retailer.MapToRawFields(card))
	if err != nil && !usecase.IsReportedCondition(err) {
		writeError(c, err)
		return
	}

	resp := EvaluateResponse{Result: result}
	if err != nil {
		resp.Issues = usecase.IssueMessages(err)
	}
	c.JSON(http.StatusOK, resp)
}

// RankProducts prices a batch of product cards and returns them in ranking order
func (h *Handler) RankProducts(c *gin.Context) {
	var req RankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	ranked, err := h.ranker.Rank(c.Request.Context(), retailer.MapAll(req.Products))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": ranked})
}

// writeError maps domain errors onto status codes
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrTooManyProducts):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrRateLimited):
		status = http.StatusTooManyRequests
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
