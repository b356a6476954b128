package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pantrytrack/backend/internal/domain"
	"github.com/pantrytrack/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	receiptService *usecase.ReceiptService
}

// NewHandler creates a new HTTP handler. A nil service makes receipt
// endpoints answer 501.
func NewHandler(receiptService *usecase.ReceiptService) *Handler {
	return &Handler{
		receiptService: receiptService,
	}
}

// ReceiptTextRequest carries OCR text from a receipt image
type ReceiptTextRequest struct {
	Text string `json:"text" binding:"required"`
}

// MatchRequest carries candidates to reconcile with the inventory
type MatchRequest struct {
	Items []domain.CandidateLineItem `json:"items" binding:"required,dive"`
}

// ParseResponse is returned by the parse endpoint
type ParseResponse struct {
	Layout domain.ReceiptLayout       `json:"layout"`
	Items  []domain.CandidateLineItem `json:"items"`
}

// MatchResponse is returned by the match endpoint
type MatchResponse struct {
	Results []domain.MatchResult `json:"results"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pantrytrack-backend",
		"version": "1.0.0",
	})
}

// ParseReceipt segments receipt text into candidate line items
func (h *Handler) ParseReceipt(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req ReceiptTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	layout, items := h.receiptService.Parse(req.Text)
	c.JSON(http.StatusOK, ParseResponse{Layout: layout, Items: items})
}

// MatchReceipt matches already-segmented line items against the inventory
func (h *Handler) MatchReceipt(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	results := h.receiptService.Match(c.Request.Context(), normalizeCandidates(req.Items))
	c.JSON(http.StatusOK, MatchResponse{Results: results})
}

// ScanReceipt segments and matches receipt text in one call
func (h *Handler) ScanReceipt(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req ReceiptTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.receiptService.Scan(c.Request.Context(), req.Text)
	if err != nil {
		if errors.Is(err, domain.ErrNothingRecognized) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":  err.Error(),
				"layout": result.Layout,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to scan receipt",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// InvalidateInventoryCache forces the next match to re-fetch the inventory
func (h *Handler) InvalidateInventoryCache(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	h.receiptService.InvalidateInventory()
	c.Status(http.StatusNoContent)
}

func (h *Handler) ready(c *gin.Context) bool {
	if h.receiptService == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "Receipt service not configured",
		})
		return false
	}
	return true
}

// normalizeCandidates applies the receipt defaults of one unit to client-sent items
func normalizeCandidates(items []domain.CandidateLineItem) []domain.CandidateLineItem {
	for i := range items {
		if items[i].Quantity <= 0 {
			items[i].Quantity = 1
		}
		if strings.TrimSpace(items[i].Unit) == "" {
			items[i].Unit = domain.DefaultUnit
		}
	}
	return items
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   domain.ErrInvalidRequest.Error(),
		"details": err.Error(),
	})
}
