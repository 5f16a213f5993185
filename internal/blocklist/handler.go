package blocklist

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/fraudguard/pkg/common"
	"github.com/richxcame/fraudguard/pkg/middleware"
)

// Handler handles admin HTTP requests for the blocklist
type Handler struct {
	service *Service
}

// NewHandler creates a new blocklist handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List returns blocklist entries
func (h *Handler) List(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 200 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	entries, err := h.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list blocklist entries")
		return
	}

	common.SuccessResponse(c, entries)
}

// Add blocklists an identifier
func (h *Handler) Add(c *gin.Context) {
	var req AddRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	err := h.service.Add(c.Request.Context(), req.IdentifierType, req.IdentifierValue, req.Reason)
	switch {
	case errors.Is(err, ErrInvalidIdentifier):
		common.ErrorResponse(c, http.StatusBadRequest, "identifier is not valid")
	case errors.Is(err, ErrAlreadyExists):
		// Informational, not an error state
		common.SuccessResponse(c, gin.H{"status": "already_exists"})
	case err != nil:
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to add blocklist entry")
	default:
		common.CreatedResponse(c, gin.H{"status": "added"})
	}
}

// Remove deletes a blocklist entry
func (h *Handler) Remove(c *gin.Context) {
	var req RemoveRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	err := h.service.Remove(c.Request.Context(), req.IdentifierType, req.IdentifierValue)
	switch {
	case errors.Is(err, ErrInvalidIdentifier):
		common.ErrorResponse(c, http.StatusBadRequest, "identifier is not valid")
	case errors.Is(err, ErrNotFound):
		common.SuccessResponse(c, gin.H{"status": "not_found"})
	case err != nil:
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to remove blocklist entry")
	default:
		common.SuccessResponse(c, gin.H{"status": "removed"})
	}
}

// FindOrders returns the orders that reference a blocklisted identifier
func (h *Handler) FindOrders(c *gin.Context) {
	idType := c.Query("identifier_type")
	value := c.Query("identifier_value")
	if idType == "" || value == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "identifier_type and identifier_value are required")
		return
	}

	ids, err := h.service.FindOrders(c.Request.Context(), idType, value)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to look up orders")
		return
	}

	common.SuccessResponse(c, gin.H{"order_ids": ids})
}

// RegisterRoutes registers admin blocklist routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/blocklist", h.List)
	rg.POST("/blocklist", h.Add)
	rg.DELETE("/blocklist", h.Remove)
	rg.GET("/blocklist/orders", h.FindOrders)
}
