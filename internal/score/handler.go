package score

import (
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/fraudguard/pkg/common"
	"github.com/richxcame/fraudguard/pkg/config"
	"github.com/richxcame/fraudguard/pkg/middleware"
)

// Handler handles HTTP requests for fraud scores
type Handler struct {
	service *Service
	cfg     config.FraudConfig

	// A single active batch job at a time; overlapping runs would skew the
	// processed counters and duplicate work.
	batchRunning atomic.Bool
}

// NewHandler creates a new score handler
func NewHandler(service *Service, cfg config.FraudConfig) *Handler {
	return &Handler{service: service, cfg: cfg}
}

// BatchRequest drives one chunk of a recompute run. The caller passes the
// state returned by the previous chunk back in to continue the chain.
type BatchRequest struct {
	Offset         int    `json:"offset" binding:"gte=0"`
	Mode           string `json:"mode" binding:"omitempty,oneof=all missing_only"`
	BatchSize      int    `json:"batch_size" binding:"omitempty,gte=1,lte=100"`
	TotalProcessed int    `json:"total_processed" binding:"gte=0"`
	TotalUpdated   int    `json:"total_updated" binding:"gte=0"`
	TotalFailed    int    `json:"total_failed" binding:"gte=0"`
}

// GetScore returns the fraud score for a phone
func (h *Handler) GetScore(c *gin.Context) {
	phone := c.Param("phone")

	var orderID int64
	if raw := c.Query("order_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 {
			common.ErrorResponse(c, http.StatusBadRequest, "invalid order_id")
			return
		}
		orderID = parsed
	}

	forceRefresh := c.Query("refresh") == "true"

	result, err := h.service.Get(c.Request.Context(), phone, orderID, forceRefresh, h.cfg)
	if err != nil {
		if errors.Is(err, ErrNoPhone) {
			common.ErrorResponse(c, http.StatusBadRequest, "invalid phone number")
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to compute score")
		return
	}

	common.SuccessResponse(c, result)
}

// RunBatch processes one recompute chunk
func (h *Handler) RunBatch(c *gin.Context) {
	var req BatchRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	if !h.batchRunning.CompareAndSwap(false, true) {
		common.ErrorResponse(c, http.StatusConflict, "a batch recompute is already running")
		return
	}
	defer h.batchRunning.Store(false)

	state := BatchJobState{
		Offset:         req.Offset,
		BatchSize:      req.BatchSize,
		Mode:           req.Mode,
		TotalProcessed: req.TotalProcessed,
		TotalUpdated:   req.TotalUpdated,
		TotalFailed:    req.TotalFailed,
	}

	state, err := h.service.RunBatch(c.Request.Context(), state, h.cfg)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "batch chunk failed")
		return
	}

	common.SuccessResponse(c, state)
}

// RegisterRoutes registers score routes; admin routes go on the admin group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, admin *gin.RouterGroup) {
	rg.GET("/score/:phone", h.GetScore)
	admin.POST("/score/recompute", h.RunBatch)
}
