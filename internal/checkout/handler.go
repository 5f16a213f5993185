package checkout

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/fraudguard/pkg/common"
	"github.com/richxcame/fraudguard/pkg/config"
	"github.com/richxcame/fraudguard/pkg/logger"
	"github.com/richxcame/fraudguard/pkg/middleware"
	"go.uber.org/zap"
)

// Handler handles checkout gate HTTP requests
type Handler struct {
	service *Service
	cfg     config.FraudConfig
}

// NewHandler creates a new checkout handler
func NewHandler(service *Service, cfg config.FraudConfig) *Handler {
	return &Handler{service: service, cfg: cfg}
}

// Evaluate decides whether a checkout attempt may proceed
func (h *Handler) Evaluate(c *gin.Context) {
	var req EvaluateRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	decision, err := h.service.Evaluate(c.Request.Context(), req, h.cfg)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "evaluation failed")
		return
	}

	middleware.CheckoutDecisions.WithLabelValues(decision.Action).Inc()
	if decision.Action != ActionAllow {
		logger.WithContext(c.Request.Context()).Info("checkout gated",
			zap.String("action", decision.Action),
			zap.Strings("reasons", decision.Reasons),
		)
	}

	common.SuccessResponse(c, decision)
}

// ConfirmOrder records a placed order and stamps cooldowns
func (h *Handler) ConfirmOrder(c *gin.Context) {
	var req ConfirmOrderRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	id, err := h.service.ConfirmOrder(c.Request.Context(), req)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to record order")
		return
	}

	common.CreatedResponse(c, gin.H{"order_id": id})
}

// RegisterRoutes registers checkout routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/checkout/evaluate", h.Evaluate)
	rg.POST("/orders", h.ConfirmOrder)
}
