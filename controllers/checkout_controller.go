package controllers

import (
	"errors"
	"net/http"

	"github.com/diegova8/food-manager-backend/metrics"
	"github.com/diegova8/food-manager-backend/middleware"
	"github.com/diegova8/food-manager-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CheckoutController struct {
	checkout *services.CheckoutService
	logger   *zap.Logger
}

func NewCheckoutController(checkout *services.CheckoutService, logger *zap.Logger) *CheckoutController {
	return &CheckoutController{checkout: checkout, logger: logger}
}

type captureRequest struct {
	OrderID string               `json:"order_id" binding:"required"`
	Cart    services.CartRequest `json:"cart" binding:"required"`
}

// CreateOrder creates a payable order at the gateway and echoes the cart
// back so the client can replay it at capture time.
func (cc *CheckoutController) CreateOrder(c *gin.Context) {
	var cart services.CartRequest
	if err := c.ShouldBindJSON(&cart); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	result, err := cc.checkout.CreateGatewayOrder(c.Request.Context(), &cart)
	if err != nil {
		cc.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                result.GatewayOrderID,
		"settlement_amount": result.SettlementAmount,
		"cart":              cart,
	})
}

// CaptureOrder captures funds for a gateway order and persists the order.
func (cc *CheckoutController) CaptureOrder(c *gin.Context) {
	var req captureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	var userID *uuid.UUID
	if id, ok := middleware.GetUserID(c); ok {
		userID = &id
	}

	outcome, err := cc.checkout.CaptureOrder(c.Request.Context(), req.OrderID, &req.Cart, userID)
	if err != nil {
		metrics.OrdersTotal.WithLabelValues("failed").Inc()
		cc.respondError(c, err)
		return
	}

	if outcome.Replayed {
		metrics.OrdersTotal.WithLabelValues("replayed").Inc()
	} else {
		metrics.OrdersTotal.WithLabelValues("confirmed").Inc()
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id":       outcome.OrderID,
		"status":         outcome.Status,
		"transaction_id": outcome.TransactionID,
	})
}

// respondError maps service failure classes to HTTP statuses. Gateway and
// persistence detail stays in the logs; the client gets a generic message.
func (cc *CheckoutController) respondError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var notCompleted *services.PaymentNotCompletedError
	var mismatch *services.AmountMismatchError
	var authErr *services.GatewayAuthError
	var gatewayErr *services.GatewayRequestError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": validationErr.Msg})

	case errors.As(err, &notCompleted):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":          "Payment was not completed",
			"gateway_status": notCompleted.Status,
		})

	case errors.As(err, &mismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Captured amount does not match the order total"})

	case errors.As(err, &authErr):
		metrics.GatewayFailuresTotal.WithLabelValues("token").Inc()
		cc.logger.Error("gateway authentication failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment processing failed"})

	case errors.As(err, &gatewayErr):
		metrics.GatewayFailuresTotal.WithLabelValues(gatewayErr.Op).Inc()
		cc.logger.Error("gateway request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment processing failed"})

	default:
		cc.logger.Error("checkout request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
