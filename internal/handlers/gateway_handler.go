package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type createOrderRequest struct {
	// decimal accepts both "500" and 500.
	Amount decimal.Decimal `json:"amount"`
}

type fetchRRNRequest struct {
	PaymentID string `json:"paymentId"`
}

// RegisterGatewayRoutes registers the raw order and reference lookup routes.
func RegisterGatewayRoutes(r *gin.Engine, cfg HandlerConfig) {
	r.POST("/create-order", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil || !req.Amount.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_amount"})
			return
		}

		order, err := cfg.Gateway.CreateOrder(ctx, req.Amount)
		if err != nil {
			cfg.Log.ErrorContext(ctx, "create order failed", "amount", req.Amount.String(), "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "order_creation_failed", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	})

	r.POST("/fetch-rrn", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req fetchRRNRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.PaymentID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing_payment_id"})
			return
		}

		p, err := cfg.Gateway.LookupReference(ctx, req.PaymentID)
		if err != nil {
			cfg.Log.ErrorContext(ctx, "fetch rrn failed", "payment_id", req.PaymentID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch_rrn_failed", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, p)
	})
}
