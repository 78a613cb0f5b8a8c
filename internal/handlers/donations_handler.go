package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/donation-checkout/internal/checkout"
	"github.com/imrishuroy/donation-checkout/internal/donations"
	"github.com/imrishuroy/donation-checkout/internal/validation"
)

type completeRequest struct {
	OrderID   string `json:"orderId" validate:"required"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

type dismissRequest struct {
	OrderID string `json:"orderId" validate:"required"`
}

type beginResponse struct {
	checkout.Key
	Options checkout.WidgetOptions `json:"options"`
}

type outcomeResponse struct {
	checkout.Outcome
	Message string `json:"message"`
}

// RegisterDonationRoutes registers the checkout flow: begin, then exactly one
// of complete or dismiss for the returned record.
func RegisterDonationRoutes(r *gin.Engine, cfg HandlerConfig) {
	r.POST("/donations", func(c *gin.Context) {
		ctx := c.Request.Context()

		form := validation.NewForm()
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request_body", "msg": err.Error()})
			return
		}
		form, amount, err := validation.Prepare(cfg.Validator, form)
		if err != nil {
			validation.WriteValidationError(c, err)
			return
		}

		s, err := cfg.Checkout.Begin(ctx, checkout.Submission{Donor: form, Amount: amount})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, beginResponse{
			Key:     s.Key,
			Options: s.WidgetOptions(cfg.KeyID),
		})
	})

	r.POST("/donations/:id/complete", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req completeRequest
		if err := validation.BindAndValidate(c, &req, cfg.Validator); err != nil {
			return
		}
		key := checkout.Key{RecordID: c.Param("id"), OrderID: req.OrderID}

		if cfg.Queue != nil {
			// only verified successes reach the queue
			if cfg.Verifier != nil && !cfg.Verifier.VerifySignature(key.OrderID, req.PaymentID, req.Signature) {
				cfg.Log.WarnContext(ctx, "payment signature mismatch", "record_id", key.RecordID, "payment_id", req.PaymentID)
				writeError(c, checkout.ErrBadSignature)
				return
			}
			enqueue(c, cfg, checkout.OutcomeMessage{
				RecordID:  key.RecordID,
				OrderID:   key.OrderID,
				Outcome:   checkout.OutcomeCompleted,
				PaymentID: req.PaymentID,
				Signature: req.Signature,
			})
			return
		}

		out, err := cfg.Checkout.Complete(ctx, key, req.PaymentID, req.Signature)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, outcomeResponse{Outcome: out, Message: out.Message()})
	})

	r.POST("/donations/:id/dismiss", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req dismissRequest
		if err := validation.BindAndValidate(c, &req, cfg.Validator); err != nil {
			return
		}
		key := checkout.Key{RecordID: c.Param("id"), OrderID: req.OrderID}

		if cfg.Queue != nil {
			enqueue(c, cfg, checkout.OutcomeMessage{
				RecordID: key.RecordID,
				OrderID:  key.OrderID,
				Outcome:  checkout.OutcomeDismissed,
			})
			return
		}

		if err := cfg.Checkout.Dismiss(ctx, key); err != nil {
			writeError(c, err)
			return
		}
		out := checkout.Outcome{Key: key, Status: donations.StatusFailure}
		c.JSON(http.StatusOK, outcomeResponse{Outcome: out, Message: out.Message()})
	})
}

func enqueue(c *gin.Context, cfg HandlerConfig, msg checkout.OutcomeMessage) {
	ctx := c.Request.Context()
	msg.CorrelationID = c.GetHeader("X-Request-Id")

	if err := cfg.Queue.Enqueue(ctx, msg); err != nil {
		cfg.Log.ErrorContext(ctx, "enqueue outcome failed", "record_id", msg.RecordID, "outcome", msg.Outcome, "error", err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"recordId": msg.RecordID, "status": "queued"})
}
