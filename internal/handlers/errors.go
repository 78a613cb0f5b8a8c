package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/donation-checkout/internal/checkout"
	"github.com/imrishuroy/donation-checkout/internal/donations"
)

// statusFor maps checkout and store errors to HTTP status codes and error codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, checkout.ErrInvalidAmount):
		return http.StatusBadRequest, "invalid_amount"
	case errors.Is(err, checkout.ErrMissingPaymentID):
		return http.StatusBadRequest, "missing_payment_id"
	case errors.Is(err, checkout.ErrBadSignature):
		return http.StatusBadRequest, "invalid_signature"
	case errors.Is(err, checkout.ErrUnknownOutcome):
		return http.StatusBadRequest, "unknown_outcome"
	case errors.Is(err, checkout.ErrOrderFailed):
		return http.StatusBadGateway, "order_creation_failed"
	case errors.Is(err, donations.ErrNotFound):
		return http.StatusNotFound, "donation_not_found"
	case errors.Is(err, donations.ErrAlreadySettled):
		return http.StatusConflict, "already_settled"
	case errors.Is(err, donations.ErrOrderMismatch):
		return http.StatusConflict, "order_mismatch"
	case errors.Is(err, checkout.ErrRecordFailed):
		return http.StatusInternalServerError, "record_failed"
	case errors.Is(err, checkout.ErrLaunchFailed):
		return http.StatusInternalServerError, "launch_failed"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func writeError(c *gin.Context, err error) {
	status, code := statusFor(err)
	c.JSON(status, gin.H{"error": code, "detail": err.Error()})
}
