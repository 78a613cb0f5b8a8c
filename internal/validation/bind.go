package validation

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

// fieldMessages are shown to the donor next to the offending input.
var fieldMessages = map[string]string{
	"amount":  "Please enter a valid donation amount.",
	"email":   "Please enter a valid email address.",
	"phone":   "Please enter a valid 10-digit mobile number.",
	"name":    "Name must be at least 3 characters.",
	"pan":     "Please enter a valid PAN (e.g., AAAPA1234A).",
	"address": "Address must be at least 5 characters.",
}

// FieldMessage returns the donor-facing message for a form field.
func FieldMessage(field string) string {
	if m, ok := fieldMessages[field]; ok {
		return m
	}
	return "Invalid value."
}

// BindAndValidate binds JSON body into `out` and runs validation.
// If validation fails, it writes a 400 response and returns an error for the handler to short-circuit.
func BindAndValidate(c *gin.Context, out interface{}, v *validatorv10.Validate) error {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid_request_body",
			"msg":   err.Error(),
		})
		return err
	}

	if err := v.Struct(out); err != nil {
		WriteValidationError(c, err)
		return err
	}
	return nil
}

// WriteValidationError writes a 400 carrying one message per failing field.
func WriteValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":  "validation_failed",
		"fields": FieldErrors(err),
	})
}

// FieldErrors maps validation failures to donor-facing messages keyed by field.
func FieldErrors(err error) map[string]string {
	out := map[string]string{}
	var ve validatorv10.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[fe.Field()] = FieldMessage(fe.Field())
		}
		return out
	}
	switch {
	case errors.Is(err, ErrEmptyAmount), errors.Is(err, ErrZeroAmount):
		out["amount"] = FieldMessage("amount")
	default:
		out["error"] = err.Error()
	}
	return out
}
