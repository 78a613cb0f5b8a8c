package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/imrishuroy/donation-checkout/internal/donations"
	"github.com/imrishuroy/donation-checkout/internal/validation"
)

// Merchant details shown in the payment widget.
const (
	MerchantName        = "Malaviya Vidyalaya Kendram"
	MerchantDescription = "School Donation"
	ThemeColor          = "#3399cc"
)

// Submission is a validated donate form plus the amount to charge in rupees.
type Submission struct {
	Donor  validation.DonationForm
	Amount decimal.Decimal
}

// Key identifies one in-flight checkout. It is all an outcome handler needs.
type Key struct {
	RecordID string `json:"recordId"`
	OrderID  string `json:"orderId"`
}

// Prefill is the donor contact info the widget opens with.
type Prefill struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

// Session is what the payment UI is opened with.
type Session struct {
	Key
	Amount   int64 // paise
	Currency string
	Prefill  Prefill
}

// Theme styles the widget.
type Theme struct {
	Color string `json:"color"`
}

// WidgetOptions is the Razorpay checkout.js options object, minus handlers.
type WidgetOptions struct {
	Key         string            `json:"key"`
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	OrderID     string            `json:"order_id"`
	Prefill     Prefill           `json:"prefill"`
	Notes       map[string]string `json:"notes"`
	Theme       Theme             `json:"theme"`
}

// WidgetOptions renders the session for the browser widget.
func (s *Session) WidgetOptions(keyID string) WidgetOptions {
	return WidgetOptions{
		Key:         keyID,
		Amount:      s.Amount,
		Currency:    s.Currency,
		Name:        MerchantName,
		Description: MerchantDescription,
		OrderID:     s.OrderID,
		Prefill:     s.Prefill,
		Notes:       map[string]string{"record_id": s.RecordID},
		Theme:       Theme{Color: ThemeColor},
	}
}

// Outcome is the result of a settled checkout.
type Outcome struct {
	Key
	Status         string `json:"status"`
	PaymentID      string `json:"paymentId,omitempty"`
	RRNNumber      string `json:"rrnNumber,omitempty"`
	ReferenceFound bool   `json:"referenceFound"`
}

// Message is the notice shown to the donor.
func (o Outcome) Message() string {
	switch {
	case o.Status != donations.StatusSuccess:
		return "Payment was not completed."
	case o.ReferenceFound:
		return "Payment Successful\nRRN: " + o.RRNNumber
	default:
		return "Payment successful. RRN not available."
	}
}
