// Package gateway talks to Razorpay: order creation before checkout and the
// post-payment lookup of the bank reference number (RRN).
package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/shopspring/decimal"
)

// Currency is the ISO code every order is created in.
const Currency = "INR"

// RRNNotAvailable is stored when the gateway has no reference number.
const RRNNotAvailable = "Not Available"

var (
	// ErrInvalidAmount rejects missing, non-numeric or non-positive amounts.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrMissingPaymentID rejects lookups without a payment id.
	ErrMissingPaymentID = errors.New("paymentId is required")
	// ErrNoOrderID is returned when the gateway answers without an order id.
	ErrNoOrderID = errors.New("gateway returned no order id")
)

// OrderAPI is the slice of razorpay-go's order resource we use.
type OrderAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// PaymentAPI is the slice of razorpay-go's payment resource we use.
type PaymentAPI interface {
	Fetch(paymentID string, queryParams map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Order is the trimmed order handed back to callers.
type Order struct {
	ID       string `json:"orderId"`
	Amount   int64  `json:"amount"` // paise
	Currency string `json:"currency"`
}

// Payment is the trimmed payment returned by LookupReference.
type Payment struct {
	PaymentID string  `json:"paymentId"`
	OrderID   string  `json:"orderId"`
	RRNNumber string  `json:"rrnNumber"`
	Amount    float64 `json:"amount"` // rupees
	Method    string  `json:"method"`
	Status    string  `json:"status"`
	CreatedAt int64   `json:"createdAt"`
}

// Client wraps the Razorpay order and payment resources.
type Client struct {
	orders    OrderAPI
	payments  PaymentAPI
	keySecret string
	nowFunc   func() time.Time
}

// New builds a Client over explicit resources; keySecret is used to verify
// checkout signatures.
func New(orders OrderAPI, payments PaymentAPI, keySecret string) *Client {
	return &Client{
		orders:    orders,
		payments:  payments,
		keySecret: keySecret,
		nowFunc:   time.Now,
	}
}

// NewRazorpay builds a Client backed by the Razorpay REST API.
func NewRazorpay(keyID, keySecret string) *Client {
	rc := razorpay.NewClient(keyID, keySecret)
	return New(rc.Order, rc.Payment, keySecret)
}

// CreateOrder reserves amount (rupees) with the gateway.
func (c *Client) CreateOrder(ctx context.Context, amount decimal.Decimal) (Order, error) {
	if !amount.IsPositive() {
		return Order{}, ErrInvalidAmount
	}
	if err := ctx.Err(); err != nil {
		return Order{}, err
	}
	paise := ToPaise(amount)

	body, err := c.orders.Create(map[string]interface{}{
		"amount":   paise,
		"currency": Currency,
		"receipt":  fmt.Sprintf("receipt_%d", c.nowFunc().UnixMilli()),
	}, nil)
	if err != nil {
		return Order{}, fmt.Errorf("create order: %w", err)
	}

	o := Order{
		ID:       stringField(body, "id"),
		Amount:   paise,
		Currency: Currency,
	}
	if o.ID == "" {
		return Order{}, ErrNoOrderID
	}
	if v, ok := body["amount"].(float64); ok {
		o.Amount = int64(v)
	}
	if v := stringField(body, "currency"); v != "" {
		o.Currency = v
	}
	return o, nil
}

// LookupReference fetches a payment and resolves its bank reference number.
func (c *Client) LookupReference(ctx context.Context, paymentID string) (Payment, error) {
	if paymentID == "" {
		return Payment{}, ErrMissingPaymentID
	}
	if err := ctx.Err(); err != nil {
		return Payment{}, err
	}

	body, err := c.payments.Fetch(paymentID, nil, nil)
	if err != nil {
		return Payment{}, fmt.Errorf("fetch payment %s: %w", paymentID, err)
	}

	p := Payment{
		PaymentID: stringField(body, "id"),
		OrderID:   stringField(body, "order_id"),
		Method:    stringField(body, "method"),
		Status:    stringField(body, "status"),
	}
	if acq, ok := body["acquirer_data"].(map[string]interface{}); ok {
		p.RRNNumber = ResolveRRN(acq)
	} else {
		p.RRNNumber = RRNNotAvailable
	}
	if v, ok := body["amount"].(float64); ok {
		p.Amount = decimal.NewFromFloat(v).Div(decimal.NewFromInt(100)).InexactFloat64()
	}
	if v, ok := body["created_at"].(float64); ok {
		p.CreatedAt = int64(v)
	}
	return p, nil
}

// VerifySignature checks the razorpay_signature returned by checkout, an
// HMAC-SHA256 of "order_id|payment_id" keyed with the API secret.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ResolveRRN picks the reference number from acquirer data: the card RRN,
// then the UPI transaction id, then the netbanking transaction id.
func ResolveRRN(acquirer map[string]interface{}) string {
	for _, k := range []string{"rrn", "upi_transaction_id", "bank_transaction_id"} {
		if v := stringField(acquirer, k); v != "" {
			return v
		}
	}
	return RRNNotAvailable
}

// ToPaise converts rupees to paise, rounding half away from zero.
func ToPaise(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func stringField(m map[string]interface{}, k string) string {
	switch v := m[k].(type) {
	case string:
		return v
	case float64:
		return decimal.NewFromFloat(v).String()
	default:
		return ""
	}
}
