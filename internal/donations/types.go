package donations

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// Donation statuses. A record starts initiated and settles exactly once.
const (
	StatusInitiated = "initiated"
	StatusSuccess   = "success"
	StatusFailure   = "failure"
)

// Kind is the partition value of the by_created index; every donation shares it.
const Kind = "donation"

// CreatedIndex is the GSI (kind, created_seq) used for newest-first listing.
const CreatedIndex = "by_created"

// Currency is the only currency donations are taken in.
const Currency = "INR"

// Donation is one checkout attempt as stored in the donations table.
type Donation struct {
	ID         string    `dynamodbav:"id" json:"id"`
	Kind       string    `dynamodbav:"kind" json:"-"`
	Name       string    `dynamodbav:"name" json:"name"`
	Email      string    `dynamodbav:"email" json:"email"`
	Phone      string    `dynamodbav:"phone" json:"phone"`
	PAN        string    `dynamodbav:"pan,omitempty" json:"pan,omitempty"`
	Address    string    `dynamodbav:"address" json:"address"`
	Amount     Amount    `dynamodbav:"amount" json:"amount"`
	Currency   string    `dynamodbav:"currency" json:"currency"`
	OrderID    string    `dynamodbav:"order_id" json:"orderId"`
	PaymentID  string    `dynamodbav:"payment_id,omitempty" json:"paymentId,omitempty"`
	RRNNumber  string    `dynamodbav:"rrn_number,omitempty" json:"rrnNumber,omitempty"`
	Status     string    `dynamodbav:"status" json:"status"`
	CreatedAt  time.Time `dynamodbav:"created_at" json:"createdAt"`
	CreatedSeq int64     `dynamodbav:"created_seq" json:"-"`
	UpdatedAt  time.Time `dynamodbav:"updated_at" json:"updatedAt"`
}

// Settled reports whether the donation reached a terminal status.
func (d Donation) Settled() bool {
	return d.Status == StatusSuccess || d.Status == StatusFailure
}

// Settlement is the partial update applied when a checkout reaches its outcome.
// Empty PaymentID / RRNNumber leave those attributes untouched.
type Settlement struct {
	Status    string
	PaymentID string
	RRNNumber string
}

// Amount is a rupee amount kept as a DynamoDB number.
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps d.
func NewAmount(d decimal.Decimal) Amount { return Amount{Decimal: d} }

// MarshalDynamoDBAttributeValue implements attributevalue.Marshaler.
func (a Amount) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberN{Value: a.Decimal.String()}, nil
}

// UnmarshalDynamoDBAttributeValue implements attributevalue.Unmarshaler.
func (a *Amount) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	var raw string
	switch v := av.(type) {
	case *types.AttributeValueMemberN:
		raw = v.Value
	case *types.AttributeValueMemberS:
		raw = v.Value
	case *types.AttributeValueMemberNULL:
		a.Decimal = decimal.Zero
		return nil
	default:
		return fmt.Errorf("amount: unsupported attribute type %T", av)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	a.Decimal = d
	return nil
}
