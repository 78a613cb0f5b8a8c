package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/imrishuroy/donation-checkout/internal/donations"
)

// Outcome kinds carried on the outcome queue.
const (
	OutcomeCompleted = "completed"
	OutcomeDismissed = "dismissed"
)

// OutcomeMessage is a payment UI callback queued for the worker.
type OutcomeMessage struct {
	RecordID      string `json:"record_id"`
	OrderID       string `json:"order_id"`
	Outcome       string `json:"outcome"`
	PaymentID     string `json:"payment_id,omitempty"`
	Signature     string `json:"signature,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// Key returns the checkout the message belongs to.
func (m OutcomeMessage) Key() Key {
	return Key{RecordID: m.RecordID, OrderID: m.OrderID}
}

// Validate checks the message carries what its handler needs.
func (m OutcomeMessage) Validate() error {
	if m.RecordID == "" || m.OrderID == "" {
		return errors.New("outcome message needs record_id and order_id")
	}
	switch m.Outcome {
	case OutcomeCompleted:
		if m.PaymentID == "" {
			return ErrMissingPaymentID
		}
	case OutcomeDismissed:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOutcome, m.Outcome)
	}
	return nil
}

// Sender sends a message body with string attributes.
type Sender interface {
	SendMessage(ctx context.Context, body string, attributes map[string]string) error
}

// OutcomeQueue hands payment outcomes to the worker.
type OutcomeQueue struct {
	sender Sender
}

// NewOutcomeQueue wraps sender.
func NewOutcomeQueue(sender Sender) *OutcomeQueue {
	return &OutcomeQueue{sender: sender}
}

// Enqueue validates and sends msg.
func (q *OutcomeQueue) Enqueue(ctx context.Context, msg OutcomeMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal outcome: %w", err)
	}
	return q.sender.SendMessage(ctx, string(body), map[string]string{
		"record_id":      msg.RecordID,
		"outcome":        msg.Outcome,
		"correlation_id": msg.CorrelationID,
	})
}

// Apply runs the handler matching a queued outcome.
func (o *Orchestrator) Apply(ctx context.Context, msg OutcomeMessage) (Outcome, error) {
	if err := msg.Validate(); err != nil {
		return Outcome{}, err
	}
	if msg.Outcome == OutcomeDismissed {
		if err := o.Dismiss(ctx, msg.Key()); err != nil {
			return Outcome{}, err
		}
		return Outcome{Key: msg.Key(), Status: donations.StatusFailure}, nil
	}
	return o.Complete(ctx, msg.Key(), msg.PaymentID, msg.Signature)
}
