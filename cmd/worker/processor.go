package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/imrishuroy/donation-checkout/internal/checkout"
	"github.com/imrishuroy/donation-checkout/internal/donations"
)

// Processor applies payment outcomes delivered through SQS.
type Processor struct {
	applier Applier
	log     *slog.Logger
}

// NewProcessor creates a worker processor around the orchestrator.
func NewProcessor(a Applier, log *slog.Logger) *Processor {
	return &Processor{applier: a, log: log}
}

// Handle processes an SQS batch and reports the messages that failed so only
// those are redelivered. Messages that keep failing end up in the DLQ.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			p.log.ErrorContext(ctx, "worker error", "message_id", rec.MessageId, "error", err)
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{
				ItemIdentifier: rec.MessageId,
			})
		}
	}
	return resp, nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg checkout.OutcomeMessage
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}

	p.log.InfoContext(ctx, "received outcome", "record_id", msg.RecordID, "order_id", msg.OrderID,
		"outcome", msg.Outcome, "correlation_id", msg.CorrelationID)

	out, err := p.applier.Apply(ctx, msg)
	switch {
	case errors.Is(err, donations.ErrAlreadySettled):
		// redelivery, or the other outcome got there first
		p.log.InfoContext(ctx, "outcome already applied", "record_id", msg.RecordID)
		return nil
	case permanent(err):
		// redelivery would fail the same way
		p.log.ErrorContext(ctx, "outcome rejected", "record_id", msg.RecordID, "order_id", msg.OrderID,
			"outcome", msg.Outcome, "error", err)
		return nil
	case err != nil:
		return fmt.Errorf("apply %s outcome for %s: %w", msg.Outcome, msg.RecordID, err)
	}

	p.log.InfoContext(ctx, "outcome applied", "record_id", msg.RecordID, "status", out.Status, "rrn", out.RRNNumber)
	return nil
}

// permanent reports errors that will recur on every redelivery.
func permanent(err error) bool {
	return errors.Is(err, checkout.ErrBadSignature) ||
		errors.Is(err, donations.ErrOrderMismatch) ||
		errors.Is(err, donations.ErrNotFound)
}
