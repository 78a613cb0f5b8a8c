package main

import (
	"context"

	"github.com/imrishuroy/donation-checkout/internal/checkout"
)

// Applier settles a queued payment outcome.
type Applier interface {
	Apply(ctx context.Context, msg checkout.OutcomeMessage) (checkout.Outcome, error)
}
