// Package checkout drives a donation from order creation to its recorded
// outcome: create the gateway order, write the initiated record, hand the
// payment UI off, then settle the record when the UI reports back.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/donation-checkout/internal/donations"
	"github.com/imrishuroy/donation-checkout/internal/gateway"
	"github.com/imrishuroy/donation-checkout/internal/metrics"
)

var (
	ErrInvalidAmount    = errors.New("donation amount must be a positive number")
	ErrOrderFailed      = errors.New("order creation failed")
	ErrRecordFailed     = errors.New("could not record donation")
	ErrLaunchFailed     = errors.New("could not open payment")
	ErrMissingPaymentID = errors.New("payment id is required")
	ErrBadSignature     = errors.New("payment signature mismatch")
	ErrUnknownOutcome   = errors.New("unknown payment outcome")
)

// OrderService reserves an amount with the gateway.
type OrderService interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal) (gateway.Order, error)
}

// ReferenceLookup resolves a payment's bank reference number.
type ReferenceLookup interface {
	LookupReference(ctx context.Context, paymentID string) (gateway.Payment, error)
}

// SignatureVerifier checks the signature the widget returns on success.
type SignatureVerifier interface {
	VerifySignature(orderID, paymentID, signature string) bool
}

// RecordStore persists donation attempts.
type RecordStore interface {
	Create(ctx context.Context, d donations.Donation) (donations.Donation, error)
	Settle(ctx context.Context, id, orderID string, st donations.Settlement) error
}

// Launcher opens the external payment UI. It must not block on the payment.
type Launcher interface {
	Launch(ctx context.Context, s *Session) error
}

// LauncherFunc adapts a function to Launcher.
type LauncherFunc func(ctx context.Context, s *Session) error

// Launch implements Launcher.
func (f LauncherFunc) Launch(ctx context.Context, s *Session) error { return f(ctx, s) }

// Deps are the orchestrator's collaborators. Launcher, Verifier, Metrics and
// Log are optional; without a Launcher the returned Session is the hand-off.
type Deps struct {
	Orders     OrderService
	References ReferenceLookup
	Store      RecordStore
	Launcher   Launcher
	Verifier   SignatureVerifier
	Metrics    metrics.Recorder
	Log        *slog.Logger
}

// Orchestrator runs checkouts. It keeps no per-checkout state; outcomes are
// matched to records through the Key alone.
type Orchestrator struct {
	orders   OrderService
	refs     ReferenceLookup
	store    RecordStore
	launcher Launcher
	verifier SignatureVerifier
	metrics  metrics.Recorder
	log      *slog.Logger
}

// New returns an Orchestrator.
func New(d Deps) *Orchestrator {
	o := &Orchestrator{
		orders:   d.Orders,
		refs:     d.References,
		store:    d.Store,
		launcher: d.Launcher,
		verifier: d.Verifier,
		metrics:  d.Metrics,
		log:      d.Log,
	}
	if o.launcher == nil {
		o.launcher = LauncherFunc(func(context.Context, *Session) error { return nil })
	}
	if o.metrics == nil {
		o.metrics = metrics.Nop{}
	}
	if o.log == nil {
		o.log = slog.Default()
	}
	return o
}

// Begin creates the order, writes the initiated record and hands the payment
// UI off. It returns as soon as the UI is launched; the outcome arrives later
// through Complete or Dismiss.
func (o *Orchestrator) Begin(ctx context.Context, sub Submission) (*Session, error) {
	if !sub.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	order, err := o.orders.CreateOrder(ctx, sub.Amount)
	if err == nil && order.ID == "" {
		err = gateway.ErrNoOrderID
	}
	if err != nil {
		o.metrics.Count(ctx, metrics.OrderCreationFailed)
		o.log.ErrorContext(ctx, "create order failed", "amount", sub.Amount.String(), "error", err)
		return nil, fmt.Errorf("%w: %w", ErrOrderFailed, err)
	}

	donor := sub.Donor
	rec, err := o.store.Create(ctx, donations.Donation{
		Name:     donor.Name,
		Email:    donor.Email,
		Phone:    donor.Phone,
		PAN:      donor.PAN,
		Address:  donor.Address,
		Amount:   donations.NewAmount(sub.Amount),
		Currency: order.Currency,
		OrderID:  order.ID,
	})
	if err != nil {
		// the gateway order stays orphaned; nothing links to it
		o.metrics.Count(ctx, metrics.RecordWriteFailed)
		o.log.ErrorContext(ctx, "write initiated donation failed", "order_id", order.ID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrRecordFailed, err)
	}

	s := &Session{
		Key:      Key{RecordID: rec.ID, OrderID: order.ID},
		Amount:   order.Amount,
		Currency: order.Currency,
		Prefill: Prefill{
			Name:    donor.Name,
			Email:   donor.Email,
			Contact: donor.Phone,
		},
	}
	o.metrics.Count(ctx, metrics.CheckoutStarted)
	o.log.InfoContext(ctx, "checkout started", "record_id", rec.ID, "order_id", order.ID)

	if err := o.launcher.Launch(ctx, s); err != nil {
		o.log.ErrorContext(ctx, "launch payment ui failed", "record_id", rec.ID, "error", err)
		if derr := o.Dismiss(ctx, s.Key); derr != nil {
			o.log.ErrorContext(ctx, "settle unlaunched checkout failed", "record_id", rec.ID, "error", derr)
		}
		return nil, fmt.Errorf("%w: %w", ErrLaunchFailed, err)
	}
	return s, nil
}

// Complete handles the payment UI's success callback. The reference lookup
// is best-effort: the record becomes success either way, with the RRN or
// gateway.RRNNotAvailable.
func (o *Orchestrator) Complete(ctx context.Context, key Key, paymentID, signature string) (Outcome, error) {
	if paymentID == "" {
		return Outcome{}, ErrMissingPaymentID
	}
	if o.verifier != nil && !o.verifier.VerifySignature(key.OrderID, paymentID, signature) {
		o.log.WarnContext(ctx, "payment signature mismatch", "record_id", key.RecordID, "payment_id", paymentID)
		return Outcome{}, ErrBadSignature
	}

	out := Outcome{
		Key:       key,
		Status:    donations.StatusSuccess,
		PaymentID: paymentID,
		RRNNumber: gateway.RRNNotAvailable,
	}
	p, err := o.refs.LookupReference(ctx, paymentID)
	switch {
	case err != nil:
		o.metrics.Count(ctx, metrics.ReferenceLookupFailed)
		o.log.WarnContext(ctx, "reference lookup failed", "record_id", key.RecordID, "payment_id", paymentID, "error", err)
	case p.RRNNumber != "" && p.RRNNumber != gateway.RRNNotAvailable:
		out.RRNNumber = p.RRNNumber
		out.ReferenceFound = true
	}

	err = o.store.Settle(ctx, key.RecordID, key.OrderID, donations.Settlement{
		Status:    donations.StatusSuccess,
		PaymentID: paymentID,
		RRNNumber: out.RRNNumber,
	})
	if err != nil {
		return Outcome{}, o.settleError(ctx, key, donations.StatusSuccess, err)
	}

	o.metrics.Count(ctx, metrics.DonationSucceeded)
	o.log.InfoContext(ctx, "donation succeeded", "record_id", key.RecordID, "order_id", key.OrderID,
		"payment_id", paymentID, "rrn", out.RRNNumber)
	return out, nil
}

// Dismiss handles the payment UI closing without a payment.
func (o *Orchestrator) Dismiss(ctx context.Context, key Key) error {
	err := o.store.Settle(ctx, key.RecordID, key.OrderID, donations.Settlement{
		Status: donations.StatusFailure,
	})
	if err != nil {
		return o.settleError(ctx, key, donations.StatusFailure, err)
	}
	o.metrics.Count(ctx, metrics.DonationFailed)
	o.log.InfoContext(ctx, "donation dismissed", "record_id", key.RecordID, "order_id", key.OrderID)
	return nil
}

func (o *Orchestrator) settleError(ctx context.Context, key Key, status string, err error) error {
	if errors.Is(err, donations.ErrAlreadySettled) {
		o.metrics.Count(ctx, metrics.DuplicateOutcome)
		o.log.WarnContext(ctx, "duplicate payment outcome", "record_id", key.RecordID, "status", status)
	} else {
		o.log.ErrorContext(ctx, "settle donation failed", "record_id", key.RecordID, "status", status, "error", err)
	}
	return fmt.Errorf("settle %s as %s: %w", key.RecordID, status, err)
}
