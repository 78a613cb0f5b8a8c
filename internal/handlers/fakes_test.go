package handlers

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/imrishuroy/donation-checkout/internal/checkout"
	"github.com/imrishuroy/donation-checkout/internal/donations"
	"github.com/imrishuroy/donation-checkout/internal/gateway"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeGateway struct {
	amount  decimal.Decimal
	order   gateway.Order
	payment gateway.Payment
	err     error
}

func (f *fakeGateway) CreateOrder(_ context.Context, amount decimal.Decimal) (gateway.Order, error) {
	f.amount = amount
	if f.err != nil {
		return gateway.Order{}, f.err
	}
	return f.order, nil
}

func (f *fakeGateway) LookupReference(_ context.Context, paymentID string) (gateway.Payment, error) {
	if f.err != nil {
		return gateway.Payment{}, f.err
	}
	p := f.payment
	p.PaymentID = paymentID
	return p, nil
}

type fakeCheckout struct {
	sub       checkout.Submission
	key       checkout.Key
	paymentID string
	outcome   checkout.Outcome
	beginErr  error
	settleErr error
	begins    int
	completes int
	dismisses int
}

func (f *fakeCheckout) Begin(_ context.Context, sub checkout.Submission) (*checkout.Session, error) {
	f.begins++
	f.sub = sub
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return &checkout.Session{
		Key:      checkout.Key{RecordID: "rec-1", OrderID: "order_1"},
		Amount:   gateway.ToPaise(sub.Amount),
		Currency: gateway.Currency,
		Prefill:  checkout.Prefill{Name: sub.Donor.Name, Email: sub.Donor.Email, Contact: sub.Donor.Phone},
	}, nil
}

func (f *fakeCheckout) Complete(_ context.Context, key checkout.Key, paymentID, _ string) (checkout.Outcome, error) {
	f.completes++
	f.key = key
	f.paymentID = paymentID
	if f.settleErr != nil {
		return checkout.Outcome{}, f.settleErr
	}
	out := f.outcome
	out.Key = key
	return out, nil
}

func (f *fakeCheckout) Dismiss(_ context.Context, key checkout.Key) error {
	f.dismisses++
	f.key = key
	return f.settleErr
}

type fakeQueue struct {
	msgs []checkout.OutcomeMessage
	err  error
}

func (f *fakeQueue) Enqueue(_ context.Context, msg checkout.OutcomeMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msg)
	return nil
}

// fakeLedger replays fixed snapshots and then ends the subscription.
type fakeLedger struct {
	recs      []donations.Donation
	snapshots [][]donations.Donation
	err       error
}

func (f *fakeLedger) List(context.Context) ([]donations.Donation, error) {
	return f.recs, f.err
}

func (f *fakeLedger) Snapshots(context.Context, time.Duration) iter.Seq2[[]donations.Donation, error] {
	return func(yield func([]donations.Donation, error) bool) {
		for _, s := range f.snapshots {
			if !yield(s, nil) {
				return
			}
		}
	}
}

type staticVerifier bool

func (v staticVerifier) VerifySignature(string, string, string) bool { return bool(v) }

func newTestRouter(cfg HandlerConfig) *gin.Engine {
	if cfg.Log == nil {
		cfg.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.AllowedOrigins == nil {
		cfg.AllowedOrigins = []string{"https://uvarimkv.org"}
	}
	if cfg.Gateway == nil {
		cfg.Gateway = &fakeGateway{}
	}
	if cfg.Checkout == nil {
		cfg.Checkout = &fakeCheckout{}
	}
	if cfg.Ledger == nil {
		cfg.Ledger = &fakeLedger{}
	}
	return NewRouter(cfg)
}

func do(r http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
