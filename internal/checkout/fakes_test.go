package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/donation-checkout/internal/donations"
	"github.com/imrishuroy/donation-checkout/internal/gateway"
)

// trace records the order in which collaborators are called.
type trace struct {
	mu     sync.Mutex
	events []string
}

func (t *trace) add(e string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, e)
}

func (t *trace) list() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.events...)
}

type fakeOrders struct {
	tr    *trace
	calls int
	order gateway.Order
	err   error
}

func (f *fakeOrders) CreateOrder(_ context.Context, amount decimal.Decimal) (gateway.Order, error) {
	f.calls++
	f.tr.add("order")
	if f.err != nil {
		return gateway.Order{}, f.err
	}
	o := f.order
	if o.Amount == 0 {
		o.Amount = gateway.ToPaise(amount)
	}
	return o, nil
}

type fakeRefs struct {
	tr      *trace
	calls   int
	payment gateway.Payment
	err     error
}

func (f *fakeRefs) LookupReference(_ context.Context, paymentID string) (gateway.Payment, error) {
	f.calls++
	f.tr.add("lookup")
	if f.err != nil {
		return gateway.Payment{}, f.err
	}
	p := f.payment
	p.PaymentID = paymentID
	return p, nil
}

type settleCall struct {
	ID, OrderID string
	Settlement  donations.Settlement
}

// fakeStore keeps records in memory and enforces the initiated -> terminal rule.
type fakeStore struct {
	tr        *trace
	mu        sync.Mutex
	records   map[string]donations.Donation
	settles   []settleCall
	seq       int
	createErr error
	settleErr error
}

func newFakeStore(tr *trace) *fakeStore {
	return &fakeStore{tr: tr, records: map[string]donations.Donation{}}
}

func (s *fakeStore) Create(_ context.Context, d donations.Donation) (donations.Donation, error) {
	s.tr.add("create")
	if s.createErr != nil {
		return donations.Donation{}, s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	d.ID = fmt.Sprintf("rec-%d", s.seq)
	d.Status = donations.StatusInitiated
	s.records[d.ID] = d
	return d, nil
}

func (s *fakeStore) Settle(_ context.Context, id, orderID string, st donations.Settlement) error {
	s.tr.add("settle:" + st.Status)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settleErr != nil {
		return s.settleErr
	}
	d, ok := s.records[id]
	switch {
	case !ok:
		return donations.ErrNotFound
	case d.OrderID != orderID:
		return donations.ErrOrderMismatch
	case d.Status != donations.StatusInitiated:
		return donations.ErrAlreadySettled
	}
	s.settles = append(s.settles, settleCall{ID: id, OrderID: orderID, Settlement: st})
	d.Status = st.Status
	if st.PaymentID != "" {
		d.PaymentID = st.PaymentID
	}
	if st.RRNNumber != "" {
		d.RRNNumber = st.RRNNumber
	}
	s.records[id] = d
	return nil
}

func (s *fakeStore) get(id string) donations.Donation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[id]
}

type fakeMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func (m *fakeMetrics) Count(_ context.Context, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = map[string]int{}
	}
	m.counts[name]++
}

type staticVerifier bool

func (v staticVerifier) VerifySignature(string, string, string) bool { return bool(v) }

var errGateway = errors.New("gateway unavailable")
