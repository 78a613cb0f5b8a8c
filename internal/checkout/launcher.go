package checkout

import (
	"context"
	"errors"

	"github.com/imrishuroy/donation-checkout/internal/metrics"
)

// ErrNoWidgetKey is returned when the widget key id is not configured.
var ErrNoWidgetKey = errors.New("payment widget key id is not configured")

// WidgetLauncher hands the session to the browser widget, which opens it
// from the HTTP response. Launch fails when the widget could not open the
// session, so Begin settles the record as failure instead of leaving it
// initiated.
type WidgetLauncher struct {
	KeyID   string
	Metrics metrics.Recorder
}

// Launch implements Launcher.
func (l WidgetLauncher) Launch(ctx context.Context, s *Session) error {
	switch {
	case l.KeyID == "":
		return ErrNoWidgetKey
	case s.OrderID == "" || s.Amount <= 0:
		return errors.New("session has no order to pay")
	}
	if l.Metrics != nil {
		l.Metrics.Count(ctx, metrics.CheckoutLaunched)
	}
	return nil
}
