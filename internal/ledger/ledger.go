// Package ledger turns donation snapshots into the paginated donor tables.
package ledger

import (
	"strings"
	"time"
	_ "time/tzdata" // Asia/Kolkata on hosts without zoneinfo

	"github.com/imrishuroy/donation-checkout/internal/donations"
	"github.com/imrishuroy/donation-checkout/internal/validation"
)

// DefaultPageSize is the number of rows per ledger page.
const DefaultPageSize = 10

// Predicate keeps or drops a donation.
type Predicate func(donations.Donation) bool

// Successful keeps settled, paid donations.
func Successful(d donations.Donation) bool {
	return strings.EqualFold(d.Status, donations.StatusSuccess)
}

// Unsettled keeps failed and still-initiated donations.
func Unsettled(d donations.Donation) bool {
	return strings.EqualFold(d.Status, donations.StatusFailure) ||
		strings.EqualFold(d.Status, donations.StatusInitiated)
}

// ByName resolves a ledger view name: "success" or "failure".
func ByName(name string) (Predicate, bool) {
	switch name {
	case "success":
		return Successful, true
	case "failure":
		return Unsettled, true
	default:
		return nil, false
	}
}

// Select returns the donations keep accepts, preserving order.
func Select(recs []donations.Donation, keep Predicate) []donations.Donation {
	out := make([]donations.Donation, 0, len(recs))
	for _, d := range recs {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

// Row is one rendered ledger line.
type Row struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Amount    string `json:"amount"`
	Status    string `json:"status"`
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	RRNNumber string `json:"rrnNumber"`
	Date      string `json:"date"`
}

// Page is one page of a ledger view.
type Page struct {
	Number     int   `json:"page"`
	TotalPages int   `json:"totalPages"`
	Total      int   `json:"total"`
	Rows       []Row `json:"rows"`
}

// Paginate cuts recs into pages of size and returns page number n, clamped
// into range. An empty set yields page 1 of 0.
func Paginate(recs []donations.Donation, n, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(recs)
	pages := (total + size - 1) / size
	if n > pages {
		n = pages
	}
	if n < 1 {
		n = 1
	}

	start := (n - 1) * size
	end := min(start+size, total)
	rows := make([]Row, 0, max(end-start, 0))
	for _, d := range recs[min(start, total):end] {
		rows = append(rows, RowOf(d))
	}
	return Page{Number: n, TotalPages: pages, Total: total, Rows: rows}
}

var kolkata = mustZone("Asia/Kolkata")

// RowOf renders a donation the way the donor tables show it.
func RowOf(d donations.Donation) Row {
	r := Row{
		ID:        d.ID,
		Name:      orDefault(d.Name, "—"),
		Amount:    validation.FormatRupees(d.Amount.Decimal),
		Status:    d.Status,
		OrderID:   orDefault(d.OrderID, "N/A"),
		PaymentID: orDefault(d.PaymentID, "N/A"),
		RRNNumber: orDefault(d.RRNNumber, "N/A"),
		Date:      "-",
	}
	if !d.CreatedAt.IsZero() {
		r.Date = d.CreatedAt.In(kolkata).Format("02/01/2006, 03:04:05 pm")
	}
	return r
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func mustZone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}
