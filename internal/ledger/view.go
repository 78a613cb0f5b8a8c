package ledger

import (
	"strconv"
	"strings"

	"github.com/imrishuroy/donation-checkout/internal/donations"
)

// View holds the page state of one ledger table across snapshots. It is not
// safe for concurrent use; each subscriber owns its own View.
type View struct {
	keep    Predicate
	size    int
	page    int
	rows    []donations.Donation
	version string
}

// NewView returns a View on page 1 with no rows.
func NewView(keep Predicate, size int) *View {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &View{keep: keep, size: size, page: 1}
}

// Apply filters a snapshot into the view. When the filtered set differs from
// the current one the view moves back to page 1 and Apply reports true; an
// unchanged set leaves the page where it was.
func (v *View) Apply(snapshot []donations.Donation) bool {
	rows := Select(snapshot, v.keep)
	version := signature(rows)
	if version == v.version && v.rows != nil {
		return false
	}
	v.rows = rows
	v.version = version
	v.page = 1
	return true
}

// SetPage moves to page n, clamped into range.
func (v *View) SetPage(n int) {
	v.page = Paginate(v.rows, n, v.size).Number
}

// Page renders the current page.
func (v *View) Page() Page {
	return Paginate(v.rows, v.page, v.size)
}

func signature(recs []donations.Donation) string {
	var b strings.Builder
	for _, d := range recs {
		b.WriteString(d.ID)
		b.WriteByte('|')
		b.WriteString(d.Status)
		b.WriteByte('|')
		b.WriteString(d.PaymentID)
		b.WriteByte('|')
		b.WriteString(d.RRNNumber)
		b.WriteByte('|')
		b.WriteString(strconv.FormatInt(d.UpdatedAt.UnixNano(), 10))
		b.WriteByte(';')
	}
	return b.String()
}
