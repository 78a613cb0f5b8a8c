package donations

import (
	"context"
	"iter"
	"strconv"
	"strings"
	"time"
)

// Snapshots polls the table every interval and yields the full, newest-first
// collection whenever it differs from the last one yielded. The first
// snapshot is yielded immediately. Ranging over the sequence again starts a
// fresh subscription. It ends when ctx is done or the consumer stops.
func (s *Store) Snapshots(ctx context.Context, interval time.Duration) iter.Seq2[[]Donation, error] {
	return func(yield func([]Donation, error) bool) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		last := ""
		first := true
		for {
			if ctx.Err() != nil {
				return
			}
			recs, err := s.List(ctx)
			switch {
			case err != nil:
				if ctx.Err() != nil {
					return
				}
				if !yield(nil, err) {
					return
				}
			case first || fingerprint(recs) != last:
				first = false
				last = fingerprint(recs)
				if !yield(recs, nil) {
					return
				}
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}
}

func fingerprint(recs []Donation) string {
	var b strings.Builder
	for _, d := range recs {
		b.WriteString(d.ID)
		b.WriteByte('|')
		b.WriteString(d.Status)
		b.WriteByte('|')
		b.WriteString(strconv.FormatInt(d.UpdatedAt.UnixNano(), 10))
		b.WriteByte(';')
	}
	return b.String()
}
