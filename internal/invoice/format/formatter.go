// Package format builds and parses human-readable invoice numbers.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Invoice numbers look like INV-202501-0007: a calendar-month prefix and
// a zero-padded sequence scoped to that month. The padding widens past
// 9999, so lexical prefix matching stays valid but sequence comparison
// must go through ParseSeq.

// MonthPrefix returns the number prefix for a calendar month,
// e.g. "INV-202501-".
func MonthPrefix(yearMonth time.Time) string {
	return fmt.Sprintf("INV-%s-", yearMonth.Format("200601"))
}

// InvoiceNumber formats a number from a month and sequence. This function
// is pure; allocation of the sequence is the caller's concern.
func InvoiceNumber(yearMonth time.Time, seq int64) string {
	return fmt.Sprintf("%s%04d", MonthPrefix(yearMonth), seq)
}

// ParseSeq extracts the sequence from a number carrying the given month
// prefix. The second return is false when the number does not belong to
// the month or its sequence is malformed.
func ParseSeq(number, prefix string) (int64, bool) {
	if !strings.HasPrefix(number, prefix) {
		return 0, false
	}
	raw := strings.TrimPrefix(number, prefix)
	if raw == "" {
		return 0, false
	}
	seq, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || seq < 0 {
		return 0, false
	}
	return seq, true
}
