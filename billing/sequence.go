package billing

import (
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedNumber marks a stored invoice number whose sequence suffix is
// not numeric. This is corrupt data: callers must surface it, never fall back
// to 001 (which would collide with the real sequence).
type ErrMalformedNumber struct {
	Number string
}

func (e *ErrMalformedNumber) Error() string {
	return fmt.Sprintf("malformed invoice number %q: non-numeric sequence suffix", e.Number)
}

// NumberPrefix returns the year-scoped invoice number prefix, e.g. "INV-2024-".
func NumberPrefix(year int) string {
	return fmt.Sprintf("INV-%d-", year)
}

// NextNumber computes the invoice number following last within the given
// year's sequence. last is the number of the most recently created invoice
// for that year, or "" when the year has no invoices yet.
//
// The sequence suffix is zero-padded to a minimum of 3 digits; past 999 it
// simply grows wider (1000, 1001, ...).
func NextNumber(year int, last string) (string, error) {
	prefix := NumberPrefix(year)
	if last == "" {
		return prefix + "001", nil
	}

	suffix := strings.TrimPrefix(last, prefix)
	if suffix == last {
		return "", &ErrMalformedNumber{Number: last}
	}
	seq, err := strconv.Atoi(suffix)
	if err != nil || seq < 0 {
		return "", &ErrMalformedNumber{Number: last}
	}
	return fmt.Sprintf("%s%03d", prefix, seq+1), nil
}
