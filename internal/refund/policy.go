// Package refund implements the tiered cancellation refund policy.
// The refund percentage depends only on how long before the screening
// the cancellation happens; both functions are pure.
package refund

import "time"

// Tier boundaries.  Cancelling 24 hours or more before the screening
// refunds everything; between 2 and 24 hours refunds half; under 2
// hours refunds nothing.  Boundaries are inclusive on the generous
// side: exactly 24h → 100%, exactly 2h → 50%.
const (
	fullRefundWindow = 24 * time.Hour
	halfRefundWindow = 2 * time.Hour
)

// Percent returns the refund percentage for a cancellation happening
// at now against a screening starting at startsAt.
func Percent(now, startsAt time.Time) int {
	until := startsAt.Sub(now)
	switch {
	case until >= fullRefundWindow:
		return 100
	case until >= halfRefundWindow:
		return 50
	}
	return 0
}

// Amount applies a refund percentage to an amount in cents, rounding
// half cents to even so repeated 50% refunds do not drift.
func Amount(finalCents int64, percent int) int64 {
	return roundHalfEven(finalCents*int64(percent), 100)
}

// Compute evaluates the policy in one call and returns the refund
// amount together with the tier percentage for display.
func Compute(now, startsAt time.Time, finalCents int64) (int64, int) {
	pct := Percent(now, startsAt)
	return Amount(finalCents, pct), pct
}

// roundHalfEven divides n by d rounding the result half to even.
// n and d must be non-negative.
func roundHalfEven(n, d int64) int64 {
	q, r := n/d, n%d
	switch {
	case 2*r < d:
		return q
	case 2*r > d:
		return q + 1
	case q%2 == 0:
		return q
	}
	return q + 1
}
