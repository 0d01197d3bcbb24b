// Package pricing computes booking amounts.  It is pure: every input
// is passed in and no I/O is performed, so the same inputs always
// produce the same quote.
package pricing

import "github.com/cinehall/movie-booking/internal/model"

// Pricing rules.  A loyalty point is worth a fixed 1000 cents when
// redeemed and the discount is capped at 50% of the pre-discount
// total.  Points are earned at 1% of the final amount (final/100,
// floored).
const (
	PointValueCents  = 1000
	DiscountCapPct   = 50
	EarnDivisorCents = 100
)

// Seat type multipliers expressed in percent to keep all arithmetic
// in integers: STANDARD ×1.00, VIP ×1.50, COUPLE ×1.30.
var multiplierPct = map[string]int64{
	model.SeatTypeStandard: 100,
	model.SeatTypeVIP:      150,
	model.SeatTypeCouple:   130,
}

// Selection is one requested concession line item.
type Selection struct {
	ConcessionID uint64
	Quantity     uint32
}

// Quote is the result of pricing a booking.
type Quote struct {
	SeatTotalCents       int64
	ConcessionTotalCents int64
	DiscountCents        int64
	FinalCents           int64
	PointsEarned         uint32
}

// SeatPrice returns the price in cents of a single seat of the given
// type at the given screening base price.  Unknown seat types fall
// back to the standard multiplier.
func SeatPrice(basePriceCents int64, seatType string) int64 {
	pct, ok := multiplierPct[seatType]
	if !ok {
		pct = 100
	}
	return basePriceCents * pct / 100
}

// Compute prices a booking.  seats carries the seat types of every
// seat in the request; concessions maps concession ID to the current
// catalog entry.  Selections whose concession is missing from the map
// or marked unavailable are dropped from the quote without error.
//
// pointsUsed is consumed in full even when it buys less discount than
// its face value: the discount is independently capped at 50% of the
// pre-discount total.  The caller is responsible for checking the
// user actually holds pointsUsed points.
func Compute(basePriceCents int64, seats []model.Seat, selections []Selection, concessions map[uint64]model.Concession, pointsUsed uint32) Quote {
	var q Quote
	for _, s := range seats {
		q.SeatTotalCents += SeatPrice(basePriceCents, s.SeatType)
	}
	for _, sel := range selections {
		c, ok := concessions[sel.ConcessionID]
		if !ok || !c.IsAvailable || sel.Quantity == 0 {
			continue
		}
		q.ConcessionTotalCents += c.PriceCents * int64(sel.Quantity)
	}
	total := q.SeatTotalCents + q.ConcessionTotalCents
	q.DiscountCents = int64(pointsUsed) * PointValueCents
	if cap := total * DiscountCapPct / 100; q.DiscountCents > cap {
		q.DiscountCents = cap
	}
	q.FinalCents = total - q.DiscountCents
	if q.FinalCents < 0 {
		q.FinalCents = 0
	}
	q.PointsEarned = uint32(q.FinalCents / EarnDivisorCents)
	return q
}
