package model

import (
	"fmt"
	"time"
)

// Booking status values. PENDING and CONFIRMED bookings count as
// "active": their seats are occupied for the screening. CANCELLED and
// COMPLETED are terminal.
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
	BookingCompleted = "COMPLETED"
)

// Payment status values. The payment axis moves independently of the
// booking status except for one coupling: setting PAID forces the
// booking status to CONFIRMED. That coupling is enforced in
// ApplyPaymentStatus and nowhere else.
const (
	PaymentPending  = "PENDING"
	PaymentPaid     = "PAID"
	PaymentFailed   = "FAILED"
	PaymentRefunded = "REFUNDED"
)

// Booking records a user's reservation of one or more seats for a
// screening, together with the priced amounts and loyalty-point
// bookkeeping frozen at creation time.
//
// Fields:
//  ID               - primary key identifier.
//  UserID           - user who made the booking.
//  ScreeningID      - screening being booked.
//  Status           - booking lifecycle state (see constants above).
//  PaymentStatus    - payment state, an independent axis.
//  PaymentMethod    - optional label recorded when payment is applied.
//  TotalAmountCents - seat total plus concession total before discount.
//  DiscountCents    - loyalty-point discount applied.
//  FinalAmountCents - amount actually charged (total minus discount).
//  PointsEarned     - loyalty points credited for this booking.
//  PointsUsed       - loyalty points consumed by this booking.
//  CreatedAt        - creation timestamp.
//  UpdatedAt        - last update timestamp.
type Booking struct {
	ID               uint64    // bookings.id
	UserID           uint64    // bookings.user_id
	ScreeningID      uint64    // bookings.screening_id
	Status           string    // bookings.status
	PaymentStatus    string    // bookings.payment_status
	PaymentMethod    *string   // bookings.payment_method (nullable)
	TotalAmountCents int64     // bookings.total_amount_cents
	DiscountCents    int64     // bookings.discount_cents
	FinalAmountCents int64     // bookings.final_amount_cents
	PointsEarned     uint32    // bookings.points_earned
	PointsUsed       uint32    // bookings.points_used
	CreatedAt        time.Time // bookings.created_at
	UpdatedAt        time.Time // bookings.updated_at
}

// BookingSeat links a booking to a single seat of a screening with the
// price charged at booking time. These rows are the sole source of
// truth for seat occupancy: a seat is taken for a screening iff a
// booking_seats row for it belongs to an active booking. The table
// carries a UNIQUE(screening_id, seat_id) key, so the database itself
// rejects a second active claim on the same seat.
type BookingSeat struct {
	ID          uint64    // booking_seats.id
	BookingID   uint64    // booking_seats.booking_id
	ScreeningID uint64    // booking_seats.screening_id
	SeatID      uint64    // booking_seats.seat_id
	PriceCents  int64     // booking_seats.price_cents
	CreatedAt   time.Time // booking_seats.created_at
}

// BookingConcession links a booking to a purchased concession item
// with the quantity and the unit price snapshotted at booking time.
type BookingConcession struct {
	ID             uint64 // booking_concessions.id
	BookingID      uint64 // booking_concessions.booking_id
	ConcessionID   uint64 // booking_concessions.concession_id
	Quantity       uint32 // booking_concessions.quantity
	UnitPriceCents int64  // booking_concessions.unit_price_cents
}

// IsActive reports whether the booking currently occupies its seats.
func (b *Booking) IsActive() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// CanCancel reports whether the booking may transition to CANCELLED.
// Cancellation is terminal and only allowed from an active state.
func (b *Booking) CanCancel() bool { return b.IsActive() }

// ValidStatusTransition reports whether a booking status change from
// one state to another is allowed. CANCELLED and COMPLETED are
// terminal. COMPLETED is only reachable from CONFIRMED.
func ValidStatusTransition(from, to string) bool {
	switch from {
	case BookingPending:
		return to == BookingConfirmed || to == BookingCancelled
	case BookingConfirmed:
		return to == BookingCancelled || to == BookingCompleted
	}
	return false
}

// ApplyPaymentStatus moves the payment axis to the given state,
// validating the transition and applying the single documented side
// effect: PAID confirms a pending booking. All call sites that touch
// payment_status go through here so the coupling cannot drift apart.
func (b *Booking) ApplyPaymentStatus(to string, method *string) error {
	allowed := false
	switch b.PaymentStatus {
	case PaymentPending:
		allowed = to == PaymentPaid || to == PaymentFailed
	case PaymentPaid:
		allowed = to == PaymentRefunded
	case PaymentFailed:
		// A failed payment may be retried.
		allowed = to == PaymentPaid
	}
	if !allowed {
		return fmt.Errorf("payment status cannot change from %s to %s", b.PaymentStatus, to)
	}
	b.PaymentStatus = to
	if method != nil {
		b.PaymentMethod = method
	}
	if to == PaymentPaid && b.Status == BookingPending {
		b.Status = BookingConfirmed
	}
	return nil
}

// ValidBookingStatus reports whether s is one of the known booking states.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is one of the known payment states.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}
