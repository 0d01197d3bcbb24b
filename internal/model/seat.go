package model

import "time"

// Seat types determine the price multiplier applied to a screening's
// base price.  STANDARD is ×1.00, VIP ×1.50 and COUPLE ×1.30.
const (
	SeatTypeStandard = "STANDARD"
	SeatTypeVIP      = "VIP"
	SeatTypeCouple   = "COUPLE"
)

// Seat describes a physical seat in a hall.  Seats are uniquely
// identified by their hall, row label and seat number.  A seat is
// reusable across screenings - whether it is booked is derived from
// booking_seats rows of active bookings, never stored on the seat.
//
// Fields:
//  ID         - primary key identifier.
//  HallID     - hall to which this seat belongs.
//  RowLabel   - letter or string designating the row.
//  SeatNumber - number of the seat within the row.
//  SeatType   - type of seat (STANDARD, VIP, COUPLE).
//  IsActive   - whether the seat is sellable at all.
//  CreatedAt  - creation timestamp.
//  UpdatedAt  - last update timestamp.
type Seat struct {
	ID         uint64    // seats.id
	HallID     uint64    // seats.hall_id
	RowLabel   string    // seats.row_label
	SeatNumber uint32    // seats.seat_number
	SeatType   string    // seats.seat_type
	IsActive   bool      // seats.is_active
	CreatedAt  time.Time // seats.created_at
	UpdatedAt  time.Time // seats.updated_at
}
