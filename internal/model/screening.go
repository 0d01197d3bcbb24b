package model

import "time"

// Screening is a scheduled showing of a movie in a particular hall.
// Every seat sold for a screening is priced from BasePriceCents and
// the seat's type multiplier at booking time; the computed price is
// snapshotted on the booking_seats row and never recomputed.
//
// Fields:
//  ID             - primary key identifier.
//  MovieID        - movie being shown.
//  HallID         - hall where the screening takes place.
//  StartsAt       - when the screening begins (UTC).
//  BasePriceCents - base ticket price in cents for a STANDARD seat.
//  IsActive       - whether the screening is open for booking.
//  CreatedAt      - creation timestamp.
//  UpdatedAt      - last update timestamp.
type Screening struct {
	ID             uint64    // screenings.id
	MovieID        uint64    // screenings.movie_id
	HallID         uint64    // screenings.hall_id
	StartsAt       time.Time // screenings.starts_at
	BasePriceCents int64     // screenings.base_price_cents
	IsActive       bool      // screenings.is_active
	CreatedAt      time.Time // screenings.created_at
	UpdatedAt      time.Time // screenings.updated_at
}
