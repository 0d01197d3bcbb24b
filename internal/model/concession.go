package model

import "time"

// Concession is a snack or drink that can be added to a booking.
// Selections referencing concessions that are unknown or currently
// unavailable are silently dropped from the order rather than
// rejected; only available items contribute to the total.
type Concession struct {
	ID          uint64    // concessions.id
	Name        string    // concessions.name
	PriceCents  int64     // concessions.price_cents
	IsAvailable bool      // concessions.is_available
	CreatedAt   time.Time // concessions.created_at
	UpdatedAt   time.Time // concessions.updated_at
}
