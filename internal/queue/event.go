// Package queue defines message payloads exchanged over the message
// broker and the background consumer that processes them.
package queue

// Queue names. All queues are declared durable by both publisher and
// consumer so declaration order does not matter.
const (
	BookingCreatedQueue   = "booking.created"
	BookingCancelledQueue = "booking.cancelled"
	PointsReconcileQueue  = "points.reconcile"
)

// BookingCreatedEvent is published after a booking transaction
// commits. It carries enough detail for downstream consumers to log,
// notify or feed analytics without touching the primary database.
type BookingCreatedEvent struct {
	BookingID        uint64   `json:"booking_id"`
	UserID           uint64   `json:"user_id"`
	ScreeningID      uint64   `json:"screening_id"`
	MovieTitle       string   `json:"movie_title"`
	HallName         string   `json:"hall_name"`
	StartsAt         string   `json:"starts_at"`
	SeatLabels       []string `json:"seats"`
	TotalAmountCents int64    `json:"total_amount_cents"`
	FinalAmountCents int64    `json:"final_amount_cents"`
	PointsUsed       uint32   `json:"points_used"`
	CreatedAt        string   `json:"created_at"`
}

// BookingCancelledEvent is published after a cancellation commits.
type BookingCancelledEvent struct {
	BookingID        uint64 `json:"booking_id"`
	UserID           uint64 `json:"user_id"`
	ScreeningID      uint64 `json:"screening_id"`
	RefundCents      int64  `json:"refund_cents"`
	RefundPercent    int    `json:"refund_percent"`
	FinalAmountCents int64  `json:"final_amount_cents"`
	CancelledAt      string `json:"cancelled_at"`
}

// PointsReconcileEvent asks the consumer to credit loyalty points
// that could not be applied in the request path. Point earning is
// deliberately outside the booking transaction, so a crash between
// commit and credit is healed by replaying this event.
type PointsReconcileEvent struct {
	UserID    uint64 `json:"user_id"`
	BookingID uint64 `json:"booking_id"`
	Points    uint32 `json:"points"`
}
