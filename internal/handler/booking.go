package handler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinehall/movie-booking/internal/booking"
	"github.com/cinehall/movie-booking/internal/cache"
	"github.com/cinehall/movie-booking/internal/model"
	"github.com/cinehall/movie-booking/internal/pricing"
	"github.com/cinehall/movie-booking/internal/queue"
	"github.com/cinehall/movie-booking/internal/refund"
	"github.com/cinehall/movie-booking/internal/repository"
	queuepub "github.com/cinehall/movie-booking/internal/service"
	"github.com/cinehall/movie-booking/internal/wallet"
)

// BookingHandler serves the customer booking lifecycle: create, list,
// inspect, pay and cancel. All methods assume JWT authentication and
// role checks happened in middleware. Mutations run inside a single
// database transaction owned by the handler; seat map cache
// invalidation and event publishing happen only after a successful
// commit.
type BookingHandler struct {
	Bookings    *repository.BookingRepo
	Screenings  *repository.ScreeningRepo
	Seats       *repository.SeatRepo
	Movies      *repository.MovieRepo
	Halls       *repository.HallRepo
	Concessions *repository.ConcessionRepo
	Users       *repository.UserRepo
	Wallets     *repository.WalletRepo
	SeatCache   *cache.SeatMapCache
	Publisher   *queuepub.Publisher
}

type concessionLine struct {
	ConcessionID uint64 `json:"concession_id"`
	Quantity     uint32 `json:"quantity"`
}

type createBookingReq struct {
	ScreeningID uint64           `json:"screening_id"`
	SeatIDs     []uint64         `json:"seat_ids"`
	Concessions []concessionLine `json:"concessions"`
	PointsUsed  uint32           `json:"points_used"`
}

// Create handles POST /v1/bookings. It prices the requested seats and
// concessions, deducts spent loyalty points and claims the seats, all
// in one transaction. The UNIQUE(screening_id, seat_id) key on
// booking_seats is the final arbiter under concurrency: when two
// requests race for a seat, one insert fails, the whole transaction
// rolls back and the client gets 409 with the list of taken seats.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.ScreeningID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "screening_id is required"})
	}
	seatIDs := booking.Dedupe(req.SeatIDs)
	if len(seatIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_ids is required"})
	}

	ctx := c.Request().Context()
	screening, err := h.Screenings.GetByID(ctx, req.ScreeningID)
	if err != nil {
		if errors.Is(err, repository.ErrScreeningNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "screening not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !screening.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "screening not found"})
	}
	if !screening.StartsAt.After(time.Now().UTC()) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "screening already started"})
	}

	seats, err := h.Seats.GetByIDs(ctx, seatIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if len(seats) != len(seatIDs) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown seat in request"})
	}
	for _, s := range seats {
		if s.HallID != screening.HallID || !s.IsActive {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": fmt.Sprintf("seat %d does not belong to this screening", s.ID)})
		}
	}

	selections := make([]pricing.Selection, 0, len(req.Concessions))
	for _, line := range req.Concessions {
		selections = append(selections, pricing.Selection{ConcessionID: line.ConcessionID, Quantity: line.Quantity})
	}
	catalog, err := h.Concessions.Catalog(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	quote := pricing.Compute(screening.BasePriceCents, seats, selections, catalog, req.PointsUsed)

	b := &model.Booking{
		UserID:           userID,
		ScreeningID:      screening.ID,
		Status:           model.BookingPending,
		PaymentStatus:    model.PaymentPending,
		TotalAmountCents: quote.SeatTotalCents + quote.ConcessionTotalCents,
		DiscountCents:    quote.DiscountCents,
		FinalAmountCents: quote.FinalCents,
		PointsEarned:     quote.PointsEarned,
		PointsUsed:       req.PointsUsed,
	}

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Users.DeductPointsTx(ctx, tx, userID, req.PointsUsed); err != nil {
		if errors.Is(err, repository.ErrInsufficientPoints) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "insufficient loyalty points"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to spend points"})
	}
	if err := h.Bookings.CreateTx(ctx, tx, b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
	}

	bookingSeats := make([]model.BookingSeat, 0, len(seats))
	for _, s := range seats {
		bookingSeats = append(bookingSeats, model.BookingSeat{
			BookingID:   b.ID,
			ScreeningID: screening.ID,
			SeatID:      s.ID,
			PriceCents:  pricing.SeatPrice(screening.BasePriceCents, s.SeatType),
		})
	}
	if err := h.Bookings.CreateSeatsBulkTx(ctx, tx, bookingSeats); err != nil {
		if errors.Is(err, repository.ErrSeatTaken) {
			_ = tx.Rollback()
			return h.seatConflict(c, screening.ID, seatIDs)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to claim seats"})
	}

	items := make([]model.BookingConcession, 0, len(selections))
	for _, sel := range selections {
		cat, ok := catalog[sel.ConcessionID]
		if !ok || !cat.IsAvailable || sel.Quantity == 0 {
			continue
		}
		items = append(items, model.BookingConcession{
			BookingID:      b.ID,
			ConcessionID:   sel.ConcessionID,
			Quantity:       sel.Quantity,
			UnitPriceCents: cat.PriceCents,
		})
	}
	if err := h.Bookings.CreateConcessionsBulkTx(ctx, tx, items); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to add concessions"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	h.SeatCache.Invalidate(ctx, screening.ID)
	h.publishCreated(b, screening, seats)

	// Points are earned at creation. The credit sits outside the booking
	// transaction; if it fails, a reconcile event replays it and the
	// booking still stands.
	if b.PointsEarned > 0 {
		if err := h.Users.AddPoints(ctx, userID, b.PointsEarned); err != nil {
			log.Printf("booking %d: point credit failed, queueing reconcile: %v", b.ID, err)
			if h.Publisher != nil {
				_ = h.Publisher.PointsReconcile(ctx, queue.PointsReconcileEvent{
					UserID:    userID,
					BookingID: b.ID,
					Points:    b.PointsEarned,
				})
			}
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"booking_id":         b.ID,
		"status":             b.Status,
		"payment_status":     b.PaymentStatus,
		"total_amount_cents": b.TotalAmountCents,
		"discount_cents":     b.DiscountCents,
		"final_amount_cents": b.FinalAmountCents,
		"points_earned":      b.PointsEarned,
		"points_used":        b.PointsUsed,
	})
}

// seatConflict re-reads current occupancy to report exactly which of
// the requested seats are taken.
func (h *BookingHandler) seatConflict(c echo.Context, screeningID uint64, requested []uint64) error {
	taken, err := h.Bookings.ActiveSeatIDs(c.Request().Context(), screeningID)
	if err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "some seats are unavailable"})
	}
	_, conflicted := booking.Partition(requested, taken)
	return c.JSON(http.StatusConflict, echo.Map{
		"error":       "some seats are unavailable",
		"unavailable": conflicted,
	})
}

// List handles GET /v1/bookings.
func (h *BookingHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.Bookings.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// Get handles GET /v1/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	detail, err := h.Bookings.GetDetailForUser(c.Request().Context(), id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": detail})
}

type payReq struct {
	Method string `json:"method"`
}

// Pay handles POST /v1/bookings/:id/pay. Payment is debited from the
// wallet; the wallet row lock serializes concurrent payments by the
// same user. On success the payment axis moves to PAID, which also
// confirms a pending booking. An insufficient balance marks the
// payment FAILED and is retryable.
func (h *BookingHandler) Pay(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req payReq
	_ = c.Bind(&req)
	method := "WALLET"
	if req.Method != "" && req.Method != "WALLET" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unsupported payment method"})
	}

	ctx := c.Request().Context()
	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, startsAt, err := h.Bookings.GetForUpdateTx(ctx, tx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
	}
	if !b.IsActive() {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not payable"})
	}
	if !startsAt.After(time.Now().UTC()) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "screening already started"})
	}

	balance, err := h.Wallets.BalanceForUpdateTx(ctx, tx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load wallet"})
	}

	if b.FinalAmountCents > 0 && balance < b.FinalAmountCents {
		// record the failed attempt; FAILED -> PAID stays open for retry
		if applyErr := b.ApplyPaymentStatus(model.PaymentFailed, nil); applyErr == nil {
			if err := h.Bookings.UpdateStateTx(ctx, tx, b); err == nil {
				if err := tx.Commit(); err == nil {
					committed = true
				}
			}
		}
		return c.JSON(http.StatusPaymentRequired, echo.Map{"error": "insufficient wallet balance"})
	}

	if b.FinalAmountCents > 0 {
		entry, err := wallet.Entry(userID, &b.ID, model.TxnPayment, balance, b.FinalAmountCents,
			fmt.Sprintf("payment for booking %d", b.ID))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment failed"})
		}
		if err := h.Wallets.AppendTx(ctx, tx, &entry); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment failed"})
		}
	}

	if err := b.ApplyPaymentStatus(model.PaymentPaid, &method); err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	if err := h.Bookings.UpdateStateTx(ctx, tx, b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	return c.JSON(http.StatusOK, echo.Map{
		"booking_id":     b.ID,
		"status":         b.Status,
		"payment_status": b.PaymentStatus,
		"charged_cents":  b.FinalAmountCents,
	})
}

// Cancel handles DELETE /v1/bookings/:id. Cancellation frees the
// seats by deleting the booking_seats rows and, for paid bookings,
// credits the tiered refund back to the wallet. Spent loyalty points
// are always returned.
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx := c.Request().Context()
	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, startsAt, err := h.Bookings.GetForUpdateTx(ctx, tx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
	}
	if !b.CanCancel() {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking cannot be cancelled"})
	}
	now := time.Now().UTC()
	if !startsAt.After(now) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "screening already started"})
	}

	refundCents, refundPct := refund.Compute(now, startsAt, b.FinalAmountCents)

	if b.PaymentStatus == model.PaymentPaid {
		if refundCents > 0 {
			balance, err := h.Wallets.BalanceForUpdateTx(ctx, tx, userID)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load wallet"})
			}
			entry, err := wallet.Entry(userID, &b.ID, model.TxnRefund, balance, refundCents,
				fmt.Sprintf("refund %d%% for booking %d", refundPct, b.ID))
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refund failed"})
			}
			if err := h.Wallets.AppendTx(ctx, tx, &entry); err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refund failed"})
			}
		}
		if err := b.ApplyPaymentStatus(model.PaymentRefunded, nil); err != nil {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
	} else {
		refundCents, refundPct = 0, 0
	}

	if err := h.Users.AddPointsTx(ctx, tx, userID, b.PointsUsed); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to return points"})
	}

	b.Status = model.BookingCancelled
	if err := h.Bookings.UpdateStateTx(ctx, tx, b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking"})
	}
	if err := h.Bookings.DeleteSeatsTx(ctx, tx, b.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to free seats"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	h.SeatCache.Invalidate(ctx, b.ScreeningID)
	if h.Publisher != nil {
		_ = h.Publisher.BookingCancelled(ctx, queue.BookingCancelledEvent{
			BookingID:        b.ID,
			UserID:           userID,
			ScreeningID:      b.ScreeningID,
			RefundCents:      refundCents,
			RefundPercent:    refundPct,
			FinalAmountCents: b.FinalAmountCents,
			CancelledAt:      now.Format(time.RFC3339),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"booking_id":     b.ID,
		"status":         b.Status,
		"payment_status": b.PaymentStatus,
		"refund_cents":   refundCents,
		"refund_percent": refundPct,
	})
}

// publishCreated emits the booking.created audit event. Failures are
// logged inside the publisher and ignored here.
func (h *BookingHandler) publishCreated(b *model.Booking, screening *model.Screening, seats []model.Seat) {
	if h.Publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	labels := make([]string, 0, len(seats))
	for _, s := range seats {
		labels = append(labels, fmt.Sprintf("%s%d", s.RowLabel, s.SeatNumber))
	}
	title, hallName := "", ""
	if m, err := h.Movies.GetByID(ctx, screening.MovieID); err == nil {
		title = m.Title
	}
	if hall, err := h.Halls.GetByID(ctx, screening.HallID); err == nil {
		hallName = hall.Name
	}
	_ = h.Publisher.BookingCreated(ctx, queue.BookingCreatedEvent{
		BookingID:        b.ID,
		UserID:           b.UserID,
		ScreeningID:      screening.ID,
		MovieTitle:       title,
		HallName:         hallName,
		StartsAt:         screening.StartsAt.Format(time.RFC3339),
		SeatLabels:       labels,
		TotalAmountCents: b.TotalAmountCents,
		FinalAmountCents: b.FinalAmountCents,
		PointsUsed:       b.PointsUsed,
		CreatedAt:        b.CreatedAt.Format(time.RFC3339),
	})
}
