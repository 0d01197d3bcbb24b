package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinehall/movie-booking/internal/cache"
	"github.com/cinehall/movie-booking/internal/model"
	"github.com/cinehall/movie-booking/internal/repository"
)

// AdminHandler serves catalog management and booking state overrides.
// All routes are guarded by the ADMIN role in middleware.
type AdminHandler struct {
	Movies      *repository.MovieRepo
	Halls       *repository.HallRepo
	Seats       *repository.SeatRepo
	Screenings  *repository.ScreeningRepo
	Concessions *repository.ConcessionRepo
	Bookings    *repository.BookingRepo
	SeatCache   *cache.SeatMapCache
}

type createMovieReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DurationMin uint32 `json:"duration_min"`
}

// CreateMovie handles POST /v1/admin/movies.
func (h *AdminHandler) CreateMovie(c echo.Context) error {
	var req createMovieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.DurationMin == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and duration_min are required"})
	}
	m := &model.Movie{Title: req.Title, Description: req.Description, DurationMin: req.DurationMin, IsActive: true}
	if err := h.Movies.Create(c.Request().Context(), m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create movie"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": m.ID})
}

type updateMovieReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DurationMin *uint32 `json:"duration_min"`
	IsActive    *bool   `json:"is_active"`
}

// UpdateMovie handles PATCH /v1/admin/movies/:id. Absent fields keep
// their current values.
func (h *AdminHandler) UpdateMovie(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	var req updateMovieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()
	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if req.Title != nil {
		m.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.DurationMin != nil {
		m.DurationMin = *req.DurationMin
	}
	if req.IsActive != nil {
		m.IsActive = *req.IsActive
	}
	if err := h.Movies.Update(ctx, m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update movie"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": m.ID})
}

type createHallReq struct {
	Name       string   `json:"name"`
	SeatRows   uint32   `json:"seat_rows"`
	SeatCols   uint32   `json:"seat_cols"`
	VIPRows    []uint32 `json:"vip_rows"`    // 1-based row numbers
	CoupleRows []uint32 `json:"couple_rows"` // 1-based row numbers
}

// CreateHall handles POST /v1/admin/halls. The hall's seat grid is
// generated in the same request: every row/column position gets a
// seat, STANDARD unless its row is listed in vip_rows or couple_rows.
func (h *AdminHandler) CreateHall(c echo.Context) error {
	var req createHallReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.SeatRows == 0 || req.SeatCols == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, seat_rows and seat_cols are required"})
	}
	if req.SeatRows > 100 || req.SeatCols > 100 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hall dimensions too large"})
	}

	rowType := make(map[uint32]string)
	for _, r := range req.VIPRows {
		rowType[r] = model.SeatTypeVIP
	}
	for _, r := range req.CoupleRows {
		rowType[r] = model.SeatTypeCouple
	}

	ctx := c.Request().Context()
	hall := &model.Hall{Name: req.Name, SeatRows: req.SeatRows, SeatCols: req.SeatCols, IsActive: true}
	if err := h.Halls.Create(ctx, hall); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create hall"})
	}

	seats := make([]model.Seat, 0, int(req.SeatRows)*int(req.SeatCols))
	for row := uint32(0); row < req.SeatRows; row++ {
		seatType, ok := rowType[row+1]
		if !ok {
			seatType = model.SeatTypeStandard
		}
		for col := uint32(1); col <= req.SeatCols; col++ {
			seats = append(seats, model.Seat{
				HallID:     hall.ID,
				RowLabel:   rowLabel(int(row)),
				SeatNumber: col,
				SeatType:   seatType,
				IsActive:   true,
			})
		}
	}
	if err := h.Seats.CreateBulk(ctx, seats); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create seats"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": hall.ID, "seats_created": len(seats)})
}

// ListHalls handles GET /v1/admin/halls.
func (h *AdminHandler) ListHalls(c echo.Context) error {
	halls, err := h.Halls.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load halls"})
	}
	items := make([]echo.Map, 0, len(halls))
	for _, hall := range halls {
		items = append(items, echo.Map{
			"id": hall.ID, "name": hall.Name,
			"seat_rows": hall.SeatRows, "seat_cols": hall.SeatCols,
			"is_active": hall.IsActive,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

type createScreeningReq struct {
	MovieID        uint64    `json:"movie_id"`
	HallID         uint64    `json:"hall_id"`
	StartsAt       time.Time `json:"starts_at"`
	BasePriceCents int64     `json:"base_price_cents"`
}

// CreateScreening handles POST /v1/admin/screenings.
func (h *AdminHandler) CreateScreening(c echo.Context) error {
	var req createScreeningReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.MovieID == 0 || req.HallID == 0 || req.BasePriceCents <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id, hall_id and base_price_cents are required"})
	}
	if !req.StartsAt.After(time.Now().UTC()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be in the future"})
	}
	ctx := c.Request().Context()
	if _, err := h.Movies.GetByID(ctx, req.MovieID); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if _, err := h.Halls.GetByID(ctx, req.HallID); err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	s := &model.Screening{
		MovieID:        req.MovieID,
		HallID:         req.HallID,
		StartsAt:       req.StartsAt.UTC(),
		BasePriceCents: req.BasePriceCents,
		IsActive:       true,
	}
	if err := h.Screenings.Create(ctx, s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create screening"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": s.ID})
}

type updateScreeningReq struct {
	IsActive *bool `json:"is_active"`
}

// UpdateScreening handles PATCH /v1/admin/screenings/:id. Today the
// only mutable field is is_active; deactivating hides the screening
// from browse and blocks new bookings without touching existing ones.
func (h *AdminHandler) UpdateScreening(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid screening id"})
	}
	var req updateScreeningReq
	if err := c.Bind(&req); err != nil || req.IsActive == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "is_active is required"})
	}
	ctx := c.Request().Context()
	if err := h.Screenings.SetActive(ctx, id, *req.IsActive); err != nil {
		if errors.Is(err, repository.ErrScreeningNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "screening not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update screening"})
	}
	h.SeatCache.Invalidate(ctx, id)
	return c.JSON(http.StatusOK, echo.Map{"id": id, "is_active": *req.IsActive})
}

type createConcessionReq struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

// CreateConcession handles POST /v1/admin/concessions.
func (h *AdminHandler) CreateConcession(c echo.Context) error {
	var req createConcessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.PriceCents <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and price_cents are required"})
	}
	item := &model.Concession{Name: req.Name, PriceCents: req.PriceCents, IsAvailable: true}
	if err := h.Concessions.Create(c.Request().Context(), item); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create concession"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": item.ID})
}

type updateConcessionReq struct {
	Name        *string `json:"name"`
	PriceCents  *int64  `json:"price_cents"`
	IsAvailable *bool   `json:"is_available"`
}

// UpdateConcession handles PATCH /v1/admin/concessions/:id.
func (h *AdminHandler) UpdateConcession(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid concession id"})
	}
	var req updateConcessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()
	item, err := h.Concessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrConcessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "concession not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if req.Name != nil {
		item.Name = strings.TrimSpace(*req.Name)
	}
	if req.PriceCents != nil {
		item.PriceCents = *req.PriceCents
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if err := h.Concessions.Update(ctx, item); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update concession"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": item.ID})
}

type bookingStatusReq struct {
	Status string `json:"status"`
}

// UpdateBookingStatus handles PATCH /v1/admin/bookings/:id/status.
// Transitions are validated against the booking state machine; moving
// to CANCELLED also frees the seats, the same as a customer
// cancellation, but without any refund.
func (h *AdminHandler) UpdateBookingStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req bookingStatusReq
	if err := c.Bind(&req); err != nil || !model.ValidBookingStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid status is required"})
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

	b, _, err := h.Bookings.GetForUpdateTx(ctx, tx, id, 0)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
	}
	if !model.ValidStatusTransition(b.Status, req.Status) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "invalid status transition from " + b.Status + " to " + req.Status,
		})
	}
	b.Status = req.Status
	if err := h.Bookings.UpdateStateTx(ctx, tx, b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking"})
	}
	if req.Status == model.BookingCancelled {
		if err := h.Bookings.DeleteSeatsTx(ctx, tx, b.ID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to free seats"})
		}
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	if req.Status == model.BookingCancelled {
		h.SeatCache.Invalidate(ctx, b.ScreeningID)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": b.ID, "status": b.Status})
}

type bookingPaymentReq struct {
	PaymentStatus string  `json:"payment_status"`
	Method        *string `json:"method"`
}

// UpdateBookingPayment handles PATCH /v1/admin/bookings/:id/payment.
// The payment state machine is enforced, including the side effect of
// PAID confirming a pending booking. No money moves here: refunds
// issued through this endpoint are settled outside the wallet.
func (h *AdminHandler) UpdateBookingPayment(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req bookingPaymentReq
	if err := c.Bind(&req); err != nil || !model.ValidPaymentStatus(req.PaymentStatus) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid payment_status is required"})
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

	b, _, err := h.Bookings.GetForUpdateTx(ctx, tx, id, 0)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
	}
	if err := b.ApplyPaymentStatus(req.PaymentStatus, req.Method); err != nil {
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
		"id":             b.ID,
		"status":         b.Status,
		"payment_status": b.PaymentStatus,
	})
}
