package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/cinehall/movie-booking/internal/model"
)

// ErrBookingNotFound is returned when a booking lookup yields no rows
// or the booking belongs to a different user.
var ErrBookingNotFound = errors.New("booking not found")

// mysqlDupEntry is the MySQL error number raised when an insert
// violates a unique key.
const mysqlDupEntry = 1062

// BookingRepo provides CRUD operations for bookings and their seat
// and concession links. Seats booked under a booking live in the
// booking_seats table; that table's UNIQUE(screening_id, seat_id) key
// is what makes double-booking impossible even across service
// instances. All timestamp fields are stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so the service layer can open
// transactions spanning bookings, seats and wallet rows.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a new booking within the scope of an existing
// transaction and populates the generated ID and timestamps on the
// provided record. The caller must commit or roll back.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings
	           (user_id, screening_id, status, payment_status, total_amount_cents, discount_cents, final_amount_cents, points_earned, points_used)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		b.UserID, b.ScreeningID, b.Status, b.PaymentStatus,
		b.TotalAmountCents, b.DiscountCents, b.FinalAmountCents, b.PointsEarned, b.PointsUsed,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	const sel = `SELECT created_at, updated_at FROM bookings WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt)
}

// CreateSeatsBulkTx inserts the booking's seat links in one statement.
// When the insert hits the UNIQUE(screening_id, seat_id) key it
// returns ErrSeatTaken: another active booking claimed at least one of
// the seats first. The caller must roll the whole transaction back so
// no orphan booking row survives to mask availability.
func (r *BookingRepo) CreateSeatsBulkTx(ctx context.Context, tx *sql.Tx, seats []model.BookingSeat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO booking_seats (booking_id, screening_id, seat_id, price_cents) VALUES `
	args := make([]interface{}, 0, len(seats)*4)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, s.BookingID, s.ScreeningID, s.SeatID, s.PriceCents)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDupEntry {
			return ErrSeatTaken
		}
		return err
	}
	return nil
}

// CreateConcessionsBulkTx inserts booking_concessions rows in one
// statement. Passing an empty slice has no effect and returns nil.
func (r *BookingRepo) CreateConcessionsBulkTx(ctx context.Context, tx *sql.Tx, items []model.BookingConcession) error {
	if len(items) == 0 {
		return nil
	}
	query := `INSERT INTO booking_concessions (booking_id, concession_id, quantity, unit_price_cents) VALUES `
	args := make([]interface{}, 0, len(items)*4)
	for i, it := range items {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, it.BookingID, it.ConcessionID, it.Quantity, it.UnitPriceCents)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// ActiveSeatIDs returns the set of seats currently held for a
// screening by any PENDING or CONFIRMED booking.
func (r *BookingRepo) ActiveSeatIDs(ctx context.Context, screeningID uint64) (map[uint64]struct{}, error) {
	const q = `SELECT bs.seat_id
	           FROM booking_seats bs
	           JOIN bookings b ON b.id = bs.booking_id
	           WHERE bs.screening_id = ? AND b.status IN ('PENDING','CONFIRMED')`
	rows, err := r.db.QueryContext(ctx, q, screeningID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	taken := make(map[uint64]struct{})
	for rows.Next() {
		var sid uint64
		if err := rows.Scan(&sid); err != nil {
			return nil, err
		}
		taken[sid] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return taken, nil
}

// GetByID retrieves a booking by its primary key without ownership
// checks. Used by admin paths.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	return r.get(ctx, r.db.QueryRowContext, id, 0)
}

// GetByIDForUser retrieves a booking scoped to its owner. A booking
// owned by someone else is reported as not found rather than
// forbidden so booking IDs are not probeable.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, id, userID uint64) (*model.Booking, error) {
	return r.get(ctx, r.db.QueryRowContext, id, userID)
}

type rowQuerier func(ctx context.Context, query string, args ...interface{}) *sql.Row

func (r *BookingRepo) get(ctx context.Context, queryRow rowQuerier, id, userID uint64) (*model.Booking, error) {
	q := `SELECT id, user_id, screening_id, status, payment_status, payment_method,
	             total_amount_cents, discount_cents, final_amount_cents, points_earned, points_used,
	             created_at, updated_at
	      FROM bookings WHERE id = ?`
	args := []interface{}{id}
	if userID != 0 {
		q += ` AND user_id = ?`
		args = append(args, userID)
	}
	var b model.Booking
	var method sql.NullString
	err := queryRow(ctx, q, args...).Scan(
		&b.ID, &b.UserID, &b.ScreeningID, &b.Status, &b.PaymentStatus, &method,
		&b.TotalAmountCents, &b.DiscountCents, &b.FinalAmountCents, &b.PointsEarned, &b.PointsUsed,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if method.Valid {
		m := method.String
		b.PaymentMethod = &m
	}
	return &b, nil
}

// GetForUpdateTx loads a booking together with its screening's start
// time, locking the booking row for the remainder of the transaction.
// When userID is non-zero the lookup is scoped to that owner. Returns
// ErrBookingNotFound when absent or owned by someone else.
func (r *BookingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id, userID uint64) (*model.Booking, time.Time, error) {
	q := `SELECT b.id, b.user_id, b.screening_id, b.status, b.payment_status, b.payment_method,
	             b.total_amount_cents, b.discount_cents, b.final_amount_cents, b.points_earned, b.points_used,
	             b.created_at, b.updated_at, s.starts_at
	      FROM bookings b
	      JOIN screenings s ON s.id = b.screening_id
	      WHERE b.id = ?`
	args := []interface{}{id}
	if userID != 0 {
		q += ` AND b.user_id = ?`
		args = append(args, userID)
	}
	q += ` FOR UPDATE`

	var b model.Booking
	var method sql.NullString
	var startsAt time.Time
	err := tx.QueryRowContext(ctx, q, args...).Scan(
		&b.ID, &b.UserID, &b.ScreeningID, &b.Status, &b.PaymentStatus, &method,
		&b.TotalAmountCents, &b.DiscountCents, &b.FinalAmountCents, &b.PointsEarned, &b.PointsUsed,
		&b.CreatedAt, &b.UpdatedAt, &startsAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, time.Time{}, ErrBookingNotFound
		}
		return nil, time.Time{}, err
	}
	if method.Valid {
		m := method.String
		b.PaymentMethod = &m
	}
	return &b, startsAt.UTC(), nil
}

// DeleteSeatsTx removes all booking_seats rows for the booking. This
// is what frees the seats for future availability checks: occupancy
// is derived from these rows, there is no separate flag to reset.
func (r *BookingRepo) DeleteSeatsTx(ctx context.Context, tx *sql.Tx, bookingID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM booking_seats WHERE booking_id = ?`, bookingID)
	return err
}

// UpdateStateTx persists both lifecycle axes and the payment method
// in one statement. The service layer validates transitions before
// calling; this method only writes.
func (r *BookingRepo) UpdateStateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `UPDATE bookings
	           SET status = ?, payment_status = ?, payment_method = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, b.Status, b.PaymentStatus, b.PaymentMethod, b.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// BookingDetail is a booking joined with screening, movie and hall
// information plus its seats, shaped for display to customers.
type BookingDetail struct {
	ID               uint64     `json:"id"`
	ScreeningID      uint64     `json:"screening_id"`
	MovieTitle       string     `json:"movie_title"`
	HallName         string     `json:"hall_name"`
	StartsAt         time.Time  `json:"starts_at"`
	Status           string     `json:"status"`
	PaymentStatus    string     `json:"payment_status"`
	TotalAmountCents int64      `json:"total_amount_cents"`
	DiscountCents    int64      `json:"discount_cents"`
	FinalAmountCents int64      `json:"final_amount_cents"`
	PointsEarned     uint32     `json:"points_earned"`
	PointsUsed       uint32     `json:"points_used"`
	Seats            []SeatRef  `json:"seats"`
}

// SeatRef identifies one booked seat for display.
type SeatRef struct {
	SeatID     uint64 `json:"seat_id"`
	RowLabel   string `json:"row_label"`
	SeatNumber uint32 `json:"seat_number"`
	PriceCents int64  `json:"price_cents"`
}

// ListByUser returns all bookings for the given user along with
// screening, movie, hall and seat details, newest first. When no
// bookings exist, an empty slice is returned.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	const q = `SELECT b.id, b.screening_id, m.title, h.name, s.starts_at,
	                  b.status, b.payment_status,
	                  b.total_amount_cents, b.discount_cents, b.final_amount_cents,
	                  b.points_earned, b.points_used
	           FROM bookings b
	           JOIN screenings s ON s.id = b.screening_id
	           JOIN movies m ON m.id = s.movie_id
	           JOIN halls h ON h.id = s.hall_id
	           WHERE b.user_id = ?
	           ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]BookingDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var d BookingDetail
		if err := rows.Scan(
			&d.ID, &d.ScreeningID, &d.MovieTitle, &d.HallName, &d.StartsAt,
			&d.Status, &d.PaymentStatus,
			&d.TotalAmountCents, &d.DiscountCents, &d.FinalAmountCents,
			&d.PointsEarned, &d.PointsUsed,
		); err != nil {
			return nil, err
		}
		d.StartsAt = d.StartsAt.UTC()
		d.Seats = []SeatRef{}
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}
	if err := r.fillSeats(ctx, details, index); err != nil {
		return nil, err
	}
	return details, nil
}

// GetDetailForUser returns a single booking with seat details for the
// given owner. Returns ErrBookingNotFound when absent or not owned.
func (r *BookingRepo) GetDetailForUser(ctx context.Context, id, userID uint64) (*BookingDetail, error) {
	const q = `SELECT b.id, b.screening_id, m.title, h.name, s.starts_at,
	                  b.status, b.payment_status,
	                  b.total_amount_cents, b.discount_cents, b.final_amount_cents,
	                  b.points_earned, b.points_used
	           FROM bookings b
	           JOIN screenings s ON s.id = b.screening_id
	           JOIN movies m ON m.id = s.movie_id
	           JOIN halls h ON h.id = s.hall_id
	           WHERE b.id = ? AND b.user_id = ?`
	var d BookingDetail
	err := r.db.QueryRowContext(ctx, q, id, userID).Scan(
		&d.ID, &d.ScreeningID, &d.MovieTitle, &d.HallName, &d.StartsAt,
		&d.Status, &d.PaymentStatus,
		&d.TotalAmountCents, &d.DiscountCents, &d.FinalAmountCents,
		&d.PointsEarned, &d.PointsUsed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	d.StartsAt = d.StartsAt.UTC()
	d.Seats = []SeatRef{}
	details := []BookingDetail{d}
	if err := r.fillSeats(ctx, details, map[uint64]int{d.ID: 0}); err != nil {
		return nil, err
	}
	return &details[0], nil
}

// fillSeats populates the Seats slices of the given details in a
// single query.
func (r *BookingRepo) fillSeats(ctx context.Context, details []BookingDetail, index map[uint64]int) error {
	ids := make([]interface{}, 0, len(details))
	placeholders := make([]string, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
		placeholders = append(placeholders, "?")
	}
	q := `SELECT bs.booking_id, bs.seat_id, se.row_label, se.seat_number, bs.price_cents
	      FROM booking_seats bs
	      JOIN seats se ON se.id = bs.seat_id
	      WHERE bs.booking_id IN (` + strings.Join(placeholders, ",") + `)
	      ORDER BY bs.booking_id, se.row_label, se.seat_number`
	rows, err := r.db.QueryContext(ctx, q, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var bid uint64
		var ref SeatRef
		if err := rows.Scan(&bid, &ref.SeatID, &ref.RowLabel, &ref.SeatNumber, &ref.PriceCents); err != nil {
			return err
		}
		if idx, ok := index[bid]; ok {
			details[idx].Seats = append(details[idx].Seats, ref)
		}
	}
	return rows.Err()
}
