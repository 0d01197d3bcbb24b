package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/cinehall/movie-booking/internal/model"
)

// ErrSeatNotFound is returned when a seat lookup yields no rows.
var ErrSeatNotFound = errors.New("seat not found")

// SeatRepo provides methods to work with seats in the database.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// CreateBulk inserts multiple seats in a single statement.
func (r *SeatRepo) CreateBulk(ctx context.Context, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (hall_id, row_label, seat_number, seat_type) VALUES `
	args := make([]interface{}, 0, len(seats)*4)
	for i, seat := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, seat.HallID, seat.RowLabel, seat.SeatNumber, seat.SeatType)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// GetByHall retrieves all seats of a hall ordered by row_label then seat_number.
func (r *SeatRepo) GetByHall(ctx context.Context, hallID uint64) ([]model.Seat, error) {
	const q = `SELECT id, hall_id, row_label, seat_number, seat_type, is_active, created_at, updated_at
	           FROM seats
	           WHERE hall_id = ?
	           ORDER BY row_label, seat_number`
	rows, err := r.db.QueryContext(ctx, q, hallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Seat
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(
			&s.ID, &s.HallID, &s.RowLabel, &s.SeatNumber, &s.SeatType,
			&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByIDs fetches the given seats in one query. The result may be
// shorter than ids when some seats do not exist; the caller decides
// whether that is an error.
func (r *SeatRepo) GetByIDs(ctx context.Context, ids []uint64) ([]model.Seat, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := make([]string, 0, len(ids))
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	q := `SELECT id, hall_id, row_label, seat_number, seat_type, is_active, created_at, updated_at
	      FROM seats WHERE id IN (` + strings.Join(placeholders, ",") + `)`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Seat
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(
			&s.ID, &s.HallID, &s.RowLabel, &s.SeatNumber, &s.SeatType,
			&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SeatStatus is a seat annotated with its occupancy for one screening.
// Status is FREE when no active booking holds the seat, otherwise the
// holding booking's status (PENDING or CONFIRMED).
type SeatStatus struct {
	SeatID     uint64 `json:"seat_id"`
	RowLabel   string `json:"row_label"`
	SeatNumber uint32 `json:"seat_number"`
	SeatType   string `json:"seat_type"`
	IsBooked   bool   `json:"is_booked"`
	Status     string `json:"status"`
}

// ListWithStatus returns every active seat of the screening's hall
// annotated with whether an active booking currently holds it.
// Occupancy is derived purely from booking_seats rows joined to
// PENDING/CONFIRMED bookings; there is no per-seat flag to go stale.
func (r *SeatRepo) ListWithStatus(ctx context.Context, hallID, screeningID uint64) ([]SeatStatus, error) {
	const q = `SELECT s.id, s.row_label, s.seat_number, s.seat_type, b.status
	           FROM seats s
	           LEFT JOIN booking_seats bs ON bs.seat_id = s.id AND bs.screening_id = ?
	           LEFT JOIN bookings b ON b.id = bs.booking_id AND b.status IN ('PENDING','CONFIRMED')
	           WHERE s.hall_id = ? AND s.is_active = 1
	           ORDER BY s.row_label, s.seat_number`
	rows, err := r.db.QueryContext(ctx, q, screeningID, hallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SeatStatus
	for rows.Next() {
		var st SeatStatus
		var bookingStatus sql.NullString
		if err := rows.Scan(&st.SeatID, &st.RowLabel, &st.SeatNumber, &st.SeatType, &bookingStatus); err != nil {
			return nil, err
		}
		if bookingStatus.Valid {
			st.IsBooked = true
			st.Status = bookingStatus.String
		} else {
			st.Status = "FREE"
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
