package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cinehall/movie-booking/internal/model"
)

// ErrScreeningNotFound is returned when a screening lookup yields no rows.
var ErrScreeningNotFound = errors.New("screening not found")

// ScreeningRepo provides access to the screenings table.
type ScreeningRepo struct {
	db *sql.DB
}

// NewScreeningRepo constructs a ScreeningRepo bound to the given database.
func NewScreeningRepo(db *sql.DB) *ScreeningRepo { return &ScreeningRepo{db: db} }

// Create inserts a screening and populates its generated ID plus
// DB-defaulted fields.
func (r *ScreeningRepo) Create(ctx context.Context, s *model.Screening) error {
	const qInsert = `INSERT INTO screenings (movie_id, hall_id, starts_at, base_price_cents)
	                 VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, s.MovieID, s.HallID, s.StartsAt.UTC(), s.BasePriceCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)

	const qSelect = `SELECT id, movie_id, hall_id, starts_at, base_price_cents, is_active, created_at, updated_at
	                 FROM screenings WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, s.ID).
		Scan(&s.ID, &s.MovieID, &s.HallID, &s.StartsAt, &s.BasePriceCents, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
}

// GetByID retrieves a screening by its primary key.
func (r *ScreeningRepo) GetByID(ctx context.Context, id uint64) (*model.Screening, error) {
	const q = `SELECT id, movie_id, hall_id, starts_at, base_price_cents, is_active, created_at, updated_at
	           FROM screenings WHERE id = ?`
	var s model.Screening
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&s.ID, &s.MovieID, &s.HallID, &s.StartsAt, &s.BasePriceCents, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScreeningNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListByMovie returns upcoming active screenings for a movie ordered
// by start time.
func (r *ScreeningRepo) ListByMovie(ctx context.Context, movieID uint64) ([]model.Screening, error) {
	const q = `SELECT id, movie_id, hall_id, starts_at, base_price_cents, is_active, created_at, updated_at
	           FROM screenings
	           WHERE movie_id = ? AND is_active = 1 AND starts_at > UTC_TIMESTAMP()
	           ORDER BY starts_at`
	rows, err := r.db.QueryContext(ctx, q, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Screening
	for rows.Next() {
		var s model.Screening
		if err := rows.Scan(&s.ID, &s.MovieID, &s.HallID, &s.StartsAt, &s.BasePriceCents, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SetActive flips a screening's booking flag. Returns sql.ErrNoRows
// when the screening does not exist.
func (r *ScreeningRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	const q = `UPDATE screenings SET is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, active, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
