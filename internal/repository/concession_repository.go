package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cinehall/movie-booking/internal/model"
)

// ErrConcessionNotFound is returned when a concession lookup yields no rows.
var ErrConcessionNotFound = errors.New("concession not found")

// ConcessionRepo provides access to the concessions catalog.
type ConcessionRepo struct {
	db *sql.DB
}

// NewConcessionRepo constructs a ConcessionRepo with the given DB handle.
func NewConcessionRepo(db *sql.DB) *ConcessionRepo { return &ConcessionRepo{db: db} }

// Create inserts a concession and populates its generated ID.
func (r *ConcessionRepo) Create(ctx context.Context, c *model.Concession) error {
	const q = `INSERT INTO concessions (name, price_cents, is_available) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.PriceCents, c.IsAvailable)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// List returns the whole catalog ordered by name. Availability is
// included so clients can grey out sold-out items.
func (r *ConcessionRepo) List(ctx context.Context) ([]model.Concession, error) {
	const q = `SELECT id, name, price_cents, is_available, created_at, updated_at
	           FROM concessions ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Concession
	for rows.Next() {
		var c model.Concession
		if err := rows.Scan(&c.ID, &c.Name, &c.PriceCents, &c.IsAvailable, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID retrieves a concession. Returns ErrConcessionNotFound when
// absent.
func (r *ConcessionRepo) GetByID(ctx context.Context, id uint64) (*model.Concession, error) {
	const q = `SELECT id, name, price_cents, is_available, created_at, updated_at
	           FROM concessions WHERE id = ?`
	var c model.Concession
	err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name, &c.PriceCents, &c.IsAvailable, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConcessionNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Catalog returns all concessions keyed by ID for pricing lookups.
// Unavailable items are included; the pricing calculator drops them
// so their absence from the order is decided in exactly one place.
func (r *ConcessionRepo) Catalog(ctx context.Context) (map[uint64]model.Concession, error) {
	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[uint64]model.Concession, len(items))
	for _, c := range items {
		out[c.ID] = c
	}
	return out, nil
}

// Update rewrites a concession's mutable fields. Returns sql.ErrNoRows
// when the concession does not exist.
func (r *ConcessionRepo) Update(ctx context.Context, c *model.Concession) error {
	const q = `UPDATE concessions SET name = ?, price_cents = ?, is_available = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.PriceCents, c.IsAvailable, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
