package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/cinehall/movie-booking/internal/model"
	"github.com/cinehall/movie-booking/internal/utils"
)

var (
	ErrEmailExists  = errors.New("email already exists")
	ErrUserNotFound = errors.New("user not found")
)

// UserRepo provides access to the users table, including the loyalty
// point balance and cached wallet balance stored on each row.
type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a user with a hashed password and returns its ID.
// Emails are normalized to lowercase before storage.
func (r *UserRepo) Create(ctx context.Context, email, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role) VALUES (?,?,?)",
		email, hash, role)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDupEntry {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

const userColumns = `id, email, password_hash, role, loyalty_points, wallet_balance_cents, is_active, created_at, updated_at`

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role,
		&u.LoyaltyPoints, &u.WalletBalanceCents, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrUserNotFound
	}
	return u, err
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// DeductPointsTx spends loyalty points inside the caller's
// transaction. The balance guard in the WHERE clause makes the
// deduction atomic: when the user no longer has enough points the
// update matches no row and ErrInsufficientPoints is returned.
func (r *UserRepo) DeductPointsTx(ctx context.Context, tx *sql.Tx, userID uint64, points uint32) error {
	if points == 0 {
		return nil
	}
	res, err := tx.ExecContext(ctx,
		"UPDATE users SET loyalty_points = loyalty_points - ? WHERE id = ? AND loyalty_points >= ?",
		points, userID, points)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrInsufficientPoints
	}
	return nil
}

// AddPoints credits loyalty points outside any booking transaction.
func (r *UserRepo) AddPoints(ctx context.Context, userID uint64, points uint32) error {
	if points == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx,
		"UPDATE users SET loyalty_points = loyalty_points + ? WHERE id = ?",
		points, userID)
	return err
}

// AddPointsTx credits loyalty points within the caller's transaction.
// Used when a cancellation refunds spent points alongside the wallet
// credit.
func (r *UserRepo) AddPointsTx(ctx context.Context, tx *sql.Tx, userID uint64, points uint32) error {
	if points == 0 {
		return nil
	}
	_, err := tx.ExecContext(ctx,
		"UPDATE users SET loyalty_points = loyalty_points + ? WHERE id = ?",
		points, userID)
	return err
}
