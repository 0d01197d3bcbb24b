package repository

import (
	"context"
	"database/sql"

	"github.com/cinehall/movie-booking/internal/model"
)

// WalletRepo manages the wallet ledger. Each mutation locks the
// owner's users row FOR UPDATE, so concurrent operations on one
// wallet serialize and every ledger entry records the exact balance
// it produced. The cached users.wallet_balance_cents column is
// updated in the same transaction as the ledger insert.
type WalletRepo struct {
	db *sql.DB
}

// NewWalletRepo returns a new WalletRepo bound to the given database.
func NewWalletRepo(db *sql.DB) *WalletRepo { return &WalletRepo{db: db} }

// DB exposes the underlying handle so the service layer can open
// transactions spanning wallet and booking rows.
func (r *WalletRepo) DB() *sql.DB { return r.db }

// BalanceForUpdateTx reads the user's current wallet balance and
// locks the row until the transaction ends.
func (r *WalletRepo) BalanceForUpdateTx(ctx context.Context, tx *sql.Tx, userID uint64) (int64, error) {
	const q = `SELECT wallet_balance_cents FROM users WHERE id = ? FOR UPDATE`
	var balance int64
	if err := tx.QueryRowContext(ctx, q, userID).Scan(&balance); err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return balance, nil
}

// AppendTx inserts a ledger entry and updates the cached balance on
// the users row. The caller computes t.BalanceCents from the locked
// read; this method trusts it and writes both rows atomically within
// the caller's transaction.
func (r *WalletRepo) AppendTx(ctx context.Context, tx *sql.Tx, t *model.WalletTransaction) error {
	const ins = `INSERT INTO wallet_transactions
	             (user_id, booking_id, txn_type, amount_cents, balance_cents, description)
	             VALUES (?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, ins, t.UserID, t.BookingID, t.TxnType, t.AmountCents, t.BalanceCents, t.Description)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)

	const upd = `UPDATE users SET wallet_balance_cents = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, upd, t.BalanceCents, t.UserID); err != nil {
		return err
	}

	const sel = `SELECT created_at FROM wallet_transactions WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, t.ID).Scan(&t.CreatedAt)
}

// ListByUser returns the user's ledger entries, newest first.
func (r *WalletRepo) ListByUser(ctx context.Context, userID uint64) ([]model.WalletTransaction, error) {
	const q = `SELECT id, user_id, booking_id, txn_type, amount_cents, balance_cents, description, created_at
	           FROM wallet_transactions
	           WHERE user_id = ?
	           ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txns := make([]model.WalletTransaction, 0)
	for rows.Next() {
		var t model.WalletTransaction
		var bookingID sql.NullInt64
		if err := rows.Scan(&t.ID, &t.UserID, &bookingID, &t.TxnType, &t.AmountCents, &t.BalanceCents, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		if bookingID.Valid {
			id := uint64(bookingID.Int64)
			t.BookingID = &id
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return txns, nil
}
