package model

import "time"

// Wallet transaction types. DEPOSIT and REFUND credit the balance;
// PAYMENT and WITHDRAWAL debit it.
const (
	TxnDeposit    = "DEPOSIT"
	TxnWithdrawal = "WITHDRAWAL"
	TxnPayment    = "PAYMENT"
	TxnRefund     = "REFUND"
)

// WalletTransaction is one entry of a user's append-only ledger.
// BalanceCents records the balance immediately after applying this
// entry; the users.wallet_balance_cents column is a cache that must
// always equal the latest entry's BalanceCents. Every balance
// mutation goes through ledger-entry creation, never a bare update.
type WalletTransaction struct {
	ID           uint64    `json:"id"`                   // wallet_transactions.id
	UserID       uint64    `json:"user_id"`              // wallet_transactions.user_id
	BookingID    *uint64   `json:"booking_id,omitempty"` // wallet_transactions.booking_id (nullable)
	TxnType      string    `json:"txn_type"`             // wallet_transactions.txn_type
	AmountCents  int64     `json:"amount_cents"`         // always positive; TxnType carries the sign
	BalanceCents int64     `json:"balance_cents"`        // balance after applying this entry
	Description  string    `json:"description"`          // wallet_transactions.description
	CreatedAt    time.Time `json:"created_at"`           // wallet_transactions.created_at
}

// TxnCredits reports whether the transaction type increases the balance.
func TxnCredits(t string) bool { return t == TxnDeposit || t == TxnRefund }

// ValidTxnType reports whether t is one of the known ledger types.
func ValidTxnType(t string) bool {
	switch t {
	case TxnDeposit, TxnWithdrawal, TxnPayment, TxnRefund:
		return true
	}
	return false
}
