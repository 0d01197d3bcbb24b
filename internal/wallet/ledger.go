// Package wallet holds the pure ledger arithmetic for wallet
// mutations. The repository layer persists entries; this package
// decides whether a mutation is legal and what balance it produces.
package wallet

import (
	"errors"

	"github.com/cinehall/movie-booking/internal/model"
)

var (
	// ErrInvalidAmount is returned for zero or negative amounts.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrInsufficientFunds is returned when a debit exceeds the balance.
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
)

// NextBalance computes the balance after applying a transaction of
// the given type and amount to the current balance. Amounts are
// always positive; the type decides the direction. Debits that would
// take the balance below zero are rejected.
func NextBalance(txnType string, balance, amountCents int64) (int64, error) {
	if amountCents <= 0 {
		return 0, ErrInvalidAmount
	}
	if !model.ValidTxnType(txnType) {
		return 0, errors.New("unknown transaction type")
	}
	if model.TxnCredits(txnType) {
		return balance + amountCents, nil
	}
	if balance < amountCents {
		return 0, ErrInsufficientFunds
	}
	return balance - amountCents, nil
}

// Entry builds a ledger record for the given mutation after
// validating it against the current balance.
func Entry(userID uint64, bookingID *uint64, txnType string, balance, amountCents int64, description string) (model.WalletTransaction, error) {
	next, err := NextBalance(txnType, balance, amountCents)
	if err != nil {
		return model.WalletTransaction{}, err
	}
	return model.WalletTransaction{
		UserID:       userID,
		BookingID:    bookingID,
		TxnType:      txnType,
		AmountCents:  amountCents,
		BalanceCents: next,
		Description:  description,
	}, nil
}
