package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinehall/movie-booking/internal/model"
)

func TestNextBalanceCredits(t *testing.T) {
	got, err := NextBalance(model.TxnDeposit, 1000, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), got)

	got, err = NextBalance(model.TxnRefund, 0, 2500)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), got)
}

func TestNextBalanceDebits(t *testing.T) {
	got, err := NextBalance(model.TxnWithdrawal, 1000, 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)

	_, err = NextBalance(model.TxnPayment, 999, 1000)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestNextBalanceRejectsBadInput(t *testing.T) {
	_, err := NextBalance(model.TxnDeposit, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = NextBalance(model.TxnDeposit, 0, -5)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = NextBalance("TRANSFER", 0, 100)
	assert.Error(t, err)
}

func TestEntry(t *testing.T) {
	bid := uint64(42)
	e, err := Entry(7, &bid, model.TxnPayment, 5000, 3000, "payment for booking 42")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), e.UserID)
	require.NotNil(t, e.BookingID)
	assert.Equal(t, uint64(42), *e.BookingID)
	assert.Equal(t, int64(3000), e.AmountCents)
	assert.Equal(t, int64(2000), e.BalanceCents)
	assert.Equal(t, "payment for booking 42", e.Description)

	_, err = Entry(7, nil, model.TxnWithdrawal, 100, 200, "")
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}
