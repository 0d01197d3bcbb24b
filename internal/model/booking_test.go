package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidStatusTransition(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{BookingPending, BookingConfirmed, true},
		{BookingPending, BookingCancelled, true},
		{BookingPending, BookingCompleted, false},
		{BookingConfirmed, BookingCancelled, true},
		{BookingConfirmed, BookingCompleted, true},
		{BookingConfirmed, BookingPending, false},
		{BookingCancelled, BookingConfirmed, false},
		{BookingCancelled, BookingCompleted, false},
		{BookingCompleted, BookingCancelled, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, ValidStatusTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestApplyPaymentStatusPaidConfirmsPending(t *testing.T) {
	method := "WALLET"
	b := &Booking{Status: BookingPending, PaymentStatus: PaymentPending}

	require.NoError(t, b.ApplyPaymentStatus(PaymentPaid, &method))
	assert.Equal(t, PaymentPaid, b.PaymentStatus)
	assert.Equal(t, BookingConfirmed, b.Status)
	require.NotNil(t, b.PaymentMethod)
	assert.Equal(t, "WALLET", *b.PaymentMethod)
}

func TestApplyPaymentStatusFailedLeavesStatus(t *testing.T) {
	b := &Booking{Status: BookingPending, PaymentStatus: PaymentPending}

	require.NoError(t, b.ApplyPaymentStatus(PaymentFailed, nil))
	assert.Equal(t, PaymentFailed, b.PaymentStatus)
	assert.Equal(t, BookingPending, b.Status)

	// a failed payment can be retried
	require.NoError(t, b.ApplyPaymentStatus(PaymentPaid, nil))
	assert.Equal(t, PaymentPaid, b.PaymentStatus)
	assert.Equal(t, BookingConfirmed, b.Status)
}

func TestApplyPaymentStatusRejectsIllegalMoves(t *testing.T) {
	b := &Booking{Status: BookingPending, PaymentStatus: PaymentPending}
	assert.Error(t, b.ApplyPaymentStatus(PaymentRefunded, nil))

	b.PaymentStatus = PaymentPaid
	assert.Error(t, b.ApplyPaymentStatus(PaymentFailed, nil))
	assert.Error(t, b.ApplyPaymentStatus(PaymentPending, nil))
	require.NoError(t, b.ApplyPaymentStatus(PaymentRefunded, nil))

	// REFUNDED is terminal
	assert.Error(t, b.ApplyPaymentStatus(PaymentPaid, nil))
}

func TestCanCancel(t *testing.T) {
	for _, s := range []string{BookingPending, BookingConfirmed} {
		b := &Booking{Status: s}
		assert.True(t, b.CanCancel(), s)
	}
	for _, s := range []string{BookingCancelled, BookingCompleted} {
		b := &Booking{Status: s}
		assert.False(t, b.CanCancel(), s)
	}
}
