package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinehall/movie-booking/internal/model"
	"github.com/cinehall/movie-booking/internal/wallet"
)

// deposit runs one locked read-modify-write cycle, the same sequence
// the wallet handler runs.
func deposit(ctx context.Context, repo *WalletRepo, userID uint64, amount int64) error {
	tx, err := repo.DB().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	balance, err := repo.BalanceForUpdateTx(ctx, tx, userID)
	if err != nil {
		return err
	}
	entry, err := wallet.Entry(userID, nil, model.TxnDeposit, balance, amount, "deposit")
	if err != nil {
		return err
	}
	if err := repo.AppendTx(ctx, tx, &entry); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func TestConcurrentDepositsSerialize(t *testing.T) {
	db := testDB(t)
	defer db.Close()
	repo := NewWalletRepo(db)
	ctx := context.Background()
	f := seed(t, db, 1)

	const workers = 10
	const amount = int64(100)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, deposit(ctx, repo, f.userID, amount))
		}()
	}
	wg.Wait()

	txns, err := repo.ListByUser(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, txns, workers)

	// ListByUser returns newest first; running balances must step down
	// by exactly one deposit per entry, with no gaps or duplicates.
	expected := amount * workers
	for _, txn := range txns {
		assert.Equal(t, expected, txn.BalanceCents)
		assert.Equal(t, model.TxnDeposit, txn.TxnType)
		expected -= amount
	}

	users := NewUserRepo(db)
	u, err := users.GetByID(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, amount*workers, u.WalletBalanceCents)
}

func TestDeductPointsGuard(t *testing.T) {
	db := testDB(t)
	defer db.Close()
	users := NewUserRepo(db)
	ctx := context.Background()
	f := seed(t, db, 1)

	require.NoError(t, users.AddPoints(ctx, f.userID, 50))

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, users.DeductPointsTx(ctx, tx, f.userID, 51), ErrInsufficientPoints)
	_ = tx.Rollback()

	tx, err = db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, users.DeductPointsTx(ctx, tx, f.userID, 50))
	require.NoError(t, tx.Commit())

	u, err := users.GetByID(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), u.LoyaltyPoints)
}
