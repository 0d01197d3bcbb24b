package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinehall/movie-booking/internal/database"
	"github.com/cinehall/movie-booking/internal/model"
)

// Integration tests against a real MySQL instance. They are skipped
// unless MYSQL_TEST_DSN is set, e.g.
//
//	MYSQL_TEST_DSN="root:secret@tcp(localhost:3306)/booking_test?parseTime=true&loc=UTC" go test ./...
//
// The schema bootstrap is idempotent, so pointing the DSN at a scratch
// database is all the setup needed.

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("MYSQL_TEST_DSN")
	if dsn == "" {
		t.Skip("MYSQL_TEST_DSN not set; skipping database tests")
	}
	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	require.NoError(t, database.InitializeSchema(context.Background(), db))
	return db
}

type fixture struct {
	userID      uint64
	screeningID uint64
	seatIDs     []uint64
	basePrice   int64
}

// seed creates a user, movie, hall with seats and one future
// screening. Every entity is unique per call so tests do not step on
// each other.
func seed(t *testing.T, db *sql.DB, seatCount int) fixture {
	t.Helper()
	ctx := context.Background()
	tag := fmt.Sprintf("%d", time.Now().UnixNano())

	users := NewUserRepo(db)
	userID, err := users.Create(ctx, "test-"+tag+"@example.com", "password", "CUSTOMER", 4)
	require.NoError(t, err)

	movies := NewMovieRepo(db)
	m := &model.Movie{Title: "Test Movie " + tag, Description: "fixture", DurationMin: 120, IsActive: true}
	require.NoError(t, movies.Create(ctx, m))

	halls := NewHallRepo(db)
	h := &model.Hall{Name: "Hall " + tag, SeatRows: 1, SeatCols: uint32(seatCount), IsActive: true}
	require.NoError(t, halls.Create(ctx, h))

	seats := make([]model.Seat, 0, seatCount)
	for i := 1; i <= seatCount; i++ {
		seats = append(seats, model.Seat{
			HallID: h.ID, RowLabel: "A", SeatNumber: uint32(i),
			SeatType: model.SeatTypeStandard, IsActive: true,
		})
	}
	seatRepo := NewSeatRepo(db)
	require.NoError(t, seatRepo.CreateBulk(ctx, seats))
	created, err := seatRepo.GetByHall(ctx, h.ID)
	require.NoError(t, err)
	require.Len(t, created, seatCount)
	ids := make([]uint64, 0, seatCount)
	for _, s := range created {
		ids = append(ids, s.ID)
	}

	screenings := NewScreeningRepo(db)
	sc := &model.Screening{
		MovieID: m.ID, HallID: h.ID,
		StartsAt:       time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second),
		BasePriceCents: 100000,
		IsActive:       true,
	}
	require.NoError(t, screenings.Create(ctx, sc))

	return fixture{userID: userID, screeningID: sc.ID, seatIDs: ids, basePrice: sc.BasePriceCents}
}

// claim attempts to book the given seats in one transaction, the same
// sequence the booking handler runs. It returns the booking ID on
// success and ErrSeatTaken when another booking holds any seat.
func claim(ctx context.Context, repo *BookingRepo, f fixture, seatIDs []uint64) (uint64, error) {
	tx, err := repo.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b := &model.Booking{
		UserID: f.userID, ScreeningID: f.screeningID,
		Status: model.BookingPending, PaymentStatus: model.PaymentPending,
		TotalAmountCents: f.basePrice * int64(len(seatIDs)),
		FinalAmountCents: f.basePrice * int64(len(seatIDs)),
	}
	if err := repo.CreateTx(ctx, tx, b); err != nil {
		return 0, err
	}
	rows := make([]model.BookingSeat, 0, len(seatIDs))
	for _, id := range seatIDs {
		rows = append(rows, model.BookingSeat{
			BookingID: b.ID, ScreeningID: f.screeningID, SeatID: id, PriceCents: f.basePrice,
		})
	}
	if err := repo.CreateSeatsBulkTx(ctx, tx, rows); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return b.ID, nil
}

func TestSeatClaimConflict(t *testing.T) {
	db := testDB(t)
	defer db.Close()
	repo := NewBookingRepo(db)
	ctx := context.Background()
	f := seed(t, db, 4)

	first, err := claim(ctx, repo, f, f.seatIDs[:2])
	require.NoError(t, err)
	require.NotZero(t, first)

	// overlapping claim must fail and leave nothing behind
	_, err = claim(ctx, repo, f, f.seatIDs[1:3])
	assert.ErrorIs(t, err, ErrSeatTaken)

	taken, err := repo.ActiveSeatIDs(ctx, f.screeningID)
	require.NoError(t, err)
	assert.Len(t, taken, 2)
	assert.Contains(t, taken, f.seatIDs[0])
	assert.Contains(t, taken, f.seatIDs[1])

	// disjoint claim still works
	_, err = claim(ctx, repo, f, f.seatIDs[2:4])
	assert.NoError(t, err)
}

func TestConcurrentClaimsAreDisjoint(t *testing.T) {
	db := testDB(t)
	defer db.Close()
	repo := NewBookingRepo(db)
	ctx := context.Background()
	f := seed(t, db, 3)

	const attempts = 8
	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = claim(ctx, repo, f, f.seatIDs)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range results {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, ErrSeatTaken)
		}
	}
	assert.Equal(t, 1, wins, "exactly one claim of the full seat set may succeed")

	taken, err := repo.ActiveSeatIDs(ctx, f.screeningID)
	require.NoError(t, err)
	assert.Len(t, taken, len(f.seatIDs))
}

func TestCancelFreesSeats(t *testing.T) {
	db := testDB(t)
	defer db.Close()
	repo := NewBookingRepo(db)
	ctx := context.Background()
	f := seed(t, db, 2)

	bookingID, err := claim(ctx, repo, f, f.seatIDs)
	require.NoError(t, err)

	tx, err := repo.DB().BeginTx(ctx, nil)
	require.NoError(t, err)
	b, startsAt, err := repo.GetForUpdateTx(ctx, tx, bookingID, f.userID)
	require.NoError(t, err)
	assert.True(t, startsAt.After(time.Now().UTC()))
	require.True(t, b.CanCancel())

	b.Status = model.BookingCancelled
	require.NoError(t, repo.UpdateStateTx(ctx, tx, b))
	require.NoError(t, repo.DeleteSeatsTx(ctx, tx, b.ID))
	require.NoError(t, tx.Commit())

	taken, err := repo.ActiveSeatIDs(ctx, f.screeningID)
	require.NoError(t, err)
	assert.Empty(t, taken)

	// the freed seats can be booked again
	_, err = claim(ctx, repo, f, f.seatIDs)
	assert.NoError(t, err)
}

func TestGetByIDForUserScopesOwnership(t *testing.T) {
	db := testDB(t)
	defer db.Close()
	repo := NewBookingRepo(db)
	ctx := context.Background()
	f := seed(t, db, 1)

	bookingID, err := claim(ctx, repo, f, f.seatIDs)
	require.NoError(t, err)

	got, err := repo.GetByIDForUser(ctx, bookingID, f.userID)
	require.NoError(t, err)
	assert.Equal(t, bookingID, got.ID)

	_, err = repo.GetByIDForUser(ctx, bookingID, f.userID+1)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
