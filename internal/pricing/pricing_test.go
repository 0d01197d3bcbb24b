package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinehall/movie-booking/internal/model"
)

func seats(types ...string) []model.Seat {
	out := make([]model.Seat, 0, len(types))
	for i, t := range types {
		out = append(out, model.Seat{ID: uint64(i + 1), SeatType: t})
	}
	return out
}

func TestSeatPrice(t *testing.T) {
	assert.Equal(t, int64(100000), SeatPrice(100000, model.SeatTypeStandard))
	assert.Equal(t, int64(150000), SeatPrice(100000, model.SeatTypeVIP))
	assert.Equal(t, int64(130000), SeatPrice(100000, model.SeatTypeCouple))
	// unknown types price as standard
	assert.Equal(t, int64(100000), SeatPrice(100000, "RECLINER"))
}

func TestComputeTwoStandardSeats(t *testing.T) {
	q := Compute(100000, seats(model.SeatTypeStandard, model.SeatTypeStandard), nil, nil, 0)
	assert.Equal(t, int64(200000), q.SeatTotalCents)
	assert.Equal(t, int64(0), q.DiscountCents)
	assert.Equal(t, int64(200000), q.FinalCents)
	assert.Equal(t, uint32(2000), q.PointsEarned)
}

func TestComputeDiscountCap(t *testing.T) {
	// 1000 points would be worth 1,000,000 but the discount is capped
	// at 50% of the 100,000 total.
	q := Compute(100000, seats(model.SeatTypeStandard), nil, nil, 1000)
	assert.Equal(t, int64(50000), q.DiscountCents)
	assert.Equal(t, int64(50000), q.FinalCents)
}

func TestComputeDiscountBelowCap(t *testing.T) {
	q := Compute(100000, seats(model.SeatTypeStandard), nil, nil, 10)
	assert.Equal(t, int64(10000), q.DiscountCents)
	assert.Equal(t, int64(90000), q.FinalCents)
	assert.Equal(t, uint32(900), q.PointsEarned)
}

func TestComputeConcessions(t *testing.T) {
	catalog := map[uint64]model.Concession{
		1: {ID: 1, PriceCents: 5000, IsAvailable: true},
		2: {ID: 2, PriceCents: 7000, IsAvailable: false},
	}
	sels := []Selection{
		{ConcessionID: 1, Quantity: 2},
		{ConcessionID: 2, Quantity: 1}, // unavailable, dropped
		{ConcessionID: 9, Quantity: 3}, // unknown, dropped
	}
	q := Compute(100000, seats(model.SeatTypeVIP), sels, catalog, 0)
	assert.Equal(t, int64(150000), q.SeatTotalCents)
	assert.Equal(t, int64(10000), q.ConcessionTotalCents)
	assert.Equal(t, int64(160000), q.FinalCents)
}

func TestComputeMixedSeatTypes(t *testing.T) {
	q := Compute(100000, seats(model.SeatTypeStandard, model.SeatTypeVIP, model.SeatTypeCouple), nil, nil, 0)
	assert.Equal(t, int64(380000), q.SeatTotalCents)
	assert.Equal(t, uint32(3800), q.PointsEarned)
}

func TestComputeDeterministic(t *testing.T) {
	catalog := map[uint64]model.Concession{1: {ID: 1, PriceCents: 2500, IsAvailable: true}}
	sels := []Selection{{ConcessionID: 1, Quantity: 4}}
	first := Compute(80000, seats(model.SeatTypeCouple, model.SeatTypeCouple), sels, catalog, 7)
	for i := 0; i < 100; i++ {
		require.Equal(t, first, Compute(80000, seats(model.SeatTypeCouple, model.SeatTypeCouple), sels, catalog, 7))
	}
}

func TestComputeNeverNegative(t *testing.T) {
	// Zero-price screening with points used: final is floored at 0 and
	// earns no points.
	q := Compute(0, seats(model.SeatTypeStandard), nil, nil, 50)
	assert.Equal(t, int64(0), q.FinalCents)
	assert.Equal(t, uint32(0), q.PointsEarned)
}
