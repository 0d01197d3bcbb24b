package refund

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var showStart = time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

func cancelAt(before time.Duration) time.Time { return showStart.Add(-before) }

func TestPercentTiers(t *testing.T) {
	cases := []struct {
		name   string
		before time.Duration
		want   int
	}{
		{"49h before", 49 * time.Hour, 100},
		{"exactly 24h", 24 * time.Hour, 100},
		{"just under 24h", 24*time.Hour - time.Second, 50},
		{"10h before", 10 * time.Hour, 50},
		{"exactly 2h", 2 * time.Hour, 50},
		{"just under 2h", 2*time.Hour - time.Second, 0},
		{"1h before", time.Hour, 0},
		{"after start", -time.Hour, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Percent(cancelAt(tc.before), showStart))
		})
	}
}

func TestComputeAmounts(t *testing.T) {
	got, pct := Compute(cancelAt(25*time.Hour), showStart, 300000)
	assert.Equal(t, int64(300000), got)
	assert.Equal(t, 100, pct)

	got, pct = Compute(cancelAt(10*time.Hour), showStart, 300000)
	assert.Equal(t, int64(150000), got)
	assert.Equal(t, 50, pct)

	got, pct = Compute(cancelAt(time.Hour), showStart, 300000)
	assert.Equal(t, int64(0), got)
	assert.Equal(t, 0, pct)
}

func TestAmountRoundsHalfToEven(t *testing.T) {
	// 50% of an odd cent total lands on a half cent.
	assert.Equal(t, int64(2), Amount(5, 50))  // 2.5 -> 2
	assert.Equal(t, int64(4), Amount(7, 50))  // 3.5 -> 4
	assert.Equal(t, int64(50), Amount(101, 50))
	assert.Equal(t, int64(101), Amount(101, 100))
}
