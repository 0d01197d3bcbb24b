// Package cache holds the Redis-backed seat map cache. Seat maps are
// the hottest read in the system and change only when a booking is
// created or cancelled, so they are cached per screening and
// invalidated explicitly on those mutations rather than waiting for
// TTL expiry.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cinehall/movie-booking/internal/repository"
)

// SeatMapCache caches rendered seat maps keyed by screening ID. A nil
// client disables the cache; every method then reports a miss or
// no-ops, so callers never need to branch on availability.
type SeatMapCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSeatMapCache returns a cache over the given client. The TTL is a
// backstop against missed invalidations, not the primary freshness
// mechanism.
func NewSeatMapCache(client *redis.Client, ttl time.Duration) *SeatMapCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &SeatMapCache{client: client, ttl: ttl}
}

func seatMapKey(screeningID uint64) string {
	return fmt.Sprintf("seatmap:%d", screeningID)
}

// Get returns the cached seat map for a screening, or ok=false on a
// miss. Decode failures count as misses; the stale entry is left to
// be overwritten by the next Set.
func (c *SeatMapCache) Get(ctx context.Context, screeningID uint64) ([]repository.SeatStatus, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, seatMapKey(screeningID)).Bytes()
	if err != nil {
		return nil, false
	}
	var seats []repository.SeatStatus
	if err := json.Unmarshal(raw, &seats); err != nil {
		return nil, false
	}
	return seats, true
}

// Set stores a seat map. Errors are swallowed: the cache is an
// optimization and the database remains the source of truth.
func (c *SeatMapCache) Set(ctx context.Context, screeningID uint64, seats []repository.SeatStatus) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(seats)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, seatMapKey(screeningID), raw, c.ttl).Err()
}

// Invalidate drops the cached seat map for a screening. Called after
// every committed booking create or cancel.
func (c *SeatMapCache) Invalidate(ctx context.Context, screeningID uint64) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, seatMapKey(screeningID)).Err()
}
