// Package cache holds the display-path cache of booked-seat lists. It is
// never authoritative: reservation always re-verifies inside the database
// transaction, so a stale or missing cache only costs a query.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Availability struct {
	Client *redis.Client
	TTL    time.Duration
}

func key(busID int64, date string) string {
	return fmt.Sprintf("easybus:booked:%d:%s", busID, date)
}

// Get returns the cached booked labels for a bus+date, or ok=false on
// miss, disabled cache, or any redis/decoding problem.
func (a *Availability) Get(ctx context.Context, busID int64, date string) ([]string, bool) {
	if a == nil || a.Client == nil {
		return nil, false
	}
	raw, err := a.Client.Get(ctx, key(busID, date)).Bytes()
	if err != nil {
		return nil, false
	}
	var labels []string
	if err := json.Unmarshal(raw, &labels); err != nil {
		return nil, false
	}
	return labels, true
}

// Set stores the booked labels, best effort.
func (a *Availability) Set(ctx context.Context, busID int64, date string, labels []string) {
	if a == nil || a.Client == nil {
		return
	}
	raw, err := json.Marshal(labels)
	if err != nil {
		return
	}
	ttl := a.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	_ = a.Client.Set(ctx, key(busID, date), raw, ttl).Err()
}

// Invalidate drops a bus+date entry after a committed seat mutation.
// Returns the redis error so callers can log failed invalidations for
// reconciliation; the short TTL bounds any resulting staleness.
func (a *Availability) Invalidate(ctx context.Context, busID int64, date string) error {
	if a == nil || a.Client == nil {
		return nil
	}
	return a.Client.Del(ctx, key(busID, date)).Err()
}
