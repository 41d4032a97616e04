// Package typing keeps the ephemeral per-thread typing markers in Redis.
// Every marker carries a TTL, so a client that stops typing without ever
// sending a message simply ages out instead of lingering forever.
package typing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long a marker survives without being refreshed.
const DefaultTTL = 8 * time.Second

type Ledger struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewLedger(rdb *redis.Client, ttl time.Duration) *Ledger {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Ledger{rdb: rdb, ttl: ttl}
}

func markerKey(threadID, userID uuid.UUID) string {
	return fmt.Sprintf("typing:%s:%s", threadID, userID)
}

// Mark records or refreshes the (thread, user) marker. The stored value
// is the username so reads need no extra lookup.
func (l *Ledger) Mark(ctx context.Context, threadID, userID uuid.UUID, username string) error {
	if err := l.rdb.Set(ctx, markerKey(threadID, userID), username, l.ttl).Err(); err != nil {
		return fmt.Errorf("setting typing marker: %w", err)
	}
	return nil
}

// Clear removes the (thread, user) marker. Missing markers are not an
// error; clearing is invoked on every message send.
func (l *Ledger) Clear(ctx context.Context, threadID, userID uuid.UUID) error {
	if err := l.rdb.Del(ctx, markerKey(threadID, userID)).Err(); err != nil {
		return fmt.Errorf("clearing typing marker: %w", err)
	}
	return nil
}

// Active returns userID → username for every unexpired marker in the
// thread.
func (l *Ledger) Active(ctx context.Context, threadID uuid.UUID) (map[uuid.UUID]string, error) {
	pattern := fmt.Sprintf("typing:%s:*", threadID)
	active := make(map[uuid.UUID]string)

	var cursor uint64
	for {
		keys, next, err := l.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scanning typing markers: %w", err)
		}
		for _, key := range keys {
			username, err := l.rdb.Get(ctx, key).Result()
			if err == redis.Nil {
				// Expired between SCAN and GET.
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("reading typing marker: %w", err)
			}
			userID, err := uuid.Parse(key[len(key)-36:])
			if err != nil {
				continue
			}
			active[userID] = username
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return active, nil
}
