// Package cache keeps fetched listing and detail payloads for a fixed TTL.
//
// Expiry is lazy: an entry older than the TTL is reported absent by Get and
// evicted in the same call. Info only reads.
package cache

import (
	"context"
	"time"

	"github.com/gabriel/livechart-api/internal/models"
)

const DefaultTTL = time.Hour

type Entry struct {
	Payload  models.CachePayload
	StoredAt time.Time
	Age      time.Duration
}

type KeyInfo struct {
	Key      string    `json:"key"`
	Count    int       `json:"count"`
	Age      int64     `json:"age"`
	IsValid  bool      `json:"isValid"`
	StoredAt time.Time `json:"storedAt"`
}

type Info struct {
	TotalKeys int       `json:"totalKeys"`
	Keys      []KeyInfo `json:"keys"`
}

// Store is the cache contract used by the orchestrator. Implementations must
// keep each single-key operation atomic.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, payload models.CachePayload) error
	Invalidate(ctx context.Context, key string) (bool, error)
	Clear(ctx context.Context) (int, error)
	Info(ctx context.Context) (Info, error)
	TTL() time.Duration
}

// Clock returns the current time. Tests substitute a fixed one.
type Clock func() time.Time

func expired(age time.Duration, ttl time.Duration) bool {
	return age > ttl
}

func keyInfo(key string, count int, storedAt time.Time, now time.Time, ttl time.Duration) KeyInfo {
	age := now.Sub(storedAt)
	return KeyInfo{
		Key:      key,
		Count:    count,
		Age:      age.Milliseconds(),
		IsValid:  !expired(age, ttl),
		StoredAt: storedAt,
	}
}
