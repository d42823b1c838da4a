package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gabriel/livechart-api/internal/models"
)

// SQLiteStore keeps entries in the cache_entries table. Payloads are stored
// as JSON and timestamps as unix milliseconds.
type SQLiteStore struct {
	db     *sql.DB
	ttl    time.Duration
	now    Clock
	logger *slog.Logger
}

func NewSQLiteStore(db *sql.DB, clock Clock, logger *slog.Logger) *SQLiteStore {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteStore{db: db, ttl: DefaultTTL, now: clock, logger: logger}
}

func (s *SQLiteStore) TTL() time.Duration {
	return s.ttl
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	var (
		raw      string
		storedMs int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, stored_at FROM cache_entries WHERE cache_key = ?`, key,
	).Scan(&raw, &storedMs)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("cache get %s: %w", key, err)
	}

	storedAt := time.UnixMilli(storedMs)
	age := s.now().Sub(storedAt)
	if expired(age, s.ttl) {
		if _, err := s.db.ExecContext(ctx,
			`DELETE FROM cache_entries WHERE cache_key = ? AND stored_at = ?`, key, storedMs,
		); err != nil {
			return Entry{}, false, fmt.Errorf("cache evict %s: %w", key, err)
		}
		s.logger.Debug("cache entry expired", "key", key, "age_ms", age.Milliseconds())
		return Entry{}, false, nil
	}

	var payload models.CachePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return Entry{}, false, fmt.Errorf("decode cache payload %s: %w", key, err)
	}
	return Entry{Payload: payload, StoredAt: storedAt, Age: age}, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, payload models.CachePayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode cache payload %s: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO cache_entries (cache_key, payload, record_count, stored_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET
		   payload = excluded.payload,
		   record_count = excluded.record_count,
		   stored_at = excluded.stored_at`,
		key, string(raw), payload.Count(), s.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	s.logger.Debug("cache set", "key", key, "count", payload.Count())
	return nil
}

func (s *SQLiteStore) Invalidate(ctx context.Context, key string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE cache_key = ?`, key)
	if err != nil {
		return false, fmt.Errorf("cache invalidate %s: %w", key, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("cache invalidate %s: %w", key, err)
	}
	return affected > 0, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries`)
	if err != nil {
		return 0, fmt.Errorf("cache clear: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cache clear: %w", err)
	}
	s.logger.Info("cache cleared", "removed", affected)
	return int(affected), nil
}

func (s *SQLiteStore) Info(ctx context.Context) (Info, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cache_key, record_count, stored_at FROM cache_entries ORDER BY cache_key`,
	)
	if err != nil {
		return Info{}, fmt.Errorf("cache info: %w", err)
	}
	defer rows.Close()

	now := s.now()
	keys := []KeyInfo{}
	for rows.Next() {
		var (
			key      string
			count    int
			storedMs int64
		)
		if err := rows.Scan(&key, &count, &storedMs); err != nil {
			return Info{}, fmt.Errorf("scan cache info: %w", err)
		}
		keys = append(keys, keyInfo(key, count, time.UnixMilli(storedMs), now, s.ttl))
	}
	if err := rows.Err(); err != nil {
		return Info{}, fmt.Errorf("iterate cache info: %w", err)
	}

	return Info{TotalKeys: len(keys), Keys: keys}, nil
}
