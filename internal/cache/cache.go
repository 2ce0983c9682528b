// Package cache is the per-session display cache. It only ever holds copies
// of platform responses for one dashboard session; it is purged after every
// successful mutating action and on session expiry, and nothing outlives its
// TTL. The platform remains the source of truth.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"investdash/internal/logger"
	"investdash/internal/metrics"
)

// Collections cached per user. Purge removes all of them.
const (
	CollectionWallets      = "wallets"
	CollectionTransactions = "transactions"
	CollectionInvestments  = "investments"
	CollectionPlans        = "plans"
	CollectionLevels       = "levels"
)

var collections = []string{
	CollectionWallets,
	CollectionTransactions,
	CollectionInvestments,
	CollectionPlans,
	CollectionLevels,
}

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(addr string, ttl time.Duration) *Store {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr}), ttl)
}

func NewWithClient(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func key(userID int, collection string) string {
	return fmt.Sprintf("dash:%d:%s", userID, collection)
}

// Get loads a cached collection into dest. The boolean reports a hit; cache
// failures are returned as misses so a broken Redis never blocks a read.
func (s *Store) Get(ctx context.Context, userID int, collection string, dest interface{}) bool {
	data, err := s.rdb.Get(ctx, key(userID, collection)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Errorf("cache get %s: %v", collection, err)
		}
		metrics.RecordCacheLookup(collection, "miss")
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		logger.Errorf("cache decode %s: %v", collection, err)
		metrics.RecordCacheLookup(collection, "miss")
		return false
	}
	metrics.RecordCacheLookup(collection, "hit")
	return true
}

// Set stores a collection snapshot under the session TTL. Failures are
// logged and swallowed: caching is best effort.
func (s *Store) Set(ctx context.Context, userID int, collection string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Errorf("cache encode %s: %v", collection, err)
		return
	}
	if err := s.rdb.Set(ctx, key(userID, collection), data, s.ttl).Err(); err != nil {
		logger.Errorf("cache set %s: %v", collection, err)
	}
}

// Purge drops every cached collection for the user. Called after successful
// mutating actions and when the platform reports the session expired.
func (s *Store) Purge(ctx context.Context, userID int) {
	keys := make([]string, 0, len(collections))
	for _, c := range collections {
		keys = append(keys, key(userID, c))
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		logger.Errorf("cache purge user %d: %v", userID, err)
	}
}
