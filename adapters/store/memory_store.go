package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/layer-3/catalog/core"
)

const shardCount = 32

type revocationShard struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

// MemoryStore is an in-memory revocation registry.
// Entries are spread across shards so a sweep only holds one shard lock at a time.
type MemoryStore struct {
	shards [shardCount]*revocationShard
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	for i := range s.shards {
		s.shards[i] = &revocationShard{revoked: make(map[string]time.Time)}
	}
	return s
}

func (s *MemoryStore) shardFor(tokenID string) *revocationShard {
	return s.shards[xxhash.Sum64String(tokenID)%shardCount]
}

// Revoke marks a token as revoked until expiresAt. Revoking twice keeps the first entry.
func (s *MemoryStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	_, err := s.Claim(ctx, tokenID, expiresAt)
	return err
}

// Claim inserts the entry under the shard write lock and reports whether it was new
func (s *MemoryStore) Claim(ctx context.Context, tokenID string, expiresAt time.Time) (bool, error) {
	if tokenID == "" {
		return false, fmt.Errorf("revoke token: %w", core.ErrInvalidArgument)
	}

	shard := s.shardFor(tokenID)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	if _, exists := shard.revoked[tokenID]; exists {
		return false, nil
	}
	shard.revoked[tokenID] = expiresAt

	return true, nil
}

// IsRevoked checks if a token is revoked
func (s *MemoryStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}

	shard := s.shardFor(tokenID)
	shard.mu.RLock()
	defer shard.mu.RUnlock()

	_, exists := shard.revoked[tokenID]
	return exists, nil
}

// SweepExpired drops entries whose tokens expired strictly before now
func (s *MemoryStore) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	removed := 0
	for _, shard := range s.shards {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		removed += shard.sweep(now)
	}
	return removed, nil
}

// sweep collects candidates under the read lock and only takes the write
// lock when there is something to delete.
func (sh *revocationShard) sweep(now time.Time) int {
	sh.mu.RLock()
	var expired []string
	for id, expiresAt := range sh.revoked {
		if expiresAt.Before(now) {
			expired = append(expired, id)
		}
	}
	sh.mu.RUnlock()

	if len(expired) == 0 {
		return 0
	}

	sh.mu.Lock()
	defer sh.mu.Unlock()

	removed := 0
	for _, id := range expired {
		if expiresAt, ok := sh.revoked[id]; ok && expiresAt.Before(now) {
			delete(sh.revoked, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of revoked entries currently held
func (s *MemoryStore) Len() int {
	n := 0
	for _, shard := range s.shards {
		shard.mu.RLock()
		n += len(shard.revoked)
		shard.mu.RUnlock()
	}
	return n
}
