package ports

import (
	"context"
	"time"
)

// RevocationStore records revoked token identifiers until their tokens expire
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	// Claim revokes tokenID and reports whether this call was the one that
	// revoked it. Concurrent claims of the same id succeed exactly once.
	Claim(ctx context.Context, tokenID string, expiresAt time.Time) (bool, error)
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	SweepExpired(ctx context.Context, now time.Time) (int, error)
}
