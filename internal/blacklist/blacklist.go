// Package blacklist stores revoked refresh token identifiers.
//
// A revocation record lives only as long as the token it shadows: entries
// are written with the token's remaining lifetime as TTL, so the store
// never accumulates state for tokens that would fail expiry checks anyway.
package blacklist

import (
	"context"
	"time"
)

// Store keeps revoked token ids (jti claims)
type Store interface {
	// Revoke marks the token id as revoked for ttl
	// Revoking an already revoked id is a no-op, not an error
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked reports whether the token id was revoked earlier
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
