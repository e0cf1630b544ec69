package service

import (
	"context"
	"time"
)

// TokenStore remembers revoked session ids until the session would have
// expired anyway.
type TokenStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
