// Package tokencache provides caching backends for LWA access tokens.
// Single-process callers use the in-memory store; fleets of workers sharing
// one refresh token can use the Redis store so the rate-limited token
// endpoint is hit once per expiry window instead of once per process.
package tokencache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss indicates the key was not found or has expired.
var ErrMiss = errors.New("token cache miss")

// Store defines the interface for token caching.
// This abstraction allows switching between an in-memory store
// (single process) and a Redis store (shared) without changing callers.
type Store interface {
	// Get retrieves a cached token. Returns ErrMiss if the key doesn't
	// exist or has expired.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a token with a TTL. A non-positive TTL stores nothing.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes a cached token.
	Delete(ctx context.Context, key string) error
}
