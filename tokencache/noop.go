package tokencache

import (
	"context"
	"time"
)

// NoopStore implements Store without storing anything. Every Get misses, so
// callers exchange their refresh token on every request. Useful when caching
// is explicitly disabled.
type NoopStore struct{}

// NewNoopStore creates a new no-op store.
func NewNoopStore() *NoopStore {
	return &NoopStore{}
}

// Get always misses.
func (*NoopStore) Get(ctx context.Context, key string) (string, error) {
	return "", ErrMiss
}

// Set discards the token.
func (*NoopStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return nil
}

// Delete does nothing.
func (*NoopStore) Delete(ctx context.Context, key string) error {
	return nil
}

// Ensure NoopStore implements Store
var _ Store = (*NoopStore)(nil)
