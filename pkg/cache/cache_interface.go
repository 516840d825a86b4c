package cache

import (
	"context"
	"time"
)

// Cache interface định nghĩa contract cho cache layer
// Cho phép swap implementation (Redis, in-memory for tests)
type Cache interface {
	// SetNX sets key only when it does not exist yet
	// Returns: (acquired bool, error)
	// - acquired = true: key was created with ttl
	// - acquired = false: key already held by someone else
	SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)

	// Get returns the raw value of key ("" and false on miss)
	Get(ctx context.Context, key string) (string, bool, error)

	// Delete xóa các keys khỏi cache
	Delete(ctx context.Context, keys ...string) error

	// Ping kiểm tra connection
	Ping(ctx context.Context) error
}
