package cache

import (
	"context"
	"time"

	"github.com/matzehuels/streamstack/pkg/observability"
)

// Instrumented wraps a Cache and reports hits, misses and writes to the
// registered observability cache hooks under keyType.
type Instrumented struct {
	Cache
	keyType string
}

// WithHooks wraps c so that its operations are reported as keyType.
func WithHooks(c Cache, keyType string) *Instrumented {
	return &Instrumented{Cache: c, keyType: keyType}
}

// Get retrieves a value and reports a hit or miss.
func (c *Instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.Cache.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, c.keyType)
		} else {
			observability.Cache().OnCacheMiss(ctx, c.keyType)
		}
	}
	return data, hit, err
}

// Set stores a value and reports the write.
func (c *Instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, c.keyType, len(data))
	return nil
}
