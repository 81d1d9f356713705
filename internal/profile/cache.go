package profile

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by a Cache that has no entry for the key.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores resolved profiles keyed by lower-cased username.
type Cache interface {
	Get(ctx context.Context, username string) (*Profile, error)
	Set(ctx context.Context, username string, p *Profile, ttl time.Duration) error
	Close() error
}
