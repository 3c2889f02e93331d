package domain

import (
	"context"
	"time"
)

// Source is one independently queryable catalog. Implementations may be slow
// and may fail; callers enforce timeouts through the context.
type Source interface {
	Name() string
	Fetch(ctx context.Context, query string) ([]RawProduct, error)
}

// SourceRegistry holds the configured sources. Names and All always follow
// registration order so downstream selection is deterministic.
type SourceRegistry interface {
	All() []Source
	Get(name string) (Source, bool)
	Names() []string
}

// FanoutExecutor runs every source's fetch concurrently and returns whatever
// settled in time. A source that errored or timed out is simply absent from
// the result map.
type FanoutExecutor interface {
	FetchAll(ctx context.Context, sources []Source, query string) map[string][]RawProduct
}

// CacheRepository defines the interface for caching comparison responses.
type CacheRepository interface {
	Get(ctx context.Context, key string) (*CompareResponse, error)
	Set(ctx context.Context, key string, value *CompareResponse, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
