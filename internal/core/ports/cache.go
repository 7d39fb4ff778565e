// internal/core/ports/cache.go
package ports

import (
	"context"
	"errors"
	"strings"
	"time"
)

// CacheRepository defines the interface for cache operations
type CacheRepository interface {
	Set(ctx context.Context, key string, value interface{}) error
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error
	Exists(ctx context.Context, keys ...string) (bool, error)

	GetOrSet(ctx context.Context, key string, dest interface{},
		fetch func() (interface{}, error), ttl time.Duration) error

	Ping(ctx context.Context) error
}

// ErrCacheMiss is returned by Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// CacheKeyPrefix namespaces cache keys.
type CacheKeyPrefix string

const (
	PrefixBatchSummary CacheKeyPrefix = "batch-summary"
	PrefixStock        CacheKeyPrefix = "stock"
	PrefixStockHold    CacheKeyPrefix = "stock-hold"
	PrefixImportJob    CacheKeyPrefix = "import-job"
	PrefixRevokedToken CacheKeyPrefix = "revoked-token"
	PrefixDashboard    CacheKeyPrefix = "dashboard"
)

// BuildKey joins prefix and parts with ':'.
func BuildKey(prefix CacheKeyPrefix, parts ...string) string {
	return strings.Join(append([]string{string(prefix)}, parts...), ":")
}
