// internal/core/ports/database.go
package ports

import (
	"context"
)

// Database is the subset of the pool used by health checks.
type Database interface {
	Close()
	Ping(ctx context.Context) error
	Health(ctx context.Context) map[string]interface{}
}
