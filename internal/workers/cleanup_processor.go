// internal/workers/cleanup_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

// CleanupProcessor handles cleanup tasks
type CleanupProcessor struct {
	tokens    ports.TokenJanitor
	files     ports.FileStore
	retention time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// NewCleanupProcessor creates a new cleanup processor. Uploads older than
// retention are removed by CleanupTempFiles.
func NewCleanupProcessor(tokens ports.TokenJanitor, files ports.FileStore, retention time.Duration, logger *slog.Logger) *CleanupProcessor {
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	return &CleanupProcessor{
		tokens:    tokens,
		files:     files,
		retention: retention,
		now:       time.Now,
		logger:    logger.With(slog.String("processor", "cleanup")),
	}
}

// CleanupRevokedTokens removes revocations for tokens that have expired.
func (p *CleanupProcessor) CleanupRevokedTokens(ctx context.Context, t *asynq.Task) error {
	p.logger.InfoContext(ctx, "cleaning up revoked tokens")

	n, err := p.tokens.PurgeRevoked(ctx)
	if err != nil {
		return fmt.Errorf("failed to cleanup revoked tokens: %w", err)
	}

	p.logger.InfoContext(ctx, "revoked tokens cleaned up",
		slog.Int64("rows_deleted", n))
	return nil
}

// CleanupTempFiles removes uploads that no worker picked up.
func (p *CleanupProcessor) CleanupTempFiles(ctx context.Context, t *asynq.Task) error {
	p.logger.InfoContext(ctx, "cleaning up temp files")

	cutoff := p.now().Add(-p.retention)
	n, err := p.files.Purge(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to purge uploads: %w", err)
	}

	p.logger.InfoContext(ctx, "temp files cleaned up",
		slog.Int("files_deleted", n),
		slog.Time("cutoff", cutoff))
	return nil
}
