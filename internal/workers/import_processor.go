// internal/workers/import_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/ammerola/pharmacy-be/internal/core/ports"
	"github.com/ammerola/pharmacy-be/internal/pkg/logger"
)

// ImportProcessor runs queued spreadsheet imports.
type ImportProcessor struct {
	jobs   ports.ImportJobService
	logger *slog.Logger
}

// NewImportProcessor creates a new import processor
func NewImportProcessor(jobs ports.ImportJobService, logger *slog.Logger) *ImportProcessor {
	return &ImportProcessor{
		jobs:   jobs,
		logger: logger.With(slog.String("processor", "import")),
	}
}

// ProcessImport handles import:medicines and import:stock tasks.
func (p *ImportProcessor) ProcessImport(ctx context.Context, t *asynq.Task) error {
	var payload ports.ImportTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		// Retrying cannot fix a malformed payload.
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.JobID == "" || payload.ObjectKey == "" {
		return fmt.Errorf("incomplete import payload: %w", asynq.SkipRetry)
	}

	ctx = logger.WithValue(ctx, logger.ContextKeyJobID, payload.JobID)
	p.logger.InfoContext(ctx, "processing import",
		slog.String("kind", string(payload.Kind)),
		slog.Int64("user_id", payload.UserID))

	if err := p.jobs.Process(ctx, payload); err != nil {
		p.logger.ErrorContext(ctx, "import failed",
			slog.String("error", err.Error()))
		return err
	}
	return nil
}
