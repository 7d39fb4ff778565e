// internal/workers/server.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// NewServeMux routes every task type to its processor.
func NewServeMux(imports *ImportProcessor, cleanup *CleanupProcessor, logger *slog.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Use(loggingMiddleware(logger))

	mux.HandleFunc(TypeImportMedicines, imports.ProcessImport)
	mux.HandleFunc(TypeImportStock, imports.ProcessImport)
	mux.HandleFunc(TypeCleanupRevokedToken, cleanup.CleanupRevokedTokens)
	mux.HandleFunc(TypeCleanupTempFiles, cleanup.CleanupTempFiles)

	return mux
}

func loggingMiddleware(logger *slog.Logger) asynq.MiddlewareFunc {
	return func(next asynq.Handler) asynq.Handler {
		return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
			start := time.Now()
			taskID, _ := asynq.GetTaskID(ctx)
			retry, _ := asynq.GetRetryCount(ctx)

			err := next.ProcessTask(ctx, t)

			attrs := []any{
				slog.String("task_type", t.Type()),
				slog.String("task_id", taskID),
				slog.Int("retry", retry),
				slog.Duration("duration", time.Since(start)),
			}
			if err != nil {
				logger.ErrorContext(ctx, "task failed", append(attrs, slog.String("error", err.Error()))...)
				return err
			}
			logger.DebugContext(ctx, "task done", attrs...)
			return nil
		})
	}
}

// Registrar is the part of *asynq.Scheduler used to register periodic tasks.
type Registrar interface {
	Register(cronspec string, task *asynq.Task, opts ...asynq.Option) (string, error)
}

// RegisterPeriodicTasks schedules the cleanup tasks on cronspec.
func RegisterPeriodicTasks(s Registrar, cronspec string) error {
	if cronspec == "" {
		cronspec = "@hourly"
	}
	for _, taskType := range []string{TypeCleanupRevokedToken, TypeCleanupTempFiles} {
		if _, err := s.Register(cronspec, asynq.NewTask(taskType, nil), asynq.Queue(QueueLow), asynq.MaxRetry(1)); err != nil {
			return fmt.Errorf("failed to schedule %s: %w", taskType, err)
		}
	}
	return nil
}
