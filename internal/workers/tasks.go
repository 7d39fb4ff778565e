// internal/workers/tasks.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

const (
	TypeImportMedicines     = "import:medicines"
	TypeImportStock         = "import:stock"
	TypeCleanupRevokedToken = "cleanup:revoked_tokens"
	TypeCleanupTempFiles    = "cleanup:temp_files"
)

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// ImportTaskType returns the task type that imports kind.
func ImportTaskType(kind domain.ImportKind) (string, error) {
	switch kind {
	case domain.ImportMedicines:
		return TypeImportMedicines, nil
	case domain.ImportStock:
		return TypeImportStock, nil
	}
	return "", domain.NewValidation("kind", fmt.Sprintf("unknown import kind %q", kind))
}

// Enqueuer is the part of *asynq.Client used to submit tasks.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// TaskQueue submits import jobs to asynq.
type TaskQueue struct {
	client    Enqueuer
	maxRetry  int
	timeout   time.Duration
	retention time.Duration
}

var _ ports.TaskQueue = (*TaskQueue)(nil)

// NewTaskQueue creates a queue. timeout bounds a single processing attempt.
func NewTaskQueue(client Enqueuer, maxRetry int, timeout time.Duration) *TaskQueue {
	return &TaskQueue{
		client:    client,
		maxRetry:  maxRetry,
		timeout:   timeout,
		retention: 24 * time.Hour,
	}
}

// EnqueueImport queues payload. The job ID doubles as the asynq task ID so
// a job can only be queued once.
func (q *TaskQueue) EnqueueImport(ctx context.Context, payload ports.ImportTaskPayload) error {
	taskType, err := ImportTaskType(payload.Kind)
	if err != nil {
		return err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal import payload: %w", err)
	}

	opts := []asynq.Option{
		asynq.Queue(QueueDefault),
		asynq.TaskID(payload.JobID),
		asynq.MaxRetry(q.maxRetry),
		asynq.Retention(q.retention),
	}
	if q.timeout > 0 {
		opts = append(opts, asynq.Timeout(q.timeout))
	}

	if _, err := q.client.EnqueueContext(ctx, asynq.NewTask(taskType, data), opts...); err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", taskType, err)
	}
	return nil
}
