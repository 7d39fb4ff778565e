// internal/workers/tasks_test.go
package workers_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
	"github.com/ammerola/pharmacy-be/internal/workers"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	f.opts = append(f.opts, opts)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

func optionValue(opts []asynq.Option, typ asynq.OptionType) (any, bool) {
	for _, o := range opts {
		if o.Type() == typ {
			return o.Value(), true
		}
	}
	return nil, false
}

func TestTaskQueue_EnqueueImport(t *testing.T) {
	tests := []struct {
		name     string
		kind     domain.ImportKind
		wantType string
		wantErr  error
	}{
		{name: "medicines", kind: domain.ImportMedicines, wantType: workers.TypeImportMedicines},
		{name: "stock", kind: domain.ImportStock, wantType: workers.TypeImportStock},
		{name: "unknown_kind", kind: "suppliers", wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeEnqueuer{}
			q := workers.NewTaskQueue(client, 3, 5*time.Minute)

			payload := ports.ImportTaskPayload{
				JobID:     "0b6f4b1e-6a55-4d0e-8f39-42b8b1f0a9d3",
				Kind:      tt.kind,
				UserID:    1,
				ObjectKey: string(tt.kind) + "/0b6f4b1e-6a55-4d0e-8f39-42b8b1f0a9d3.xlsx",
			}
			err := q.EnqueueImport(context.Background(), payload)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, client.tasks)
				return
			}
			require.NoError(t, err)
			require.Len(t, client.tasks, 1)
			assert.Equal(t, tt.wantType, client.tasks[0].Type())

			var got ports.ImportTaskPayload
			require.NoError(t, json.Unmarshal(client.tasks[0].Payload(), &got))
			assert.Equal(t, payload, got)

			taskID, ok := optionValue(client.opts[0], asynq.TaskIDOpt)
			require.True(t, ok)
			assert.Equal(t, payload.JobID, taskID)
			retry, ok := optionValue(client.opts[0], asynq.MaxRetryOpt)
			require.True(t, ok)
			assert.Equal(t, 3, retry)
		})
	}
}

func TestTaskQueue_EnqueueImport_ClientError(t *testing.T) {
	q := workers.NewTaskQueue(&fakeEnqueuer{err: asynq.ErrTaskIDConflict}, 3, 0)
	err := q.EnqueueImport(context.Background(), ports.ImportTaskPayload{
		JobID: "0b6f4b1e-6a55-4d0e-8f39-42b8b1f0a9d3",
		Kind:  domain.ImportStock,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.ErrTaskIDConflict))
}

type fakeRegistrar struct {
	specs []string
	types []string
}

func (f *fakeRegistrar) Register(cronspec string, task *asynq.Task, _ ...asynq.Option) (string, error) {
	f.specs = append(f.specs, cronspec)
	f.types = append(f.types, task.Type())
	return "entry-" + task.Type(), nil
}

func TestRegisterPeriodicTasks(t *testing.T) {
	r := &fakeRegistrar{}
	require.NoError(t, workers.RegisterPeriodicTasks(r, ""))

	assert.Equal(t, []string{"@hourly", "@hourly"}, r.specs)
	assert.ElementsMatch(t, []string{workers.TypeCleanupRevokedToken, workers.TypeCleanupTempFiles}, r.types)
}
