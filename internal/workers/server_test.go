// internal/workers/server_test.go
package workers_test

import (
	"context"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/pharmacy-be/internal/workers"
	"github.com/ammerola/pharmacy-be/test/helpers"
	"github.com/ammerola/pharmacy-be/test/mocks"
)

func TestNewServeMux_Routes(t *testing.T) {
	ctrl := gomock.NewController(t)
	jobs := mocks.NewMockImportJobService(ctrl)
	tokens := mocks.NewMockTokenJanitor(ctrl)
	files := mocks.NewMockFileStore(ctrl)
	logger := helpers.TestLogger()

	mux := workers.NewServeMux(
		workers.NewImportProcessor(jobs, logger),
		workers.NewCleanupProcessor(tokens, files, time.Hour, logger),
		logger,
	)

	tokens.EXPECT().PurgeRevoked(gomock.Any()).Return(int64(0), nil)
	files.EXPECT().Purge(gomock.Any(), gomock.Any()).Return(0, nil)

	ctx := context.Background()
	assert.NoError(t, mux.ProcessTask(ctx, asynq.NewTask(workers.TypeCleanupRevokedToken, nil)))
	assert.NoError(t, mux.ProcessTask(ctx, asynq.NewTask(workers.TypeCleanupTempFiles, nil)))
	assert.Error(t, mux.ProcessTask(ctx, asynq.NewTask("report:generate", nil)))
}
