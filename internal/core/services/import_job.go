// internal/core/services/import_job.go
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

// ImportJobTTL is how long job status stays readable.
const ImportJobTTL = 24 * time.Hour

// ImportJobService stores an upload, queues it and tracks its status in
// the cache until a worker has processed it.
type ImportJobService struct {
	importer ports.ImportService
	files    ports.FileStore
	queue    ports.TaskQueue
	cache    ports.CacheRepository
	logger   *slog.Logger
}

var _ ports.ImportJobService = (*ImportJobService)(nil)

// NewImportJobService creates a new import job service
func NewImportJobService(importer ports.ImportService, files ports.FileStore, queue ports.TaskQueue, cache ports.CacheRepository, logger *slog.Logger) *ImportJobService {
	return &ImportJobService{
		importer: importer,
		files:    files,
		queue:    queue,
		cache:    cache,
		logger:   logger.With(slog.String("service", "import_job")),
	}
}

func jobKey(jobID string) string {
	return ports.BuildKey(ports.PrefixImportJob, jobID)
}

// Enqueue saves the upload and schedules its import.
func (s *ImportJobService) Enqueue(ctx context.Context, kind domain.ImportKind, userID int64, filename string, r io.Reader) (*domain.ImportJob, error) {
	if _, err := domain.ParseImportKind(string(kind)); err != nil {
		return nil, err
	}
	if ext := strings.ToLower(path.Ext(filename)); ext != ".xlsx" {
		return nil, domain.NewValidation("file", "must be an .xlsx workbook")
	}

	job := &domain.ImportJob{
		ID:     uuid.NewString(),
		Kind:   kind,
		Status: domain.ImportJobQueued,
	}
	objectKey := path.Join(string(kind), job.ID+".xlsx")

	if err := s.files.Put(ctx, objectKey, r); err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	if err := s.cache.SetWithTTL(ctx, jobKey(job.ID), job, ImportJobTTL); err != nil {
		s.discard(ctx, objectKey)
		return nil, fmt.Errorf("failed to save job status: %w", err)
	}

	payload := ports.ImportTaskPayload{
		JobID:     job.ID,
		Kind:      kind,
		UserID:    userID,
		ObjectKey: objectKey,
	}
	if err := s.queue.EnqueueImport(ctx, payload); err != nil {
		s.discard(ctx, objectKey)
		return nil, fmt.Errorf("failed to enqueue import: %w", err)
	}

	s.logger.InfoContext(ctx, "import job queued",
		slog.String("job_id", job.ID),
		slog.String("kind", string(kind)),
		slog.Int64("user_id", userID))

	return job, nil
}

// Status returns the job status recorded in the cache.
func (s *ImportJobService) Status(ctx context.Context, jobID string) (*domain.ImportJob, error) {
	if _, err := uuid.Parse(jobID); err != nil {
		return nil, domain.NewValidation("job_id", "must be a UUID")
	}

	var job domain.ImportJob
	if err := s.cache.Get(ctx, jobKey(jobID), &job); err != nil {
		if errors.Is(err, ports.ErrCacheMiss) {
			return nil, domain.NewNotFound("import job", 0)
		}
		return nil, fmt.Errorf("failed to read job status: %w", err)
	}
	return &job, nil
}

// Process runs a queued import. Bad spreadsheets mark the job failed and
// return nil; infrastructure errors are returned so the task is retried.
func (s *ImportJobService) Process(ctx context.Context, payload ports.ImportTaskPayload) error {
	logger := s.logger.With(slog.String("job_id", payload.JobID))

	data, err := s.files.Get(ctx, payload.ObjectKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.finish(ctx, payload, nil, err)
			return nil
		}
		return fmt.Errorf("failed to load upload: %w", err)
	}

	report, err := s.importer.Run(ctx, payload.Kind, payload.UserID, data)
	if err != nil && !errors.Is(err, domain.ErrValidation) {
		return fmt.Errorf("failed to run import: %w", err)
	}

	s.finish(ctx, payload, report, err)
	s.discard(ctx, payload.ObjectKey)

	logger.InfoContext(ctx, "import job processed",
		slog.Bool("failed", err != nil))
	return nil
}

func (s *ImportJobService) finish(ctx context.Context, payload ports.ImportTaskPayload, report *domain.ImportReport, runErr error) {
	job := &domain.ImportJob{
		ID:     payload.JobID,
		Kind:   payload.Kind,
		Status: domain.ImportJobCompleted,
		Report: report,
	}
	if runErr != nil {
		job.Status = domain.ImportJobFailed
		job.Error = runErr.Error()
	}
	if err := s.cache.SetWithTTL(ctx, jobKey(payload.JobID), job, ImportJobTTL); err != nil {
		s.logger.ErrorContext(ctx, "failed to save job result",
			slog.String("job_id", payload.JobID),
			slog.String("error", err.Error()))
	}
}

func (s *ImportJobService) discard(ctx context.Context, objectKey string) {
	if err := s.files.Delete(ctx, objectKey); err != nil {
		s.logger.WarnContext(ctx, "failed to delete upload",
			slog.String("object_key", objectKey),
			slog.String("error", err.Error()))
	}
}
