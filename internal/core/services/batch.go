// internal/core/services/batch.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

const maxBatchNote = 500

// BatchService manages purchase batches and their summaries.
type BatchService struct {
	store      ports.Store
	cache      ports.CacheRepository
	summaryTTL time.Duration
	forget     invalidator
	logger     *slog.Logger
}

var _ ports.BatchService = (*BatchService)(nil)

// NewBatchService creates a new batch service
func NewBatchService(store ports.Store, cache ports.CacheRepository, summaryTTL time.Duration, logger *slog.Logger) *BatchService {
	logger = logger.With(slog.String("service", "batch"))
	return &BatchService{
		store:      store,
		cache:      cache,
		summaryTTL: summaryTTL,
		forget:     invalidator{cache: cache, logger: logger},
		logger:     logger,
	}
}

func validateNote(note string) (string, error) {
	note = strings.TrimSpace(note)
	if len(note) > maxBatchNote {
		return "", domain.NewValidation("note", fmt.Sprintf("must be at most %d characters", maxBatchNote))
	}
	return note, nil
}

// Create opens a new batch. purchaseDate defaults to now.
func (s *BatchService) Create(ctx context.Context, note string, purchaseDate *time.Time) (*domain.Batch, error) {
	note, err := validateNote(note)
	if err != nil {
		return nil, err
	}

	b := &domain.Batch{Note: note, PurchaseDate: time.Now().UTC()}
	if purchaseDate != nil {
		b.PurchaseDate = purchaseDate.UTC()
	}

	if err := s.store.Batches().Create(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create batch: %w", err)
	}

	s.logger.InfoContext(ctx, "batch created", slog.Int64("batch_id", b.ID))
	return b, nil
}

func (s *BatchService) Get(ctx context.Context, id int64) (*domain.Batch, error) {
	return s.store.Batches().GetByID(ctx, id)
}

// List returns batches with their purchases, optionally bounded by
// purchase date.
func (s *BatchService) List(ctx context.Context, start, end *time.Time) ([]domain.Batch, error) {
	if start != nil && end != nil && end.Before(*start) {
		return nil, domain.NewValidation("end_date", "must not be before start_date")
	}
	batches, err := s.store.Batches().List(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	return batches, nil
}

func (s *BatchService) UpdateNote(ctx context.Context, id int64, note string) (*domain.Batch, error) {
	note, err := validateNote(note)
	if err != nil {
		return nil, err
	}
	b, err := s.store.Batches().UpdateNote(ctx, id, note)
	if err != nil {
		return nil, err
	}
	s.forget.batchSummary(ctx, id)
	return b, nil
}

// Delete removes an empty batch. Batches that still have purchases are
// rejected with a Conflict.
func (s *BatchService) Delete(ctx context.Context, id int64) error {
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		if _, err := tx.Batches().GetByID(ctx, id); err != nil {
			return err
		}
		n, err := tx.Batches().CountPurchases(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.NewConflict("cannot delete batch with associated purchases")
		}
		return tx.Batches().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.forget.batchSummary(ctx, id)
	s.logger.InfoContext(ctx, "batch deleted", slog.Int64("batch_id", id))
	return nil
}

// Summary aggregates the purchases of a batch. Results are cached until the
// next purchase write in the batch.
func (s *BatchService) Summary(ctx context.Context, id int64) (*domain.BatchSummary, error) {
	var summary domain.BatchSummary
	key := ports.BuildKey(ports.PrefixBatchSummary, strconv.FormatInt(id, 10))

	err := s.cache.GetOrSet(ctx, key, &summary, func() (interface{}, error) {
		b, err := s.store.Batches().GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		purchases, err := s.store.Purchases().List(ctx, domain.PurchaseFilter{BatchID: id})
		if err != nil {
			return nil, fmt.Errorf("failed to load batch purchases: %w", err)
		}
		return domain.Summarize(b, purchases), nil
	}, s.summaryTTL)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
