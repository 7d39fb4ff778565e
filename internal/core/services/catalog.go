// internal/core/services/catalog.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

// findOrCreateAttempts bounds the retries of a racing upsert.
const findOrCreateAttempts = 3

// CatalogService manages manufacturers, units, categories and suppliers.
type CatalogService struct {
	store  ports.Store
	forget invalidator
	logger *slog.Logger
}

var _ ports.CatalogService = (*CatalogService)(nil)

// NewCatalogService creates a new catalog service
func NewCatalogService(store ports.Store, cache ports.CacheRepository, logger *slog.Logger) *CatalogService {
	logger = logger.With(slog.String("service", "catalog"))
	return &CatalogService{
		store:  store,
		forget: invalidator{cache: cache, logger: logger},
		logger: logger,
	}
}

// FindOrCreate resolves token to an entry. Ids must exist; names are
// upserted so concurrent callers converge on one row.
func (s *CatalogService) FindOrCreate(ctx context.Context, kind domain.CatalogKind, token domain.NameOrID) (*domain.CatalogEntry, error) {
	if token.IsZero() {
		return nil, domain.NewValidation(string(kind), "is required")
	}
	if token.ID > 0 {
		return s.store.Catalog().GetByID(ctx, kind, token.ID)
	}

	candidate := domain.CatalogEntry{Kind: kind, Name: token.Name}
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= findOrCreateAttempts; attempt++ {
		entry, err := s.store.Catalog().Upsert(ctx, kind, candidate.Name)
		if err == nil {
			return entry, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		lastErr = err
		s.logger.DebugContext(ctx, "catalog upsert conflicted, retrying",
			slog.String("kind", string(kind)),
			slog.Int("attempt", attempt))
	}

	return nil, fmt.Errorf("failed to resolve %s %q after %d attempts: %w",
		kind.Entity(), candidate.Name, findOrCreateAttempts, lastErr)
}

func (s *CatalogService) Create(ctx context.Context, entry *domain.CatalogEntry) error {
	if _, err := domain.ParseCatalogKind(string(entry.Kind)); err != nil {
		return err
	}
	if err := entry.Validate(); err != nil {
		return err
	}
	if err := s.store.Catalog().Create(ctx, entry); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.NewConflict("%s %q already exists", entry.Kind.Entity(), entry.Name)
		}
		return err
	}

	s.logger.InfoContext(ctx, "catalog entry created",
		slog.String("kind", string(entry.Kind)),
		slog.Int64("id", entry.ID))
	return nil
}

func (s *CatalogService) Get(ctx context.Context, kind domain.CatalogKind, id int64) (*domain.CatalogEntry, error) {
	return s.store.Catalog().GetByID(ctx, kind, id)
}

func (s *CatalogService) List(ctx context.Context, kind domain.CatalogKind) ([]domain.CatalogEntry, error) {
	return s.store.Catalog().List(ctx, kind)
}

// Update renames an entry. Cached batch summaries embed catalog names and
// are dropped.
func (s *CatalogService) Update(ctx context.Context, entry *domain.CatalogEntry) error {
	if _, err := domain.ParseCatalogKind(string(entry.Kind)); err != nil {
		return err
	}
	if entry.ID <= 0 {
		return domain.NewValidation("id", "must be a positive integer")
	}
	if err := entry.Validate(); err != nil {
		return err
	}
	if err := s.store.Catalog().Update(ctx, entry); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.NewConflict("%s %q already exists", entry.Kind.Entity(), entry.Name)
		}
		return err
	}

	s.forget.allBatchSummaries(ctx)
	s.logger.InfoContext(ctx, "catalog entry updated",
		slog.String("kind", string(entry.Kind)),
		slog.Int64("id", entry.ID))
	return nil
}

func (s *CatalogService) Delete(ctx context.Context, kind domain.CatalogKind, id int64) error {
	if err := s.store.Catalog().Delete(ctx, kind, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "catalog entry deleted",
		slog.String("kind", string(kind)),
		slog.Int64("id", id))
	return nil
}
