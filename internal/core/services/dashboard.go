// internal/core/services/dashboard.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

const (
	dashboardLowStockLimit      = 20
	dashboardRecentTransactions = 10
)

// DashboardService assembles the inventory overview. Results are cached
// for ttl and are not invalidated by writes.
type DashboardService struct {
	store  ports.Store
	cache  ports.CacheRepository
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

var _ ports.DashboardService = (*DashboardService)(nil)

func NewDashboardService(store ports.Store, cache ports.CacheRepository, ttl time.Duration, logger *slog.Logger) *DashboardService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &DashboardService{
		store:  store,
		cache:  cache,
		ttl:    ttl,
		now:    time.Now,
		logger: logger.With(slog.String("service", "dashboard")),
	}
}

// Get returns the overview. A threshold of zero selects the default.
func (s *DashboardService) Get(ctx context.Context, lowStockThreshold int64) (*domain.Dashboard, error) {
	if lowStockThreshold < 0 {
		return nil, domain.NewValidation("low_stock", "cannot be negative")
	}
	if lowStockThreshold == 0 {
		lowStockThreshold = domain.DefaultLowStockThreshold
	}

	var dashboard domain.Dashboard
	key := ports.BuildKey(ports.PrefixDashboard, strconv.FormatInt(lowStockThreshold, 10))
	err := s.cache.GetOrSet(ctx, key, &dashboard, func() (interface{}, error) {
		return s.load(ctx, lowStockThreshold)
	}, s.ttl)
	if err != nil {
		return nil, err
	}
	return &dashboard, nil
}

func (s *DashboardService) load(ctx context.Context, threshold int64) (*domain.Dashboard, error) {
	now := s.now().UTC()
	d := &domain.Dashboard{Threshold: threshold, GeneratedAt: now}
	repo := s.store.Dashboard()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary, err := repo.Summary(gctx, domain.StartOfDay(now), threshold)
		if err != nil {
			return err
		}
		d.Summary = *summary
		return nil
	})
	g.Go(func() error {
		var err error
		d.Categories, err = repo.Categories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		d.LowStock, err = repo.LowStock(gctx, threshold, dashboardLowStockLimit)
		return err
	})
	g.Go(func() error {
		recent, _, err := s.store.Transactions().List(gctx, domain.TransactionFilter{
			Page:  1,
			Limit: dashboardRecentTransactions,
		})
		if err != nil {
			return fmt.Errorf("failed to load recent transactions: %w", err)
		}
		d.RecentTransactions = recent
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "dashboard built",
		slog.Int64("medicines", d.Summary.MedicineCount),
		slog.Int("low_stock", len(d.LowStock)))
	return d, nil
}
