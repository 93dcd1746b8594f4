package analytics

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/tatanenfresh/backend/models"
	"github.com/tatanenfresh/backend/repositories"
	"github.com/tatanenfresh/backend/services"
	"go.uber.org/zap"
)

const (
	// monthsBack is the length of the monthly series
	monthsBack = 6
	// topProductLimit is the number of ranked products returned
	topProductLimit = 5
	// snapshotKey is the single cache slot; both dashboards share one snapshot
	snapshotKey = "dashboard"
)

type snapshot struct {
	monthly []models.MonthlyOrders
	counts  []models.StatusCount
	top     []models.TopProduct
}

// Service computes the reporting aggregates
type Service struct {
	repo   repositories.AnalyticsRepository
	cache  *expirable.LRU[string, snapshot]
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithCache keeps computed aggregates for ttl. A non-positive ttl disables caching.
func WithCache(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cache = expirable.NewLRU[string, snapshot](1, nil, ttl)
		}
	}
}

// NewService creates an analytics service
func NewService(repo repositories.AnalyticsRepository, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AdminDashboard returns the store-wide aggregates
func (s *Service) AdminDashboard(ctx context.Context) (*models.AdminAnalytics, error) {
	snap, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}

	out := &models.AdminAnalytics{
		MonthlyOrders: make([]models.AdminMonthlyOrders, 0, len(snap.monthly)),
		StatusCounts:  snap.counts,
		TopProducts:   make([]models.AdminTopProduct, 0, len(snap.top)),
	}
	for _, m := range snap.monthly {
		out.MonthlyOrders = append(out.MonthlyOrders, models.AdminMonthlyOrders{Month: m.Month, Count: m.Count, Revenue: m.Amount})
	}
	for _, p := range snap.top {
		out.TopProducts = append(out.TopProducts, models.AdminTopProduct{
			ProductName:   p.ProductName,
			TotalQuantity: p.TotalQuantity,
			OrderCount:    p.OrderCount,
		})
	}
	return out, nil
}

// ClientStatistics returns the purchase statistics shown on the client dashboard
func (s *Service) ClientStatistics(ctx context.Context) (*models.ClientStatistics, error) {
	snap, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}

	out := &models.ClientStatistics{
		MonthlyOrders: make([]models.ClientMonthlyOrders, 0, len(snap.monthly)),
		StatusCounts:  snap.counts,
		TopProducts:   make([]models.ClientTopProduct, 0, len(snap.top)),
	}
	for _, m := range snap.monthly {
		out.MonthlyOrders = append(out.MonthlyOrders, models.ClientMonthlyOrders{Month: m.Month, Count: m.Count, TotalSpent: m.Amount})
	}
	for _, p := range snap.top {
		out.TopProducts = append(out.TopProducts, models.ClientTopProduct{
			ProductName:   p.ProductName,
			TotalQuantity: p.TotalQuantity,
			TotalSpent:    p.TotalSpent,
		})
	}
	return out, nil
}

func (s *Service) collect(ctx context.Context) (snapshot, error) {
	if s.cache != nil {
		if snap, ok := s.cache.Get(snapshotKey); ok {
			return snap, nil
		}
	}

	since := s.now().AddDate(0, -monthsBack, 0)

	monthly, err := s.repo.MonthlyOrders(ctx, since)
	if err != nil {
		return snapshot{}, services.ErrDatabaseError.Wrap(err)
	}
	counts, err := s.repo.StatusCounts(ctx)
	if err != nil {
		return snapshot{}, services.ErrDatabaseError.Wrap(err)
	}
	top, err := s.repo.TopProducts(ctx, topProductLimit)
	if err != nil {
		return snapshot{}, services.ErrDatabaseError.Wrap(err)
	}

	s.logger.Debug("analytics computed",
		zap.Int("months", len(monthly)),
		zap.Int("statuses", len(counts)),
		zap.Int("top_products", len(top)))

	snap := snapshot{monthly: monthly, counts: counts, top: top}
	if s.cache != nil {
		s.cache.Add(snapshotKey, snap)
	}
	return snap, nil
}
