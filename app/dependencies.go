package app

import (
	"context"
	"fmt"
	"time"

	"github.com/tatanenfresh/backend/config"
	"github.com/tatanenfresh/backend/middleware"
	"github.com/tatanenfresh/backend/repositories"
	"github.com/tatanenfresh/backend/repositories/postgres"
	"github.com/tatanenfresh/backend/services/account"
	"github.com/tatanenfresh/backend/services/analytics"
	"github.com/tatanenfresh/backend/services/audit"
	"github.com/tatanenfresh/backend/services/catalog"
	"github.com/tatanenfresh/backend/services/order"
	"github.com/tatanenfresh/backend/services/ratelimit"
	"github.com/tatanenfresh/backend/services/token"
	"github.com/tatanenfresh/backend/services/weather"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Users         repositories.UserRepository
	Products      repositories.ProductRepository
	Orders        repositories.OrderRepository
	AnalyticsRepo repositories.AnalyticsRepository
	AuditLogs     repositories.AuditRepository
	TxManager     repositories.TransactionManager

	// Services
	Tokens    *token.Service
	Limiter   ratelimit.Limiter
	Audit     *audit.AuditService
	Accounts  *account.Service
	Catalog   *catalog.Service
	Workflow  *order.Service
	Analytics *analytics.Service
	Weather   *weather.Client

	// Auth
	AuthMiddleware *middleware.AuthMiddleware

	redisLimiter *ratelimit.RedisLimiter
}

// NewDependencies opens the database and wires every service on top of it
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	factory, err := postgres.NewRepositoryFactory(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	db := factory.GetDB()
	if err := db.HealthCheck(ctx); err != nil {
		_ = factory.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := db.InitSchema(ctx); err != nil {
			_ = factory.Close()
			return nil, fmt.Errorf("failed to initialize schema: %w", err)
		}
		logger.Info("database schema ensured")
	}

	deps, err := NewWithRepositories(cfg, logger, factory.NewRepositories(), factory.GetTransactionManager())
	if err != nil {
		_ = factory.Close()
		return nil, err
	}
	deps.RepoFactory = factory
	deps.DB = db

	deps.initRateLimiter(ctx, cfg)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// NewWithRepositories wires services over the given repositories. Login
// throttling is disabled until a limiter is configured.
func NewWithRepositories(cfg *config.Config, logger *zap.Logger, repos *repositories.Repositories, txMgr repositories.TransactionManager) (*Dependencies, error) {
	d := &Dependencies{
		Config:        cfg,
		Logger:        logger,
		Users:         repos.Users,
		Products:      repos.Products,
		Orders:        repos.Orders,
		AnalyticsRepo: repos.Analytics,
		AuditLogs:     repos.AuditLogs,
		TxManager:     txMgr,
		Limiter:       ratelimit.Disabled,
	}

	d.Audit = audit.NewAuditService(repos.AuditLogs, logger, audit.Config{
		BufferSize:  cfg.Audit.BufferSize,
		WorkerCount: cfg.Audit.WorkerCount,
	})
	if err := d.Audit.Start(); err != nil {
		return nil, fmt.Errorf("failed to start audit service: %w", err)
	}

	d.Tokens = token.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.Tokens, logger)

	d.Accounts = account.NewService(repos.Users, account.NewBcryptHasher(cfg.Auth.BcryptCost), d.Tokens, &limiterRef{d}, d.Audit, logger)
	d.Catalog = catalog.NewService(repos.Products, d.Audit, logger)
	d.Workflow = order.NewService(repos.Orders, txMgr, d.Audit, logger)
	d.Analytics = analytics.NewService(repos.Analytics, logger, analytics.WithCache(cfg.Analytics.CacheTTL))
	d.Weather = weather.NewClient(cfg.Weather, logger)

	return d, nil
}

// initRateLimiter switches login throttling to Redis when REDIS_URL is set.
// An unreachable Redis is logged; the limiter fails open per request.
func (d *Dependencies) initRateLimiter(ctx context.Context, cfg *config.Config) {
	if cfg.RateLimit.RedisURL == "" {
		d.Logger.Info("login throttling disabled, REDIS_URL not set")
		return
	}

	limiter, err := ratelimit.NewRedisLimiterFromURL(cfg.RateLimit.RedisURL, ratelimit.Config{
		Prefix: "login",
		Limit:  cfg.RateLimit.LoginMaxAttempts,
		Window: cfg.RateLimit.LoginWindow,
	}, d.Logger)
	if err != nil {
		d.Logger.Warn("login throttling disabled", zap.Error(err))
		return
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := limiter.Ping(pingCtx); err != nil {
		d.Logger.Warn("redis not reachable, login throttling fails open until it is", zap.Error(err))
	}

	d.redisLimiter = limiter
	d.Limiter = limiter
	d.Logger.Info("login throttling enabled",
		zap.Int("max_attempts", cfg.RateLimit.LoginMaxAttempts),
		zap.Duration("window", cfg.RateLimit.LoginWindow))
}

// limiterRef lets the account service see a limiter swapped in after wiring
type limiterRef struct {
	d *Dependencies
}

func (l *limiterRef) Allow(ctx context.Context, scope string) (ratelimit.Decision, error) {
	return l.d.Limiter.Allow(ctx, scope)
}

func (l *limiterRef) Reset(ctx context.Context, scope string) error {
	return l.d.Limiter.Reset(ctx, scope)
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.Audit != nil {
		timeout := 5 * time.Second
		if deadline, ok := ctx.Deadline(); ok {
			timeout = time.Until(deadline)
		}
		if err := d.Audit.Stop(timeout); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop audit service: %w", err))
		}
		d.Audit = nil
	}

	if d.redisLimiter != nil {
		if err := d.redisLimiter.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
		d.redisLimiter = nil
	}

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
		d.RepoFactory = nil
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
