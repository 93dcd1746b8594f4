package app

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tatanenfresh/backend/config"
	"github.com/tatanenfresh/backend/models"
	"github.com/tatanenfresh/backend/repositories"
	"github.com/tatanenfresh/backend/repositories/postgres"
	"github.com/tatanenfresh/backend/services/ratelimit"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestNewDependencies(t *testing.T) {
	t.Run("successful initialization with all components", func(t *testing.T) {
		ctx := context.Background()
		cfg := testConfig(t)
		logger := zaptest.NewLogger(t)

		// Skip if database not available
		if !isDatabaseAvailable(t, cfg) {
			t.Skip("database not available")
		}

		deps, err := NewDependencies(ctx, cfg, logger)
		require.NoError(t, err)
		require.NotNil(t, deps)

		assert.NotNil(t, deps.DB)
		assert.NotNil(t, deps.Users)
		assert.NotNil(t, deps.Orders)
		assert.NotNil(t, deps.TxManager)

		err = deps.Close(ctx)
		assert.NoError(t, err)
	})

	t.Run("database connection failure", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		cfg := testConfig(t)
		cfg.Database.Host = "invalid-host-that-does-not-exist"
		logger := zaptest.NewLogger(t)

		deps, err := NewDependencies(ctx, cfg, logger)
		assert.Error(t, err)
		assert.Nil(t, deps)
		assert.Contains(t, err.Error(), "failed to initialize database")
	})
}

func TestNewWithRepositories(t *testing.T) {
	cfg := testConfig(t)
	logger := zaptest.NewLogger(t)

	deps, err := NewWithRepositories(cfg, logger, &repositories.Repositories{}, nil)
	require.NoError(t, err)
	defer deps.Close(context.Background())

	assert.NotNil(t, deps.Tokens)
	assert.NotNil(t, deps.AuthMiddleware)
	assert.NotNil(t, deps.Accounts)
	assert.NotNil(t, deps.Catalog)
	assert.NotNil(t, deps.Workflow)
	assert.NotNil(t, deps.Analytics)
	assert.NotNil(t, deps.Weather)
	assert.NotNil(t, deps.Audit)
	assert.Equal(t, ratelimit.Disabled, deps.Limiter)
	assert.Nil(t, deps.DB)

	t.Run("issued tokens verify with the configured secret", func(t *testing.T) {
		userID := uuid.New()
		signed, err := deps.Tokens.Issue(userID, models.RoleClient)
		require.NoError(t, err)

		identity, err := deps.Tokens.Verify(signed)
		require.NoError(t, err)
		assert.Equal(t, userID, identity.UserID)
		assert.Equal(t, models.RoleClient, identity.Role)
	})
}

func TestDependenciesClose(t *testing.T) {
	t.Run("second close is a no-op", func(t *testing.T) {
		ctx := context.Background()
		deps, err := NewWithRepositories(testConfig(t), zaptest.NewLogger(t), &repositories.Repositories{}, nil)
		require.NoError(t, err)

		assert.NoError(t, deps.Close(ctx))
		assert.Nil(t, deps.Audit)
		assert.NoError(t, deps.Close(ctx))
	})
}

func TestInitRateLimiter(t *testing.T) {
	t.Run("no redis url keeps throttling disabled", func(t *testing.T) {
		deps, err := NewWithRepositories(testConfig(t), zaptest.NewLogger(t), &repositories.Repositories{}, nil)
		require.NoError(t, err)
		defer deps.Close(context.Background())

		deps.initRateLimiter(context.Background(), deps.Config)
		assert.Equal(t, ratelimit.Disabled, deps.Limiter)
	})

	t.Run("invalid redis url keeps throttling disabled", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.RateLimit.RedisURL = "not-a-redis-url"
		deps, err := NewWithRepositories(cfg, zaptest.NewLogger(t), &repositories.Repositories{}, nil)
		require.NoError(t, err)
		defer deps.Close(context.Background())

		deps.initRateLimiter(context.Background(), cfg)
		assert.Equal(t, ratelimit.Disabled, deps.Limiter)
	})
}

// Test helpers

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Environment: "test",
		Server: config.ServerConfig{
			Host:            "localhost",
			Port:            3000,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			AllowedOrigins:  []string{"*"},
		},
		Database: config.DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "tatanen",
			Password:        "tatanen",
			Database:        "tatanen_fresh_test",
			SSLMode:         "disable",
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Auth: config.AuthConfig{
			JWTSecret:  "test-secret",
			TokenTTL:   7 * 24 * time.Hour,
			BcryptCost: 4,
		},
		RateLimit: config.RateLimitConfig{
			LoginMaxAttempts: 5,
			LoginWindow:      time.Minute,
		},
		Weather: config.WeatherConfig{
			BaseURL:     "http://127.0.0.1:0",
			DefaultCity: "Bandung",
			Timeout:     time.Second,
		},
		Audit: config.AuditConfig{
			BufferSize:  10,
			WorkerCount: 1,
		},
		Observability: config.ObservabilityConfig{
			LogLevel:  "debug",
			LogFormat: "json",
		},
	}
}

func isDatabaseAvailable(t *testing.T, cfg *config.Config) bool {
	t.Helper()
	factory, err := postgres.NewRepositoryFactory(cfg, zap.NewNop())
	if err != nil {
		return false
	}
	defer factory.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return factory.GetDB().PingContext(ctx) == nil
}
