package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/tatanenfresh/backend/config"
	"github.com/tatanenfresh/backend/services"
	"go.uber.org/zap"
)

// maxBodyBytes caps the upstream payload read into memory
const maxBodyBytes = 1 << 20

// cacheSize bounds the number of cities kept in memory
const cacheSize = 256

// Client proxies current-weather lookups to OpenWeather
type Client struct {
	cfg        config.WeatherConfig
	httpClient *http.Client
	cache      *expirable.LRU[string, json.RawMessage] // nil when CacheTTL is zero
	logger     *zap.Logger
}

// NewClient creates a weather client
func NewClient(cfg config.WeatherConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if cfg.DefaultCity == "" {
		cfg.DefaultCity = "Bandung"
	}
	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
	if cfg.CacheTTL > 0 {
		c.cache = expirable.NewLRU[string, json.RawMessage](cacheSize, nil, cfg.CacheTTL)
	}
	return c
}

// Current returns the upstream JSON for city, or for the default city when empty
func (c *Client) Current(ctx context.Context, city string) (json.RawMessage, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		city = c.cfg.DefaultCity
	}

	key := strings.ToLower(city)
	if c.cache != nil {
		if payload, ok := c.cache.Get(key); ok {
			return payload, nil
		}
	}

	query := url.Values{
		"q":     {city},
		"appid": {c.cfg.APIKey},
		"units": {"metric"},
		"lang":  {"id"},
	}
	endpoint := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/weather?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, services.WrapInternal("failed to build weather request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.ErrWeatherUnavailable.Wrap(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, services.ErrWeatherUnavailable.Wrap(fmt.Errorf("read weather response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("weather upstream returned error",
			zap.Int("status", resp.StatusCode),
			zap.String("city", city))
		return nil, services.ErrWeatherUnavailable.Wrap(fmt.Errorf("upstream status %d", resp.StatusCode))
	}
	if !json.Valid(body) {
		return nil, services.ErrWeatherUnavailable.Wrap(fmt.Errorf("upstream returned invalid JSON"))
	}

	payload := json.RawMessage(body)
	if c.cache != nil {
		c.cache.Add(key, payload)
	}
	return payload, nil
}
