package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tatanenfresh/backend/utils"
	"go.uber.org/zap"
)

// WeatherClient fetches current conditions for a city
type WeatherClient interface {
	Current(ctx context.Context, city string) (json.RawMessage, error)
}

// WeatherHandler proxies weather lookups
type WeatherHandler struct {
	client WeatherClient
	logger *zap.Logger
}

// NewWeatherHandler creates a new WeatherHandler
func NewWeatherHandler(client WeatherClient, logger *zap.Logger) *WeatherHandler {
	return &WeatherHandler{
		client: client,
		logger: logger,
	}
}

// HandleCurrent handles GET /api/weather?city=. The upstream payload is
// returned unchanged.
func (h *WeatherHandler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	payload, err := h.client.Current(r.Context(), r.URL.Query().Get("city"))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteJSON(w, http.StatusOK, payload)
}
