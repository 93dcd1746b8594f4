package handlers

import (
	"context"
	"net/http"

	"github.com/tatanenfresh/backend/models"
	"github.com/tatanenfresh/backend/utils"
	"go.uber.org/zap"
)

// AnalyticsService defines the reporting operations used by the HTTP layer
type AnalyticsService interface {
	AdminDashboard(ctx context.Context) (*models.AdminAnalytics, error)
	ClientStatistics(ctx context.Context) (*models.ClientStatistics, error)
}

// AnalyticsHandler serves dashboard aggregates
type AnalyticsHandler struct {
	analytics AnalyticsService
	logger    *zap.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analytics AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analytics,
		logger:    logger,
	}
}

// HandleAdminAnalytics handles GET /api/admin/analytics
func (h *AnalyticsHandler) HandleAdminAnalytics(w http.ResponseWriter, r *http.Request) {
	result, err := h.analytics.AdminDashboard(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, result)
}

// HandleClientStatistics handles GET /api/client/statistics
func (h *AnalyticsHandler) HandleClientStatistics(w http.ResponseWriter, r *http.Request) {
	result, err := h.analytics.ClientStatistics(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, result)
}
