package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/tatanenfresh/backend/middleware"
	"github.com/tatanenfresh/backend/models"
	"github.com/tatanenfresh/backend/utils"
	"go.uber.org/zap"
)

// AuditReader lists recorded audit events
type AuditReader interface {
	Recent(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)
	ForResource(ctx context.Context, resourceType string, resourceID uuid.UUID) ([]*models.AuditLog, error)
}

// AdminHandler handles account approval and audit requests
type AdminHandler struct {
	accounts AccountService
	audit    AuditReader
	logger   *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(accounts AccountService, audit AuditReader, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		accounts: accounts,
		audit:    audit,
		logger:   logger,
	}
}

// HandlePendingUsers handles GET /api/admin/pending-users
func (h *AdminHandler) HandlePendingUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.ListPending(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, users)
}

// HandleApprove handles PUT /api/admin/users/{id}/approve
func (h *AdminHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.URLParamUUID(r, "id")
	if err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}

	adminID := middleware.GetUserIDFromContext(r.Context())
	if err := h.accounts.Approve(r.Context(), adminID, userID); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteMessage(w, "user approved")
}

// HandleReject handles DELETE /api/admin/users/{id}/reject
func (h *AdminHandler) HandleReject(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.URLParamUUID(r, "id")
	if err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}

	adminID := middleware.GetUserIDFromContext(r.Context())
	if err := h.accounts.Reject(r.Context(), adminID, userID); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteMessage(w, "user rejected")
}

// HandleAuditLogs handles GET /api/admin/audit-logs?limit=&offset=
// With resource_type and resource_id it returns that resource's history instead.
func (h *AdminHandler) HandleAuditLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if resourceType := q.Get("resource_type"); resourceType != "" {
		resourceID, err := uuid.Parse(q.Get("resource_id"))
		if err != nil {
			_ = utils.WriteBadRequest(w, "invalid resource_id", nil)
			return
		}
		logs, err := h.audit.ForResource(r.Context(), resourceType, resourceID)
		if err != nil {
			HandleServiceError(w, err, h.logger)
			return
		}
		_ = utils.WriteOK(w, logs)
		return
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	if offset < 0 {
		offset = 0
	}

	logs, err := h.audit.Recent(r.Context(), limit, offset)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, logs)
}
