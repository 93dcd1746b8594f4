package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/tatanenfresh/backend/middleware"
	"github.com/tatanenfresh/backend/models"
	"github.com/tatanenfresh/backend/services/account"
	"github.com/tatanenfresh/backend/utils"
	"go.uber.org/zap"
)

// AccountService defines the account operations used by the HTTP layer
type AccountService interface {
	Register(ctx context.Context, in account.RegisterInput) (*models.User, error)
	Login(ctx context.Context, in account.LoginInput) (*account.LoginResult, error)
	Profile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	ListPending(ctx context.Context) ([]*models.User, error)
	Approve(ctx context.Context, adminID, userID uuid.UUID) error
	Reject(ctx context.Context, adminID, userID uuid.UUID) error
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=admin client"`
	Address  string `json:"address"`
	Phone    string `json:"phone" validate:"max=20"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthHandler handles registration, login and profile requests
type AuthHandler struct {
	accounts AccountService
	logger   *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(accounts AccountService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		logger:   logger,
	}
}

// HandleRegister handles POST /api/auth/register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeAndValidate(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	user, err := h.accounts.Register(r.Context(), account.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.UserRole(req.Role),
		Address:  req.Address,
		Phone:    req.Phone,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteCreated(w, user.Summary(), "registration successful, waiting for admin approval")
}

// HandleLogin handles POST /api/auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	result, err := h.accounts.Login(r.Context(), account.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		ClientIP: utils.ClientIP(r),
	})
	if err != nil {
		h.logger.Info("login failed",
			zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
			zap.Error(err))
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, result)
}

// HandleProfile handles GET /api/auth/profile
func (h *AuthHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	user, err := h.accounts.Profile(r.Context(), claims.UserID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, user)
}
