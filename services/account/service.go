package account

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/tatanenfresh/backend/models"
	"github.com/tatanenfresh/backend/repositories"
	"github.com/tatanenfresh/backend/services"
	"github.com/tatanenfresh/backend/services/audit"
	"github.com/tatanenfresh/backend/services/ratelimit"
	"go.uber.org/zap"
)

// TokenIssuer signs session tokens
type TokenIssuer interface {
	Issue(userID uuid.UUID, role models.UserRole) (string, error)
}

// RegisterInput is a self-service registration
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     models.UserRole
	Address  string
	Phone    string
}

// LoginInput carries credentials and the caller's address for throttling
type LoginInput struct {
	Email    string
	Password string
	ClientIP string
}

// LoginResult is a signed session and the account it belongs to
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Service manages accounts: registration, login, approval
type Service struct {
	users   repositories.UserRepository
	hasher  PasswordHasher
	tokens  TokenIssuer
	limiter ratelimit.Limiter
	audit   audit.Recorder
	logger  *zap.Logger
}

// NewService creates an account service. A nil limiter disables throttling
// and a nil recorder disables auditing.
func NewService(users repositories.UserRepository, hasher PasswordHasher, tokens TokenIssuer, limiter ratelimit.Limiter, recorder audit.Recorder, logger *zap.Logger) *Service {
	if limiter == nil {
		limiter = ratelimit.Disabled
	}
	if recorder == nil {
		recorder = audit.Discard
	}
	return &Service{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		limiter: limiter,
		audit:   recorder,
		logger:  logger,
	}
}

// Register creates an inactive account. A taken email is a validation error.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := normalizeEmail(in.Email)
	if in.Role == "" {
		in.Role = models.RoleClient
	}
	if !in.Role.IsValid() {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "invalid role", nil).
			WithDetail("role", string(in.Role))
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, services.ErrDatabaseError.Wrap(err)
	}
	if exists {
		return nil, services.ErrEmailTaken
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, services.WrapInternal("failed to hash password", err)
	}

	user := models.NewUser(strings.TrimSpace(in.Name), email, hash, in.Role, in.Address, in.Phone)
	if err := s.users.Create(ctx, user); err != nil {
		// a concurrent registration can still hit the unique constraint
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, services.ErrEmailTaken
		}
		return nil, services.ErrDatabaseError.Wrap(err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))
	s.audit.Record(ctx, audit.UserRegistered(user))
	return user, nil
}

// Login checks credentials and issues a session token. Approval is not
// required to log in.
func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email := normalizeEmail(in.Email)
	scope := in.ClientIP + ":" + email

	decision, err := s.limiter.Allow(ctx, scope)
	if err != nil {
		s.logger.Warn("login throttle check failed", zap.Error(err))
	}
	if !decision.Allowed {
		return nil, services.ErrLoginThrottled.Wrap(nil).
			WithDetail("retry_after_seconds", int(decision.RetryAfter.Seconds()))
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrInvalidCredentials
		}
		return nil, services.ErrDatabaseError.Wrap(err)
	}

	ok, err := s.hasher.Compare(user.PasswordHash, in.Password)
	if err != nil {
		return nil, services.WrapInternal("failed to verify password", err)
	}
	if !ok {
		return nil, services.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.Reset(ctx, scope); err != nil {
		s.logger.Warn("failed to reset login throttle", zap.Error(err))
	}

	s.logger.Debug("user logged in", zap.String("user_id", user.ID.String()))
	return &LoginResult{Token: token, User: user}, nil
}

// Profile returns the account behind an authenticated request
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrUserNotFound
		}
		return nil, services.ErrDatabaseError.Wrap(err)
	}
	return user, nil
}

// ListPending returns accounts awaiting approval
func (s *Service) ListPending(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.ListInactive(ctx)
	if err != nil {
		return nil, services.ErrDatabaseError.Wrap(err)
	}
	return users, nil
}

// Approve activates an account
func (s *Service) Approve(ctx context.Context, adminID, userID uuid.UUID) error {
	if err := s.users.Activate(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return services.ErrUserNotFound
		}
		return services.ErrDatabaseError.Wrap(err)
	}

	s.logger.Info("user approved", zap.String("user_id", userID.String()), zap.String("admin_id", adminID.String()))
	s.audit.Record(ctx, audit.UserApproved(adminID, userID))
	return nil
}

// Reject deletes an account together with its orders
func (s *Service) Reject(ctx context.Context, adminID, userID uuid.UUID) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return services.ErrUserNotFound
		}
		return services.ErrDatabaseError.Wrap(err)
	}

	s.logger.Info("user rejected", zap.String("user_id", userID.String()), zap.String("admin_id", adminID.String()))
	s.audit.Record(ctx, audit.UserRejected(adminID, userID))
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
