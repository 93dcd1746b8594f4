package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tatanenfresh/backend/models"
	"github.com/tatanenfresh/backend/services"
)

// DefaultTTL is the session lifetime when none is configured
const DefaultTTL = 7 * 24 * time.Hour

// Claims is the signed session payload
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// Identity is the verified subject carried by a session token
type Identity struct {
	UserID uuid.UUID
	Role   models.UserRole
}

// IsAdmin checks if the identity has the admin role
func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

// Service issues and verifies HS256 session tokens
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the time source used for issuing and verifying
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a token service. A non-positive ttl falls back to DefaultTTL.
func NewService(secret string, ttl time.Duration, opts ...Option) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue signs a token for the user that expires after the configured TTL
func (s *Service) Issue(userID uuid.UUID, role models.UserRole) (string, error) {
	now := s.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: userID.String(),
		Role:   string(role),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", services.WrapInternal("failed to sign token", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the token's identity.
// Every failure is reported as services.ErrInvalidToken.
func (s *Service) Verify(tokenString string) (*Identity, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, services.ErrInvalidToken.Wrap(fmt.Errorf("token expired: %w", err))
		}
		return nil, services.ErrInvalidToken.Wrap(err)
	}
	if !token.Valid {
		return nil, services.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, services.ErrInvalidToken.Wrap(fmt.Errorf("invalid userId claim: %w", err))
	}
	role := models.UserRole(claims.Role)
	if !role.IsValid() {
		return nil, services.ErrInvalidToken.Wrap(fmt.Errorf("invalid role claim: %q", claims.Role))
	}

	return &Identity{UserID: userID, Role: role}, nil
}
