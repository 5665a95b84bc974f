package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/userhub/user-management/internal/api/metrics"
	"github.com/userhub/user-management/internal/core/domain"
	"github.com/userhub/user-management/internal/core/ports"
)

// AuthService implements registration, login, logout and me.
//
// Tokens are HS256 JWTs carrying sub/role/jti/exp. Every issued token has a
// matching session entry keyed by jti; revoking the session (logout) makes
// the token unusable before its exp, which gives the opaque-bearer
// invalidation semantics on top of a signed token.
type AuthService struct {
	repo      ports.UserRepository
	sessions  ports.SessionStore
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, sessions ports.SessionStore, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		repo:      repo,
		sessions:  sessions,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// Register creates a user with role forced to "user" and issues a token.
// Field syntax is validated at the transport layer; this layer enforces
// email uniqueness and reports it as a field-level validation error.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Phone:        input.Phone,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, "", domain.NewValidationError().Add("email", "The email has already been taken.")
		}
		return nil, "", err
	}

	token, err := s.issueToken(ctx, created)
	if err != nil {
		return nil, "", err
	}

	metrics.RegistrationsTotal.Inc()
	s.logger.Info().Int64("user_id", created.ID).Str("email", created.Email).Msg("user registered")
	return created, token, nil
}

// Login verifies the password against the stored hash and issues a fresh
// token. Unknown email and wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if email == "" || password == "" {
		return nil, "", domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Int64("user_id", user.ID).Msg("user logged in")
	return user, token, nil
}

// Logout revokes the session behind jti. Revoking twice fails the second
// time with domain.ErrSessionNotFound.
func (s *AuthService) Logout(ctx context.Context, jti string) error {
	if err := s.sessions.Revoke(ctx, jti); err != nil {
		return err
	}
	s.logger.Info().Str("jti", jti).Msg("session revoked")
	return nil
}

// Me returns the authenticated caller's own record.
func (s *AuthService) Me(ctx context.Context, userID int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *AuthService) issueToken(ctx context.Context, user *domain.User) (string, error) {
	jti := uuid.NewString()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(user.ID, 10),
		"role": user.Role,
		"jti":  jti,
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	if err := s.sessions.Save(ctx, jti, user.ID, s.tokenTTL); err != nil {
		return "", err
	}
	return signed, nil
}
