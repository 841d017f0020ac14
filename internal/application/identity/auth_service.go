package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nantech/inventory/internal/domain/identity"
	"github.com/nantech/inventory/internal/domain/shared"
	"github.com/nantech/inventory/internal/infrastructure/auth"
	"github.com/nantech/inventory/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Login outcomes reported to LoginRecorder
const (
	LoginOutcomeSuccess            = "success"
	LoginOutcomeInvalidCredentials = "invalid_credentials"
	LoginOutcomeError              = "error"
)

// LoginRecorder receives one outcome per login attempt
type LoginRecorder interface {
	RecordLogin(ctx context.Context, outcome string)
}

type noopLoginRecorder struct{}

func (noopLoginRecorder) RecordLogin(context.Context, string) {}

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	SessionMaxAge time.Duration // Cookie lifetime; also the revocation TTL
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		SessionMaxAge: 7 * 24 * time.Hour,
	}
}

// AuthService handles login, logout and session verification
type AuthService struct {
	userRepo    identity.UserRepository
	codec       auth.SessionCodec
	revocations auth.RevocationStore
	metrics     LoginRecorder
	config      AuthServiceConfig
	logger      *zap.Logger
	now         func() time.Time
	// checkAbsent burns a password comparison for usernames that do not exist
	checkAbsent func(password string) bool
}

var (
	absentUserOnce sync.Once
	absentUser     identity.User
)

// verifyAbsentUser compares against a fixed hash of the same cost as real
// users so an unknown username takes as long as a wrong password.
func verifyAbsentUser(password string) bool {
	absentUserOnce.Do(func() {
		hash, _ := identity.HashPassword("absent-user")
		absentUser = identity.User{PasswordHash: hash}
	})
	return absentUser.VerifyPassword(password)
}

// NewAuthService creates a new authentication service.
// A nil recorder disables login metrics.
func NewAuthService(
	userRepo identity.UserRepository,
	codec auth.SessionCodec,
	revocations auth.RevocationStore,
	recorder LoginRecorder,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	if recorder == nil {
		recorder = noopLoginRecorder{}
	}
	if config.SessionMaxAge <= 0 {
		config.SessionMaxAge = DefaultAuthServiceConfig().SessionMaxAge
	}
	return &AuthService{
		userRepo:    userRepo,
		codec:       codec,
		revocations: revocations,
		metrics:     recorder,
		config:      config,
		logger:      logger,
		now:         time.Now,
		checkAbsent: verifyAbsentUser,
	}
}

// Login verifies credentials and issues a session token.
// An unknown username and a wrong password yield the same error.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "login")
	defer span.End()

	if strings.TrimSpace(input.Username) == "" || input.Password == "" {
		return nil, shared.NewValidationError("Username and password are required")
	}

	s.logger.Info("Login attempt", zap.String("username", input.Username), zap.String("ip", input.IP))

	user, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.checkAbsent(input.Password)
			s.logger.Warn("User not found during login", zap.String("username", input.Username))
			s.metrics.RecordLogin(ctx, LoginOutcomeInvalidCredentials)
			return nil, shared.ErrInvalidCredentials
		}
		s.logger.Error("Failed to load user during login", zap.Error(err))
		s.metrics.RecordLogin(ctx, LoginOutcomeError)
		telemetry.RecordError(span, err)
		return nil, err
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("username", input.Username))
		s.metrics.RecordLogin(ctx, LoginOutcomeInvalidCredentials)
		return nil, shared.ErrInvalidCredentials
	}

	issuedAt := s.now()
	token, err := s.codec.Encode(identity.NewSession(user, issuedAt))
	if err != nil {
		s.logger.Error("Failed to encode session", zap.Int64("user_id", user.ID), zap.Error(err))
		s.metrics.RecordLogin(ctx, LoginOutcomeError)
		telemetry.RecordError(span, err)
		return nil, shared.NewDomainError(shared.CodeInternal, "Failed to create session")
	}

	s.metrics.RecordLogin(ctx, LoginOutcomeSuccess)
	span.SetAttributes(attribute.Int64("user.id", user.ID), attribute.String("user.role", user.Role.String()))
	s.logger.Info("User logged in successfully",
		zap.String("username", user.Username),
		zap.Int64("user_id", user.ID))

	return &LoginResult{
		Token:     token,
		ExpiresAt: issuedAt.Add(s.config.SessionMaxAge),
		User:      toUserInfo(user),
	}, nil
}

// Logout revokes the token for one session max age.
// It never fails: the cookie is cleared regardless. Only tokens that decode
// to an existing user and are not yet revoked reach the store.
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) {
	s.logger.Info("User logout", zap.Int64("user_id", input.UserID))

	if input.Token == "" || s.revocations == nil {
		return
	}
	session, err := s.codec.Decode(input.Token)
	if err != nil {
		s.logger.Debug("Ignoring undecodable token on logout")
		return
	}
	if _, err := s.userRepo.FindByID(ctx, session.SubjectID); errors.Is(err, shared.ErrNotFound) {
		s.logger.Debug("Ignoring token of unknown user on logout", zap.Int64("subject_id", session.SubjectID))
		return
	}

	revoked, err := s.revocations.IsRevoked(ctx, input.Token)
	if err == nil && revoked {
		return
	}
	if err := s.revocations.Revoke(ctx, input.Token, s.config.SessionMaxAge); err != nil {
		s.logger.Error("Failed to revoke session", zap.Error(err))
	}
}

// Authenticate decodes a session token and rejects revoked ones.
// Undecodable and revoked tokens are auth.ErrInvalidToken. A failing
// revocation lookup is shared.ErrServiceUnavailable so callers keep the cookie.
func (s *AuthService) Authenticate(ctx context.Context, token string) (identity.Session, error) {
	if token == "" {
		return identity.Session{}, auth.ErrInvalidToken
	}
	session, err := s.codec.Decode(token)
	if err != nil {
		return identity.Session{}, auth.ErrInvalidToken
	}
	if s.revocations == nil {
		return session, nil
	}

	revoked, err := s.revocations.IsRevoked(ctx, token)
	if err != nil {
		s.logger.Error("Revocation lookup failed", zap.Error(err))
		return identity.Session{}, fmt.Errorf("%w: %w", shared.ErrServiceUnavailable, err)
	}
	if revoked {
		return identity.Session{}, auth.ErrInvalidToken
	}
	return session, nil
}

// CurrentUser returns the profile of the session's subject
func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}
	info := toUserInfo(user)
	return &info, nil
}
