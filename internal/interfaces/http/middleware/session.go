package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nantech/inventory/internal/domain/identity"
	"github.com/nantech/inventory/internal/domain/shared"
	"github.com/nantech/inventory/internal/infrastructure/logger"
	"github.com/nantech/inventory/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Gin context keys for the resolved session
const (
	SessionKey      = "session"
	SessionTokenKey = "session_token"
)

// SessionAuthenticator resolves a session token into a live session.
// shared.ErrServiceUnavailable means the token could not be checked; any
// other error means the caller has no session.
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (identity.Session, error)
}

// SessionGuard requires a valid session cookie on API routes.
// Invalid or revoked tokens clear the cookie and answer 401. When the
// session store is down the cookie is kept and the answer is 503.
func SessionGuard(auth SessionAuthenticator, cookie SessionCookie, zapLogger *zap.Logger) gin.HandlerFunc {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	return func(c *gin.Context) {
		token, ok := cookie.Read(c)
		if !ok {
			abortUnauthorized(c, "Authentication required")
			return
		}

		session, err := auth.Authenticate(c.Request.Context(), token)
		if errors.Is(err, shared.ErrServiceUnavailable) {
			zapLogger.Warn("Session check unavailable",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			abortUnavailable(c)
			return
		}
		if err != nil {
			zapLogger.Debug("Rejected session token",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			cookie.Clear(c)
			abortUnauthorized(c, "Invalid or expired session")
			return
		}

		setSession(c, session, token)
		c.Next()
	}
}

// RequireAdmin allows only sessions with the admin role. It must follow SessionGuard.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := SessionFromContext(c)
		if !ok {
			abortUnauthorized(c, "Authentication required")
			return
		}
		if !session.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden,
				"Admin role required",
				c.GetString(RequestIDKey),
			))
			return
		}
		c.Next()
	}
}

// SessionFromContext returns the session stored by SessionGuard or RouteGate
func SessionFromContext(c *gin.Context) (identity.Session, bool) {
	v, exists := c.Get(SessionKey)
	if !exists {
		return identity.Session{}, false
	}
	s, ok := v.(identity.Session)
	return s, ok
}

// SessionTokenFromContext returns the raw token the session was decoded from
func SessionTokenFromContext(c *gin.Context) string {
	return c.GetString(SessionTokenKey)
}

func setSession(c *gin.Context, session identity.Session, token string) {
	c.Set(SessionKey, session)
	c.Set(SessionTokenKey, token)

	// Request-scoped logging picks up the user id from here on
	ctx := c.Request.Context()
	ctx, reqLogger := logger.WithUserID(ctx, logger.FromContext(ctx), session.SubjectID)
	c.Set("logger", reqLogger)
	c.Request = c.Request.WithContext(ctx)
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeUnauthorized,
		message,
		c.GetString(RequestIDKey),
	))
}

func abortUnavailable(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusServiceUnavailable, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeServiceUnavailable,
		"Session could not be verified, try again later",
		c.GetString(RequestIDKey),
	))
}
