package middleware

import (
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nantech/inventory/internal/domain/identity"
	"github.com/nantech/inventory/internal/domain/shared"
	"github.com/nantech/inventory/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Page sections the gate protects. Each also covers its sub-paths.
var gatedSections = []string{"/inventory", "/transactions", "/users"}

// Exact page paths the gate protects
var gatedPages = map[string]bool{
	identity.PathHome:      true,
	identity.PathLogin:     true,
	identity.PathDashboard: true,
}

// NormalizePath cleans p and strips a trailing slash, keeping "/" as is
func NormalizePath(p string) string {
	if p == "" {
		return "/"
	}
	cleaned := path.Clean("/" + p)
	if cleaned != "/" {
		cleaned = strings.TrimSuffix(cleaned, "/")
	}
	return cleaned
}

// IsGatedPath reports whether the page gate applies to p
func IsGatedPath(p string) bool {
	p = NormalizePath(p)
	if gatedPages[p] {
		return true
	}
	for _, section := range gatedSections {
		if p == section || strings.HasPrefix(p, section+"/") {
			return true
		}
	}
	return false
}

// RouteGate decides access to page routes from the session cookie and the access policy
type RouteGate struct {
	policy *identity.AccessPolicy
	auth   SessionAuthenticator
	cookie SessionCookie
	logger *zap.Logger
}

// NewRouteGate creates a RouteGate
func NewRouteGate(policy *identity.AccessPolicy, auth SessionAuthenticator, cookie SessionCookie, logger *zap.Logger) *RouteGate {
	if policy == nil {
		policy = identity.DefaultAccessPolicy()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RouteGate{policy: policy, auth: auth, cookie: cookie, logger: logger}
}

// Handler returns the gin middleware. Paths outside the gated set pass through untouched.
func (g *RouteGate) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsGatedPath(c.Request.URL.Path) {
			c.Next()
			return
		}
		current := NormalizePath(c.Request.URL.Path)

		var (
			session       identity.Session
			token         string
			authenticated bool
		)
		if t, ok := g.cookie.Read(c); ok {
			s, err := g.auth.Authenticate(c.Request.Context(), t)
			if errors.Is(err, shared.ErrServiceUnavailable) {
				g.logger.Warn("Session check unavailable", zap.String("path", current), zap.Error(err))
				abortUnavailable(c)
				return
			}
			if err != nil {
				g.logger.Debug("Clearing invalid session cookie",
					zap.String("path", current),
					zap.Error(err),
				)
				g.cookie.Clear(c)
				g.redirect(c, identity.PathLogin)
				return
			}
			session, token, authenticated = s, t, true
		}

		decision, rule := g.policy.Evaluate(identity.AccessRequest{
			Authenticated: authenticated,
			Role:          session.Role,
			Path:          current,
		})

		if decision == identity.Allow {
			if authenticated {
				setSession(c, session, token)
			}
			c.Next()
			return
		}

		location := decision.Location()
		g.logger.Debug("Page access redirected",
			zap.String("path", current),
			zap.String("rule", rule),
			zap.String("decision", decision.String()),
			zap.String("role", session.Role.String()),
		)

		// A redirect to the page being requested would loop
		if location == current {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden,
				"Access to this page is not permitted",
				c.GetString(RequestIDKey),
			))
			return
		}

		g.redirect(c, location)
	}
}

func (g *RouteGate) redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
	c.Abort()
}
