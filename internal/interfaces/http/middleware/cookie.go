package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// DefaultSessionCookieName is the cookie carrying the session token
const DefaultSessionCookieName = "auth-token"

// SessionCookie describes the attributes of the session cookie
type SessionCookie struct {
	Name     string
	Domain   string
	Path     string
	SameSite http.SameSite
	Secure   bool
	MaxAge   time.Duration
}

// DefaultSessionCookie returns an HttpOnly, SameSite=Strict cookie living one week
func DefaultSessionCookie() SessionCookie {
	return SessionCookie{
		Name:     DefaultSessionCookieName,
		Path:     "/",
		SameSite: http.SameSiteStrictMode,
		MaxAge:   7 * 24 * time.Hour,
	}
}

// ParseSameSite maps a config value to http.SameSite; unknown values are strict
func ParseSameSite(s string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteStrictMode
	}
}

func (sc SessionCookie) name() string {
	if sc.Name == "" {
		return DefaultSessionCookieName
	}
	return sc.Name
}

func (sc SessionCookie) path() string {
	if sc.Path == "" {
		return "/"
	}
	return sc.Path
}

// Read returns the session token, or false when the cookie is absent or empty
func (sc SessionCookie) Read(c *gin.Context) (string, bool) {
	token, err := c.Cookie(sc.name())
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

// Set writes token into the session cookie
func (sc SessionCookie) Set(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     sc.name(),
		Value:    token,
		Path:     sc.path(),
		Domain:   sc.Domain,
		MaxAge:   int(sc.MaxAge.Seconds()),
		Secure:   sc.Secure,
		HttpOnly: true,
		SameSite: sc.SameSite,
	})
}

// Clear expires the session cookie on the client
func (sc SessionCookie) Clear(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     sc.name(),
		Value:    "",
		Path:     sc.path(),
		Domain:   sc.Domain,
		MaxAge:   -1,
		Secure:   sc.Secure,
		HttpOnly: true,
		SameSite: sc.SameSite,
	})
}
