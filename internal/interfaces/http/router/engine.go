package router

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nantech/inventory/internal/domain/identity"
	"github.com/nantech/inventory/internal/infrastructure/logger"
	"github.com/nantech/inventory/internal/interfaces/http/dto"
	"github.com/nantech/inventory/internal/interfaces/http/handler"
	"github.com/nantech/inventory/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Page paths answered with a page descriptor behind the route gate
var pagePaths = []string{
	"/", "/login", "/dashboard",
	"/inventory", "/inventory/*rest",
	"/transactions", "/transactions/*rest",
	"/users", "/users/*rest",
}

// EngineConfig holds the HTTP-level settings of the engine
type EngineConfig struct {
	Logger         *zap.Logger
	CORS           middleware.CORSConfig
	Security       middleware.SecurityConfig
	Tracing        middleware.TracingConfig
	RequestTimeout time.Duration
	MaxBodySize    int64
	TrustedProxies []string

	// Optional; nil disables the feature
	Metrics      *middleware.HTTPMetrics
	LoginLimiter *middleware.RateLimiter
}

// Handlers groups the HTTP handlers mounted by the engine
type Handlers struct {
	Auth   *handler.AuthHandler
	Item   *handler.ItemHandler
	Lookup *handler.LookupHandler
	Page   *handler.PageHandler
	System *handler.SystemHandler
}

// SessionDeps holds what the gate and the API guard need to resolve sessions
type SessionDeps struct {
	Authenticator middleware.SessionAuthenticator
	Cookie        middleware.SessionCookie
	Policy        *identity.AccessPolicy
}

// NewEngine builds the gin engine with the global middleware chain, the page
// routes, the JSON API and the operational endpoints.
func NewEngine(cfg EngineConfig, sessions SessionDeps, h Handlers) (*gin.Engine, error) {
	if sessions.Authenticator == nil {
		return nil, errors.New("router: session authenticator is required")
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if err := middleware.SetupValidator(); err != nil {
		return nil, err
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		middleware.TracingWithConfig(cfg.Tracing),
		middleware.SpanAttributes(),
		middleware.SpanErrorMarker(),
		logger.GinMiddleware(log),
	)
	if cfg.Metrics != nil {
		engine.Use(cfg.Metrics.Middleware())
	}
	engine.Use(
		middleware.SecureWithConfig(cfg.Security),
		middleware.CORSWithConfig(cfg.CORS),
		middleware.BodyLimit(cfg.MaxBodySize),
		middleware.Timeout(cfg.RequestTimeout),
		middleware.NewRouteGate(sessions.Policy, sessions.Authenticator, sessions.Cookie, log).Handler(),
	)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound, "Resource not found", c.GetString(middleware.RequestIDKey)))
	})

	engine.GET("/health", h.System.Health)
	if cfg.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	for _, p := range pagePaths {
		engine.GET(p, h.Page.Show)
	}

	r := NewRouter(engine)
	for _, g := range apiGroups(cfg, sessions, h, log) {
		r.Register(g)
	}
	r.Setup()

	return engine, nil
}

func apiGroups(cfg EngineConfig, sessions SessionDeps, h Handlers, log *zap.Logger) []*DomainGroup {
	guard := middleware.SessionGuard(sessions.Authenticator, sessions.Cookie, log)
	adminOnly := middleware.RequireAdmin()

	login := []gin.HandlerFunc{h.Auth.Login}
	if cfg.LoginLimiter != nil {
		login = append([]gin.HandlerFunc{middleware.RateLimit(cfg.LoginLimiter, log)}, login...)
	}

	auth := NewDomainGroup("auth", "/auth").
		POST("/login", login...).
		POST("/logout", h.Auth.Logout).
		GET("/me", guard, h.Auth.Me)

	items := NewDomainGroup("items", "/items").
		Use(guard).
		GET("", h.Item.List).
		GET("/search", h.Item.Search).
		GET("/:id", h.Item.Get).
		POST("", adminOnly, h.Item.Create).
		PUT("/:id", adminOnly, h.Item.Update).
		DELETE("/:id", adminOnly, h.Item.Delete)

	lookups := NewDomainGroup("lookups", "").
		Use(guard).
		GET("/categories", h.Lookup.ListCategories).
		GET("/suppliers", h.Lookup.ListSuppliers)

	return []*DomainGroup{auth, items, lookups}
}
