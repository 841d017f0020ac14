package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	appcatalog "github.com/nantech/inventory/internal/application/catalog"
	appidentity "github.com/nantech/inventory/internal/application/identity"
	"github.com/nantech/inventory/internal/domain/identity"
	"github.com/nantech/inventory/internal/infrastructure/auth"
	"github.com/nantech/inventory/internal/infrastructure/persistence"
	"github.com/nantech/inventory/internal/interfaces/http/middleware"
	"github.com/nantech/inventory/tests/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.SetupValidator(); err != nil {
		panic(err)
	}
}

// handlerEnv wires the handlers to real services over an in-memory database
type handlerEnv struct {
	db          *gorm.DB
	ref         testutil.Reference
	engine      *gin.Engine
	events      *testutil.RecordingPublisher
	revocations *auth.InMemoryRevocationStore
	cookie      middleware.SessionCookie
	authService *appidentity.AuthService
}

func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()

	db := testutil.NewSQLiteDB(t)
	env := &handlerEnv{
		db:          db,
		ref:         testutil.SeedReference(t, db),
		events:      testutil.NewRecordingPublisher(),
		revocations: auth.NewInMemoryRevocationStore(),
		cookie:      middleware.DefaultSessionCookie(),
	}

	log := zap.NewNop()
	codec, err := auth.NewSessionCodec(auth.SessionCodecConfig{Codec: "plain"})
	require.NoError(t, err)

	env.authService = appidentity.NewAuthService(
		persistence.NewGormUserRepository(db),
		codec,
		env.revocations,
		nil,
		appidentity.DefaultAuthServiceConfig(),
		log,
	)
	itemService := appcatalog.NewItemService(persistence.NewGormItemRepository(db), env.events, nil, nil, log)
	lookupService := appcatalog.NewLookupService(
		persistence.NewGormCategoryRepository(db),
		persistence.NewGormSupplierRepository(db),
	)

	authHandler := NewAuthHandler(env.authService, env.cookie)
	itemHandler := NewItemHandler(itemService)
	lookupHandler := NewLookupHandler(lookupService)
	guard := middleware.SessionGuard(env.authService, env.cookie, log)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.POST("/api/auth/login", authHandler.Login)
	engine.POST("/api/auth/logout", authHandler.Logout)
	engine.GET("/api/auth/me", guard, authHandler.Me)

	items := engine.Group("/api/items")
	items.GET("", itemHandler.List)
	items.GET("/search", itemHandler.Search)
	items.GET("/:id", itemHandler.Get)
	items.POST("", itemHandler.Create)
	items.PUT("/:id", itemHandler.Update)
	items.DELETE("/:id", itemHandler.Delete)

	engine.GET("/api/categories", lookupHandler.ListCategories)
	engine.GET("/api/suppliers", lookupHandler.ListSuppliers)

	env.engine = engine
	return env
}

func (e *handlerEnv) do(t *testing.T, req testutil.Request) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.Do(t, e.engine, req)
}

// login signs the user in and returns the session cookie
func (e *handlerEnv) login(t *testing.T, username, password string) *http.Cookie {
	t.Helper()

	w := e.do(t, testutil.Request{
		Method: http.MethodPost,
		Path:   "/api/auth/login",
		Body:   LoginRequest{Username: username, Password: password},
	})
	testutil.AssertSuccess(t, w, http.StatusOK)

	cookie := testutil.FindCookie(w, e.cookie.Name)
	require.NotNil(t, cookie, "login must set the session cookie")
	return cookie
}

func (e *handlerEnv) createUser(t *testing.T, username, password string, role identity.Role) int64 {
	t.Helper()
	return testutil.CreateUser(t, e.db, username, password, role)
}
