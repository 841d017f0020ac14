package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, "/api", r.apiPrefix)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIPrefix(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIPrefix("/api/v2"))

	assert.Equal(t, "/api/v2", r.apiPrefix)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	r.Register(NewDomainGroup("test", "/test").
		GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") }))
	r.Setup()

	w := serve(engine, http.MethodGet, "/api/test/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())

	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/test/ping").Code)
}

func TestRouterWithAPIMiddleware(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIMiddleware(func(c *gin.Context) {
		c.Header("X-API", "1")
		c.Next()
	}))

	r.Register(NewDomainGroup("test", "").
		GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) }))
	r.Setup()

	w := serve(engine, http.MethodGet, "/api/ping")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-API"))
}

func TestDomainGroupMethods(t *testing.T) {
	engine := gin.New()
	ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }

	group := NewDomainGroup("items", "/items").
		GET("", ok).
		POST("", ok).
		PUT("/:id", ok).
		DELETE("/:id", ok)
	NewRouter(engine).Register(group).Setup()

	assert.Equal(t, "items", group.Name())
	assert.Equal(t, "/items", group.Prefix())

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/items"},
		{http.MethodPost, "/api/items"},
		{http.MethodPut, "/api/items/1"},
		{http.MethodDelete, "/api/items/1"},
	} {
		w := serve(engine, tc.method, tc.path)
		assert.Equal(t, http.StatusOK, w.Code, tc.method)
		assert.Equal(t, tc.method, w.Body.String())
	}
}

func TestDomainGroupMiddlewareOrder(t *testing.T) {
	engine := gin.New()
	var order []string
	mark := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) {
			order = append(order, name)
			c.Next()
		}
	}

	group := NewDomainGroup("test", "/test").
		Use(mark("group")).
		GET("/x", mark("route"), func(c *gin.Context) {
			order = append(order, "handler")
			c.Status(http.StatusOK)
		})
	NewRouter(engine, WithAPIMiddleware(mark("api"))).Register(group).Setup()

	serve(engine, http.MethodGet, "/api/test/x")

	assert.Equal(t, []string{"api", "group", "route", "handler"}, order)
}

func TestDomainGroupMiddlewareAbort(t *testing.T) {
	engine := gin.New()
	called := false

	group := NewDomainGroup("test", "/test").
		Use(func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }).
		GET("/x", func(c *gin.Context) { called = true })
	NewRouter(engine).Register(group).Setup()

	w := serve(engine, http.MethodGet, "/api/test/x")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
}
