package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nantech/inventory/internal/interfaces/http/dto"
	"github.com/nantech/inventory/tests/testutil"
	"github.com/stretchr/testify/assert"
)

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("ping without deadline")
	}
	return p.err
}

func healthEngine(db Pinger) *gin.Engine {
	engine := gin.New()
	engine.GET("/health", NewSystemHandler("inventory", "1.2.3", db).Health)
	return engine
}

func TestSystemHandler_Health(t *testing.T) {
	w := testutil.Do(t, healthEngine(fakePinger{}), testutil.Request{Path: "/health"})

	testutil.AssertSuccess(t, w, http.StatusOK)
	health := testutil.DecodeData[HealthResponse](t, w)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "up", health.Database)
	assert.Equal(t, "1.2.3", health.Version)
	assert.NotEmpty(t, health.GoVersion)
}

func TestSystemHandler_Health_DatabaseDown(t *testing.T) {
	w := testutil.Do(t, healthEngine(fakePinger{err: errors.New("connection refused")}), testutil.Request{Path: "/health"})

	env := testutil.AssertError(t, w, http.StatusServiceUnavailable, dto.ErrCodeServiceUnavailable)
	assert.Equal(t, "Database unavailable", env.Error.Message)
	assert.NotContains(t, w.Body.String(), "connection refused")

	health := testutil.DecodeData[HealthResponse](t, w)
	assert.Equal(t, "unhealthy", health.Status)
	assert.Equal(t, "down", health.Database)
}

func TestSystemHandler_Health_WithoutDatabase(t *testing.T) {
	w := testutil.Do(t, healthEngine(nil), testutil.Request{Path: "/health"})

	testutil.AssertSuccess(t, w, http.StatusOK)
}
