package testutil

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nantech/inventory/internal/domain/identity"
	"github.com/nantech/inventory/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewMockDB(t *testing.T) {
	mockDB := NewMockDB(t)
	defer mockDB.Close()

	assert.NotNil(t, mockDB.DB)
	assert.NotNil(t, mockDB.Mock)
	assert.NotNil(t, mockDB.SqlDB)
	mockDB.ExpectationsWereMet(t)
}

func TestNewSQLiteDB_SeedsReferenceData(t *testing.T) {
	db := NewSQLiteDB(t)
	ref := SeedReference(t, db)

	assert.NotZero(t, ref.Hardware)
	assert.NotEqual(t, ref.Hardware, ref.Electrical)
	assert.NotEqual(t, ref.Acme, ref.Globex)

	var count int64
	require.NoError(t, db.Model(&models.CategoryModel{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestCreateUser_StoresVerifiableHash(t *testing.T) {
	db := NewSQLiteDB(t)

	id := CreateUser(t, db, "alice", "s3cret", identity.RoleValidator)

	var m models.UserModel
	require.NoError(t, db.First(&m, id).Error)
	assert.Equal(t, "validator", m.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(m.Password), []byte("s3cret")))
}

func TestCreateItemAndStockOut(t *testing.T) {
	db := NewSQLiteDB(t)
	ref := SeedReference(t, db)

	itemID := CreateItem(t, db, "Hammer", ref.Hardware, 4, &ref.Acme)
	CreateStockOut(t, db, itemID, 1)

	var count int64
	require.NoError(t, db.Model(&models.StockOutModel{}).Where("item_id = ?", itemID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestTestContext_Setters(t *testing.T) {
	tc := NewTestContext(t)
	assert.Equal(t, http.MethodGet, tc.Context.Request.Method)

	tc.SetRequestID("req-123")
	tc.SetSession(identity.Session{SubjectID: 7, Username: "bob", Role: identity.RoleUser})
	tc.SetHeader("X-Custom", "v")

	assert.Equal(t, "req-123", tc.Context.GetString("request_id"))
	s, ok := tc.Context.Get("session")
	require.True(t, ok)
	assert.Equal(t, int64(7), s.(identity.Session).SubjectID)
	assert.Equal(t, "v", tc.Context.Request.Header.Get("X-Custom"))
}

func TestDo_RoundTripsEnvelope(t *testing.T) {
	engine := gin.New()
	engine.POST("/echo", func(c *gin.Context) {
		var body map[string]string
		_ = c.ShouldBindJSON(&body)
		cookie, _ := c.Cookie("auth-token")
		http.SetCookie(c.Writer, &http.Cookie{Name: "seen", Value: cookie})
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": body})
	})

	w := Do(t, engine, Request{
		Method:  http.MethodPost,
		Path:    "/echo",
		Body:    map[string]string{"name": "Hammer"},
		Cookies: []*http.Cookie{{Name: "auth-token", Value: "tok"}},
	})

	AssertSuccess(t, w, http.StatusCreated)
	data := DecodeData[map[string]string](t, w)
	assert.Equal(t, "Hammer", data["name"])
	require.NotNil(t, FindCookie(w, "seen"))
	assert.Equal(t, "tok", FindCookie(w, "seen").Value)
	assert.Nil(t, FindCookie(w, "missing"))
}

func TestAssertError(t *testing.T) {
	engine := gin.New()
	engine.GET("/fail", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   gin.H{"code": "ERR_NOT_FOUND", "message": "gone"},
		})
	})

	env := AssertError(t, Do(t, engine, Request{Path: "/fail"}), http.StatusNotFound, "ERR_NOT_FOUND")
	assert.Equal(t, "gone", env.Error.Message)
}

func TestWaitForCondition(t *testing.T) {
	calls := 0
	ok := WaitForCondition(func() bool {
		calls++
		return calls >= 3
	}, time.Second, time.Millisecond)

	assert.True(t, ok)
	assert.False(t, WaitForCondition(func() bool { return false }, 20*time.Millisecond, 5*time.Millisecond))
}

func TestAssertNever(t *testing.T) {
	AssertNever(t, func() bool { return false }, 20*time.Millisecond, 5*time.Millisecond)
}
