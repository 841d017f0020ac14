// Package testutil provides common test utilities for the inventory service.
// It contains helpers for opening throwaway databases, seeding reference
// data, building gin test contexts and asserting on API envelopes.
package testutil

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/nantech/inventory/internal/domain/identity"
	"github.com/nantech/inventory/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockDB wraps a GORM database with sqlmock for testing.
type MockDB struct {
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	SqlDB *sql.DB
}

// NewMockDB creates a mock database speaking the postgres dialect.
// The caller is responsible for calling Close() when done.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create sqlmock")

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "Failed to open GORM connection")

	return &MockDB{
		DB:    gormDB,
		Mock:  mock,
		SqlDB: mockDB,
	}
}

// Close closes the mock database connection.
func (m *MockDB) Close() error {
	return m.SqlDB.Close()
}

// ExpectationsWereMet verifies that all expectations were met.
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	err := m.Mock.ExpectationsWereMet()
	require.NoError(t, err, "Unmet database expectations")
}

// NewSQLiteDB opens a private in-memory database holding every inventory
// table. It is closed when the test ends.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "Failed to open sqlite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.CategoryModel{},
		&models.SupplierModel{},
		&models.ItemModel{},
		&models.UserModel{},
		&models.StockInModel{},
		&models.StockOutModel{},
		&models.RequestModel{},
	), "Failed to migrate")
	return db
}

// Reference holds the ids of the seeded categories and suppliers.
type Reference struct {
	Hardware   int64
	Electrical int64
	Acme       int64
	Globex     int64
}

// SeedReference inserts two categories and two suppliers.
func SeedReference(t *testing.T, db *gorm.DB) Reference {
	t.Helper()

	cats := []models.CategoryModel{{Name: "Hardware"}, {Name: "Electrical"}}
	require.NoError(t, db.Create(&cats).Error)
	sups := []models.SupplierModel{{Name: "Acme"}, {Name: "Globex"}}
	require.NoError(t, db.Create(&sups).Error)

	return Reference{
		Hardware:   cats[0].ID,
		Electrical: cats[1].ID,
		Acme:       sups[0].ID,
		Globex:     sups[1].ID,
	}
}

// CreateUser stores a user with the given credentials and returns its id.
// The hash uses the minimum bcrypt cost to keep tests fast.
func CreateUser(t *testing.T, db *gorm.DB, username, password string, role identity.Role) int64 {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	m := models.UserModel{
		Username: username,
		Password: string(hash),
		Name:     username,
		Role:     string(role),
	}
	require.NoError(t, db.Create(&m).Error)
	return m.ID
}

// CreateItem stores an item and returns its id.
func CreateItem(t *testing.T, db *gorm.DB, name string, categoryID int64, stock int, supplierID *int64) int64 {
	t.Helper()

	m := models.ItemModel{Name: name, CategoryID: categoryID, Stock: stock, SupplierID: supplierID}
	require.NoError(t, db.Create(&m).Error)
	return m.ID
}

// CreateStockOut records an issue of the item, which blocks its deletion.
func CreateStockOut(t *testing.T, db *gorm.DB, itemID int64, quantity int) {
	t.Helper()

	m := models.StockOutModel{ItemID: itemID, Quantity: quantity, IssuedAt: time.Now()}
	require.NoError(t, db.Create(&m).Error)
}

// TestContext wraps a Gin test context with HTTP recorder.
type TestContext struct {
	Context  *gin.Context
	Recorder *httptest.ResponseRecorder
	Engine   *gin.Engine
}

// NewTestContext creates a new Gin test context for GET /.
func NewTestContext(t *testing.T) *TestContext {
	t.Helper()
	return NewTestContextWithRequest(t, httptest.NewRequest(http.MethodGet, "/", nil))
}

// NewTestContextWithRequest creates a Gin test context around req.
func NewTestContextWithRequest(t *testing.T, req *http.Request) *TestContext {
	t.Helper()

	w := httptest.NewRecorder()
	c, engine := gin.CreateTestContext(w)
	c.Request = req

	return &TestContext{
		Context:  c,
		Recorder: w,
		Engine:   engine,
	}
}

// SetRequestID stores a request id the way the RequestID middleware does.
func (tc *TestContext) SetRequestID(id string) {
	tc.Context.Set("request_id", id)
}

// SetSession stores a resolved session the way the session guard does.
func (tc *TestContext) SetSession(s identity.Session) {
	tc.Context.Set("session", s)
}

// SetHeader sets a header on the request.
func (tc *TestContext) SetHeader(key, value string) {
	tc.Context.Request.Header.Set(key, value)
}

// ResponseBody returns the response body as bytes.
func (tc *TestContext) ResponseBody() []byte {
	return tc.Recorder.Body.Bytes()
}

// ResponseCode returns the HTTP status code.
func (tc *TestContext) ResponseCode() int {
	return tc.Recorder.Code
}

// ContextWithTimeout creates a context with a timeout for tests.
func ContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// AssertEventually retries a condition until it holds or the timeout passes.
func AssertEventually(t *testing.T, condition func() bool, timeout, interval time.Duration, msgAndArgs ...any) {
	t.Helper()

	if !WaitForCondition(condition, timeout, interval) {
		t.Fatalf("Condition not met within %v: %v", timeout, msgAndArgs)
	}
}

// AssertNever verifies a condition never becomes true within the duration.
func AssertNever(t *testing.T, condition func() bool, duration, interval time.Duration, msgAndArgs ...any) {
	t.Helper()

	deadline := time.Now().Add(duration)
	for time.Now().Before(deadline) {
		if condition() {
			t.Fatalf("Condition unexpectedly became true: %v", msgAndArgs)
		}
		time.Sleep(interval)
	}
}

// WaitForCondition polls condition and reports whether it held before timeout.
func WaitForCondition(condition func() bool, timeout, interval time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(interval)
	}
	return condition()
}
