// Package integration runs the inventory store and API against a real
// PostgreSQL started with testcontainers. The tests are skipped with -short.
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/nantech/inventory/internal/infrastructure/migration"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB represents a migrated test database
type TestDB struct {
	DB        *gorm.DB
	SqlDB     *sql.DB
	Container testcontainers.Container
	DSN       string
	t         *testing.T
}

// NewTestDB starts a PostgreSQL container, applies every migration and
// registers cleanup. Each call gets its own container.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("integration test skipped in -short mode")
	}

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("inventory_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	db, sqlDB := connectToDatabase(t, dsn)
	runMigrations(t, sqlDB)

	testDB := &TestDB{
		DB:        db,
		SqlDB:     sqlDB,
		Container: container,
		DSN:       dsn,
		t:         t,
	}
	t.Cleanup(testDB.Close)

	return testDB
}

// Close closes the connection pool and terminates the container
func (tdb *TestDB) Close() {
	if tdb.SqlDB != nil {
		_ = tdb.SqlDB.Close()
	}
	if tdb.Container != nil {
		if err := tdb.Container.Terminate(context.Background()); err != nil {
			tdb.t.Logf("Warning: Failed to terminate container: %v", err)
		}
	}
}

// CategoryID returns the id of a seeded category
func (tdb *TestDB) CategoryID(name string) int64 {
	tdb.t.Helper()

	var id int64
	err := tdb.DB.Raw("SELECT id FROM categories WHERE name = ?", name).Scan(&id).Error
	require.NoError(tdb.t, err)
	require.NotZero(tdb.t, id, "category %q not seeded", name)
	return id
}

// InsertItem stores an item directly and returns its id
func (tdb *TestDB) InsertItem(name string, categoryID int64, stock int) int64 {
	tdb.t.Helper()

	var id int64
	err := tdb.DB.Raw(
		"INSERT INTO items (name, category_id, stock) VALUES (?, ?, ?) RETURNING id",
		name, categoryID, stock,
	).Scan(&id).Error
	require.NoError(tdb.t, err, "Failed to insert item")
	return id
}

// InsertDependent adds a row referencing itemID to one of the dependent tables
func (tdb *TestDB) InsertDependent(table string, itemID int64) {
	tdb.t.Helper()

	var query string
	switch table {
	case "stock_in":
		query = "INSERT INTO stock_in (item_id, quantity) VALUES (?, 1)"
	case "stock_out":
		query = "INSERT INTO stock_out (item_id, quantity) VALUES (?, 1)"
	case "requests":
		query = "INSERT INTO requests (item_id, quantity, status) VALUES (?, 1, 'pending')"
	default:
		tdb.t.Fatalf("unknown dependent table %q", table)
	}
	require.NoError(tdb.t, tdb.DB.Exec(query, itemID).Error, "Failed to insert %s row", table)
}

// CountItems returns the number of item rows with the given id
func (tdb *TestDB) CountItems(id int64) int64 {
	tdb.t.Helper()

	var n int64
	require.NoError(tdb.t, tdb.DB.Raw("SELECT COUNT(*) FROM items WHERE id = ?", id).Scan(&n).Error)
	return n
}

func connectToDatabase(t *testing.T, dsn string) (*gorm.DB, *sql.DB) {
	t.Helper()

	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}
	if os.Getenv("TEST_DB_DEBUG") != "" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), gormConfig)
	require.NoError(t, err, "Failed to connect to database")

	sqlDB, err := db.DB()
	require.NoError(t, err, "Failed to get underlying SQL DB")

	// Enough connections for the concurrent delete tests
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, sqlDB
}

func runMigrations(t *testing.T, sqlDB *sql.DB) {
	t.Helper()

	path := findMigrationsPath()
	require.NotEmpty(t, path, "Could not find migrations directory")

	m, err := migration.New(sqlDB, path, zap.NewNop())
	require.NoError(t, err, "Failed to create migrator")
	require.NoError(t, m.Up(), "Failed to run migrations")
}

// findMigrationsPath walks up from this file to the repository's migrations/
func findMigrationsPath() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}

	dir := filepath.Dir(filename)
	for range 5 {
		candidate := filepath.Join(dir, "migrations")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		dir = filepath.Dir(dir)
	}
	return ""
}

// itemPath is the API path of one item
func itemPath(id int64) string {
	return fmt.Sprintf("/api/items/%d", id)
}
