package persistence

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/nantech/inventory/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newMockGorm opens GORM on a sqlmock connection speaking the postgres dialect
func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

// newSQLiteDB opens a private in-memory database with the inventory tables
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

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
	))
	return db
}

type fixture struct {
	hardware, electrical int64
	acme, globex         int64
}

func seedReference(t *testing.T, db *gorm.DB) fixture {
	t.Helper()

	cats := []models.CategoryModel{{Name: "Hardware"}, {Name: "Electrical"}}
	require.NoError(t, db.Create(&cats).Error)
	sups := []models.SupplierModel{{Name: "Acme"}, {Name: "Globex"}}
	require.NoError(t, db.Create(&sups).Error)

	return fixture{
		hardware:   cats[0].ID,
		electrical: cats[1].ID,
		acme:       sups[0].ID,
		globex:     sups[1].ID,
	}
}
