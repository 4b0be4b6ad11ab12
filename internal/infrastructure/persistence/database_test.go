package persistence

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Apolones/estore/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDatabase creates a Database instance with a mocked SQL connection
func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return &Database{DB: gormDB}, mock, mockDB
}

// newTestDB opens a private migrated sqlite database for one test
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := NewMemoryDatabase("estore_" + uuid.NewString())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db.DB
}

func TestDatabase_Ping(t *testing.T) {
	t.Run("successful ping", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectPing()

		assert.NoError(t, db.Ping())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDatabase_Close(t *testing.T) {
	db, mock, _ := newMockDatabase(t)

	mock.ExpectClose()

	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Transaction(t *testing.T) {
	t.Run("successful transaction", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		type TestModel struct {
			ID   uint
			Name string
		}

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "test_models"`).
			WithArgs("test").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()

		err := db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&TestModel{Name: "test"}).Error
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("transaction rollback on error", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := db.Transaction(func(tx *gorm.DB) error {
			return assert.AnError
		})

		assert.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDatabase_Stats(t *testing.T) {
	db, _, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	stats, err := db.Stats()
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, stats.OpenConnections, 0)
	assert.Equal(t, stats.OpenConnections, stats.InUse+stats.Idle)
}

func TestNewDatabase(t *testing.T) {
	t.Run("rejects unknown driver", func(t *testing.T) {
		_, err := NewDatabase(&config.DatabaseConfig{Driver: "oracle"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported database driver")
	})

	t.Run("opens sqlite with a single connection", func(t *testing.T) {
		db, err := NewDatabase(&config.DatabaseConfig{
			Driver:     config.DriverSQLite,
			SQLitePath: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		})
		require.NoError(t, err)
		defer db.Close()

		stats, err := db.Stats()
		require.NoError(t, err)
		assert.Equal(t, 1, stats.MaxOpenConnections)
		assert.False(t, IsPostgres(db.DB))
	})
}

func TestNewMemoryDatabase(t *testing.T) {
	db := newTestDB(t)

	for _, table := range []string{
		"store_shop", "store_electro_type", "employee_position", "store_purchase_type",
		"store_electro_item", "employee", "store_purchase", "store_eshop",
		"store_electro_employee", "import_history",
	} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	t.Run("same name shares the database", func(t *testing.T) {
		name := "estore_" + uuid.NewString()
		first, err := NewMemoryDatabase(name)
		require.NoError(t, err)
		defer first.Close()

		require.NoError(t, first.DB.Exec(`INSERT INTO store_shop (id, name, address) VALUES (1, 'A', 'x')`).Error)

		second, err := NewMemoryDatabase(name)
		require.NoError(t, err)
		defer second.Close()

		var count int64
		require.NoError(t, second.DB.Table("store_shop").Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}
