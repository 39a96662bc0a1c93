package database

import (
	"bytes"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"civic-sense/internal/config"
	"civic-sense/internal/logger"
	"civic-sense/internal/models"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openMockPostgres(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestInitSchema(t *testing.T) {
	t.Run("Should create both tables", func(t *testing.T) {
		_, db := setupStore(t)

		for _, table := range []string{"users", "reports"} {
			assert.True(t, db.Migrator().HasTable(table), table)
		}
		for _, col := range []string{"id", "password", "name", "email", "role", "domain", "pending_password"} {
			assert.True(t, db.Migrator().HasColumn(&models.User{}, col), col)
		}
		for _, col := range []string{"id", "student_id", "type", "location", "description", "image_url", "status", "date", "resolved_date"} {
			assert.True(t, db.Migrator().HasColumn(&models.Report{}, col), col)
		}
	})

	t.Run("Should be a no-op when run again", func(t *testing.T) {
		s, db := setupStore(t)
		seedReport(t, s, "s1", models.TypeCleanliness, "Library", "2024-03-01 10:00:00")

		require.NoError(t, InitSchema(t.Context(), db, config.DriverSQLite, logger.NewForTests()))

		all, err := s.ListReports(t.Context(), models.ReportFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("Should default report status to Pending", func(t *testing.T) {
		_, db := setupStore(t)

		require.NoError(t, db.Exec(
			"INSERT INTO reports (student_id, type, location, date) VALUES (?, ?, ?, ?)",
			"s1", "Cleanliness", "Library", "2024-03-01 10:00:00").Error)

		var status string
		require.NoError(t, db.Raw("SELECT status FROM reports").Scan(&status).Error)
		assert.Equal(t, "Pending", status)
	})

	t.Run("Should reject an unknown driver", func(t *testing.T) {
		_, db := setupStore(t)

		err := InitSchema(t.Context(), db, "oracle", logger.NewForTests())
		assert.Error(t, err)
	})
}

func TestInitSchemaOverLegacyDatabase(t *testing.T) {
	t.Run("Should add the pending password column to existing tables", func(t *testing.T) {
		ctx := t.Context()
		var buf bytes.Buffer
		log := logger.New(&logger.Config{Level: "info", Output: &buf})
		db, err := Open(ctx, config.DriverSQLite, filepath.Join(t.TempDir(), "legacy.db"), log)
		require.NoError(t, err)
		t.Cleanup(func() { _ = Close(db) })

		require.NoError(t, db.Exec(`CREATE TABLE users (
			id TEXT PRIMARY KEY, password TEXT NOT NULL, name TEXT NOT NULL, email TEXT, role TEXT NOT NULL, domain TEXT)`).Error)
		require.NoError(t, db.Exec(`INSERT INTO users (id, password, name, role) VALUES ('old', 'plain', 'Old', 'student')`).Error)

		require.NoError(t, InitSchema(ctx, db, config.DriverSQLite, log))
		assert.True(t, db.Migrator().HasColumn(&models.User{}, "pending_password"))
		assert.Contains(t, buf.String(), "Database initialized successfully")

		got, err := NewStore(db).GetUser(ctx, "old")
		require.NoError(t, err)
		assert.Equal(t, "plain", got.Password)
	})
}

func TestMigrateEmailColumn(t *testing.T) {
	t.Run("Should add the column to a legacy table", func(t *testing.T) {
		ctx := t.Context()
		log := logger.NewForTests()
		db, err := Open(ctx, config.DriverSQLite, filepath.Join(t.TempDir(), "legacy.db"), log)
		require.NoError(t, err)
		t.Cleanup(func() { _ = Close(db) })

		require.NoError(t, db.Exec(`CREATE TABLE users (
			id TEXT PRIMARY KEY, password TEXT NOT NULL, name TEXT NOT NULL, role TEXT NOT NULL, domain TEXT)`).Error)
		require.False(t, db.Migrator().HasColumn(&models.User{}, "email"))

		require.NoError(t, MigrateEmailColumn(ctx, db, log))
		assert.True(t, db.Migrator().HasColumn(&models.User{}, "email"))
	})

	t.Run("Should log and swallow an existing column", func(t *testing.T) {
		_, db := setupStore(t)
		var buf bytes.Buffer
		log := logger.New(&logger.Config{Level: "info", Output: &buf})

		require.NoError(t, MigrateEmailColumn(t.Context(), db, log))
		assert.Contains(t, buf.String(), "migration might have already run")
	})

	t.Run("Should swallow the postgres duplicate column error", func(t *testing.T) {
		db, mock := openMockPostgres(t)
		mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE users ADD COLUMN email TEXT")).
			WillReturnError(errors.New(`ERROR: column "email" of relation "users" already exists (SQLSTATE 42701)`))

		require.NoError(t, MigrateEmailColumn(t.Context(), db, logger.NewForTests()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should return other errors", func(t *testing.T) {
		db, mock := openMockPostgres(t)
		mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE users ADD COLUMN email TEXT")).
			WillReturnError(errors.New(`ERROR: relation "users" does not exist (SQLSTATE 42P01)`))

		err := MigrateEmailColumn(t.Context(), db, logger.NewForTests())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "add email column")
	})
}

func TestStoreStorageFailures(t *testing.T) {
	t.Run("Should wrap list failures", func(t *testing.T) {
		db, mock := openMockPostgres(t)
		mock.ExpectQuery(`SELECT \* FROM "reports"`).WillReturnError(errors.New("connection reset"))

		_, err := NewStore(db).ListReports(t.Context(), models.ReportFilter{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database: list reports")
		assert.Contains(t, err.Error(), "connection reset")
	})

	t.Run("Should map a postgres unique violation to a duplicate user", func(t *testing.T) {
		db, mock := openMockPostgres(t)
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "users"`).
			WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "users_pkey" (SQLSTATE 23505)`))
		mock.ExpectRollback()

		err := NewStore(db).CreateUser(t.Context(), &models.User{ID: "u", Password: "x", Name: "U", Role: models.RoleStudent})
		assert.ErrorIs(t, err, ErrDuplicateUser)
	})
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "civic.db?_pragma=busy_timeout(5000)", sqliteDSN("civic.db"))
	assert.Equal(t, "file:civic.db?mode=rwc&_pragma=busy_timeout(5000)", sqliteDSN("file:civic.db?mode=rwc"))
	assert.Equal(t, "x.db?_pragma=busy_timeout(100)", sqliteDSN("x.db?_pragma=busy_timeout(100)"))
}
