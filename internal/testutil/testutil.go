package testutil

import (
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/critiquehub/critique/internal/database"
)

// TestDatabase holds an in-memory SQLite database migrated with the real
// schema.
type TestDatabase struct {
	DB  *gorm.DB
	DSN string
}

// TestRedis holds an in-memory Redis mock (miniredis).
type TestRedis struct {
	Server *miniredis.Miniredis
	URL    string
}

// SetupTestDatabase creates an in-memory SQLite database for integration
// tests. TranslateError stays on so unique violations surface as
// gorm.ErrDuplicatedKey, same as against Postgres.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	// _foreign_keys turns on constraint enforcement, which SQLite leaves
	// off by default; the cascade and SET NULL behavior depends on it.
	dsn := "file::memory:?cache=shared&_foreign_keys=on"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := database.MigrateAll(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return &TestDatabase{
		DB:  db,
		DSN: dsn,
	}
}

// Teardown closes the test database connection.
func (td *TestDatabase) Teardown(t *testing.T) {
	sqlDB, err := td.DB.DB()
	if err != nil {
		t.Logf("Warning: Failed to get underlying DB: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Logf("Warning: Failed to close database: %v", err)
	}
}

// SetupTestRedis starts a miniredis instance.
func SetupTestRedis(t *testing.T) *TestRedis {
	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	return &TestRedis{
		Server: server,
		URL:    fmt.Sprintf("redis://%s", server.Addr()),
	}
}

// Teardown stops the Redis mock.
func (tr *TestRedis) Teardown(t *testing.T) {
	tr.Server.Close()
}

// CleanDatabase deletes all rows, children before parents, for test
// isolation. SQLite has no TRUNCATE.
func CleanDatabase(t *testing.T, db *gorm.DB) {
	tables := []string{
		"comments",
		"reviews",
		"genre_titles",
		"titles",
		"genres",
		"categories",
		"codes",
		"users",
	}
	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			t.Logf("Warning: Failed to clean table %s: %v", table, err)
		}
	}
}
