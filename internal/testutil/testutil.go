// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/signalforge/internal/config"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/database"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const JWTSecret = "test-secret-at-least-16-chars!!"

// Config returns a configuration for an in-memory SQLite database with rate
// limiting switched off.
func Config() *config.Config {
	return &config.Config{
		DBDriver:         "sqlite",
		DBPath:           ":memory:",
		JWTSecret:        JWTSecret,
		JWTExpiry:        7 * 24 * time.Hour,
		CORSOrigins:      "*",
		BatchMaxItems:    50,
		LogRetentionDays: 30,
		AppEnv:           "test",
	}
}

// NewDB opens a fresh migrated in-memory database that is closed when t ends.
func NewDB(t testing.TB, cfg *config.Config) *gorm.DB {
	t.Helper()
	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.MigrateModels(db, []interface{}{&models.Signal{}}))
	return db
}

// CreateUser inserts a user row directly, bypassing password hashing.
func CreateUser(t testing.TB, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, PasswordHash: "unused", FullName: "Test User"}
	require.NoError(t, db.Create(user).Error)
	return user
}
