package database

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/signalforge/internal/config"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestOpenSQLiteAndMigrate(t *testing.T) {
	db, err := Open(&config.Config{DBDriver: "sqlite", DBPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, Migrate(db))
	require.NoError(t, MigrateModels(db, []interface{}{&models.Signal{}}))
	require.NoError(t, MigrateModels(db, nil))
	assert.NoError(t, Ping(db))

	assert.True(t, db.Migrator().HasTable(&models.User{}))
	assert.True(t, db.Migrator().HasTable(&models.Signal{}))
	assert.True(t, db.Migrator().HasTable(&models.SystemLog{}))
}

func TestOwnedByFiltersRows(t *testing.T) {
	db, err := Open(&config.Config{DBDriver: "sqlite", DBPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	require.NoError(t, Migrate(db))
	require.NoError(t, MigrateModels(db, []interface{}{&models.Signal{}}))

	alice := models.User{Email: "alice@example.com", PasswordHash: "x", FullName: "Alice"}
	bob := models.User{Email: "bob@example.com", PasswordHash: "x", FullName: "Bob"}
	require.NoError(t, db.Create(&alice).Error)
	require.NoError(t, db.Create(&bob).Error)

	now := time.Now()
	for _, owner := range []uuid.UUID{alice.ID, alice.ID, bob.ID} {
		s := models.Signal{UserID: owner, Content: "c", Category: "General", Score: 50, SignalType: models.SignalTypeNoise, CreatedAt: now}
		require.NoError(t, db.Create(&s).Error)
	}

	var count int64
	require.NoError(t, db.Model(&models.Signal{}).Scopes(OwnedBy(alice.ID)).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	require.NoError(t, db.Model(&models.Signal{}).Scopes(OwnedBy(bob.ID)).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
