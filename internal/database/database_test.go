package database

import (
	"context"
	"path/filepath"
	"testing"

	"azarpredictor-backend/config"
	"azarpredictor-backend/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectSQLiteAndMigrate(t *testing.T) {
	cfg := &config.Config{
		DBDriver:   "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "users.db"),
	}

	db, err := Connect(cfg)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)

	require.NoError(t, Migrate(db))
	assert.True(t, db.Migrator().HasTable(&models.Account{}))
	assert.True(t, db.Migrator().HasTable(&models.LedgerEntry{}))

	require.NoError(t, db.Create(&models.Account{UserID: "u1", Tier: models.TierGold, Credits: 10}).Error)
	var got models.Account
	require.NoError(t, db.First(&got, "user_id = ?", "u1").Error)
	assert.Equal(t, models.TierGold, got.Tier)
	assert.Equal(t, 1, got.Version)
}

func TestConnectUnknownDriver(t *testing.T) {
	_, err := Connect(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestConnectRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := ConnectRedis(context.Background(), &config.Config{
		RedisAddr: mr.Host(),
		RedisPort: mr.Port(),
	})
	require.NoError(t, err)
	require.NotNil(t, client)
	defer client.Close()
	assert.NoError(t, client.Ping(context.Background()).Err())
}

func TestConnectRedisDisabled(t *testing.T) {
	client, err := ConnectRedis(context.Background(), &config.Config{})
	assert.NoError(t, err)
	assert.Nil(t, client)
}
