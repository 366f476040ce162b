package services

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"azarpredictor-backend/internal/generator"
	"azarpredictor-backend/internal/ledger"
	"azarpredictor-backend/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

var (
	fixedNow  = time.Date(2026, 10, 18, 10, 0, 0, 0, time.Local)
	today     = ledger.Today(fixedNow)
	yesterday = ledger.Today(fixedNow.AddDate(0, 0, -1))
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// one private in-memory database per test
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Account{}, &models.LedgerEntry{}))
	return db
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

type testEnv struct {
	db          *gorm.DB
	accounts    *AccountService
	predictions *PredictionService
	ledger      *LedgerService
}

func newTestEnv(t *testing.T, cache *redis.Client) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	locks := ledger.NewKeyedMutex()
	rules := ledger.DefaultRules()
	gen := generator.MustNew(generator.DefaultConfig(), generator.WithRandFactory(func() *rand.Rand {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}))

	accounts := NewAccountService(db, cache, locks, rules, testSecret)
	accounts.now = func() time.Time { return fixedNow }
	predictions := NewPredictionService(db, accounts, gen, locks, rules, testSecret)
	predictions.now = func() time.Time { return fixedNow }

	return &testEnv{
		db:          db,
		accounts:    accounts,
		predictions: predictions,
		ledger:      NewLedgerService(db, testSecret),
	}
}

func (e *testEnv) seed(t *testing.T, acct models.Account) {
	t.Helper()
	if acct.Version == 0 {
		acct.Version = 1
	}
	require.NoError(t, e.db.Create(&acct).Error)
}

func (e *testEnv) reload(t *testing.T, userID string) models.Account {
	t.Helper()
	var acct models.Account
	require.NoError(t, e.db.First(&acct, "user_id = ?", userID).Error)
	return acct
}

func (e *testEnv) entryCount(t *testing.T, userID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.LedgerEntry{}).Where("user_id = ?", userID).Count(&n).Error)
	return n
}
