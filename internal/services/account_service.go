package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"azarpredictor-backend/internal/ledger"
	"azarpredictor-backend/internal/metrics"
	"azarpredictor-backend/internal/models"
	"azarpredictor-backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const statusCacheTTL = 5 * time.Minute

// AccountStatus is the read model served by user_status.
type AccountStatus struct {
	UserID    string      `json:"user_id"`
	Tier      models.Tier `json:"tier"`
	Credits   int         `json:"credits"`
	DailyUses int         `json:"daily_uses"`
	MaxUses   int         `json:"max_uses"`
}

// AccountService reads and administers accounts. Mutations share the
// per-user lock with PredictionService.
type AccountService struct {
	db     *gorm.DB
	cache  *redis.Client
	locks  *ledger.KeyedMutex
	rules  ledger.Rules
	secret string
	now    func() time.Time
	group  singleflight.Group
}

func NewAccountService(db *gorm.DB, cache *redis.Client, locks *ledger.KeyedMutex, rules ledger.Rules, secret string) *AccountService {
	return &AccountService{
		db:     db,
		cache:  cache,
		locks:  locks,
		rules:  rules,
		secret: secret,
		now:    time.Now,
	}
}

func (s *AccountService) Find(ctx context.Context, userID string) (*models.Account, error) {
	var acct models.Account
	if err := s.db.WithContext(ctx).First(&acct, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrUserNotFound
		}
		return nil, err
	}
	return &acct, nil
}

func statusCacheKey(userID, day string) string {
	return fmt.Sprintf("user_status:%s:%s", userID, day)
}

// Status returns the account as seen today. The cache key carries the date so
// a cached counter never outlives its day.
func (s *AccountService) Status(ctx context.Context, userID string) (*AccountStatus, error) {
	today := ledger.Today(s.now())
	key := statusCacheKey(userID, today)

	if s.cache != nil {
		val, err := s.cache.Get(ctx, key).Result()
		switch {
		case err == nil:
			var st AccountStatus
			if jsonErr := json.Unmarshal([]byte(val), &st); jsonErr == nil {
				metrics.StatusCacheTotal.WithLabelValues("hit").Inc()
				return &st, nil
			}
		case errors.Is(err, redis.Nil):
			metrics.StatusCacheTotal.WithLabelValues("miss").Inc()
		default:
			metrics.StatusCacheTotal.WithLabelValues("error").Inc()
			logger.Log.Warn("status cache read failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		// Read and fill under the user's lock so a fill never straddles a
		// charge or upsert and its invalidation.
		unlock := s.locks.Lock(userID)
		defer unlock()

		acct, err := s.Find(ctx, userID)
		if err != nil {
			return nil, err
		}
		st := &AccountStatus{
			UserID:    acct.UserID,
			Tier:      acct.Tier,
			Credits:   acct.Credits,
			DailyUses: acct.UsesOn(today),
			MaxUses:   s.rules.DailyLimit,
		}
		if s.cache != nil {
			if data, err := json.Marshal(st); err == nil {
				s.cache.Set(ctx, key, data, statusCacheTTL)
			}
		}
		return st, nil
	})
	if err != nil {
		return nil, err
	}
	st := *v.(*AccountStatus)
	return &st, nil
}

// Invalidate drops the cached status of userID for today.
func (s *AccountService) Invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	key := statusCacheKey(userID, ledger.Today(s.now()))
	if err := s.cache.Del(ctx, key).Err(); err != nil {
		logger.Log.Warn("status cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}
}

// UpsertAccount is an administrative change to an account.
type UpsertAccount struct {
	UserID   string
	Tier     models.Tier
	Credits  int
	Operator string
	IP       string
	Device   string
}

// Upsert creates or updates an account. A credit change is recorded as an
// admin adjustment in the ledger.
func (s *AccountService) Upsert(ctx context.Context, req UpsertAccount) (*models.Account, bool, error) {
	tier, err := models.ParseTier(string(req.Tier))
	if err != nil {
		return nil, false, err
	}
	if req.Credits < 0 {
		return nil, false, fmt.Errorf("credits must not be negative, got %d", req.Credits)
	}

	unlock := s.locks.Lock(req.UserID)
	defer unlock()

	var (
		acct    models.Account
		created bool
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&acct, "user_id = ?", req.UserID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = true
			acct = models.Account{
				UserID:          req.UserID,
				Tier:            tier,
				Credits:         req.Credits,
				LastInteraction: ledger.Today(s.now()),
				Version:         1,
			}
			if err := tx.Create(&acct).Error; err != nil {
				return err
			}
			return s.recordAdjustment(tx, acct, 0, req)
		case err != nil:
			return err
		}

		before := acct.Credits
		res := tx.Model(&models.Account{}).
			Where("user_id = ? AND version = ?", acct.UserID, acct.Version).
			Updates(map[string]interface{}{
				"tier":    tier,
				"credits": req.Credits,
				"version": acct.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ledger.ErrConcurrentUpdate
		}
		acct.Tier = tier
		acct.Credits = req.Credits
		acct.Version++

		if before == req.Credits {
			return nil
		}
		return s.recordAdjustment(tx, acct, before, req)
	})
	if err != nil {
		return nil, false, err
	}

	s.Invalidate(ctx, req.UserID)
	logger.Log.Info("account upserted",
		zap.String("user_id", acct.UserID),
		zap.String("tier", string(acct.Tier)),
		zap.Int("credits", acct.Credits),
		zap.String("operator", req.Operator),
		zap.Bool("created", created),
	)
	return &acct, created, nil
}

func (s *AccountService) recordAdjustment(tx *gorm.DB, acct models.Account, before int, req UpsertAccount) error {
	entry := models.LedgerEntry{
		CreatedAt:      s.now().Truncate(time.Millisecond),
		UserID:         acct.UserID,
		Type:           models.EntryTypeAdminAdjustment,
		Amount:         acct.Credits - before,
		BalanceBefore:  before,
		BalanceAfter:   acct.Credits,
		DailyUsesAfter: acct.DailyUses,
		Reason:         fmt.Sprintf("Ajuste administrativo: nivel %s", acct.Tier),
		Operator:       req.Operator,
		IPAddress:      req.IP,
		DeviceInfo:     req.Device,
	}
	entry.Hash = entry.GenerateHash(s.secret)
	return tx.Create(&entry).Error
}

// SeedDemo provisions the demo BRONZE account if it does not exist yet.
func (s *AccountService) SeedDemo(ctx context.Context, userID string, credits int) error {
	acct := models.Account{
		UserID:          userID,
		Tier:            models.TierBronze,
		Credits:         credits,
		LastInteraction: ledger.Today(s.now()),
		Version:         1,
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&acct)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		logger.Log.Info("demo account created", zap.String("user_id", userID), zap.Int("credits", credits))
	}
	return nil
}
