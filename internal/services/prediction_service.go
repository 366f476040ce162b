package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"azarpredictor-backend/internal/generator"
	"azarpredictor-backend/internal/ledger"
	"azarpredictor-backend/internal/models"
	"azarpredictor-backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RequestMeta describes the caller of a generation request for the audit
// trail.
type RequestMeta struct {
	IP     string
	Device string
}

type PredictionResult struct {
	UserID       string
	Tier         models.Tier
	Metered      bool
	Charged      int
	Combinations []generator.Combination
	// RemainingCredits is set only for metered tiers.
	RemainingCredits *int
}

// PredictionService runs the ledger check and the generator for one request.
type PredictionService struct {
	db        *gorm.DB
	accounts  *AccountService
	generator *generator.Generator
	locks     *ledger.KeyedMutex
	rules     ledger.Rules
	secret    string
	now       func() time.Time
}

func NewPredictionService(db *gorm.DB, accounts *AccountService, gen *generator.Generator, locks *ledger.KeyedMutex, rules ledger.Rules, secret string) *PredictionService {
	return &PredictionService{
		db:        db,
		accounts:  accounts,
		generator: gen,
		locks:     locks,
		rules:     rules,
		secret:    secret,
		now:       time.Now,
	}
}

// Generate checks and charges the account of userID and returns its
// combinations. The read, decision and write happen under the user's lock
// inside one transaction; a rejected request changes nothing.
func (s *PredictionService) Generate(ctx context.Context, userID string, meta RequestMeta) (*PredictionResult, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	var result *PredictionResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var acct models.Account
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&acct, "user_id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ledger.ErrUserNotFound
			}
			return err
		}

		now := s.now()
		decision, err := s.rules.Decide(acct, ledger.Today(now))
		if err != nil {
			return err
		}

		combos, err := s.generator.Generate(decision.Count)
		if err != nil {
			return fmt.Errorf("generate %d combinations: %w", decision.Count, err)
		}

		result = &PredictionResult{
			UserID:       acct.UserID,
			Tier:         decision.Tier,
			Metered:      decision.Metered,
			Combinations: combos,
		}
		if decision.Next == nil {
			return nil
		}

		next := decision.Next
		res := tx.Model(&models.Account{}).
			Where("user_id = ? AND version = ?", acct.UserID, acct.Version).
			Updates(map[string]interface{}{
				"credits":          next.Credits,
				"daily_uses":       next.DailyUses,
				"last_interaction": next.LastInteraction,
				"version":          acct.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ledger.ErrConcurrentUpdate
		}

		details, err := json.Marshal(combos)
		if err != nil {
			return err
		}
		entry := models.LedgerEntry{
			CreatedAt:      now.Truncate(time.Millisecond),
			UserID:         acct.UserID,
			Type:           models.EntryTypePredictionCharge,
			Amount:         -decision.Charge,
			BalanceBefore:  acct.Credits,
			BalanceAfter:   next.Credits,
			DailyUsesAfter: next.DailyUses,
			Reason:         fmt.Sprintf("Pronóstico %s generado (%d combinaciones)", decision.Tier, decision.Count),
			Operator:       "system",
			IPAddress:      meta.IP,
			DeviceInfo:     meta.Device,
			Details:        datatypes.JSON(details),
		}
		entry.Hash = entry.GenerateHash(s.secret)
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		remaining := next.Credits
		result.Charged = decision.Charge
		result.RemainingCredits = &remaining
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Metered {
		s.accounts.Invalidate(ctx, userID)
		logger.Log.Info("prediction charged",
			zap.String("user_id", userID),
			zap.Int("charged", result.Charged),
			zap.Int("remaining", *result.RemainingCredits),
		)
	}
	return result, nil
}
