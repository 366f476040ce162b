package models

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type EntryType string

const (
	EntryTypePredictionCharge EntryType = "prediction_charge"
	EntryTypeAdminAdjustment  EntryType = "admin_adjustment"
)

// LedgerEntry records one credit mutation of an account.
type LedgerEntry struct {
	ID             uint           `gorm:"primarykey"`
	CreatedAt      time.Time      `gorm:"precision:3"` // Millisecond precision
	UserID         string         `gorm:"type:varchar(64);index;not null"`
	Type           EntryType      `gorm:"type:varchar(50);index;not null"`
	Amount         int            `gorm:"not null"`
	BalanceBefore  int            `gorm:"not null"`
	BalanceAfter   int            `gorm:"not null"`
	DailyUsesAfter int            `gorm:"not null;default:0"`
	Reason         string         `gorm:"type:text"`
	Operator       string         `gorm:"type:varchar(100)"` // admin subject or 'system'
	IPAddress      string         `gorm:"type:varchar(50)"`
	DeviceInfo     string         `gorm:"type:varchar(255)"`
	Details        datatypes.JSON `gorm:"type:text"`
	Hash           string         `gorm:"type:varchar(64);default:''"` // HMAC SHA256
}

// GenerateHash returns the tamper-evidence HMAC of the entry.
func (e *LedgerEntry) GenerateHash(secret string) string {
	data := fmt.Sprintf("%s|%d|%s|%d|%d|%d|%d|%s|%s",
		e.UserID, e.CreatedAt.UnixMilli(), e.Type, e.Amount, e.BalanceBefore, e.BalanceAfter,
		e.DailyUsesAfter, e.Reason, e.Operator)

	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}

func (e *LedgerEntry) VerifyHash(secret string) bool {
	return hmac.Equal([]byte(e.Hash), []byte(e.GenerateHash(secret)))
}
