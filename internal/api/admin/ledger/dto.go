package ledger

import (
	"time"

	"azarpredictor-backend/internal/models"
)

// ListQuery filters the ledger. Times are RFC3339.
type ListQuery struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=500"`
	UserID    string `form:"user_id" binding:"omitempty,max=64,printascii"`
	Type      string `form:"type" binding:"omitempty,oneof=prediction_charge admin_adjustment"`
	StartTime string `form:"start_time" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime   string `form:"end_time" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

type EntryItem struct {
	ID             uint             `json:"id"`
	CreatedAt      time.Time        `json:"created_at"`
	UserID         string           `json:"user_id"`
	Type           models.EntryType `json:"type"`
	Amount         int              `json:"amount"`
	BalanceBefore  int              `json:"balance_before"`
	BalanceAfter   int              `json:"balance_after"`
	DailyUsesAfter int              `json:"daily_uses_after"`
	Reason         string           `json:"reason"`
	Operator       string           `json:"operator"`
	IPAddress      string           `json:"ip_address"`
	DeviceInfo     string           `json:"device_info"`
	Hash           string           `json:"hash"`
	Verified       bool             `json:"verified"`
}

type ListResponse struct {
	Entries []EntryItem `json:"entries"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	Limit   int         `json:"limit"`
}
