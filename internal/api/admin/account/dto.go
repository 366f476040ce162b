package account

import (
	"time"

	"azarpredictor-backend/internal/models"
)

type AccountURI struct {
	UserID string `uri:"user_id" binding:"required,max=64,printascii"`
}

// UpsertAccountRequest sets the tier and balance of an account. Tier accepts
// the legacy Spanish names as well.
type UpsertAccountRequest struct {
	Tier    string `json:"tier" binding:"required"`
	Credits *int   `json:"credits" binding:"required,min=0"`
}

type AccountItem struct {
	UserID          string      `json:"user_id"`
	Tier            models.Tier `json:"tier"`
	Credits         int         `json:"credits"`
	DailyUses       int         `json:"daily_uses"`
	LastInteraction string      `json:"last_interaction"`
	Version         int         `json:"version"`
	UpdatedAt       time.Time   `json:"updated_at"`
}
