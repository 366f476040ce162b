package models

import "time"

// DateLayout is the format of Account.LastInteraction.
const DateLayout = time.DateOnly

type Account struct {
	UserID          string `gorm:"primaryKey;type:varchar(64)"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Tier            Tier   `gorm:"type:varchar(16);not null;default:'BRONZE'"`
	Credits         int    `gorm:"not null;default:0;check:credits >= 0"`
	DailyUses       int    `gorm:"not null;default:0"`
	LastInteraction string `gorm:"type:varchar(10)"`
	Version         int    `gorm:"not null;default:1"`
}

// UsesOn returns the daily counter as seen on the given date: a counter
// stamped on an earlier day counts as zero.
func (a Account) UsesOn(today string) int {
	if a.LastInteraction != today {
		return 0
	}
	return a.DailyUses
}
