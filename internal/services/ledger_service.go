package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"time"

	"azarpredictor-backend/internal/models"

	"gorm.io/gorm"
)

// LedgerFilter defines criteria for filtering ledger entries
type LedgerFilter struct {
	UserID    *string
	Type      *models.EntryType
	StartTime *time.Time
	EndTime   *time.Time
	Page      int
	Limit     int
}

type LedgerService struct {
	db     *gorm.DB
	secret string
}

func NewLedgerService(db *gorm.DB, secret string) *LedgerService {
	return &LedgerService{db: db, secret: secret}
}

// Find retrieves a paginated list of ledger entries, newest first.
func (s *LedgerService) Find(ctx context.Context, filter LedgerFilter) ([]models.LedgerEntry, int64, error) {
	var entries []models.LedgerEntry
	var total int64

	query := s.db.WithContext(ctx).Model(&models.LedgerEntry{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.StartTime != nil {
		query = query.Where("created_at >= ?", *filter.StartTime)
	}
	if filter.EndTime != nil {
		query = query.Where("created_at <= ?", *filter.EndTime)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		offset := (max(filter.Page, 1) - 1) * filter.Limit
		query = query.Limit(filter.Limit).Offset(offset)
	}
	if err := query.Order("created_at desc, id desc").Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// Verify reports whether entry still matches its hash.
func (s *LedgerService) Verify(entry models.LedgerEntry) bool {
	return entry.VerifyHash(s.secret)
}

// GenerateCSV renders entries as CSV with a header row.
func (s *LedgerService) GenerateCSV(entries []models.LedgerEntry) ([]byte, error) {
	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	header := []string{
		"ID", "Time", "User ID", "Type", "Amount",
		"Balance Before", "Balance After", "Daily Uses After", "Reason",
		"Operator", "IP Address", "Device Info", "Hash", "Verified",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, e := range entries {
		record := []string{
			strconv.FormatUint(uint64(e.ID), 10),
			e.CreatedAt.Format(time.RFC3339Nano),
			e.UserID,
			string(e.Type),
			strconv.Itoa(e.Amount),
			strconv.Itoa(e.BalanceBefore),
			strconv.Itoa(e.BalanceAfter),
			strconv.Itoa(e.DailyUsesAfter),
			e.Reason,
			e.Operator,
			e.IPAddress,
			e.DeviceInfo,
			e.Hash,
			strconv.FormatBool(s.Verify(e)),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}
