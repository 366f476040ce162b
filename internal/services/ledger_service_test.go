package services

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"azarpredictor-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEntries(t *testing.T, env *testEnv) {
	t.Helper()

	base := fixedNow.Truncate(time.Millisecond)
	entries := []models.LedgerEntry{
		{CreatedAt: base.Add(-2 * time.Hour), UserID: "a", Type: models.EntryTypeAdminAdjustment, Amount: 150, BalanceAfter: 150, Operator: "admin"},
		{CreatedAt: base.Add(-time.Hour), UserID: "a", Type: models.EntryTypePredictionCharge, Amount: -50, BalanceBefore: 150, BalanceAfter: 100, Operator: "system"},
		{CreatedAt: base, UserID: "b", Type: models.EntryTypePredictionCharge, Amount: -50, BalanceBefore: 50, BalanceAfter: 0, Operator: "system"},
	}
	for i := range entries {
		entries[i].Hash = entries[i].GenerateHash(testSecret)
		require.NoError(t, env.db.Create(&entries[i]).Error)
	}
}

func TestLedgerFind(t *testing.T) {
	env := newTestEnv(t, nil)
	seedEntries(t, env)
	ctx := context.Background()

	all, total, err := env.ledger.Find(ctx, LedgerFilter{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, all, 3)
	assert.Equal(t, "b", all[0].UserID, "newest first")

	userA := "a"
	byUser, total, err := env.ledger.Find(ctx, LedgerFilter{UserID: &userA, Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, byUser, 2)

	charge := models.EntryTypePredictionCharge
	byType, total, err := env.ledger.Find(ctx, LedgerFilter{Type: &charge, Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, byType, 2)

	start := fixedNow.Add(-90 * time.Minute)
	recent, total, err := env.ledger.Find(ctx, LedgerFilter{StartTime: &start, Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, recent, 2)

	page2, total, err := env.ledger.Find(ctx, LedgerFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page2, 1)
	assert.Equal(t, models.EntryTypeAdminAdjustment, page2[0].Type)
}

func TestLedgerGenerateCSV(t *testing.T) {
	env := newTestEnv(t, nil)
	seedEntries(t, env)

	entries, _, err := env.ledger.Find(context.Background(), LedgerFilter{})
	require.NoError(t, err)
	entries[2].BalanceAfter = 999 // tampered after the fact

	data, err := env.ledger.GenerateCSV(entries)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "User ID", records[0][2])
	assert.Equal(t, "Verified", records[0][13])
	assert.Equal(t, "b", records[1][2])
	assert.Equal(t, "-50", records[1][4])
	assert.Equal(t, "true", records[1][13])
	assert.Equal(t, "false", records[3][13])
}
