package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenDenylist(t *testing.T) {
	ctx := context.Background()
	mr, client := setupTestRedis(t)
	d := NewTokenDenylist(client)

	revoked, err := d.Contains(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, d.Add(ctx, "abc", time.Minute))
	revoked, err = d.Contains(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = d.Contains(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	// already expired tokens need no entry
	require.NoError(t, d.Add(ctx, "old", -time.Second))
	assert.False(t, mr.Exists(denylistPrefix+"old"))
}

func TestTokenDenylistWithoutRedis(t *testing.T) {
	ctx := context.Background()

	var nilList *TokenDenylist
	revoked, err := nilList.Contains(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	d := NewTokenDenylist(nil)
	assert.ErrorIs(t, d.Add(ctx, "abc", time.Minute), ErrDenylistUnavailable)
}
