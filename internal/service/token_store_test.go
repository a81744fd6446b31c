package service

import (
	"context"
	"testing"
	"time"

	"medcare-api/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTokenStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTokenStore().(*memoryTokenStore)

	require.NoError(t, store.Save(ctx, jwt.AccessToken, 1, "a1", time.Minute))
	require.NoError(t, store.Save(ctx, jwt.RefreshToken, 1, "r1", time.Hour))
	require.NoError(t, store.Save(ctx, jwt.AccessToken, 12, "a2", time.Minute))

	ok, err := store.Exists(ctx, jwt.AccessToken, 1, "a1")
	require.NoError(t, err)
	assert.True(t, ok)

	// token ids are scoped by type
	ok, _ = store.Exists(ctx, jwt.RefreshToken, 1, "a1")
	assert.False(t, ok)

	require.NoError(t, store.Revoke(ctx, jwt.AccessToken, 1, "a1"))
	ok, _ = store.Exists(ctx, jwt.AccessToken, 1, "a1")
	assert.False(t, ok)

	require.NoError(t, store.RevokeAll(ctx, 1))
	ok, _ = store.Exists(ctx, jwt.RefreshToken, 1, "r1")
	assert.False(t, ok)

	// user 12 shares the "1" prefix but must survive
	ok, _ = store.Exists(ctx, jwt.AccessToken, 12, "a2")
	assert.True(t, ok)
}

func TestMemoryTokenStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTokenStore().(*memoryTokenStore)
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, jwt.AccessToken, 3, "t", time.Minute))
	now = now.Add(2 * time.Minute)

	ok, err := store.Exists(ctx, jwt.AccessToken, 3, "t")
	require.NoError(t, err)
	assert.False(t, ok)
}
