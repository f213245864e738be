package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikelGMatos/NutriSense/services"
)

func setupTokenStore(t *testing.T) (*services.TokenStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return services.NewTokenStoreWithClient(client), mr
}

func TestTokenStoreRevoke(t *testing.T) {
	store, _ := setupTokenStore(t)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "tok-1", time.Hour))

	revoked, err = store.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// other tokens unaffected
	revoked, err = store.IsRevoked(ctx, "tok-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenStoreRevocationExpires(t *testing.T) {
	store, mr := setupTokenStore(t)
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "tok-ttl", time.Minute))
	mr.FastForward(2 * time.Minute)

	revoked, err := store.IsRevoked(ctx, "tok-ttl")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenStoreExpiredTokenNotStored(t *testing.T) {
	store, mr := setupTokenStore(t)

	require.NoError(t, store.Revoke(context.Background(), "tok-old", -time.Minute))
	assert.Empty(t, mr.Keys())
}

func TestNilTokenStoreIsNoop(t *testing.T) {
	var store *services.TokenStore
	ctx := context.Background()

	assert.NoError(t, store.Revoke(ctx, "tok", time.Hour))
	revoked, err := store.IsRevoked(ctx, "tok")
	assert.NoError(t, err)
	assert.False(t, revoked)
}
