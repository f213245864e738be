package services

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MikelGMatos/NutriSense/config"
)

// TokenStore keeps revoked bearer tokens in Redis until their natural
// expiry. A nil store disables revocation (logout becomes a no-op).
type TokenStore struct {
	client *redis.Client
}

// NewTokenStore returns nil when no Redis address is configured.
func NewTokenStore(cfg *config.Config) *TokenStore {
	if cfg.RedisAddr == "" {
		return nil
	}
	opts := &redis.Options{Addr: cfg.RedisAddr}
	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}
	if cfg.RedisDB != 0 {
		opts.DB = cfg.RedisDB
	}
	return &TokenStore{client: redis.NewClient(opts)}
}

func NewTokenStoreWithClient(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

func (s *TokenStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func revokedKey(token string) string {
	return "auth:revoked:" + token
}

// Revoke blacklists the token for the remaining lifetime of its exp claim.
func (s *TokenStore) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if s == nil {
		return nil
	}
	if ttl <= 0 {
		return nil // already expired, nothing to store
	}
	return s.client.Set(ctx, revokedKey(token), "1", ttl).Err()
}

func (s *TokenStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	if s == nil {
		return false, nil
	}
	_, err := s.client.Get(ctx, revokedKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
