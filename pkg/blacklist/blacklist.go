package blacklist

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist revokes JWTs before their natural expiry. Logout blacklists
// the concrete tokens; removing a user drops a per-user marker that
// invalidates every token issued before the removal.
type TokenBlacklist struct {
	redis  *redis.Client
	prefix string
}

func NewTokenBlacklist(redisClient *redis.Client, prefix string) *TokenBlacklist {
	if prefix == "" {
		prefix = "miti"
	}
	return &TokenBlacklist{redis: redisClient, prefix: prefix}
}

func (b *TokenBlacklist) tokenKey(token string) string {
	return fmt.Sprintf("%s:blacklist:token:%s", b.prefix, token)
}

func (b *TokenBlacklist) userKey(userID string) string {
	return fmt.Sprintf("%s:blacklist:user:%s", b.prefix, userID)
}

// AddToken blacklists a token until expiresAt. Already-expired tokens are
// ignored, redis would reject a non-positive TTL anyway.
func (b *TokenBlacklist) AddToken(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := b.redis.Set(ctx, b.tokenKey(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

func (b *TokenBlacklist) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	exists, err := b.redis.Exists(ctx, b.tokenKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}
	return exists > 0, nil
}

// BlacklistUser invalidates all tokens issued before now. The marker expires
// after ttl, which must exceed the longest token lifetime.
func (b *TokenBlacklist) BlacklistUser(ctx context.Context, userID string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return b.redis.Set(ctx, b.userKey(userID), time.Now().Unix(), ttl).Err()
}

// IsUserBlacklisted reports whether a token issued at tokenIssuedAt predates
// the user's invalidation marker.
func (b *TokenBlacklist) IsUserBlacklisted(ctx context.Context, userID string, tokenIssuedAt time.Time) (bool, error) {
	ts, err := b.redis.Get(ctx, b.userKey(userID)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return tokenIssuedAt.Before(time.Unix(ts, 0)), nil
}
