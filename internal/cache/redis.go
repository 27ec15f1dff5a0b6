package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Domenick1991/travelquery/config"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
)

// expirySkew keeps a cached token from being handed out right before it expires.
const expirySkew = 30 * time.Second

// RedisTokenCache shares provider access tokens between instances.
type RedisTokenCache struct {
	client *redis.Client
}

func NewRedisTokenCache(cfg config.RedisConfig) *RedisTokenCache {
	return &RedisTokenCache{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
	}
}

// GetToken returns nil, nil on a miss.
func (c *RedisTokenCache) GetToken(ctx context.Context, key string) (*oauth2.Token, error) {
	data, err := c.client.Get(ctx, tokenKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

func (c *RedisTokenCache) SetToken(ctx context.Context, key string, tok *oauth2.Token) error {
	ttl := tokenTTL(tok, time.Now())
	if ttl <= 0 {
		return nil
	}
	payload, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, tokenKey(key), payload, ttl).Err()
}

func (c *RedisTokenCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisTokenCache) Close() error {
	return c.client.Close()
}

// tokenTTL is zero for tokens that should not be cached.
func tokenTTL(tok *oauth2.Token, now time.Time) time.Duration {
	if tok == nil || tok.AccessToken == "" || tok.Expiry.IsZero() {
		return 0
	}
	return tok.Expiry.Sub(now) - expirySkew
}

func tokenKey(clientID string) string {
	return "provider:token:" + clientID
}
