// Package redis is the Redis-backed verification store. Redis key TTLs make
// expired records vanish on their own, so the lazy-expiry branch of the
// store contract is native here: an expired code is simply absent.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/verify-api/internal/config"
)

const keyPrefix = "verify:"

// consumeScript compares and deletes in one server-side step so two
// concurrent submissions of the same code can never both succeed.
var consumeScript = goredis.NewScript(`
local v = redis.call("GET", KEYS[1])
if v == ARGV[1] then
	redis.call("DEL", KEYS[1])
	return 1
end
return 0
`)

// Store keeps verification codes as TTL'd Redis string keys.
type Store struct {
	client *goredis.Client
}

// NewClient builds a Redis client from config.
func NewClient(cfg *config.Config) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

func NewStore(client *goredis.Client) *Store {
	return &Store{client: client}
}

// Put creates or replaces the code for receiver. SET overwrites the value
// and resets the TTL in one command.
func (s *Store) Put(ctx context.Context, receiver, code string, ttl time.Duration) error {
	if err := s.client.Set(ctx, keyPrefix+receiver, code, ttl).Err(); err != nil {
		return fmt.Errorf("store verification code: %w", err)
	}
	return nil
}

// Consume runs the compare-and-delete script. A mismatched code leaves the
// key (and its remaining TTL) untouched.
func (s *Store) Consume(ctx context.Context, receiver, code string) (bool, error) {
	n, err := consumeScript.Run(ctx, s.client, []string{keyPrefix + receiver}, code).Int()
	if err != nil {
		return false, fmt.Errorf("consume verification code: %w", err)
	}
	return n == 1, nil
}
