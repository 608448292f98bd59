package catalog

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store подмножество команд redis, которое использует кэш
// *redis.Client и *redis.ClusterClient удовлетворяют интерфейсу
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}
