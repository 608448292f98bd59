package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-BookingFlow/internal/domain"
)

// Cache read-through кэш метаданных бизнеса и каталога услуг в redis
type Cache struct {
	store  Store
	prefix string
	ttl    time.Duration
}

// NewCache создает кэш каталога
func NewCache(store Store, prefix string, ttl time.Duration) *Cache {
	if prefix == "" {
		prefix = "bookingflow"
	}
	return &Cache{store: store, prefix: prefix, ttl: ttl}
}

// GetBusiness возвращает метаданные бизнеса или ErrCacheMiss
func (c *Cache) GetBusiness(ctx context.Context, slug string) (*domain.Business, error) {
	var business domain.Business
	if err := c.get(ctx, c.key("business", slug), &business); err != nil {
		return nil, err
	}
	return &business, nil
}

// SetBusiness сохраняет метаданные бизнеса под запрошенным slug
func (c *Cache) SetBusiness(ctx context.Context, slug string, business *domain.Business) error {
	return c.set(ctx, c.key("business", slug), business)
}

// GetServices возвращает каталог услуг или ErrCacheMiss
func (c *Cache) GetServices(ctx context.Context, slug string) ([]domain.Service, error) {
	var services []domain.Service
	if err := c.get(ctx, c.key("services", slug), &services); err != nil {
		return nil, err
	}
	return services, nil
}

// SetServices сохраняет каталог услуг
func (c *Cache) SetServices(ctx context.Context, slug string, services []domain.Service) error {
	return c.set(ctx, c.key("services", slug), services)
}

// Invalidate удаляет все записи бизнеса
func (c *Cache) Invalidate(ctx context.Context, slug string) error {
	if err := c.store.Del(ctx, c.key("business", slug), c.key("services", slug)).Err(); err != nil {
		return fmt.Errorf("%w: del %s: %v", ErrCache, slug, err)
	}
	return nil
}

func (c *Cache) key(kind, slug string) string {
	return fmt.Sprintf("%s:catalog:%s:%s", c.prefix, kind, slug)
}

func (c *Cache) get(ctx context.Context, key string, out interface{}) error {
	raw, err := c.store.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("%w: get %s: %v", ErrCache, key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrCodec, key, err)
	}
	return nil
}

func (c *Cache) set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrCodec, key, err)
	}
	if err := c.store.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrCache, key, err)
	}
	return nil
}
