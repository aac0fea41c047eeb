package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/yizeng/gab/gin/gorm/merchant/internal/domain"
)

const DefaultCatalogTTL = 10 * time.Minute

type catalogPayload struct {
	Key   string                `json:"key"`
	Items []domain.ItemTemplate `json:"items"`
}

// RedisCatalogCache keeps trade catalogs as JSON documents in redis.
type RedisCatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCatalogCache(client *redis.Client, ttl time.Duration) *RedisCatalogCache {
	if ttl <= 0 {
		ttl = DefaultCatalogTTL
	}

	return &RedisCatalogCache{
		client: client,
		ttl:    ttl,
	}
}

func catalogKey(key string) string {
	return "catalog:" + key
}

func (c *RedisCatalogCache) Get(ctx context.Context, key string) (*domain.TradeCatalog, bool, error) {
	value, err := c.client.Get(ctx, catalogKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var payload catalogPayload
	if err := json.Unmarshal(value, &payload); err != nil {
		return nil, false, err
	}

	return domain.NewTradeCatalog(payload.Key, payload.Items), true, nil
}

func (c *RedisCatalogCache) Set(ctx context.Context, catalog *domain.TradeCatalog) error {
	payload, err := json.Marshal(catalogPayload{
		Key:   catalog.Key(),
		Items: catalog.Items(),
	})
	if err != nil {
		return err
	}

	return c.client.Set(ctx, catalogKey(catalog.Key()), payload, c.ttl).Err()
}

func (c *RedisCatalogCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, catalogKey(key)).Err()
}
