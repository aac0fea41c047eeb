package cache

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/gorm/merchant/internal/domain"
)

var testClient *redis.Client

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err == nil {
		err = pool.Client.Ping()
	}
	if err != nil {
		log.Printf("docker unavailable, skipping redis tests: %v", err)
		os.Exit(m.Run())
	}

	resource, err := pool.Run("redis", "7-alpine", nil)
	if err != nil {
		log.Printf("could not start redis, skipping redis tests: %v", err)
		os.Exit(m.Run())
	}
	_ = resource.Expire(120)

	addr := fmt.Sprintf("localhost:%s", resource.GetPort("6379/tcp"))
	if err := pool.Retry(func() error {
		client := redis.NewClient(&redis.Options{Addr: addr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			client.Close()
			return err
		}
		testClient = client
		return nil
	}); err != nil {
		_ = pool.Purge(resource)
		log.Fatalf("could not connect to redis: %v", err)
	}

	code := m.Run()

	testClient.Close()
	if err := pool.Purge(resource); err != nil {
		log.Printf("could not purge redis: %v", err)
	}

	os.Exit(code)
}

func requireRedis(t *testing.T) *redis.Client {
	t.Helper()

	if testClient == nil {
		t.Skip("redis is not available")
	}

	return testClient
}

func TestRedisCatalogCache_SetGetDelete(t *testing.T) {
	client := requireRedis(t)
	ctx := context.Background()
	c := NewRedisCatalogCache(client, time.Minute)

	_, ok, err := c.Get(ctx, "weapons")
	require.NoError(t, err)
	assert.False(t, ok)

	items := []domain.ItemTemplate{
		{ID: "sword", Name: "Sword", Value: 1200, PackSize: 1, Droppable: true},
		{ID: "arrows", Name: "Arrows", Value: 40, PackSize: 20, Droppable: true},
	}
	require.NoError(t, c.Set(ctx, domain.NewTradeCatalog("weapons", items)))

	got, ok, err := c.Get(ctx, "weapons")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "weapons", got.Key())
	assert.Equal(t, items, got.Items())

	ttl, err := client.TTL(ctx, "catalog:weapons").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, c.Delete(ctx, "weapons"))
	_, ok, err = c.Get(ctx, "weapons")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCatalogCache_CorruptValue(t *testing.T) {
	client := requireRedis(t)
	ctx := context.Background()
	c := NewRedisCatalogCache(client, 0)

	require.NoError(t, client.Set(ctx, "catalog:broken", "not json", time.Minute).Err())

	_, ok, err := c.Get(ctx, "broken")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNewRedisCatalogCache_DefaultTTL(t *testing.T) {
	c := NewRedisCatalogCache(nil, 0)
	assert.Equal(t, DefaultCatalogTTL, c.ttl)
}
