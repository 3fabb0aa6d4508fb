package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mediconnect-backend/internal/apps/hospital/models"

	"github.com/redis/go-redis/v9"
)

// NearbyCache stores lookup results per rounded location
type NearbyCache interface {
	Get(ctx context.Context, key string) ([]models.Hospital, bool)
	Set(ctx context.Context, key string, hospitals []models.Hospital)
}

// cacheKey rounds to three decimals (about 100 m)
func cacheKey(lat, lng float64) string {
	return fmt.Sprintf("hospitals:nearby:%.3f:%.3f", lat, lng)
}

type redisNearbyCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisNearbyCache caches Places results in redis for ttl
func NewRedisNearbyCache(client redis.UniversalClient, ttl time.Duration) NearbyCache {
	return &redisNearbyCache{client: client, ttl: ttl}
}

func (c *redisNearbyCache) Get(ctx context.Context, key string) ([]models.Hospital, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var hospitals []models.Hospital
	if err := json.Unmarshal(raw, &hospitals); err != nil {
		return nil, false
	}
	return hospitals, true
}

func (c *redisNearbyCache) Set(ctx context.Context, key string, hospitals []models.Hospital) {
	raw, err := json.Marshal(hospitals)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, raw, c.ttl)
}
