package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/evermart/placement_service/internal/domain/entity"
	"github.com/evermart/placement_service/internal/domain/service"
	"github.com/redis/go-redis/v9"
)

var _ service.PlacementCache = new(redisCache)

const keyPrefix = "active"

type redisCache struct {
	client *redis.Client
	expiry time.Duration
}

func NewRedisCache(client *redis.Client, expirySeconds int) *redisCache {
	return &redisCache{
		client: client,
		expiry: time.Duration(expirySeconds) * time.Second,
	}
}

func scopeKey(scope entity.Scope) string {
	tenant := scope.WhiteLabelID
	if tenant == "" {
		tenant = "default"
	}
	return fmt.Sprintf("%s:%s:%s:%s", keyPrefix, scope.Kind, scope.Device, tenant)
}

func (c *redisCache) GetActive(ctx context.Context, scope entity.Scope) ([]entity.Placement, error) {
	payload, err := c.client.Get(ctx, scopeKey(scope)).Result()
	if err != nil {
		return nil, err
	}

	var units []entity.Placement
	err = json.Unmarshal([]byte(payload), &units)
	if err != nil {
		slog.Error("error unmarshalling cached placements", "error", err)
		return nil, err
	}

	return units, nil
}

func (c *redisCache) SetActive(ctx context.Context, scope entity.Scope, units []entity.Placement) error {
	payload, err := json.Marshal(units)
	if err != nil {
		slog.Error("error marshalling placements for cache", "error", err)
		return err
	}

	err = c.client.Set(ctx, scopeKey(scope), payload, c.expiry).Err()
	if err != nil {
		slog.Error("error writing placements to redis", "error", err)
		return err
	}

	return nil
}

func (c *redisCache) Invalidate(ctx context.Context, scope entity.Scope) error {
	// a unit with device "all" serves every device-specific scope,
	// so the whole kind/tenant slice is dropped
	keys := make([]string, 0, 4)
	for _, device := range []entity.Device{entity.DeviceDesktop, entity.DeviceMobile, entity.DeviceTablet, entity.DeviceAll} {
		keys = append(keys, scopeKey(entity.Scope{Kind: scope.Kind, Device: device, WhiteLabelID: scope.WhiteLabelID}))
	}

	err := c.client.Del(ctx, keys...).Err()
	if err != nil {
		slog.Error("error invalidating placement cache", "error", err)
		return err
	}

	return nil
}

func (c *redisCache) InvalidateAll(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+":*", 0).Iterator()

	keys := make([]string, 0, 16)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		slog.Error("error scanning placement cache keys", "error", err)
		return err
	}

	if len(keys) == 0 {
		return nil
	}

	err := c.client.Del(ctx, keys...).Err()
	if err != nil {
		slog.Error("error flushing placement cache", "error", err)
		return err
	}

	return nil
}
