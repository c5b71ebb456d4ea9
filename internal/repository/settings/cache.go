package settings

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefront/internal/domain"
)

const cacheKey = "settings:" + domain.GeneralSettingsID

type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Cached is a read-through Redis cache in front of a Repository. Cache
// failures fall back to the underlying repository.
type Cached struct {
	next   Repository
	rdb    redisClient
	ttl    time.Duration
	logger *zap.Logger
}

func NewCached(next Repository, rdb redisClient, ttl time.Duration, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func (c *Cached) GetGeneral(ctx context.Context) (domain.Settings, error) {
	raw, err := c.rdb.Get(ctx, cacheKey).Bytes()
	switch {
	case err == nil:
		var s domain.Settings
		if jerr := json.Unmarshal(raw, &s); jerr == nil {
			return s, nil
		}
		c.logger.Warn("settings cache: undecodable entry, refetching")
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("settings cache: get failed", zap.Error(err))
	}

	s, err := c.next.GetGeneral(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	if encoded, jerr := json.Marshal(s); jerr == nil {
		if serr := c.rdb.Set(ctx, cacheKey, encoded, c.ttl).Err(); serr != nil {
			c.logger.Warn("settings cache: set failed", zap.Error(serr))
		}
	}
	return s, nil
}

// PutGeneral writes through and drops the cached copy.
func (c *Cached) PutGeneral(ctx context.Context, s domain.Settings) error {
	if err := c.next.PutGeneral(ctx, s); err != nil {
		return err
	}
	if err := c.rdb.Del(ctx, cacheKey).Err(); err != nil {
		c.logger.Warn("settings cache: invalidate failed", zap.Error(err))
	}
	return nil
}
