// File: utils/cache.go
package utils

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"villastay/config"
	"villastay/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CacheClient is the generic cache client. Nil when Redis is not configured.
var CacheClient *redis.Client

// InitCache initializes the generic Redis cache client. It leaves
// CacheClient nil when REDIS_ADDR is empty or the ping fails.
func InitCache() {
	if config.AppConfig.RedisAddr == "" {
		GetLogger().Info("Redis not configured, status cache disabled")
		return
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		GetLogger().Warn("Failed to connect to Redis (Cache), status cache disabled", zap.Error(err))
		_ = client.Close()
		return
	}
	CacheClient = client
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	return CacheClient
}

const statusCachePrefix = "booking_request:"

// StatusCache keeps recently read booking requests so the customer
// status poll does not hit Mongo every few seconds.
// Set never replaces a cached copy whose UpdatedAt is later than req's,
// so a poll that read the database before a transition cannot hide it.
type StatusCache interface {
	Get(ctx context.Context, id string) (*models.BookingRequest, bool)
	Set(ctx context.Context, req *models.BookingRequest)
	Invalidate(ctx context.Context, id string)
}

type redisStatusCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatusCache returns a Redis backed StatusCache, or a no-op cache
// when client is nil.
func NewStatusCache(client *redis.Client, ttl time.Duration) StatusCache {
	if client == nil {
		return noopStatusCache{}
	}
	return &redisStatusCache{client: client, ttl: ttl}
}

func (c *redisStatusCache) Get(ctx context.Context, id string) (*models.BookingRequest, bool) {
	raw, err := c.client.Get(ctx, statusCachePrefix+id).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			GetLogger().Warn("status cache read failed", zap.String("requestId", id), zap.Error(err))
		}
		return nil, false
	}
	var req models.BookingRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, false
	}
	return &req, true
}

func (c *redisStatusCache) Set(ctx context.Context, req *models.BookingRequest) {
	raw, err := json.Marshal(req)
	if err != nil {
		return
	}
	key := statusCachePrefix + req.ID
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if err == nil && CachedIsNewer(current, req) {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, c.ttl)
			return nil
		})
		return err
	}, key)
	if err != nil {
		GetLogger().Warn("status cache write failed", zap.String("requestId", req.ID), zap.Error(err))
		c.Invalidate(ctx, req.ID)
	}
}

// CachedIsNewer reports whether the cached encoding describes a later
// revision of the request than req.
func CachedIsNewer(cached []byte, req *models.BookingRequest) bool {
	var prev models.BookingRequest
	if err := json.Unmarshal(cached, &prev); err != nil {
		return false
	}
	return prev.UpdatedAt.After(req.UpdatedAt)
}

func (c *redisStatusCache) Invalidate(ctx context.Context, id string) {
	if err := c.client.Del(ctx, statusCachePrefix+id).Err(); err != nil {
		GetLogger().Warn("status cache invalidation failed", zap.String("requestId", id), zap.Error(err))
	}
}

type noopStatusCache struct{}

func (noopStatusCache) Get(context.Context, string) (*models.BookingRequest, bool) { return nil, false }
func (noopStatusCache) Set(context.Context, *models.BookingRequest) {}
func (noopStatusCache) Invalidate(context.Context, string) {}
