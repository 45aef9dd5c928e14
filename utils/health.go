package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Mongo     bool      `json:"mongo"`
	Redis     bool      `json:"redis"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Healthy reports whether the database is reachable. Redis is optional.
func (h HealthStatus) Healthy() bool {
	return h.Mongo
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

func setHealthStatus(h HealthStatus) {
	mu.Lock()
	currentHealth = h
	mu.Unlock()
}

// CheckHealth pings the dependencies once.
func CheckHealth(ctx context.Context, redisClient *redis.Client, mongoClient *mongo.Client) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	status := HealthStatus{CheckedAt: time.Now()}
	if mongoClient != nil {
		status.Mongo = mongoClient.Ping(ctx, nil) == nil
	}
	if redisClient != nil {
		status.Redis = redisClient.Ping(ctx).Err() == nil
	}
	return status
}

// StartHealthMonitor performs periodic health checks and updates in-memory
// state until ctx is cancelled.
func StartHealthMonitor(ctx context.Context, interval time.Duration, redisClient *redis.Client, mongoClient *mongo.Client) {
	setHealthStatus(CheckHealth(ctx, redisClient, mongoClient))
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				setHealthStatus(CheckHealth(ctx, redisClient, mongoClient))
			}
		}
	}()
}
