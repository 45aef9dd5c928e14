package cron

import (
	"time"

	"villastay/config"
	"villastay/services/notification"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// QueueRedisOpt is the Redis connection shared by the task client and
// the worker.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewNotificationMux routes notification tasks to sender.
func NewNotificationMux(sender notification.Sender, logger *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	handler := notification.HandleNotificationTask(sender, logger)
	mux.HandleFunc(notification.TypeSalesNewRequest, handler)
	mux.HandleFunc(notification.TypeGuestDecision, handler)
	return mux
}

// InitNotificationWorker starts the notification worker in the background
// and returns the server so the caller can shut it down.
func InitNotificationWorker(sender notification.Sender, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)
	mux := NewNotificationMux(sender, logger)

	go func() {
		logger.Info("notification worker starting")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Error("notification worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err),
			)
			if attempts == maxAttempts {
				logger.Error("notification worker giving up, notifications stay queued")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}
