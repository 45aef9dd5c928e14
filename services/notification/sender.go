package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"villastay/models"

	"firebase.google.com/go/v4/messaging"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Sender delivers a notification payload.
type Sender interface {
	Send(ctx context.Context, p models.NotificationPayload) error
}

// messagingClient is the part of *messaging.Client the FCM sender uses.
type messagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMSender publishes payloads as Firebase Cloud Messaging topic messages.
type FCMSender struct {
	client messagingClient
	logger *zap.Logger
}

func NewFCMSender(client messagingClient, logger *zap.Logger) *FCMSender {
	return &FCMSender{client: client, logger: logger}
}

func (s *FCMSender) Send(ctx context.Context, p models.NotificationPayload) error {
	if p.Topic == "" {
		return fmt.Errorf("notification: payload has no topic")
	}
	msg := &messaging.Message{
		Topic: p.Topic,
		Notification: &messaging.Notification{
			Title: p.Title,
			Body:  p.Body,
		},
		Data: p.Data,
	}
	id, err := s.client.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("notification: failed to send FCM message to %s: %w", p.Topic, err)
	}
	s.logger.Info("push notification sent", zap.String("topic", p.Topic), zap.String("messageId", id))
	return nil
}

// LogSender only logs payloads; used when Firebase is not configured.
type LogSender struct {
	Logger *zap.Logger
}

func (s LogSender) Send(_ context.Context, p models.NotificationPayload) error {
	s.Logger.Info("notification (push disabled)",
		zap.String("topic", p.Topic),
		zap.String("title", p.Title),
		zap.String("body", p.Body),
	)
	return nil
}

// HandleNotificationTask decodes a queued payload and hands it to sender.
// Undecodable payloads are skipped rather than retried.
func HandleNotificationTask(sender Sender, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.NotificationPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid notification payload", zap.String("type", task.Type()), zap.Error(err))
			return fmt.Errorf("notification: bad payload: %v: %w", err, asynq.SkipRetry)
		}
		return sender.Send(ctx, p)
	}
}
