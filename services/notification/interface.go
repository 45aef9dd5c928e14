package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"villastay/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	TypeSalesNewRequest = "notify:sales_new_request"
	TypeGuestDecision   = "notify:guest_decision"
)

// Notifier tells sales about new requests and guests about decisions.
type Notifier interface {
	NotifySalesNewRequest(ctx context.Context, req *models.BookingRequest) error
	NotifyGuestDecision(ctx context.Context, req *models.BookingRequest) error
}

// RequestTopic is the FCM topic the guest's browser subscribes to while
// waiting on a request.
func RequestTopic(requestID string) string {
	return "booking-request-" + requestID
}

// taskEnqueuer is the part of *asynq.Client the notifier uses.
type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueNotifier enqueues notification tasks for the worker in cron/.
type QueueNotifier struct {
	client     taskEnqueuer
	salesTopic string
	logger     *zap.Logger
}

// NewQueueNotifier returns a notifier. With a nil client, including a nil
// *asynq.Client, notifications are logged and dropped.
func NewQueueNotifier(client taskEnqueuer, salesTopic string, logger *zap.Logger) *QueueNotifier {
	if c, ok := client.(*asynq.Client); ok && c == nil {
		client = nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueueNotifier{client: client, salesTopic: salesTopic, logger: logger}
}

func (n *QueueNotifier) NotifySalesNewRequest(ctx context.Context, req *models.BookingRequest) error {
	return n.enqueue(ctx, TypeSalesNewRequest, SalesNewRequestPayload(n.salesTopic, req))
}

func (n *QueueNotifier) NotifyGuestDecision(ctx context.Context, req *models.BookingRequest) error {
	return n.enqueue(ctx, TypeGuestDecision, GuestDecisionPayload(req))
}

func (n *QueueNotifier) enqueue(ctx context.Context, taskType string, payload models.NotificationPayload) error {
	if n.client == nil {
		n.logger.Debug("notification queue disabled, dropping",
			zap.String("type", taskType),
			zap.String("topic", payload.Topic),
		)
		return nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notification: failed to encode payload: %w", err)
	}
	task := asynq.NewTask(taskType, body)
	info, err := n.client.EnqueueContext(ctx, task, asynq.MaxRetry(5), asynq.Timeout(30*time.Second))
	if err != nil {
		return fmt.Errorf("notification: failed to enqueue %s: %w", taskType, err)
	}
	n.logger.Debug("notification enqueued", zap.String("type", taskType), zap.String("taskId", info.ID))
	return nil
}

// SalesNewRequestPayload builds the push sent to the sales topic.
func SalesNewRequestPayload(topic string, req *models.BookingRequest) models.NotificationPayload {
	source := "online"
	if req.BookingSource == models.BookingSourceCall || req.BookingType == models.BookingTypeCall {
		source = "call centre"
	}
	return models.NotificationPayload{
		Topic: topic,
		Title: "New booking request",
		Body: fmt.Sprintf("%s requested %s for %d night(s) from %s (%s)",
			req.GuestName, req.VillaName, req.Nights, req.CheckIn.Format("2006-01-02"), source),
		Data: map[string]string{
			"requestId": req.ID,
			"villaId":   req.VillaID,
			"status":    string(req.Status),
		},
		RequestID: req.ID,
	}
}

// GuestDecisionPayload builds the push sent to the request's own topic.
func GuestDecisionPayload(req *models.BookingRequest) models.NotificationPayload {
	var title, body string
	switch req.Status {
	case models.RequestAccepted:
		title = "Your booking request was accepted"
		body = fmt.Sprintf("%s is confirmed for your dates. Complete payment to secure it.", req.VillaName)
	case models.RequestDeclined:
		title = "Your booking request was declined"
		body = fmt.Sprintf("%s is not available for the requested dates.", req.VillaName)
	case models.RequestCustomOffer:
		title = "You have a new offer"
		if req.CustomOffer != nil {
			body = fmt.Sprintf("%s: %.2f %s, valid until %s.", req.VillaName,
				req.CustomOffer.AdjustedPrice, strings.ToUpper(req.Currency),
				req.CustomOffer.OfferExpiresAt.Format("2006-01-02 15:04 MST"))
		} else {
			body = fmt.Sprintf("Our team sent you an offer for %s.", req.VillaName)
		}
	default:
		title = "Booking request update"
		body = fmt.Sprintf("Your request for %s is %s.", req.VillaName, req.Status)
	}
	return models.NotificationPayload{
		Topic: RequestTopic(req.ID),
		Title: title,
		Body:  body,
		Data: map[string]string{
			"requestId": req.ID,
			"status":    string(req.Status),
		},
		RequestID: req.ID,
	}
}
