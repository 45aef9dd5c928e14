package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"villastay/models"

	"firebase.google.com/go/v4/messaging"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Type: task.Type()}, nil
}

type fakeMessaging struct {
	sent []*messaging.Message
	err  error
}

func (f *fakeMessaging) Send(_ context.Context, m *messaging.Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, m)
	return "projects/villastay/messages/1", nil
}

func sampleRequest(status models.RequestStatus) *models.BookingRequest {
	return &models.BookingRequest{
		ID:        "req-1",
		VillaID:   "villa-1",
		VillaName: "Ocean Breeze Cottage",
		GuestName: "Ada",
		CheckIn:   time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC),
		Nights:    3,
		Currency:  "usd",
		Status:    status,
	}
}

func TestQueueNotifier_Enqueues(t *testing.T) {
	q := &fakeEnqueuer{}
	n := NewQueueNotifier(q, "sales-requests", zap.NewNop())

	require.NoError(t, n.NotifySalesNewRequest(context.Background(), sampleRequest(models.RequestPending)))
	require.NoError(t, n.NotifyGuestDecision(context.Background(), sampleRequest(models.RequestAccepted)))
	require.Len(t, q.tasks, 2)

	assert.Equal(t, TypeSalesNewRequest, q.tasks[0].Type())
	var sales models.NotificationPayload
	require.NoError(t, json.Unmarshal(q.tasks[0].Payload(), &sales))
	assert.Equal(t, "sales-requests", sales.Topic)
	assert.Equal(t, "req-1", sales.Data["requestId"])
	assert.Contains(t, sales.Body, "3 night(s) from 2024-04-10")

	assert.Equal(t, TypeGuestDecision, q.tasks[1].Type())
	var guest models.NotificationPayload
	require.NoError(t, json.Unmarshal(q.tasks[1].Payload(), &guest))
	assert.Equal(t, "booking-request-req-1", guest.Topic)
	assert.Equal(t, "accepted", guest.Data["status"])
}

func TestQueueNotifier_DisabledAndFailing(t *testing.T) {
	disabled := NewQueueNotifier(nil, "sales", zap.NewNop())
	assert.NoError(t, disabled.NotifySalesNewRequest(context.Background(), sampleRequest(models.RequestPending)))

	var noRedis *asynq.Client
	unconfigured := NewQueueNotifier(noRedis, "sales", nil)
	assert.NotPanics(t, func() {
		assert.NoError(t, unconfigured.NotifyGuestDecision(context.Background(), sampleRequest(models.RequestAccepted)))
	})

	failing := NewQueueNotifier(&fakeEnqueuer{err: errors.New("redis down")}, "sales", zap.NewNop())
	assert.Error(t, failing.NotifyGuestDecision(context.Background(), sampleRequest(models.RequestDeclined)))
}

func TestGuestDecisionPayload_CustomOffer(t *testing.T) {
	req := sampleRequest(models.RequestCustomOffer)
	req.CustomOffer = &models.CustomOffer{
		AdjustedPrice:  600,
		OfferExpiresAt: time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC),
	}
	p := GuestDecisionPayload(req)
	assert.Equal(t, "You have a new offer", p.Title)
	assert.Contains(t, p.Body, "600.00 USD")
	assert.Contains(t, p.Body, "2024-04-01")
}

func TestFCMSender(t *testing.T) {
	client := &fakeMessaging{}
	s := NewFCMSender(client, zap.NewNop())

	p := GuestDecisionPayload(sampleRequest(models.RequestDeclined))
	require.NoError(t, s.Send(context.Background(), p))
	require.Len(t, client.sent, 1)
	assert.Equal(t, "booking-request-req-1", client.sent[0].Topic)
	assert.Equal(t, p.Title, client.sent[0].Notification.Title)
	assert.Equal(t, "declined", client.sent[0].Data["status"])

	assert.Error(t, s.Send(context.Background(), models.NotificationPayload{Title: "no topic"}))

	client.err = errors.New("unavailable")
	assert.Error(t, s.Send(context.Background(), p))
}

type recordingSender struct {
	got []models.NotificationPayload
}

func (r *recordingSender) Send(_ context.Context, p models.NotificationPayload) error {
	r.got = append(r.got, p)
	return nil
}

func TestHandleNotificationTask(t *testing.T) {
	sender := &recordingSender{}
	handler := HandleNotificationTask(sender, zap.NewNop())

	body, err := json.Marshal(models.NotificationPayload{Topic: "sales", Title: "New booking request"})
	require.NoError(t, err)
	require.NoError(t, handler(context.Background(), asynq.NewTask(TypeSalesNewRequest, body)))
	require.Len(t, sender.got, 1)
	assert.Equal(t, "sales", sender.got[0].Topic)

	err = handler(context.Background(), asynq.NewTask(TypeSalesNewRequest, []byte("{")))
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
