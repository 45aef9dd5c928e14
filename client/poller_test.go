package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"villastay/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusServer(t *testing.T, statuses func(call int32) (int, models.RequestStatus)) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/api/booking/request/req-1", r.URL.Path)
		code, status := statuses(n)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if code != http.StatusOK {
			_, _ = w.Write([]byte(`{"success":false,"message":"boom"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    models.BookingRequest{ID: "req-1", Status: status},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func fastPoller(url string, attempts int) *StatusPoller {
	p := NewStatusPoller(url, nil)
	p.Interval = 5 * time.Millisecond
	p.Duration = time.Duration(attempts) * p.Interval
	return p
}

func TestMaxAttemptsDefaults(t *testing.T) {
	p := NewStatusPoller("http://localhost", nil)
	assert.Equal(t, 360, p.MaxAttempts())

	p.Duration = time.Second
	assert.Equal(t, 1, p.MaxAttempts())
}

func TestWaitReturnsOnDecision(t *testing.T) {
	srv, calls := statusServer(t, func(n int32) (int, models.RequestStatus) {
		if n < 3 {
			return http.StatusOK, models.RequestPending
		}
		return http.StatusOK, models.RequestAccepted
	})

	req, err := fastPoller(srv.URL, 10).Wait(context.Background(), "req-1")
	require.NoError(t, err)
	assert.Equal(t, models.RequestAccepted, req.Status)
	assert.EqualValues(t, 3, atomic.LoadInt32(calls))
}

func TestWaitIgnoresTransientErrors(t *testing.T) {
	srv, _ := statusServer(t, func(n int32) (int, models.RequestStatus) {
		if n == 1 {
			return http.StatusServiceUnavailable, ""
		}
		return http.StatusOK, models.RequestCustomOffer
	})

	req, err := fastPoller(srv.URL, 10).Wait(context.Background(), "req-1")
	require.NoError(t, err)
	assert.Equal(t, models.RequestCustomOffer, req.Status)
}

func TestWaitTimesOut(t *testing.T) {
	srv, calls := statusServer(t, func(int32) (int, models.RequestStatus) {
		return http.StatusOK, models.RequestPending
	})

	_, err := fastPoller(srv.URL, 4).Wait(context.Background(), "req-1")
	assert.ErrorIs(t, err, ErrPollTimeout)
	assert.EqualValues(t, 4, atomic.LoadInt32(calls))
}

func TestWaitStopsOnCancel(t *testing.T) {
	srv, _ := statusServer(t, func(int32) (int, models.RequestStatus) {
		return http.StatusOK, models.RequestPending
	})
	p := NewStatusPoller(srv.URL, nil)
	p.Interval = time.Hour
	p.Duration = 2 * time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := p.Wait(ctx, "req-1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
