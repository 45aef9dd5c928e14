// Package client holds the guest-side helper that waits for a sales
// decision on a booking request.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"villastay/models"

	"go.uber.org/zap"
)

const (
	DefaultPollInterval = 5 * time.Second
	DefaultPollDuration = 30 * time.Minute
)

// ErrPollTimeout is returned when the request is still pending after the
// last attempt.
var ErrPollTimeout = errors.New("booking request still pending after polling window")

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusPoller polls GET /api/booking/request/:id until the request leaves
// pending.
type StatusPoller struct {
	BaseURL  string
	Interval time.Duration
	Duration time.Duration
	HTTP     httpDoer
	Logger   *zap.Logger
}

func NewStatusPoller(baseURL string, logger *zap.Logger) *StatusPoller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusPoller{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Interval: DefaultPollInterval,
		Duration: DefaultPollDuration,
		HTTP:     &http.Client{Timeout: 10 * time.Second},
		Logger:   logger,
	}
}

// MaxAttempts is Duration/Interval, at least one.
func (p *StatusPoller) MaxAttempts() int {
	if p.Interval <= 0 {
		return 1
	}
	n := int(p.Duration / p.Interval)
	if n < 1 {
		n = 1
	}
	return n
}

// Wait returns the request as soon as its status is no longer pending.
// Transport failures and non-200 answers count as "no change".
func (p *StatusPoller) Wait(ctx context.Context, requestID string) (*models.BookingRequest, error) {
	attempts := p.MaxAttempts()
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		req, err := p.fetch(ctx, requestID)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			p.Logger.Debug("status poll failed", zap.String("requestId", requestID), zap.Int("attempt", attempt), zap.Error(err))
		case req.Status != models.RequestPending:
			return req, nil
		}
		if attempt >= attempts {
			return nil, ErrPollTimeout
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

type envelope struct {
	Success bool                   `json:"success"`
	Data    *models.BookingRequest `json:"data"`
}

func (p *StatusPoller) fetch(ctx context.Context, requestID string) (*models.BookingRequest, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"/api/booking/request/"+requestID, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.HTTP.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var body envelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if body.Data == nil {
		return nil, errors.New("empty response")
	}
	return body.Data, nil
}
