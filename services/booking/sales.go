package booking

import (
	"context"
	"errors"
	"fmt"

	"villastay/database/repository"
	requestRepo "villastay/database/repository/request"
	"villastay/models"
	"villastay/utils"

	"go.uber.org/zap"
)

const (
	ActionAccept  = "accept"
	ActionDecline = "decline"
)

// offerSources are the statuses a custom offer may be made from.
var offerSources = []models.RequestStatus{
	models.RequestPending,
	models.RequestDeclined,
	models.RequestCustomOffer,
}

// ListRequests returns one page of booking requests, newest first.
func (s *BookingService) ListRequests(ctx context.Context, filter models.RequestFilter) ([]models.BookingRequest, models.Pagination, error) {
	filter.Page, filter.Limit = models.NormalizePage(filter.Page, filter.Limit)
	requests, total, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, utils.Internal("failed to list booking requests", err)
	}
	return requests, models.NewPagination(filter.Page, filter.Limit, total), nil
}

// Respond accepts or declines a pending request on behalf of agent.
// Repeating the decision the request already carries is a no-op.
func (s *BookingService) Respond(ctx context.Context, id, action, agent string) (*models.BookingRequest, error) {
	var target models.RequestStatus
	var eventType string
	switch action {
	case ActionAccept:
		target, eventType = models.RequestAccepted, models.EventRequestAccepted
	case ActionDecline:
		target, eventType = models.RequestDeclined, models.EventRequestDeclined
	default:
		return nil, utils.BadRequest(`action must be "accept" or "decline"`)
	}

	now := s.now().UTC()
	updated, err := s.requests.UpdateStatus(ctx, id, []models.RequestStatus{models.RequestPending}, requestRepo.StatusUpdate{
		Status:      target,
		RespondedBy: agent,
		RespondedAt: now,
	})
	if errors.Is(err, repository.ErrNotFound) {
		current, gerr := s.loadRequest(ctx, id)
		if gerr != nil {
			return nil, gerr
		}
		if current.Status == target {
			return current, nil
		}
		return nil, utils.Conflict(fmt.Sprintf("Cannot %s a booking request that is %s", action, current.Status))
	}
	if err != nil {
		return nil, utils.Internal("failed to update booking request", err)
	}

	s.afterTransition(ctx, updated, eventType)
	return updated, nil
}

// MakeCustomOffer attaches a price adjustment to the request and moves it
// to custom-offer. Accepted requests cannot receive offers.
func (s *BookingService) MakeCustomOffer(ctx context.Context, id string, input models.CustomOfferInput, agent string) (*models.BookingRequest, error) {
	current, err := s.loadRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == models.RequestAccepted || current.BookingID != "" {
		return nil, utils.Conflict("Cannot make an offer on an accepted booking request")
	}

	original := current.TotalPrice
	var adjusted, discount float64
	switch {
	case input.AdjustedPrice != nil:
		adjusted = roundMoney(*input.AdjustedPrice)
		if original > 0 {
			discount = roundMoney((1 - adjusted/original) * 100)
		}
	case input.DiscountPercent != nil:
		discount = *input.DiscountPercent
		adjusted = roundMoney(original * (1 - discount/100))
	default:
		return nil, utils.BadRequest("Either adjustedPrice or discountPercent is required")
	}
	if adjusted <= 0 {
		return nil, utils.BadRequest("adjustedPrice must be greater than zero")
	}

	days := input.OfferValidDays
	if days <= 0 {
		days = s.offerValidDays
	}
	now := s.now().UTC()
	offer := &models.CustomOffer{
		OriginalPrice:   original,
		AdjustedPrice:   adjusted,
		DiscountPercent: discount,
		OfferValidDays:  days,
		OfferExpiresAt:  now.AddDate(0, 0, days),
		SalesNotes:      input.SalesNotes,
		OfferedBy:       agent,
		CreatedAt:       now,
	}

	updated, err := s.requests.UpdateStatus(ctx, id, offerSources, requestRepo.StatusUpdate{
		Status:      models.RequestCustomOffer,
		RespondedBy: agent,
		RespondedAt: now,
		CustomOffer: offer,
		Unbooked:    true,
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.Conflict("Booking request was accepted or booked before the offer could be made")
	}
	if err != nil {
		return nil, utils.Internal("failed to update booking request", err)
	}

	s.afterTransition(ctx, updated, models.EventRequestCustomOffer)
	return updated, nil
}

func (s *BookingService) afterTransition(ctx context.Context, req *models.BookingRequest, eventType string) {
	s.cache.Set(ctx, req)
	utils.BookingRequestTransitions.WithLabelValues(string(req.Status)).Inc()
	s.logger.Info("booking request updated",
		zap.String("requestId", req.ID),
		zap.String("status", string(req.Status)),
		zap.String("respondedBy", req.RespondedBy),
	)
	if err := s.notifier.NotifyGuestDecision(ctx, req); err != nil {
		s.logger.Warn("failed to notify guest", zap.String("requestId", req.ID), zap.Error(err))
	}
	s.publish(ctx, eventType, req.ID, req)
}
