package booking

import (
	"context"
	"errors"
	"strings"

	"villastay/database/repository"
	"villastay/models"
	"villastay/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConfirmBooking turns a payable request into a Booking with a fresh
// reference. created is false when the request was already confirmed, in
// which case the existing booking is returned.
func (s *BookingService) ConfirmBooking(ctx context.Context, input models.ConfirmBookingInput, staff *utils.StaffClaims) (booking *models.Booking, created bool, err error) {
	req, err := s.loadRequest(ctx, input.BookingRequestID)
	if err != nil {
		return nil, false, err
	}
	if existing, err := s.bookings.GetByRequestID(ctx, req.ID); err == nil {
		if req.BookingID == "" {
			s.link(ctx, req.ID, existing.ID)
		}
		return existing, false, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, utils.Internal("failed to load booking", err)
	}

	if err := s.checkPayable(req); err != nil {
		return nil, false, err
	}
	paymentStatus := models.PaymentPending
	if s.payments != nil {
		if err := s.verifyPayment(ctx, req, input.PaymentIntentID); err != nil {
			return nil, false, err
		}
		paymentStatus = models.PaymentPaid
	}

	now := s.now()
	reference, err := s.refs.Generate(ctx, req.VillaID, req.VillaName, now)
	if err != nil {
		return nil, false, err
	}

	booking = &models.Booking{
		ID:               uuid.New().String(),
		BookingReference: reference,
		BookingRequestID: req.ID,
		VillaID:          req.VillaID,
		VillaName:        req.VillaName,
		GuestName:        req.GuestName,
		GuestEmail:       req.GuestEmail,
		GuestPhone:       req.GuestPhone,
		CheckIn:          req.CheckIn,
		CheckOut:         req.CheckOut,
		Nights:           req.Nights,
		Adults:           req.Adults,
		Children:         req.Children,
		TotalAmount:      req.PayableAmount(),
		Currency:         req.Currency,
		BookingStatus:    models.BookingConfirmed,
		PaymentStatus:    paymentStatus,
		PaymentIntentID:  input.PaymentIntentID,
		CreatedBy:        req.CreatedBy,
		CreatedAt:        now.UTC(),
		UpdatedAt:        now.UTC(),
	}
	if staff != nil {
		booking.CreatedBy = staff.Subject
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost a race with a concurrent confirmation of the same request.
			if existing, gerr := s.bookings.GetByRequestID(ctx, req.ID); gerr == nil {
				return existing, false, nil
			}
		}
		return nil, false, utils.Internal("failed to create booking", err)
	}
	s.link(ctx, req.ID, booking.ID)

	utils.BookingsConfirmed.WithLabelValues(paymentStatus).Inc()
	s.logger.Info("booking confirmed",
		zap.String("bookingId", booking.ID),
		zap.String("reference", booking.BookingReference),
		zap.String("requestId", req.ID),
		zap.String("paymentStatus", paymentStatus),
	)
	s.publish(ctx, models.EventBookingConfirmed, req.ID, booking)
	return booking, true, nil
}

func (s *BookingService) link(ctx context.Context, requestID, bookingID string) {
	if err := s.requests.LinkBooking(ctx, requestID, bookingID); err != nil {
		s.logger.Warn("failed to link booking to request",
			zap.String("requestId", requestID),
			zap.String("bookingId", bookingID),
			zap.Error(err),
		)
	}
	if fresh, err := s.requests.GetByID(ctx, requestID); err == nil {
		s.cache.Set(ctx, fresh)
		return
	}
	s.cache.Invalidate(ctx, requestID)
}

// GetByReference looks a booking up by its public reference.
func (s *BookingService) GetByReference(ctx context.Context, reference string) (*models.Booking, error) {
	reference = strings.ToUpper(strings.TrimSpace(reference))
	if !ReferencePattern.MatchString(reference) {
		return nil, utils.NotFound("Booking")
	}
	booking, err := s.bookings.GetByReference(ctx, reference)
	if err != nil {
		return nil, notFoundOr(err, "Booking")
	}
	return booking, nil
}

// ListBookings returns one page of bookings for the admin dashboard.
func (s *BookingService) ListBookings(ctx context.Context, filter models.BookingFilter) ([]models.Booking, models.Pagination, error) {
	filter.Page, filter.Limit = models.NormalizePage(filter.Page, filter.Limit)
	bookings, total, err := s.bookings.List(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, utils.Internal("failed to list bookings", err)
	}
	return bookings, models.NewPagination(filter.Page, filter.Limit, total), nil
}

// UpdateBooking changes a booking's status or payment status.
func (s *BookingService) UpdateBooking(ctx context.Context, id string, update models.BookingStatusUpdate) (*models.Booking, error) {
	if update.BookingStatus == "" && update.PaymentStatus == "" {
		return nil, utils.BadRequest("bookingStatus or paymentStatus is required")
	}
	booking, err := s.bookings.UpdateStatus(ctx, id, update)
	if err != nil {
		return nil, notFoundOr(err, "Booking")
	}
	s.logger.Info("booking updated",
		zap.String("bookingId", booking.ID),
		zap.String("bookingStatus", booking.BookingStatus),
		zap.String("paymentStatus", booking.PaymentStatus),
	)
	return booking, nil
}
