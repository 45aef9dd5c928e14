package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"villastay/models"
	"villastay/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// staffCreatorRoles may submit requests carrying the call-centre markers.
var staffCreatorRoles = map[string]bool{
	models.RoleCall:  true,
	models.RoleSales: true,
}

// CreateRequest stores a new pending booking request. staff is the
// verified token of the caller, or nil for an anonymous guest.
func (s *BookingService) CreateRequest(ctx context.Context, input models.BookingRequestInput, staff *utils.StaffClaims) (*models.BookingRequest, error) {
	if input.IsStaffOriginated() {
		if staff == nil {
			return nil, utils.Unauthorized("Authentication required for call-centre bookings")
		}
		if !staffCreatorRoles[staff.Role] {
			return nil, utils.Forbidden("Only call-centre or sales staff can create call bookings")
		}
	}

	checkIn, err := time.Parse(dateLayout, input.CheckIn)
	if err != nil {
		return nil, utils.BadRequest("checkIn must be a date in YYYY-MM-DD format")
	}
	checkOut, err := time.Parse(dateLayout, input.CheckOut)
	if err != nil {
		return nil, utils.BadRequest("checkOut must be a date in YYYY-MM-DD format")
	}
	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	if nights < 1 {
		return nil, utils.BadRequest("checkOut must be at least one night after checkIn")
	}

	villa, err := s.villas.GetByID(ctx, input.VillaID)
	if err != nil {
		return nil, notFoundOr(err, "Villa")
	}
	if !villa.Bookable() {
		return nil, utils.NotFound("Villa")
	}
	if guests := input.Adults + input.Children; villa.MaxGuests > 0 && guests > villa.MaxGuests {
		return nil, utils.BadRequest(fmt.Sprintf("%s accommodates at most %d guests", villa.Name, villa.MaxGuests))
	}

	bookingType := input.BookingType
	if bookingType == "" {
		bookingType = models.BookingTypeOnline
	}
	bookingSource := input.BookingSource
	if bookingSource == "" {
		bookingSource = models.BookingSourceWeb
		if bookingType == models.BookingTypeCall {
			bookingSource = models.BookingSourceCall
		}
	}
	currency := villa.Currency
	if currency == "" {
		currency = s.currency
	}

	now := s.now().UTC()
	req := &models.BookingRequest{
		ID:              uuid.New().String(),
		VillaID:         villa.ID,
		VillaName:       villa.Name,
		GuestName:       strings.TrimSpace(input.GuestName),
		GuestEmail:      strings.ToLower(strings.TrimSpace(input.GuestEmail)),
		GuestPhone:      strings.TrimSpace(input.GuestPhone),
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Nights:          nights,
		Adults:          input.Adults,
		Children:        input.Children,
		TotalPrice:      roundMoney(villa.PricePerNight * float64(nights)),
		Currency:        strings.ToLower(currency),
		SpecialRequests: input.SpecialRequests,
		BookingType:     bookingType,
		BookingSource:   bookingSource,
		Status:          models.RequestPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if staff != nil {
		req.CreatedBy = staff.Subject
	}

	if err := s.requests.Create(ctx, req); err != nil {
		return nil, utils.Internal("failed to create booking request", err)
	}
	utils.BookingRequestsCreated.WithLabelValues(req.BookingSource).Inc()
	s.logger.Info("booking request created",
		zap.String("requestId", req.ID),
		zap.String("villaId", req.VillaID),
		zap.String("source", req.BookingSource),
		zap.String("createdBy", req.CreatedBy),
	)

	if err := s.notifier.NotifySalesNewRequest(ctx, req); err != nil {
		s.logger.Warn("failed to notify sales", zap.String("requestId", req.ID), zap.Error(err))
	}
	s.publish(ctx, models.EventRequestCreated, req.ID, req)
	return req, nil
}

// GetRequest returns a booking request, preferring the status cache.
func (s *BookingService) GetRequest(ctx context.Context, id string) (*models.BookingRequest, error) {
	if cached, ok := s.cache.Get(ctx, id); ok {
		return cached, nil
	}
	req, err := s.loadRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, req)
	return req, nil
}
