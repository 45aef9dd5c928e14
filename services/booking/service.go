package booking

import (
	"context"
	"errors"
	"math"
	"time"

	"villastay/database/repository"
	bookingRepo "villastay/database/repository/booking"
	requestRepo "villastay/database/repository/request"
	villaRepo "villastay/database/repository/villa"
	"villastay/models"
	"villastay/services/events"
	"villastay/services/notification"
	"villastay/utils"

	"go.uber.org/zap"
)

// Service is the booking workflow exposed to the HTTP layer.
type Service interface {
	CreateRequest(ctx context.Context, input models.BookingRequestInput, staff *utils.StaffClaims) (*models.BookingRequest, error)
	GetRequest(ctx context.Context, id string) (*models.BookingRequest, error)
	ListRequests(ctx context.Context, filter models.RequestFilter) ([]models.BookingRequest, models.Pagination, error)
	Respond(ctx context.Context, id, action, agent string) (*models.BookingRequest, error)
	MakeCustomOffer(ctx context.Context, id string, input models.CustomOfferInput, agent string) (*models.BookingRequest, error)
	CreatePaymentIntent(ctx context.Context, requestID string) (*models.PaymentIntent, error)
	ConfirmBooking(ctx context.Context, input models.ConfirmBookingInput, staff *utils.StaffClaims) (*models.Booking, bool, error)
	GetByReference(ctx context.Context, reference string) (*models.Booking, error)
	ListBookings(ctx context.Context, filter models.BookingFilter) ([]models.Booking, models.Pagination, error)
	UpdateBooking(ctx context.Context, id string, update models.BookingStatusUpdate) (*models.Booking, error)
}

var _ Service = (*BookingService)(nil)

// Deps wires the booking service to its stores and collaborators.
// Cache, Notifier, Events, Payments and Now may be left nil.
type Deps struct {
	Villas         villaRepo.VillaRepository
	Requests       requestRepo.BookingRequestRepository
	Bookings       bookingRepo.BookingRepository
	References     *ReferenceGenerator
	Cache          utils.StatusCache
	Notifier       notification.Notifier
	Events         events.Publisher
	Payments       PaymentGateway
	Logger         *zap.Logger
	Now            func() time.Time
	Currency       string
	OfferValidDays int
}

// BookingService runs the booking request lifecycle, from the guest's
// submission through the sales decision to the confirmed booking.
type BookingService struct {
	villas         villaRepo.VillaRepository
	requests       requestRepo.BookingRequestRepository
	bookings       bookingRepo.BookingRepository
	refs           *ReferenceGenerator
	cache          utils.StatusCache
	notifier       notification.Notifier
	events         events.Publisher
	payments       PaymentGateway
	logger         *zap.Logger
	now            func() time.Time
	currency       string
	offerValidDays int
}

func NewBookingService(d Deps) *BookingService {
	s := &BookingService{
		villas:         d.Villas,
		requests:       d.Requests,
		bookings:       d.Bookings,
		refs:           d.References,
		cache:          d.Cache,
		notifier:       d.Notifier,
		events:         d.Events,
		payments:       d.Payments,
		logger:         d.Logger,
		now:            d.Now,
		currency:       d.Currency,
		offerValidDays: d.OfferValidDays,
	}
	if s.cache == nil {
		s.cache = utils.NewStatusCache(nil, 0)
	}
	if s.events == nil {
		s.events = events.NoopPublisher{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.notifier == nil {
		s.notifier = notification.NewQueueNotifier(nil, "", s.logger)
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.currency == "" {
		s.currency = "usd"
	}
	if s.offerValidDays <= 0 {
		s.offerValidDays = 7
	}
	return s
}

// PaymentsEnabled reports whether a payment gateway is configured.
func (s *BookingService) PaymentsEnabled() bool {
	return s.payments != nil
}

func (s *BookingService) publish(ctx context.Context, eventType, id string, data interface{}) {
	if err := s.events.Publish(ctx, events.NewEvent(eventType, id, data)); err != nil {
		s.logger.Warn("failed to publish event",
			zap.String("type", eventType),
			zap.String("id", id),
			zap.Error(err),
		)
	}
}

// notFoundOr maps a repository miss onto a 404 for resource and wraps
// anything else as an internal error.
func notFoundOr(err error, resource string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NotFound(resource)
	}
	return utils.Internal("failed to load "+resource, err)
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// minorUnits converts an amount into the currency's smallest unit.
func minorUnits(v float64) int64 {
	return int64(math.Round(v * 100))
}

func (s *BookingService) loadRequest(ctx context.Context, id string) (*models.BookingRequest, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Booking request")
	}
	return req, nil
}
