package requestRepo

import (
	"context"
	"time"

	"villastay/models"
)

// StatusUpdate is the set of fields a sales decision writes.
type StatusUpdate struct {
	Status      models.RequestStatus
	RespondedBy string
	RespondedAt time.Time
	CustomOffer *models.CustomOffer
	// Unbooked additionally requires that no booking is linked yet.
	Unbooked bool
}

// BookingRequestRepository defines methods for booking request data access.
type BookingRequestRepository interface {
	Create(ctx context.Context, req *models.BookingRequest) error
	GetByID(ctx context.Context, id string) (*models.BookingRequest, error)
	List(ctx context.Context, filter models.RequestFilter) ([]models.BookingRequest, int64, error)
	// UpdateStatus applies update only while the request is in one of the
	// from statuses, and returns the updated document. It returns
	// repository.ErrNotFound when no request matched.
	UpdateStatus(ctx context.Context, id string, from []models.RequestStatus, update StatusUpdate) (*models.BookingRequest, error)
	// LinkBooking records the booking created from the request.
	LinkBooking(ctx context.Context, id, bookingID string) error
	EnsureIndexes(ctx context.Context) error
}
