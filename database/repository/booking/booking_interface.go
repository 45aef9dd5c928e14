package bookingRepo

import (
	"context"

	"villastay/models"
)

// BookingRepository defines the interface for booking data access.
type BookingRepository interface {
	// Create inserts a booking. A second booking for the same request or
	// with the same reference fails with repository.ErrDuplicate.
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetByReference(ctx context.Context, reference string) (*models.Booking, error)
	GetByRequestID(ctx context.Context, requestID string) (*models.Booking, error)
	List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, int64, error)
	UpdateStatus(ctx context.Context, id string, update models.BookingStatusUpdate) (*models.Booking, error)
	EnsureIndexes(ctx context.Context) error
}
