package models

import "time"

const (
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"

	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

// Booking is a confirmed reservation identified by its booking reference.
type Booking struct {
	ID               string    `bson:"id" json:"id"`
	BookingReference string    `bson:"bookingReference" json:"bookingReference"`
	BookingRequestID string    `bson:"bookingRequestId" json:"bookingRequestId"`
	VillaID          string    `bson:"villaId" json:"villaId"`
	VillaName        string    `bson:"villaName" json:"villaName"`
	GuestName        string    `bson:"guestName" json:"guestName"`
	GuestEmail       string    `bson:"guestEmail" json:"guestEmail"`
	GuestPhone       string    `bson:"guestPhone,omitempty" json:"guestPhone,omitempty"`
	CheckIn          time.Time `bson:"checkIn" json:"checkIn"`
	CheckOut         time.Time `bson:"checkOut" json:"checkOut"`
	Nights           int       `bson:"nights" json:"nights"`
	Adults           int       `bson:"adults" json:"adults"`
	Children         int       `bson:"children" json:"children"`
	TotalAmount      float64   `bson:"totalAmount" json:"totalAmount"`
	Currency         string    `bson:"currency" json:"currency"`
	BookingStatus    string    `bson:"bookingStatus" json:"bookingStatus"`
	PaymentStatus    string    `bson:"paymentStatus" json:"paymentStatus"`
	PaymentIntentID  string    `bson:"paymentIntentId,omitempty" json:"paymentIntentId,omitempty"`
	CreatedBy        string    `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ConfirmBookingInput is the body of POST /api/booking/confirm.
type ConfirmBookingInput struct {
	BookingRequestID string `json:"bookingRequestId" binding:"required"`
	PaymentIntentID  string `json:"paymentIntentId"`
}

// BookingStatusUpdate is the admin patch for a booking.
type BookingStatusUpdate struct {
	BookingStatus string `json:"bookingStatus" binding:"omitempty,oneof=confirmed cancelled completed"`
	PaymentStatus string `json:"paymentStatus" binding:"omitempty,oneof=pending paid failed refunded"`
}

// BookingFilter holds the admin listing query parameters.
type BookingFilter struct {
	BookingStatus string
	PaymentStatus string
	Page          int
	Limit         int
}

// PaymentIntent is the subset of the gateway's intent the booking flow needs.
type PaymentIntent struct {
	ID               string `json:"paymentIntentId"`
	ClientSecret     string `json:"clientSecret,omitempty"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	Status           string `json:"status"`
	BookingRequestID string `json:"-"`
}

// BookingReferenceCounter hands out the per-villa, per-day sequence.
type BookingReferenceCounter struct {
	VillaID   string    `bson:"villaId" json:"villaId"`
	Date      string    `bson:"date" json:"date"`
	Seq       int       `bson:"seq" json:"seq"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
