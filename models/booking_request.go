package models

import "time"

// RequestStatus is the negotiation state of a BookingRequest.
type RequestStatus string

const (
	RequestPending     RequestStatus = "pending"
	RequestAccepted    RequestStatus = "accepted"
	RequestDeclined    RequestStatus = "declined"
	RequestCustomOffer RequestStatus = "custom-offer"
)

// ParseRequestStatus validates a status coming from a query string.
func ParseRequestStatus(s string) (RequestStatus, bool) {
	switch st := RequestStatus(s); st {
	case RequestPending, RequestAccepted, RequestDeclined, RequestCustomOffer:
		return st, true
	}
	return "", false
}

const (
	BookingTypeOnline = "online"
	BookingTypeCall   = "call"

	BookingSourceWeb  = "WEB"
	BookingSourceCall = "CALL"
)

// CustomOffer is a sales-initiated price adjustment with its own expiry.
type CustomOffer struct {
	OriginalPrice   float64   `bson:"originalPrice" json:"originalPrice"`
	AdjustedPrice   float64   `bson:"adjustedPrice" json:"adjustedPrice"`
	DiscountPercent float64   `bson:"discountPercent" json:"discountPercent"`
	OfferValidDays  int       `bson:"offerValidDays" json:"offerValidDays"`
	OfferExpiresAt  time.Time `bson:"offerExpiresAt" json:"offerExpiresAt"`
	SalesNotes      string    `bson:"salesNotes,omitempty" json:"salesNotes,omitempty"`
	OfferedBy       string    `bson:"offeredBy,omitempty" json:"offeredBy,omitempty"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
}

// Expired reports whether the offer can no longer be paid.
func (o *CustomOffer) Expired(now time.Time) bool {
	return !now.Before(o.OfferExpiresAt)
}

// BookingRequest is a guest's proposed stay awaiting sales disposition.
type BookingRequest struct {
	ID              string        `bson:"id" json:"id"`
	VillaID         string        `bson:"villaId" json:"villaId"`
	VillaName       string        `bson:"villaName" json:"villaName"`
	GuestName       string        `bson:"guestName" json:"guestName"`
	GuestEmail      string        `bson:"guestEmail" json:"guestEmail"`
	GuestPhone      string        `bson:"guestPhone,omitempty" json:"guestPhone,omitempty"`
	CheckIn         time.Time     `bson:"checkIn" json:"checkIn"`
	CheckOut        time.Time     `bson:"checkOut" json:"checkOut"`
	Nights          int           `bson:"nights" json:"nights"`
	Adults          int           `bson:"adults" json:"adults"`
	Children        int           `bson:"children" json:"children"`
	TotalPrice      float64       `bson:"totalPrice" json:"totalPrice"`
	Currency        string        `bson:"currency" json:"currency"`
	SpecialRequests string        `bson:"specialRequests,omitempty" json:"specialRequests,omitempty"`
	BookingType     string        `bson:"bookingType" json:"bookingType"`
	BookingSource   string        `bson:"bookingSource" json:"bookingSource"`
	CreatedBy       string        `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	Status          RequestStatus `bson:"status" json:"status"`
	CustomOffer     *CustomOffer  `bson:"customOffer,omitempty" json:"customOffer,omitempty"`
	RespondedBy     string        `bson:"respondedBy,omitempty" json:"respondedBy,omitempty"`
	RespondedAt     *time.Time    `bson:"respondedAt,omitempty" json:"respondedAt,omitempty"`
	BookingID       string        `bson:"bookingId,omitempty" json:"bookingId,omitempty"`
	CreatedAt       time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// PayableAmount is the amount the guest owes: the offer price when a
// custom offer is in effect, otherwise the computed total.
func (r *BookingRequest) PayableAmount() float64 {
	if r.Status == RequestCustomOffer && r.CustomOffer != nil {
		return r.CustomOffer.AdjustedPrice
	}
	return r.TotalPrice
}

// BookingRequestInput is the guest (or call-centre) submission.
// There is no CreatedBy field; it comes from the verified token.
type BookingRequestInput struct {
	VillaID         string `json:"villaId" binding:"required"`
	GuestName       string `json:"guestName" binding:"required,min=2,max=120"`
	GuestEmail      string `json:"guestEmail" binding:"required,email"`
	GuestPhone      string `json:"guestPhone" binding:"omitempty,max=32"`
	CheckIn         string `json:"checkIn" binding:"required,datetime=2006-01-02"`
	CheckOut        string `json:"checkOut" binding:"required,datetime=2006-01-02"`
	Adults          int    `json:"adults" binding:"required,min=1,max=100"`
	Children        int    `json:"children" binding:"min=0,max=100"`
	SpecialRequests string `json:"specialRequests" binding:"max=2000"`
	BookingType     string `json:"bookingType" binding:"omitempty,bookingtype"`
	BookingSource   string `json:"bookingSource" binding:"omitempty,bookingsource"`
}

// IsStaffOriginated reports whether the request carries the call-centre markers.
func (r *BookingRequestInput) IsStaffOriginated() bool {
	return r.BookingType == BookingTypeCall || r.BookingSource == BookingSourceCall
}

// SalesAction is the body of PATCH /api/sales/requests/:id.
type SalesAction struct {
	Action string `json:"action" binding:"required,oneof=accept decline"`
}

// CustomOfferInput is the body of POST /api/sales/requests/:id/custom-offer.
type CustomOfferInput struct {
	AdjustedPrice   *float64 `json:"adjustedPrice" binding:"omitempty,gt=0"`
	DiscountPercent *float64 `json:"discountPercent" binding:"omitempty,gt=0,lt=100"`
	OfferValidDays  int      `json:"offerValidDays" binding:"omitempty,min=1,max=90"`
	SalesNotes      string   `json:"salesNotes" binding:"max=2000"`
}

// RequestFilter holds the sales listing query parameters.
type RequestFilter struct {
	Status RequestStatus
	Page   int
	Limit  int
}
