package models

import "time"

// NotificationPayload is the queued body of a push notification task.
type NotificationPayload struct {
	Topic     string            `json:"topic"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data,omitempty"`
	RequestID string            `json:"requestId,omitempty"`
}

// Event is the envelope published for booking domain events.
type Event struct {
	Type       string      `json:"type"`
	ID         string      `json:"id"`
	OccurredAt time.Time   `json:"occurredAt"`
	Data       interface{} `json:"data"`
}

const (
	EventRequestCreated     = "booking_request.created"
	EventRequestAccepted    = "booking_request.accepted"
	EventRequestDeclined    = "booking_request.declined"
	EventRequestCustomOffer = "booking_request.custom_offer"
	EventBookingConfirmed   = "booking.confirmed"
)
