package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "villastay_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	BookingRequestsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "villastay_booking_requests_created_total",
		Help: "Booking requests created, by booking source.",
	}, []string{"source"})

	BookingRequestTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "villastay_booking_request_transitions_total",
		Help: "Booking request status transitions, by resulting status.",
	}, []string{"status"})

	BookingReferencesIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "villastay_booking_references_issued_total",
		Help: "Booking references handed out by the reference generator.",
	})

	BookingsConfirmed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "villastay_bookings_confirmed_total",
		Help: "Bookings created from accepted requests, by payment status.",
	}, []string{"payment_status"})
)
