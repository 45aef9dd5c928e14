package booking

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"villastay/models"
	"villastay/utils"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

// PaymentGateway creates and inspects card payment intents.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount int64, currency, bookingRequestID string) (*models.PaymentIntent, error)
	GetIntent(ctx context.Context, id string) (*models.PaymentIntent, error)
}

const intentSucceeded = string(stripe.PaymentIntentStatusSucceeded)

// StripeGateway is a PaymentGateway backed by Stripe PaymentIntents.
type StripeGateway struct {
	client *paymentintent.Client
}

func NewStripeGateway(key string) *StripeGateway {
	return &StripeGateway{client: &paymentintent.Client{B: stripe.GetBackend(stripe.APIBackend), Key: key}}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amount int64, currency, bookingRequestID string) (*models.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(strings.ToLower(currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("bookingRequestId", bookingRequestID)
	params.SetIdempotencyKey(fmt.Sprintf("booking-request-%s-%d", bookingRequestID, amount))

	pi, err := g.client.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: failed to create payment intent: %w", err)
	}
	return toPaymentIntent(pi), nil
}

func (g *StripeGateway) GetIntent(ctx context.Context, id string) (*models.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := g.client.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: failed to fetch payment intent %s: %w", id, err)
	}
	return toPaymentIntent(pi), nil
}

func toPaymentIntent(pi *stripe.PaymentIntent) *models.PaymentIntent {
	return &models.PaymentIntent{
		ID:               pi.ID,
		ClientSecret:     pi.ClientSecret,
		Amount:           pi.Amount,
		Currency:         string(pi.Currency),
		Status:           string(pi.Status),
		BookingRequestID: pi.Metadata["bookingRequestId"],
	}
}

// checkPayable verifies the request is in a state the guest can pay for.
func (s *BookingService) checkPayable(req *models.BookingRequest) error {
	switch req.Status {
	case models.RequestAccepted:
		return nil
	case models.RequestCustomOffer:
		if req.CustomOffer == nil {
			return utils.Conflict("Booking request has no custom offer")
		}
		if req.CustomOffer.Expired(s.now()) {
			return utils.Conflict("Custom offer has expired")
		}
		return nil
	}
	return utils.Conflict(fmt.Sprintf("Booking request is %s and cannot be paid", req.Status))
}

// CreatePaymentIntent starts a card payment for an accepted request or a
// live custom offer.
func (s *BookingService) CreatePaymentIntent(ctx context.Context, requestID string) (*models.PaymentIntent, error) {
	if s.payments == nil {
		return nil, utils.Unavailable("Payments are not configured")
	}
	req, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.BookingID != "" {
		return nil, utils.Conflict("Booking request is already confirmed")
	}
	if err := s.checkPayable(req); err != nil {
		return nil, err
	}

	intent, err := s.payments.CreateIntent(ctx, minorUnits(req.PayableAmount()), req.Currency, req.ID)
	if err != nil {
		return nil, &utils.AppError{Status: http.StatusBadGateway, Message: "Payment provider error", Err: err}
	}
	s.logger.Info("payment intent created",
		zap.String("requestId", req.ID),
		zap.String("paymentIntentId", intent.ID),
		zap.Int64("amount", intent.Amount),
	)
	return intent, nil
}

// verifyPayment checks a succeeded intent was made for this request and amount.
func (s *BookingService) verifyPayment(ctx context.Context, req *models.BookingRequest, intentID string) error {
	if intentID == "" {
		return utils.BadRequest("paymentIntentId is required")
	}
	intent, err := s.payments.GetIntent(ctx, intentID)
	if err != nil {
		return &utils.AppError{Status: http.StatusBadGateway, Message: "Payment provider error", Err: err}
	}
	if intent.BookingRequestID != req.ID {
		return utils.BadRequest("Payment does not belong to this booking request")
	}
	if intent.Amount != minorUnits(req.PayableAmount()) {
		return utils.BadRequest("Payment amount does not match the booking amount")
	}
	if intent.Status != intentSucceeded {
		return &utils.AppError{Status: http.StatusPaymentRequired, Message: "Payment has not succeeded"}
	}
	return nil
}
