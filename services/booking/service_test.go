package booking

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"villastay/models"
	"villastay/utils"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staff(sub, role string) *utils.StaffClaims {
	return &utils.StaffClaims{
		Email:          sub + "@villastay.test",
		Role:           role,
		StandardClaims: jwt.StandardClaims{Subject: sub},
	}
}

func guestInput() models.BookingRequestInput {
	return models.BookingRequestInput{
		VillaID:    "villa-1",
		GuestName:  "Ada Lovelace",
		GuestEmail: "Ada@Example.com",
		CheckIn:    "2024-04-10",
		CheckOut:   "2024-04-13",
		Adults:     2,
		Children:   1,
	}
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, status, utils.AsAppError(err).Status)
}

func TestCreateRequest_Guest(t *testing.T) {
	f := newFixture(nil)

	req, err := f.svc.CreateRequest(context.Background(), guestInput(), nil)
	require.NoError(t, err)

	assert.Equal(t, models.RequestPending, req.Status)
	assert.Equal(t, 3, req.Nights)
	assert.Equal(t, 750.0, req.TotalPrice)
	assert.Equal(t, "Ocean Breeze Cottage", req.VillaName)
	assert.Equal(t, "ada@example.com", req.GuestEmail)
	assert.Equal(t, models.BookingTypeOnline, req.BookingType)
	assert.Equal(t, models.BookingSourceWeb, req.BookingSource)
	assert.Empty(t, req.CreatedBy)

	stored, err := f.requests.GetByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, req.ID, stored.ID)
	assert.Equal(t, []string{req.ID}, f.notifier.sales)
	assert.Equal(t, []string{models.EventRequestCreated}, f.publisher.types)
}

func TestCreateRequest_StaffMarkers(t *testing.T) {
	callInput := guestInput()
	callInput.BookingType = models.BookingTypeCall

	sourceInput := guestInput()
	sourceInput.BookingSource = models.BookingSourceCall

	tests := []struct {
		name   string
		input  models.BookingRequestInput
		claims *utils.StaffClaims
		status int
	}{
		{"call type without token", callInput, nil, http.StatusUnauthorized},
		{"call source without token", sourceInput, nil, http.StatusUnauthorized},
		{"admin role", callInput, staff("admin-1", models.RoleAdmin), http.StatusForbidden},
		{"unknown role", sourceInput, staff("guest-1", "GUEST"), http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(nil)
			_, err := f.svc.CreateRequest(context.Background(), tt.input, tt.claims)
			assertStatus(t, err, tt.status)
			assert.Empty(t, f.requests.requests)
		})
	}
}

func TestCreateRequest_CallCentreRecordsCreator(t *testing.T) {
	f := newFixture(nil)
	input := guestInput()
	input.BookingType = models.BookingTypeCall

	req, err := f.svc.CreateRequest(context.Background(), input, staff("agent-7", models.RoleCall))
	require.NoError(t, err)

	assert.Equal(t, "agent-7", req.CreatedBy)
	assert.Equal(t, models.BookingSourceCall, req.BookingSource)
}

func TestCreateRequest_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.BookingRequestInput)
		status int
	}{
		{"unknown villa", func(in *models.BookingRequestInput) { in.VillaID = "nope" }, http.StatusNotFound},
		{"unpublished villa", func(in *models.BookingRequestInput) { in.VillaID = "villa-hidden" }, http.StatusNotFound},
		{"zero nights", func(in *models.BookingRequestInput) { in.CheckOut = in.CheckIn }, http.StatusBadRequest},
		{"checkout before checkin", func(in *models.BookingRequestInput) { in.CheckOut = "2024-04-01" }, http.StatusBadRequest},
		{"bad date", func(in *models.BookingRequestInput) { in.CheckIn = "10/04/2024" }, http.StatusBadRequest},
		{"too many guests", func(in *models.BookingRequestInput) { in.Adults = 4; in.Children = 1 }, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(nil)
			input := guestInput()
			tt.mutate(&input)
			_, err := f.svc.CreateRequest(context.Background(), input, nil)
			assertStatus(t, err, tt.status)
		})
	}
}

func createPending(t *testing.T, f *fixture) *models.BookingRequest {
	t.Helper()
	req, err := f.svc.CreateRequest(context.Background(), guestInput(), nil)
	require.NoError(t, err)
	return req
}

func TestRespond_Transitions(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	req := createPending(t, f)

	accepted, err := f.svc.Respond(ctx, req.ID, ActionAccept, "sales-1")
	require.NoError(t, err)
	assert.Equal(t, models.RequestAccepted, accepted.Status)
	assert.Equal(t, "sales-1", accepted.RespondedBy)
	require.NotNil(t, accepted.RespondedAt)

	again, err := f.svc.Respond(ctx, req.ID, ActionAccept, "sales-2")
	require.NoError(t, err)
	assert.Equal(t, "sales-1", again.RespondedBy, "repeat accept must not rewrite the request")

	_, err = f.svc.Respond(ctx, req.ID, ActionDecline, "sales-2")
	assertStatus(t, err, http.StatusConflict)

	assert.Equal(t, []models.RequestStatus{models.RequestAccepted}, f.notifier.decisions)
	assert.Equal(t, []string{models.EventRequestCreated, models.EventRequestAccepted}, f.publisher.types)
}

func TestRespond_DeclineThenAcceptConflicts(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	req := createPending(t, f)

	_, err := f.svc.Respond(ctx, req.ID, ActionDecline, "sales-1")
	require.NoError(t, err)
	_, err = f.svc.Respond(ctx, req.ID, ActionDecline, "sales-1")
	require.NoError(t, err)
	_, err = f.svc.Respond(ctx, req.ID, ActionAccept, "sales-1")
	assertStatus(t, err, http.StatusConflict)
}

func TestRespond_UnknownRequestAndAction(t *testing.T) {
	f := newFixture(nil)
	_, err := f.svc.Respond(context.Background(), "missing", ActionAccept, "sales-1")
	assertStatus(t, err, http.StatusNotFound)

	req := createPending(t, f)
	_, err = f.svc.Respond(context.Background(), req.ID, "approve", "sales-1")
	assertStatus(t, err, http.StatusBadRequest)
}

func TestRespond_RacingAgentsOnlyOneWins(t *testing.T) {
	f := newFixture(nil)
	req := createPending(t, f)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, action := range []string{ActionAccept, ActionDecline} {
		wg.Add(1)
		go func(i int, action string) {
			defer wg.Done()
			_, errs[i] = f.svc.Respond(context.Background(), req.ID, action, "sales")
		}(i, action)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			failures++
			assert.Equal(t, http.StatusConflict, utils.AsAppError(err).Status)
		}
	}
	assert.Equal(t, 1, failures)
}

func TestMakeCustomOffer(t *testing.T) {
	ctx := context.Background()
	discount := 20.0
	price := 600.0

	t.Run("discount derives price", func(t *testing.T) {
		f := newFixture(nil)
		req := createPending(t, f)

		updated, err := f.svc.MakeCustomOffer(ctx, req.ID, models.CustomOfferInput{DiscountPercent: &discount}, "sales-1")
		require.NoError(t, err)
		require.NotNil(t, updated.CustomOffer)
		assert.Equal(t, models.RequestCustomOffer, updated.Status)
		assert.Equal(t, 750.0, updated.CustomOffer.OriginalPrice)
		assert.Equal(t, 600.0, updated.CustomOffer.AdjustedPrice)
		assert.Equal(t, 7, updated.CustomOffer.OfferValidDays)
		assert.Equal(t, fixedNow.AddDate(0, 0, 7), updated.CustomOffer.OfferExpiresAt)
		assert.Equal(t, 600.0, updated.PayableAmount())
	})

	t.Run("adjusted price wins and declined can be re-engaged", func(t *testing.T) {
		f := newFixture(nil)
		req := createPending(t, f)
		_, err := f.svc.Respond(ctx, req.ID, ActionDecline, "sales-1")
		require.NoError(t, err)

		updated, err := f.svc.MakeCustomOffer(ctx, req.ID, models.CustomOfferInput{
			AdjustedPrice: &price, DiscountPercent: &discount, OfferValidDays: 3, SalesNotes: "low season",
		}, "sales-2")
		require.NoError(t, err)
		assert.Equal(t, 600.0, updated.CustomOffer.AdjustedPrice)
		assert.Equal(t, 20.0, updated.CustomOffer.DiscountPercent)
		assert.Equal(t, 3, updated.CustomOffer.OfferValidDays)
		assert.Equal(t, "sales-2", updated.CustomOffer.OfferedBy)
	})

	t.Run("offer can be revised", func(t *testing.T) {
		f := newFixture(nil)
		req := createPending(t, f)
		_, err := f.svc.MakeCustomOffer(ctx, req.ID, models.CustomOfferInput{DiscountPercent: &discount}, "sales-1")
		require.NoError(t, err)
		updated, err := f.svc.MakeCustomOffer(ctx, req.ID, models.CustomOfferInput{AdjustedPrice: &price}, "sales-1")
		require.NoError(t, err)
		assert.Equal(t, 600.0, updated.CustomOffer.AdjustedPrice)
	})

	t.Run("accepted request rejects offers", func(t *testing.T) {
		f := newFixture(nil)
		req := createPending(t, f)
		_, err := f.svc.Respond(ctx, req.ID, ActionAccept, "sales-1")
		require.NoError(t, err)
		_, err = f.svc.MakeCustomOffer(ctx, req.ID, models.CustomOfferInput{AdjustedPrice: &price}, "sales-1")
		assertStatus(t, err, http.StatusConflict)
	})

	t.Run("revision loses to a booking confirmed after the read", func(t *testing.T) {
		f := newFixture(nil)
		req := createPending(t, f)
		_, err := f.svc.MakeCustomOffer(ctx, req.ID, models.CustomOfferInput{DiscountPercent: &discount}, "sales-1")
		require.NoError(t, err)

		revised := 500.0
		f.requests.beforeUpdate = func(stored *models.BookingRequest) { stored.BookingID = "booking-1" }
		_, err = f.svc.MakeCustomOffer(ctx, req.ID, models.CustomOfferInput{AdjustedPrice: &revised}, "sales-1")
		assertStatus(t, err, http.StatusConflict)

		f.requests.beforeUpdate = nil
		stored, err := f.requests.GetByID(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, 600.0, stored.CustomOffer.AdjustedPrice)
		assert.Equal(t, 20.0, stored.CustomOffer.DiscountPercent)
	})

	t.Run("price or discount required", func(t *testing.T) {
		f := newFixture(nil)
		req := createPending(t, f)
		_, err := f.svc.MakeCustomOffer(ctx, req.ID, models.CustomOfferInput{}, "sales-1")
		assertStatus(t, err, http.StatusBadRequest)
	})
}

func TestConfirmBooking_WithoutPayments(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	req := createPending(t, f)

	_, _, err := f.svc.ConfirmBooking(ctx, models.ConfirmBookingInput{BookingRequestID: req.ID}, nil)
	assertStatus(t, err, http.StatusConflict)

	_, err = f.svc.Respond(ctx, req.ID, ActionAccept, "sales-1")
	require.NoError(t, err)

	booking, created, err := f.svc.ConfirmBooking(ctx, models.ConfirmBookingInput{BookingRequestID: req.ID}, nil)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "OC2024030501", booking.BookingReference)
	assert.Equal(t, models.PaymentPending, booking.PaymentStatus)
	assert.Equal(t, models.BookingConfirmed, booking.BookingStatus)
	assert.Equal(t, 750.0, booking.TotalAmount)

	linked, err := f.requests.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, linked.BookingID)

	again, created, err := f.svc.ConfirmBooking(ctx, models.ConfirmBookingInput{BookingRequestID: req.ID}, nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, booking.ID, again.ID)
	assert.Len(t, f.bookings.bookings, 1)

	found, err := f.svc.GetByReference(ctx, "oc2024030501")
	require.NoError(t, err)
	assert.Equal(t, booking.ID, found.ID)
}

func TestConfirmBooking_ExpiredOffer(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	req := createPending(t, f)
	price := 500.0
	_, err := f.svc.MakeCustomOffer(ctx, req.ID, models.CustomOfferInput{AdjustedPrice: &price, OfferValidDays: 1}, "sales-1")
	require.NoError(t, err)

	f.now = fixedNow.Add(25 * time.Hour)
	_, _, err = f.svc.ConfirmBooking(ctx, models.ConfirmBookingInput{BookingRequestID: req.ID}, nil)
	assertStatus(t, err, http.StatusConflict)
}

func TestPayments(t *testing.T) {
	ctx := context.Background()

	t.Run("not configured", func(t *testing.T) {
		f := newFixture(nil)
		req := createPending(t, f)
		_, err := f.svc.CreatePaymentIntent(ctx, req.ID)
		assertStatus(t, err, http.StatusServiceUnavailable)
	})

	intents := map[string]*models.PaymentIntent{}
	gateway := &fakeGateway{
		CreateIntentFunc: func(_ context.Context, amount int64, currency, requestID string) (*models.PaymentIntent, error) {
			pi := &models.PaymentIntent{
				ID: "pi_" + requestID, ClientSecret: "secret", Amount: amount,
				Currency: currency, Status: "requires_payment_method", BookingRequestID: requestID,
			}
			intents[pi.ID] = pi
			return pi, nil
		},
		GetIntentFunc: func(_ context.Context, id string) (*models.PaymentIntent, error) {
			pi, ok := intents[id]
			if !ok {
				return nil, errors.New("no such payment_intent")
			}
			return pi, nil
		},
	}

	f := newFixture(gateway)
	req := createPending(t, f)
	price := 612.5
	_, err := f.svc.MakeCustomOffer(ctx, req.ID, models.CustomOfferInput{AdjustedPrice: &price}, "sales-1")
	require.NoError(t, err)

	intent, err := f.svc.CreatePaymentIntent(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(61250), intent.Amount)
	assert.Equal(t, "usd", intent.Currency)

	input := models.ConfirmBookingInput{BookingRequestID: req.ID, PaymentIntentID: intent.ID}
	_, _, err = f.svc.ConfirmBooking(ctx, input, nil)
	assertStatus(t, err, http.StatusPaymentRequired)

	_, _, err = f.svc.ConfirmBooking(ctx, models.ConfirmBookingInput{BookingRequestID: req.ID}, nil)
	assertStatus(t, err, http.StatusBadRequest)

	intents[intent.ID].Amount = 100
	intents[intent.ID].Status = intentSucceeded
	_, _, err = f.svc.ConfirmBooking(ctx, input, nil)
	assertStatus(t, err, http.StatusBadRequest)

	intents[intent.ID].Amount = 61250
	booking, created, err := f.svc.ConfirmBooking(ctx, input, nil)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.PaymentPaid, booking.PaymentStatus)
	assert.Equal(t, 612.5, booking.TotalAmount)
	assert.Equal(t, intent.ID, booking.PaymentIntentID)

	_, err = f.svc.CreatePaymentIntent(ctx, req.ID)
	assertStatus(t, err, http.StatusConflict)
}

func TestGetRequest_UsesCache(t *testing.T) {
	f := newFixture(nil)
	req := createPending(t, f)

	got, err := f.svc.GetRequest(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, req.ID, got.ID)

	_, err = f.svc.GetRequest(context.Background(), "missing")
	assertStatus(t, err, http.StatusNotFound)

	_, cached := f.cache.Get(context.Background(), req.ID)
	assert.True(t, cached)
}

func TestGetRequest_StaleReadDoesNotHideDecision(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)
	req := createPending(t, f)
	f.now = fixedNow.Add(time.Minute)

	// The accept lands between the poll's database read and its cache write.
	f.requests.afterGet = func() {
		_, err := f.svc.Respond(ctx, req.ID, ActionAccept, "sales-1")
		require.NoError(t, err)
	}
	polled, err := f.svc.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, polled.Status)

	polled, err = f.svc.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestAccepted, polled.Status)
}

func TestAdminBookings(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	req := createPending(t, f)
	_, err := f.svc.Respond(ctx, req.ID, ActionAccept, "sales-1")
	require.NoError(t, err)
	booking, _, err := f.svc.ConfirmBooking(ctx, models.ConfirmBookingInput{BookingRequestID: req.ID}, nil)
	require.NoError(t, err)

	list, page, err := f.svc.ListBookings(ctx, models.BookingFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, models.Pagination{Page: 1, Limit: 10, Total: 1, TotalPages: 1}, page)

	updated, err := f.svc.UpdateBooking(ctx, booking.ID, models.BookingStatusUpdate{PaymentStatus: models.PaymentPaid})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, updated.PaymentStatus)
	assert.Equal(t, models.BookingConfirmed, updated.BookingStatus)

	_, err = f.svc.UpdateBooking(ctx, booking.ID, models.BookingStatusUpdate{})
	assertStatus(t, err, http.StatusBadRequest)
	_, err = f.svc.UpdateBooking(ctx, "missing", models.BookingStatusUpdate{BookingStatus: models.BookingCancelled})
	assertStatus(t, err, http.StatusNotFound)

	_, err = f.svc.GetByReference(ctx, "not-a-reference")
	assertStatus(t, err, http.StatusNotFound)
}
