package handlers

import (
	"net/http"

	"villastay/middleware"
	"villastay/models"
	"villastay/services/booking"
	"villastay/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves the guest-facing booking endpoints.
type BookingHandler struct {
	Service booking.Service
}

func NewBookingHandler(svc booking.Service) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// CreateRequest handles POST /api/booking/request.
func (h *BookingHandler) CreateRequest(c *gin.Context) {
	var input models.BookingRequestInput
	if !bindJSON(c, &input) {
		return
	}
	req, err := h.Service.CreateRequest(c.Request.Context(), input, middleware.CurrentUser(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusCreated, req)
}

// GetRequest handles GET /api/booking/request/:id, the endpoint guests poll.
func (h *BookingHandler) GetRequest(c *gin.Context) {
	req, err := h.Service.GetRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, req)
}

// CreatePaymentIntent handles POST /api/booking/request/:id/payment-intent.
func (h *BookingHandler) CreatePaymentIntent(c *gin.Context) {
	intent, err := h.Service.CreatePaymentIntent(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusCreated, intent)
}

// ConfirmBooking handles POST /api/booking/confirm.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	var input models.ConfirmBookingInput
	if !bindJSON(c, &input) {
		return
	}
	b, created, err := h.Service.ConfirmBooking(c.Request.Context(), input, middleware.CurrentUser(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
		getLogger(c).Info("booking confirmed", zap.String("reference", b.BookingReference))
	}
	utils.Respond(c, status, b)
}

// GetByReference handles GET /api/booking/reference/:reference.
func (h *BookingHandler) GetByReference(c *gin.Context) {
	b, err := h.Service.GetByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, b)
}
