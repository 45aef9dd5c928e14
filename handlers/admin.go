package handlers

import (
	"net/http"

	"villastay/models"
	"villastay/services/booking"
	"villastay/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler encapsulates admin-level booking operations.
type AdminHandler struct {
	Bookings booking.Service
}

func NewAdminHandler(svc booking.Service) *AdminHandler {
	return &AdminHandler{Bookings: svc}
}

var (
	bookingStatuses = map[string]bool{models.BookingConfirmed: true, models.BookingCancelled: true, models.BookingCompleted: true}
	paymentStatuses = map[string]bool{models.PaymentPending: true, models.PaymentPaid: true, models.PaymentFailed: true, models.PaymentRefunded: true}
)

// ListBookings handles GET /api/admin/bookings.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, limit, ok := queryPage(c)
	if !ok {
		return
	}
	filter := models.BookingFilter{
		BookingStatus: c.Query("bookingStatus"),
		PaymentStatus: c.Query("paymentStatus"),
		Page:          page,
		Limit:         limit,
	}
	if filter.BookingStatus != "" && !bookingStatuses[filter.BookingStatus] {
		utils.RespondError(c, utils.BadRequest("bookingStatus must be one of confirmed, cancelled, completed"))
		return
	}
	if filter.PaymentStatus != "" && !paymentStatuses[filter.PaymentStatus] {
		utils.RespondError(c, utils.BadRequest("paymentStatus must be one of pending, paid, failed, refunded"))
		return
	}

	bookings, pagination, err := h.Bookings.ListBookings(c.Request.Context(), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	respondPage(c, bookings, pagination)
}

// UpdateBooking handles PATCH /api/admin/bookings/:id.
func (h *AdminHandler) UpdateBooking(c *gin.Context) {
	var input models.BookingStatusUpdate
	if !bindJSON(c, &input) {
		return
	}
	b, err := h.Bookings.UpdateBooking(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, b)
}
