package handlers

import (
	"net/http"

	"villastay/middleware"
	"villastay/models"
	"villastay/services/booking"
	"villastay/utils"

	"github.com/gin-gonic/gin"
)

// SalesHandler serves the sales dashboard endpoints.
type SalesHandler struct {
	Service booking.Service
}

func NewSalesHandler(svc booking.Service) *SalesHandler {
	return &SalesHandler{Service: svc}
}

// ListRequests handles GET /api/sales/requests.
func (h *SalesHandler) ListRequests(c *gin.Context) {
	page, limit, ok := queryPage(c)
	if !ok {
		return
	}
	filter := models.RequestFilter{Page: page, Limit: limit}
	if raw := c.Query("status"); raw != "" {
		status, valid := models.ParseRequestStatus(raw)
		if !valid {
			utils.RespondError(c, utils.BadRequest("status must be one of pending, accepted, declined, custom-offer"))
			return
		}
		filter.Status = status
	}

	requests, pagination, err := h.Service.ListRequests(c.Request.Context(), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	respondPage(c, requests, pagination)
}

// RespondToRequest handles PATCH /api/sales/requests/:id.
func (h *SalesHandler) RespondToRequest(c *gin.Context) {
	var input models.SalesAction
	if !bindJSON(c, &input) {
		return
	}
	req, err := h.Service.Respond(c.Request.Context(), c.Param("id"), input.Action, middleware.CurrentUser(c).Subject)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, req)
}

// CustomOffer handles POST /api/sales/requests/:id/custom-offer.
func (h *SalesHandler) CustomOffer(c *gin.Context) {
	var input models.CustomOfferInput
	if !bindJSON(c, &input) {
		return
	}
	req, err := h.Service.MakeCustomOffer(c.Request.Context(), c.Param("id"), input, middleware.CurrentUser(c).Subject)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, req)
}
