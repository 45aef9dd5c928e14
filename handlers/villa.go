package handlers

import (
	"net/http"

	"villastay/models"
	"villastay/services/villa"
	"villastay/utils"

	"github.com/gin-gonic/gin"
)

// VillaHandler serves the villa catalogue.
type VillaHandler struct {
	Service villa.VillaService
}

func NewVillaHandler(svc villa.VillaService) *VillaHandler {
	return &VillaHandler{Service: svc}
}

// List handles GET /api/villa.
func (h *VillaHandler) List(c *gin.Context) {
	page, limit, ok := queryPage(c)
	if !ok {
		return
	}
	filter := models.VillaFilter{Page: page, Limit: limit, Search: c.Query("search")}
	if filter.IsActive, ok = queryBool(c, "isActive"); !ok {
		return
	}
	if filter.IsPublished, ok = queryBool(c, "isPublished"); !ok {
		return
	}
	includeInactive, ok := queryBool(c, "includeInactive")
	if !ok {
		return
	}
	filter.IncludeInactive = includeInactive != nil && *includeInactive

	villas, pagination, err := h.Service.List(c.Request.Context(), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	respondPage(c, villas, pagination)
}

// Get handles GET /api/villa/:id.
func (h *VillaHandler) Get(c *gin.Context) {
	v, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, v)
}

// Create handles POST /api/villa.
func (h *VillaHandler) Create(c *gin.Context) {
	var input models.VillaInput
	if !bindJSON(c, &input) {
		return
	}
	v, err := h.Service.Create(c.Request.Context(), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusCreated, v)
}

// Update handles PUT /api/villa/:id.
func (h *VillaHandler) Update(c *gin.Context) {
	var input models.VillaInput
	if !bindJSON(c, &input) {
		return
	}
	v, err := h.Service.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, v)
}

// Delete handles DELETE /api/villa/:id.
func (h *VillaHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, gin.H{"id": c.Param("id"), "deleted": true})
}
