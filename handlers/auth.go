package handlers

import (
	"net/http"

	"villastay/models"
	"villastay/services/auth"
	"villastay/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler issues staff tokens.
type AuthHandler struct {
	Auth auth.AuthService
}

func NewAuthHandler(svc auth.AuthService) *AuthHandler {
	return &AuthHandler{Auth: svc}
}

// SalesLogin handles POST /api/sales/login.
func (h *AuthHandler) SalesLogin(c *gin.Context) {
	h.login(c, models.RoleSales)
}

// AdminLogin handles POST /api/admin/login.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	h.login(c, models.RoleAdmin)
}

func (h *AuthHandler) login(c *gin.Context, role string) {
	var input models.LoginInput
	if !bindJSON(c, &input) {
		return
	}
	token, err := h.Auth.Login(c.Request.Context(), input, role)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, token)
}
