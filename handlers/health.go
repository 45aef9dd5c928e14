package handlers

import (
	"net/http"

	"villastay/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the last dependency health snapshot.
type HealthHandler struct{}

// Health handles GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	state := "ok"
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(code, gin.H{"status": state, "checks": status})
}
