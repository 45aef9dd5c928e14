package middleware

import (
	"villastay/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireRoles allows the request only when the authenticated caller holds
// one of roles. It must run after RequireAuth.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			utils.RespondError(c, utils.Unauthorized("Authentication required"))
			return
		}
		if !allowed[user.Role] {
			zap.L().Warn("role not permitted",
				zap.String("role", user.Role),
				zap.String("subject", user.Subject),
				zap.String("path", c.FullPath()),
			)
			utils.RespondError(c, utils.Forbidden("Insufficient permissions"))
			return
		}
		c.Next()
	}
}
