package middleware

import (
	"strings"

	"villastay/utils"

	"github.com/gin-gonic/gin"
)

// ContextUserKey holds the verified *utils.StaffClaims.
const ContextUserKey = "user"

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}

// OptionalAuth attaches the caller's claims when a valid Bearer token is
// present and otherwise lets the request through anonymously.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := utils.ValidateToken(token); err == nil {
				c.Set(ContextUserKey, claims)
			}
		}
		c.Next()
	}
}

// RequireAuth rejects requests without a valid Bearer token.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			utils.RespondError(c, utils.Unauthorized("Missing or invalid Authorization header"))
			return
		}
		claims, err := utils.ValidateToken(token)
		if err != nil {
			utils.RespondError(c, utils.Unauthorized("Invalid or expired token"))
			return
		}
		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

// CurrentUser returns the claims set by OptionalAuth or RequireAuth.
func CurrentUser(c *gin.Context) *utils.StaffClaims {
	if v, exists := c.Get(ContextUserKey); exists {
		if claims, ok := v.(*utils.StaffClaims); ok {
			return claims
		}
	}
	return nil
}
