package handlers

import (
	"net/http"
	"strconv"

	"villastay/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger returns the request-scoped logger set by the request logger
// middleware, or the global logger.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return zap.L()
}

// bindJSON decodes the body into obj and writes a 400 on failure.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		utils.RespondError(c, utils.BindingError(err))
		return false
	}
	return true
}

// queryInt reads an optional integer query parameter.
func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		utils.RespondError(c, utils.BadRequest(name+" must be a positive integer"))
		return 0, false
	}
	return n, true
}

// queryBool reads an optional boolean query parameter. A nil result means
// the parameter was absent.
func queryBool(c *gin.Context, name string) (*bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		utils.RespondError(c, utils.BadRequest(name+" must be true or false"))
		return nil, false
	}
	return &b, true
}

// queryPage reads page and limit.
func queryPage(c *gin.Context) (page, limit int, ok bool) {
	if page, ok = queryInt(c, "page"); !ok {
		return 0, 0, false
	}
	if limit, ok = queryInt(c, "limit"); !ok {
		return 0, 0, false
	}
	return page, limit, true
}

// respondPage writes a listing with its pagination block.
func respondPage(c *gin.Context, data interface{}, pagination interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "pagination": pagination})
}
