package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// AppError carries the HTTP status a service failure maps to.
type AppError struct {
	Status  int
	Message string
	Details interface{}
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

func BadRequest(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: message}
}

func Unauthorized(message string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Status: http.StatusForbidden, Message: message}
}

func NotFound(resource string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: resource + " not found"}
}

func Conflict(message string) *AppError {
	return &AppError{Status: http.StatusConflict, Message: message}
}

func Unavailable(message string) *AppError {
	return &AppError{Status: http.StatusServiceUnavailable, Message: message}
}

func Internal(message string, err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Message: message, Err: err}
}

// AsAppError unwraps err to an AppError, mapping anything else to a 500.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Internal Server Error", err)
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Success: false,
					Message: "Internal Server Error",
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details interface{}) {
	GetLogger().Warn(message, zap.Int("status", status), zap.Any("details", details))
	c.AbortWithStatusJSON(status, ErrorResponse{Success: false, Message: message, Details: details})
}

// RespondError writes err using the status carried by an AppError.
func RespondError(c *gin.Context, err error) {
	appErr := AsAppError(err)
	if appErr.Status >= http.StatusInternalServerError {
		GetLogger().Error(appErr.Message,
			zap.Error(appErr.Err),
			zap.String("path", c.Request.URL.Path),
		)
		c.AbortWithStatusJSON(appErr.Status, ErrorResponse{Success: false, Message: appErr.Message})
		return
	}
	JSONError(c, appErr.Status, appErr.Message, appErr.Details)
}

// Respond writes the success envelope.
func Respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}
